package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/garnizeh/weldtrack/internal/registry"
	"github.com/garnizeh/weldtrack/pkg/models"
)

type AuthorizationsHandler struct {
	svc *registry.Service
}

func NewAuthorizationsHandler(svc *registry.Service) *AuthorizationsHandler {
	return &AuthorizationsHandler{svc: svc}
}

type createAuthorizationRequest struct {
	Standard        models.Standard `json:"standard" validate:"required,oneof='ASME IX' 'CR9' 'CR7'"`
	Process         string          `json:"process" validate:"required"`
	BaseMaterials   *string         `json:"base_materials"`
	FillerMaterials *string         `json:"filler_materials"`
	ThicknessRange  *string         `json:"thickness_range"`
	Position        *string         `json:"position"`
	JointType       *string         `json:"joint_type"`
	Notes           *string         `json:"notes"`
	IssueDate       *models.Date    `json:"issue_date" validate:"required"`
	ExpirationDate  *models.Date    `json:"expiration_date" validate:"required"`
}

func (req createAuthorizationRequest) toModel() models.Authorization {
	a := models.Authorization{
		Standard:        req.Standard,
		Process:         req.Process,
		BaseMaterials:   req.BaseMaterials,
		FillerMaterials: req.FillerMaterials,
		ThicknessRange:  req.ThicknessRange,
		Position:        req.Position,
		JointType:       req.JointType,
		Notes:           req.Notes,
	}
	if req.IssueDate != nil {
		a.IssueDate = *req.IssueDate
	}
	if req.ExpirationDate != nil {
		a.ExpirationDate = *req.ExpirationDate
	}
	return a
}

func (h *AuthorizationsHandler) ListAuthorizations(w http.ResponseWriter, r *http.Request) {
	welderID, ok := pathID(w, r)
	if !ok {
		return
	}

	auths, err := h.svc.ListAuthorizations(r.Context(), welderID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, auths, http.StatusOK)
}

func (h *AuthorizationsHandler) CreateAuthorization(w http.ResponseWriter, r *http.Request) {
	welderID, ok := pathID(w, r)
	if !ok {
		return
	}

	var req createAuthorizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	a := req.toModel()
	created, err := h.svc.CreateAuthorization(r.Context(), welderID, &a)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, created, http.StatusCreated)
}

func (h *AuthorizationsHandler) UpdateAuthorization(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var p registry.AuthorizationPatch
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := h.svc.UpdateAuthorization(r.Context(), id, p)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, updated, http.StatusOK)
}

func (h *AuthorizationsHandler) DeleteAuthorization(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteAuthorization(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthorizationsHandler) ListExpiring(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	days := registry.DefaultExpiringDays
	if d := q.Get("days"); d != "" {
		v, err := strconv.Atoi(d)
		if err != nil || v <= 0 || v > registry.MaxExpiringDays {
			writeError(w, "days must be between 1 and 365", http.StatusBadRequest)
			return
		}
		days = v
	}

	ref := models.Today()
	if rd := q.Get("reference_date"); rd != "" {
		parsed, err := models.ParseDate(rd)
		if err != nil {
			writeError(w, "reference_date must be an ISO date (YYYY-MM-DD)", http.StatusBadRequest)
			return
		}
		ref = parsed
	}

	expiring, err := h.svc.ListExpiring(r.Context(), ref, days)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, expiring, http.StatusOK)
}
