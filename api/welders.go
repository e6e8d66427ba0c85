package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/garnizeh/weldtrack/internal/registry"
	"github.com/garnizeh/weldtrack/pkg/models"
	"github.com/gorilla/mux"
)

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

type WeldersHandler struct {
	svc *registry.Service
}

func NewWeldersHandler(svc *registry.Service) *WeldersHandler {
	return &WeldersHandler{svc: svc}
}

type createWelderRequest struct {
	FirstName         string                       `json:"first_name" validate:"required"`
	LastName          string                       `json:"last_name" validate:"required"`
	Identifier        string                       `json:"identifier" validate:"required"`
	Phone             *string                      `json:"phone"`
	Email             *string                      `json:"email" validate:"omitempty,email"`
	CertificationDate *models.Date                 `json:"certification_date"`
	Status            string                       `json:"status"`
	Authorizations    []createAuthorizationRequest `json:"authorizations" validate:"omitempty,dive"`
}

func (h *WeldersHandler) CreateWelder(w http.ResponseWriter, r *http.Request) {
	var req createWelderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	welder := &models.Welder{
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Identifier:        req.Identifier,
		Phone:             req.Phone,
		Email:             req.Email,
		CertificationDate: req.CertificationDate,
		Status:            req.Status,
	}
	for _, ar := range req.Authorizations {
		welder.Authorizations = append(welder.Authorizations, ar.toModel())
	}

	created, err := h.svc.CreateWelder(r.Context(), welder)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, created, http.StatusCreated)
}

func (h *WeldersHandler) ListWelders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	skip := 0
	if s := q.Get("skip"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			writeError(w, "skip must be a non-negative integer", http.StatusBadRequest)
			return
		}
		skip = v
	}

	limit := defaultListLimit
	if l := q.Get("limit"); l != "" {
		v, err := strconv.Atoi(l)
		if err != nil || v <= 0 || v > maxListLimit {
			writeError(w, "limit must be between 1 and 500", http.StatusBadRequest)
			return
		}
		limit = v
	}

	welders, err := h.svc.ListWelders(r.Context(), limit, skip)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, welders, http.StatusOK)
}

func (h *WeldersHandler) GetWelder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	welder, err := h.svc.GetWelder(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, welder, http.StatusOK)
}

func (h *WeldersHandler) UpdateWelder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var p registry.WelderPatch
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if email, ok := p.Email.Value(); ok {
		if err := validate.Var(email, "email"); err != nil {
			writeJSON(w, errorResponse{
				Error:  "validation failed",
				Fields: map[string]string{"email": "failed on email"},
			}, http.StatusUnprocessableEntity)
			return
		}
	}

	welder, err := h.svc.UpdateWelder(r.Context(), id, p)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, welder, http.StatusOK)
}

func (h *WeldersHandler) DeleteWelder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteWelder(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// pathID parses the {id} route variable; routes constrain it to digits so a
// parse failure means a malformed route registration rather than bad input.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, "invalid id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
