package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/garnizeh/weldtrack/internal/registry"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report field errors under their json names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response", "err", err)
	}
}

func writeError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, errorResponse{Error: msg}, status)
}

// writeValidationError reports struct validation failures with per-field
// detail as 422.
func writeValidationError(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		writeError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Namespace()] = "failed on " + fe.Tag()
	}
	writeJSON(w, errorResponse{Error: "validation failed", Fields: fields}, http.StatusUnprocessableEntity)
}

// writeDomainError maps registry sentinels onto status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, registry.ErrNotFound):
		writeError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, registry.ErrConflict):
		writeError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, registry.ErrInvalidRequest):
		writeError(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		logger.Error("request failed", "err", err)
		writeError(w, "internal error", http.StatusInternalServerError)
	}
}
