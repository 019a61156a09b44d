package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/joeyedi1/eclandingpage/internal/domain"
)

// SubmitResponse is the body returned to the landing page form.
type SubmitResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Form response messages. The landing page shows these verbatim.
const (
	msgSubmitted     = "Submitted successfully"
	msgMissingFields = "Missing fields"
	msgServerError   = "Server error"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// mapError translates domain sentinel errors to HTTP status codes for the
// JSON API. The submission form has its own fixed messages in LeadHandler.
func mapError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrMissingField),
		errors.Is(err, domain.ErrInvalidLoan):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrQueueFull):
		respondError(w, http.StatusServiceUnavailable, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}
