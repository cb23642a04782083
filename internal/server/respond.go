package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/recon/internal/shared"
)

const internalServerError = "Internal Server Error"

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps a service error onto its HTTP response. Unexpected errors are logged and hidden
// behind a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, logger *log.Logger, err error) {
	switch {
	case errors.Is(err, shared.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Email or Phone required"})
	case errors.Is(err, shared.ErrContactNotFound):
		writeJSON(w, http.StatusNotFound, messageResponse{Message: "Contact not found"})
	default:
		logger.Error("request failed", "err", err, "path", r.URL.Path, "request_id", RequestIDFrom(r.Context()))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: internalServerError})
	}
}
