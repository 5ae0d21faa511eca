package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"tabot/internal/apperr"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// StatusFor maps a denial kind to its HTTP status.
func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.ConfigurationMissing:
		return http.StatusPreconditionFailed
	case apperr.AuthorizationDenied:
		return http.StatusForbidden
	case apperr.InvalidStateTransition:
		return http.StatusConflict
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.TransientIO:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err as a user-facing denial. Anything that is not an
// *apperr.Error is logged and hidden behind a generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		slog.ErrorContext(r.Context(), "unhandled request error", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "server_error", Message: "server error"})
		return
	}
	writeJSON(w, StatusFor(ae.Kind), errorBody{Error: ae.Kind.String(), Message: ae.Message})
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: "bad_request", Message: msg})
}
