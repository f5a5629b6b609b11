package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/cobbinma/portfolio/internal/apperror"
)

// ErrorResponse is the body of every non-2xx JSON response:
//
//	{"error": "not_found", "message": "home page not found with id 12oQYUyzJOGG8He6aPUMJN"}
type ErrorResponse struct {
	Error   string `json:"error"`   // machine-readable kind, e.g. "upstream_error"
	Message string `json:"message"` // safe to show to a visitor
}

// writeJSON writes data with the given status. Headers must be set before
// WriteHeader, so the content type goes first.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// The status line is already sent; all that is left is to log it.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps an apperror kind to its status:
//
//	ErrValidation   → 400 validation_error
//	ErrNotFound     → 404 not_found
//	ErrUnauthorized → 401 unauthorized
//	ErrUpstream     → 502 upstream_error
//
// A failing content source is reported as 502 rather than 500 because the
// portfolio itself is healthy. Only AppError.Message reaches the client, never
// the wrapped cause, which can hold URLs or file paths.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		errorType := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
			errorType = "validation_error"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			errorType = "not_found"
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
			errorType = "unauthorized"
		case errors.Is(err, apperror.ErrUpstream):
			status = http.StatusBadGateway
			errorType = "upstream_error"
		}

		writeJSON(w, status, ErrorResponse{
			Error:   errorType,
			Message: appErr.Message,
		})
		return
	}

	// Untyped errors are internal; their text is not for the client.
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}
