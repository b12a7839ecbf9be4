// Package respond provides utilities for sending HTTP responses in JSON format.
// Server-side failures are logged with sensitive details masked and reach the
// client only as a generic message.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Nike1016/selfoss/internal/domain/entity"
)

// JSON writes a JSON response with the given status code and data.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			// Headers are already sent.
			slog.Default().Error("failed to encode JSON response",
				slog.Int("status_code", code),
				slog.Any("error", err))
		}
	}
}

// Error writes {"error": message} with the given status code.
func Error(w http.ResponseWriter, code int, err error) {
	JSON(w, code, map[string]string{"error": err.Error()})
}

// SafeError writes err for client errors (4xx) as-is. For 5xx the error is
// logged with secrets masked and the client receives "internal server error".
func SafeError(w http.ResponseWriter, code int, err error) {
	if err == nil {
		return
	}
	if code < http.StatusInternalServerError {
		Error(w, code, err)
		return
	}

	slog.Default().Error("internal server error",
		slog.String("status", http.StatusText(code)),
		slog.Int("code", code),
		slog.String("error", SanitizeError(err)))
	JSON(w, code, map[string]string{"error": "internal server error"})
}

// ValidationErrors is the 400 body for rejected submissions: one message per
// offending field.
type ValidationErrors struct {
	Errors entity.FieldErrors `json:"errors"`
}

// FieldErrors writes a 400 response listing the validation message per field.
func FieldErrors(w http.ResponseWriter, errs entity.FieldErrors) {
	JSON(w, http.StatusBadRequest, ValidationErrors{Errors: errs})
}
