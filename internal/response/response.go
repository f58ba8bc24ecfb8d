// Package response provides shared JSON response helpers for HTTP handlers.
package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ErrorBody is the JSON shape of every failed request.
type ErrorBody struct {
	Error   string `json:"error"   example:"Error deleting file"`
	Details string `json:"details" example:"Access Denied"`
}

// Message is the JSON shape of responses that only carry a status message.
type Message struct {
	Message string `json:"message" example:"File deleted successfully"`
}

// JSON writes a JSON-encoded payload with the given HTTP status code.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// OK writes a 200 response with payload as the body.
func OK(w http.ResponseWriter, payload any) {
	JSON(w, http.StatusOK, payload)
}

// Error writes {error, details} with the given status.
func Error(w http.ResponseWriter, status int, summary, details string) {
	JSON(w, status, ErrorBody{Error: summary, Details: details})
}

// BadRequest writes a 400 response.
func BadRequest(w http.ResponseWriter, summary, details string) {
	Error(w, http.StatusBadRequest, summary, details)
}

// InternalError writes a 500 response.
func InternalError(w http.ResponseWriter, summary, details string) {
	Error(w, http.StatusInternalServerError, summary, details)
}
