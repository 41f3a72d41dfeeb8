package respond

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// Envelope is the standard API response wrapper used across handlers.
// Fields carries per-field validation messages keyed by JSON name.
type Envelope struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Data    any               `json:"data,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// JSON writes a success or informational response using the common envelope.
func JSON(w http.ResponseWriter, status int, message string, data any) {
	write(w, Envelope{Code: status, Message: message, Data: data})
}

// Error writes an error response with the shared envelope structure.
func Error(w http.ResponseWriter, status int, message string) {
	write(w, Envelope{Code: status, Message: message})
}

// Invalid writes a 400 listing which fields failed validation.
func Invalid(w http.ResponseWriter, message string, fields map[string]string) {
	write(w, Envelope{Code: http.StatusBadRequest, Message: message, Fields: fields})
}

// Every response carries Cache-Control: no-store.
func write(w http.ResponseWriter, payload Envelope) {
	h := w.Header()
	h.Set("Content-Type", "application/json")
	h.Set("Cache-Control", "no-store")
	w.WriteHeader(payload.Code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Warn("respond: encode payload failed", zap.Int("status", payload.Code), zap.Error(err))
	}
}
