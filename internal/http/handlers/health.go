package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hongminglow/ets-hub/internal/http/respond"
)

// HealthHandler returns uptime and the active storage backend.
type HealthHandler struct {
	startedAt time.Time
	storage   string
}

// NewHealthHandler creates a health endpoint handler.
func NewHealthHandler(startedAt time.Time, storage string) *HealthHandler {
	return &HealthHandler{startedAt: startedAt, storage: storage}
}

// Register wires the handler into the router.
func (h *HealthHandler) Register(r chi.Router) {
	r.Get("/health", h.handle)
}

func (h *HealthHandler) handle(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, "ok", map[string]string{
		"status":  "ok",
		"uptime":  time.Since(h.startedAt).Truncate(time.Second).String(),
		"storage": h.storage,
	})
}
