package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hongminglow/ets-hub/internal/dashboard"
	"github.com/hongminglow/ets-hub/internal/http/respond"
	"github.com/hongminglow/ets-hub/internal/session"
	"github.com/hongminglow/ets-hub/internal/view"
)

// ViewRecorder counts rendered views.
type ViewRecorder interface {
	ViewRendered(view string)
}

// DashboardHandler serves the role-dependent landing page as JSON and HTML.
type DashboardHandler struct {
	engine   *view.Engine
	recorder ViewRecorder
	logger   *zap.Logger
}

func NewDashboardHandler(engine *view.Engine, recorder ViewRecorder, logger *zap.Logger) *DashboardHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardHandler{engine: engine, recorder: recorder, logger: logger}
}

// Register attaches GET /api/dashboard and GET /.
func (h *DashboardHandler) Register(r chi.Router) {
	r.Get("/api/dashboard", h.handleJSON)
	r.Get("/", h.handleHTML)
}

func (h *DashboardHandler) page(r *http.Request) dashboard.Page {
	page := dashboard.Build(nil)
	if store := session.FromContext(r.Context()); store != nil {
		if identity, ok := store.Current(); ok {
			page = dashboard.Build(&identity)
		}
	}
	if h.recorder != nil {
		h.recorder.ViewRendered(string(page.View))
	}
	return page
}

func (h *DashboardHandler) handleJSON(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, "dashboard", h.page(r))
}

func (h *DashboardHandler) handleHTML(w http.ResponseWriter, r *http.Request) {
	if h.engine == nil {
		http.Error(w, "views unavailable", http.StatusInternalServerError)
		return
	}
	if err := h.engine.RenderPage(w, h.page(r)); err != nil {
		h.logger.Error("render dashboard", zap.Error(err))
	}
}
