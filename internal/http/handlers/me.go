package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hongminglow/ets-hub/internal/auth"
	"github.com/hongminglow/ets-hub/internal/http/respond"
	"github.com/hongminglow/ets-hub/internal/models"
	"github.com/hongminglow/ets-hub/internal/models/dto"
	"github.com/hongminglow/ets-hub/internal/session"
)

// MeHandler exposes the signed-in identity and the permission checks over it.
type MeHandler struct {
	gate     *auth.AccessGate
	validate *validator.Validate
	logger   *zap.Logger
}

// NewMeHandler constructs the handler. gate guards role changes to admin the same way it guards sign-in.
func NewMeHandler(gate *auth.AccessGate, logger *zap.Logger) *MeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MeHandler{gate: gate, validate: newValidator(), logger: logger}
}

// Register attaches the /api/me routes.
func (h *MeHandler) Register(r chi.Router) {
	r.Route("/api/me", func(r chi.Router) {
		r.Get("/", h.handleGet)
		r.Patch("/", h.handlePatch)
		r.Get("/permissions/{name}", h.handlePermission)
		r.Get("/roles", h.handleRoles)
	})
}

func (h *MeHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	store, identity, ok := currentIdentity(w, r)
	if !ok {
		return
	}
	respond.JSON(w, http.StatusOK, "current user", dto.MeResponse{
		User:         identity,
		Capabilities: store.Checker().Capabilities(),
	})
}

func (h *MeHandler) handlePatch(w http.ResponseWriter, r *http.Request) {
	store, _, ok := currentIdentity(w, r)
	if !ok {
		return
	}
	var req dto.UpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		invalid(w, err)
		return
	}
	patch, err := toPatch(req)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if patch.Empty() {
		respond.Error(w, http.StatusBadRequest, "nothing to update")
		return
	}
	if patch.Role != nil {
		if err := h.gate.Check(*patch.Role, req.AccessCode); err != nil {
			h.logger.Warn("admin role change rejected", zap.String("device", session.DeviceFromContext(r.Context())))
			respond.Error(w, http.StatusForbidden, "access code required for administrator sign-in")
			return
		}
	}

	updated, ok, err := store.UpdateUser(r.Context(), patch)
	switch {
	case !ok:
		// signed out concurrently
		respond.Error(w, http.StatusUnauthorized, "not authenticated")
		return
	case err != nil && isClientError(err):
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		h.logger.Error("update session", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to update user")
		return
	}
	respond.JSON(w, http.StatusOK, "user updated", dto.MeResponse{
		User:         updated,
		Capabilities: store.Checker().Capabilities(),
	})
}

func (h *MeHandler) handlePermission(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	store := session.FromContext(r.Context())
	granted := store != nil && store.HasPermission(name)
	respond.JSON(w, http.StatusOK, "permission check", dto.PermissionCheck{Permission: name, Granted: granted})
}

func (h *MeHandler) handleRoles(w http.ResponseWriter, r *http.Request) {
	var names []string
	var roles []models.Role
	for _, raw := range r.URL.Query()["role"] {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			role, err := models.ParseRole(part)
			if err != nil {
				respond.Error(w, http.StatusBadRequest, err.Error())
				return
			}
			names = append(names, string(role))
			roles = append(roles, role)
		}
	}
	if len(roles) == 0 {
		respond.Error(w, http.StatusBadRequest, "role query parameter is required")
		return
	}
	store := session.FromContext(r.Context())
	granted := store != nil && store.HasRole(roles...)
	respond.JSON(w, http.StatusOK, "role check", dto.RoleCheck{Roles: names, Granted: granted})
}

func toPatch(req dto.UpdateRequest) (models.IdentityPatch, error) {
	patch := models.IdentityPatch{
		Name:     req.Name,
		Phone:    req.Phone,
		Avatar:   req.Avatar,
		Verified: req.Verified,
		Metadata: req.Metadata,
	}
	if req.Role != nil {
		role, err := models.ParseRole(*req.Role)
		if err != nil {
			return models.IdentityPatch{}, err
		}
		patch.Role = &role
	}
	return patch, nil
}
