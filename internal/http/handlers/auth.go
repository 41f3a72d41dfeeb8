package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hongminglow/ets-hub/internal/auth"
	"github.com/hongminglow/ets-hub/internal/dashboard"
	"github.com/hongminglow/ets-hub/internal/http/respond"
	"github.com/hongminglow/ets-hub/internal/models"
	"github.com/hongminglow/ets-hub/internal/models/dto"
	"github.com/hongminglow/ets-hub/internal/session"
)

// AuthHandler owns the sign-in, sign-out and role catalogue endpoints.
type AuthHandler struct {
	tokens   *auth.TokenManager
	gate     *auth.AccessGate
	validate *validator.Validate
	logger   *zap.Logger
	limit    func(http.Handler) http.Handler
}

// NewAuthHandler constructs the handler. limit, when set, wraps the login route.
func NewAuthHandler(tokens *auth.TokenManager, gate *auth.AccessGate, logger *zap.Logger, limit func(http.Handler) http.Handler) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{tokens: tokens, gate: gate, validate: newValidator(), logger: logger, limit: limit}
}

// Register attaches auth routes. The router must carry the session middleware.
func (h *AuthHandler) Register(r chi.Router) {
	r.Get("/api/roles", h.handleRoles)
	if h.limit != nil {
		r.With(h.limit).Post("/api/auth/login", h.handleLogin)
	} else {
		r.Post("/api/auth/login", h.handleLogin)
	}
	r.Post("/api/auth/logout", h.handleLogout)
}

func (h *AuthHandler) handleRoles(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, "roles", auth.Catalogue())
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	store := session.FromContext(r.Context())
	if store == nil {
		respond.Error(w, http.StatusInternalServerError, "session unavailable")
		return
	}
	var req dto.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		invalid(w, err)
		return
	}
	role, err := models.ParseRole(req.Role)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.gate.Check(role, req.AccessCode); err != nil {
		h.logger.Warn("admin sign-in rejected", zap.String("device", session.DeviceFromContext(r.Context())))
		respond.Error(w, http.StatusForbidden, "access code required for administrator sign-in")
		return
	}

	identity, err := auth.NewIdentity(auth.LoginInput{
		Phone:    req.Phone,
		Name:     req.Name,
		Role:     role,
		Provider: req.Provider,
		Avatar:   req.Avatar,
	})
	if err != nil {
		if isClientError(err) {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		respond.Error(w, http.StatusInternalServerError, "failed to build identity")
		return
	}
	current, err := store.Login(r.Context(), identity)
	if err != nil {
		h.logger.Error("persist login", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to save session")
		return
	}
	token, err := h.tokens.Generate(current, session.DeviceFromContext(r.Context()))
	if err != nil {
		h.logger.Error("sign token", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	respond.JSON(w, http.StatusOK, "login successful", dto.LoginResponse{
		Token:        token,
		User:         current,
		View:         string(dashboard.Select(&current)),
		Capabilities: auth.NewChecker(&current).Capabilities(),
	})
}

func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	store := session.FromContext(r.Context())
	if store == nil {
		respond.Error(w, http.StatusInternalServerError, "session unavailable")
		return
	}
	if err := store.Logout(r.Context()); err != nil {
		h.logger.Error("clear session", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to clear session")
		return
	}
	respond.JSON(w, http.StatusOK, "logout successful", nil)
}

// currentIdentity writes 401 and returns false when no one is signed in.
func currentIdentity(w http.ResponseWriter, r *http.Request) (*session.Store, models.Identity, bool) {
	store := session.FromContext(r.Context())
	if store == nil {
		respond.Error(w, http.StatusUnauthorized, "not authenticated")
		return nil, models.Identity{}, false
	}
	identity, ok := store.Current()
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "not authenticated")
		return nil, models.Identity{}, false
	}
	return store, identity, true
}

func isClientError(err error) bool {
	return errors.Is(err, models.ErrUnknownRole) || errors.Is(err, auth.ErrPhoneRequired) || errors.Is(err, auth.ErrUnknownProvider)
}
