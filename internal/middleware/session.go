package middleware

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hongminglow/ets-hub/internal/auth"
	"github.com/hongminglow/ets-hub/internal/http/respond"
	"github.com/hongminglow/ets-hub/internal/session"
)

// SessionConfig aggregates what the session middleware needs.
type SessionConfig struct {
	Manager    *session.Manager
	Tokens     *auth.TokenManager
	CookieName string
	CookieTTL  time.Duration
	Secure     bool
	Logger     *zap.Logger
}

// Session resolves the calling device, opens its store, and places both in
// the request context. A bearer token names the device through its sid
// claim; otherwise the device cookie does, and one is issued when missing.
func Session(cfg SessionConfig) func(http.Handler) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			device, ok := deviceFromBearer(cfg.Tokens, r)
			if !ok {
				respond.Error(w, http.StatusUnauthorized, "invalid token")
				return
			}
			if device == "" {
				device = deviceFromCookie(cfg, w, r)
			}

			ctx := r.Context()
			store, release, err := cfg.Manager.Open(ctx, device)
			if err != nil {
				logger.Error("open session", zap.String("device", device), zap.Error(err))
				respond.Error(w, http.StatusInternalServerError, "failed to load session")
				return
			}
			defer release()
			ctx = session.WithDevice(session.WithStore(ctx, store), device)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// deviceFromBearer returns ok=false only for a present but invalid token.
func deviceFromBearer(tokens *auth.TokenManager, r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" || tokens == nil {
		return "", true
	}
	scheme, raw, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	claims, err := tokens.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}
	return claims.SessionID, true
}

func deviceFromCookie(cfg SessionConfig, w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(cfg.CookieName); err == nil && session.ValidDeviceID(c.Value) {
		return c.Value
	}
	device := session.NewDeviceID()
	cookie := &http.Cookie{
		Name:     cfg.CookieName,
		Value:    device,
		Path:     "/",
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if cfg.CookieTTL > 0 {
		cookie.Expires = time.Now().Add(cfg.CookieTTL)
	}
	http.SetCookie(w, cookie)
	return device
}
