package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/hongminglow/ets-hub/internal/auth"
	"github.com/hongminglow/ets-hub/internal/models"
	"github.com/hongminglow/ets-hub/internal/session"
	"github.com/hongminglow/ets-hub/internal/storage/memory"
)

func sessionStack(t *testing.T, tokens *auth.TokenManager) (http.Handler, *string) {
	t.Helper()
	var seen string
	h := Session(SessionConfig{
		Manager:    session.NewManager(memory.New(), nil, nil),
		Tokens:     tokens,
		CookieName: "ets_device",
		CookieTTL:  time.Hour,
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NotNil(t, session.FromContext(r.Context()))
		seen = session.DeviceFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))
	return h, &seen
}

func TestSessionIssuesDeviceCookie(t *testing.T) {
	h, seen := sessionStack(t, nil)
	res := httptest.NewRecorder()
	h.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusNoContent, res.Code)
	cookies := res.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "ets_device", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, cookies[0].Value, *seen)
	assert.True(t, session.ValidDeviceID(*seen))
}

func TestSessionReusesValidCookie(t *testing.T) {
	h, seen := sessionStack(t, nil)
	device := session.NewDeviceID()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "ets_device", Value: device})

	res := httptest.NewRecorder()
	h.ServeHTTP(res, req)
	assert.Equal(t, device, *seen)
	assert.Empty(t, res.Result().Cookies())
}

func TestSessionReplacesInvalidCookie(t *testing.T) {
	h, seen := sessionStack(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "ets_device", Value: "../../etc"})

	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.NotEqual(t, "../../etc", *seen)
	assert.True(t, session.ValidDeviceID(*seen))
}

func TestSessionBearerToken(t *testing.T) {
	tokens := auth.NewTokenManager("secret", "ets", time.Hour)
	h, seen := sessionStack(t, tokens)
	raw, err := tokens.Generate(models.Identity{ID: "u", Role: models.RoleClient}, "device-from-token")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	res := httptest.NewRecorder()
	h.ServeHTTP(res, req)

	assert.Equal(t, http.StatusNoContent, res.Code)
	assert.Equal(t, "device-from-token", *seen)
	assert.Empty(t, res.Result().Cookies())
}

func TestSessionBearerSchemeIsCaseInsensitive(t *testing.T) {
	tokens := auth.NewTokenManager("secret", "ets", time.Hour)
	h, seen := sessionStack(t, tokens)
	raw, err := tokens.Generate(models.Identity{ID: "u", Role: models.RoleDriver}, "lowercase-device")
	require.NoError(t, err)

	for _, scheme := range []string{"bearer", "BEARER"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", scheme+" "+raw)
		res := httptest.NewRecorder()
		h.ServeHTTP(res, req)
		assert.Equal(t, http.StatusNoContent, res.Code, scheme)
		assert.Equal(t, "lowercase-device", *seen, scheme)
	}
}

func TestSessionRejectsBadBearerToken(t *testing.T) {
	h, _ := sessionStack(t, auth.NewTokenManager("secret", "ets", time.Hour))
	for _, header := range []string{"Bearer nope", "Basic abc"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", header)
		res := httptest.NewRecorder()
		h.ServeHTTP(res, req)
		assert.Equal(t, http.StatusUnauthorized, res.Code, header)
	}
}

func TestCORSAllowAllReflectsOrigin(t *testing.T) {
	h := CORS([]string{"*"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://app.example")
	res := httptest.NewRecorder()
	h.ServeHTTP(res, req)

	assert.Equal(t, "https://app.example", res.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", res.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORSRejectsUnknownOrigin(t *testing.T) {
	h := CORS([]string{"https://app.example"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	res := httptest.NewRecorder()
	h.ServeHTTP(res, req)

	assert.Empty(t, res.Header().Get("Access-Control-Allow-Origin"))
}

func TestSecureHeaders(t *testing.T) {
	h := SecureHeaders(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	res := httptest.NewRecorder()
	h.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "DENY", res.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", res.Header().Get("X-Content-Type-Options"))
}

func TestLogging(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := Logging(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/x", nil))

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "/api/x", fields["path"])
	assert.EqualValues(t, http.StatusAccepted, fields["status"])
}
