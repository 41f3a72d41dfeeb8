package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/ets-hub/internal/models"
)

func TestTokenManagerRoundTrip(t *testing.T) {
	tokens := NewTokenManager("secret", "ets-test", time.Hour)
	identity := models.Identity{ID: "abc", Role: models.RoleDriver}

	raw, err := tokens.Generate(identity, "device-1")
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	claims, err := tokens.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "abc", claims.Subject)
	assert.Equal(t, models.RoleDriver, claims.Role)
	assert.Equal(t, "device-1", claims.SessionID)
	assert.Equal(t, "ets-test", claims.Issuer)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestTokenManagerRejectsForeignSecret(t *testing.T) {
	raw, err := NewTokenManager("one", "ets", time.Hour).Generate(models.Identity{ID: "x"}, "d")
	require.NoError(t, err)

	_, err = NewTokenManager("two", "ets", time.Hour).Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManagerRejectsWrongIssuer(t *testing.T) {
	raw, err := NewTokenManager("s", "issuer-a", time.Hour).Generate(models.Identity{ID: "x"}, "d")
	require.NoError(t, err)

	_, err = NewTokenManager("s", "issuer-b", time.Hour).Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManagerRejectsExpired(t *testing.T) {
	tokens := NewTokenManager("s", "ets", time.Minute)
	tokens.now = func() time.Time { return time.Now().Add(-time.Hour) }
	raw, err := tokens.Generate(models.Identity{ID: "x"}, "d")
	require.NoError(t, err)

	tokens.now = time.Now
	_, err = tokens.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManagerRejectsGarbage(t *testing.T) {
	_, err := NewTokenManager("s", "ets", time.Hour).Parse("invalid.token.string")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
