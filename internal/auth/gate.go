package auth

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/hongminglow/ets-hub/internal/models"
)

// ErrAccessDenied is returned when an administrator sign-in lacks a valid access code.
var ErrAccessDenied = errors.New("access denied")

// AccessGate applies the extra security check for administrator sign-ins.
// With no hash configured every sign-in passes.
type AccessGate struct {
	hash []byte
}

// NewAccessGate wraps a bcrypt hash of the administrator access code. An empty hash disables the gate.
func NewAccessGate(hash string) *AccessGate {
	return &AccessGate{hash: []byte(strings.TrimSpace(hash))}
}

// Enabled reports whether administrator sign-ins need an access code.
func (g *AccessGate) Enabled() bool {
	return g != nil && len(g.hash) > 0
}

// Check verifies code for role. Only the admin role is gated.
func (g *AccessGate) Check(role models.Role, code string) error {
	if role != models.RoleAdmin || !g.Enabled() {
		return nil
	}
	if strings.TrimSpace(code) == "" {
		return ErrAccessDenied
	}
	if err := bcrypt.CompareHashAndPassword(g.hash, []byte(code)); err != nil {
		return ErrAccessDenied
	}
	return nil
}

// HashAccessCode produces a hash suitable for ADMIN_ACCESS_HASH.
func HashAccessCode(code string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
