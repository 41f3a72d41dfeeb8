package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/hongminglow/ets-hub/internal/models"
)

// ErrPhoneRequired is returned for a phone sign-in without a phone number.
var ErrPhoneRequired = errors.New("phone is required")

// ErrUnknownProvider is returned for an unsupported social provider.
var ErrUnknownProvider = errors.New("unknown social provider")

// Social sign-in providers and the names shown for them.
var providers = map[string]string{
	"vk":       "VK",
	"telegram": "Telegram",
	"yandex":   "Яндекс",
}

const socialPhone = "+7 (999) 123-45-67"

// LoginInput carries what the sign-in form collects.
type LoginInput struct {
	Phone    string
	Name     string
	Role     models.Role
	Provider string
	Avatar   *string
}

// NewIdentity builds the verified identity a sign-in produces. Phone sign-in
// needs a phone; social sign-in falls back to a placeholder number.
func NewIdentity(in LoginInput) (models.Identity, error) {
	if !in.Role.Valid() {
		return models.Identity{}, fmt.Errorf("%w: %q", models.ErrUnknownRole, in.Role)
	}
	phone := strings.TrimSpace(in.Phone)
	name := strings.TrimSpace(in.Name)

	provider := strings.ToLower(strings.TrimSpace(in.Provider))
	if provider != "" {
		label, ok := providers[provider]
		if !ok {
			return models.Identity{}, fmt.Errorf("%w: %q", ErrUnknownProvider, in.Provider)
		}
		if phone == "" {
			phone = socialPhone
		}
		if name == "" {
			name = "Пользователь " + label
		}
	}
	if phone == "" {
		return models.Identity{}, ErrPhoneRequired
	}
	if name == "" {
		name = defaultName(in.Role)
	}

	return models.Identity{
		ID:       uuid.NewString(),
		Phone:    phone,
		Name:     name,
		Role:     in.Role,
		Avatar:   in.Avatar,
		Verified: true,
	}, nil
}

func defaultName(role models.Role) string {
	if role == models.RoleAdmin {
		return "Администратор ЕТС"
	}
	return "Пользователь ЕТС"
}
