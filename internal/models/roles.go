package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownRole is returned when a role string is not one of the fixed roles.
var ErrUnknownRole = errors.New("unknown role")

// Role is one of the fixed account categories.
type Role string

const (
	RoleClient  Role = "client"
	RoleDriver  Role = "driver"
	RolePartner Role = "partner"
	RoleAdmin   Role = "admin"
)

// Roles lists every role in display order.
func Roles() []Role {
	return []Role{RoleClient, RoleDriver, RolePartner, RoleAdmin}
}

// ParseRole normalizes and validates a role string.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
	return r, nil
}

// Valid reports whether r is one of the fixed roles.
func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleDriver, RolePartner, RoleAdmin:
		return true
	}
	return false
}

// Label is the account type name shown on the sign-in form.
func (r Role) Label() string {
	switch r {
	case RoleClient:
		return "Пользователь"
	case RoleDriver:
		return "Водитель"
	case RolePartner:
		return "Партнер"
	case RoleAdmin:
		return "Администратор"
	}
	return string(r)
}

// Description summarizes what the account type is for.
func (r Role) Description() string {
	switch r {
	case RoleClient:
		return "Заказ услуг"
	case RoleDriver:
		return "Выполнение заказов"
	case RolePartner:
		return "Бизнес-аккаунт"
	case RoleAdmin:
		return "Управление системой"
	}
	return ""
}

// RoleInfo is the catalogue entry for a role.
type RoleInfo struct {
	Role        Role     `json:"role"`
	Label       string   `json:"label"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
}
