package dto

import (
	"github.com/hongminglow/ets-hub/internal/auth"
	"github.com/hongminglow/ets-hub/internal/models"
)

type LoginRequest struct {
	Phone      string  `json:"phone" validate:"omitempty,max=32"`
	Role       string  `json:"role" validate:"required,oneof=client driver partner admin"`
	Name       string  `json:"name" validate:"omitempty,max=128"`
	Provider   string  `json:"provider" validate:"omitempty,oneof=vk telegram yandex"`
	Avatar     *string `json:"avatar" validate:"omitempty,max=2048"`
	AccessCode string  `json:"accessCode"`
}

type LoginResponse struct {
	Token        string            `json:"token"`
	User         models.Identity   `json:"user"`
	View         string            `json:"view"`
	Capabilities auth.Capabilities `json:"capabilities"`
}

type UpdateRequest struct {
	Name     *string          `json:"name" validate:"omitempty,min=1,max=128"`
	Phone    *string          `json:"phone" validate:"omitempty,min=1,max=32"`
	Avatar   *string          `json:"avatar" validate:"omitempty,max=2048"`
	Verified *bool            `json:"verified"`
	Role     *string          `json:"role" validate:"omitempty,oneof=client driver partner admin"`
	Metadata *models.Metadata `json:"metadata"`

	// AccessCode is checked only when Role switches to admin.
	AccessCode string `json:"accessCode"`
}

type MeResponse struct {
	User         models.Identity   `json:"user"`
	Capabilities auth.Capabilities `json:"capabilities"`
}

type PermissionCheck struct {
	Permission string `json:"permission"`
	Granted    bool   `json:"granted"`
}

type RoleCheck struct {
	Roles   []string `json:"roles"`
	Granted bool     `json:"granted"`
}
