package auth

import (
	"slices"

	"github.com/hongminglow/ets-hub/internal/models"
)

// Checker answers permission and role questions about an optional identity.
// The zero value represents an anonymous visitor and denies everything.
type Checker struct {
	identity *models.Identity
}

// NewChecker wraps identity, which may be nil.
func NewChecker(identity *models.Identity) Checker {
	return Checker{identity: identity}
}

// HasPermission is true when the identity's permission set holds name or the wildcard.
func (c Checker) HasPermission(name string) bool {
	if c.identity == nil || len(c.identity.Permissions) == 0 {
		return false
	}
	return Grants(c.identity.Permissions, name)
}

// HasRole is true when the identity's role is one of roles.
func (c Checker) HasRole(roles ...models.Role) bool {
	if c.identity == nil {
		return false
	}
	return slices.Contains(roles, c.identity.Role)
}

func (c Checker) CanManageServices() bool {
	return c.HasPermission(models.PermServicesManage) || c.HasRole(models.RoleAdmin)
}

func (c Checker) CanViewAnalytics() bool {
	return c.HasPermission(models.PermAnalyticsView) || c.HasRole(models.RolePartner, models.RoleAdmin)
}

func (c Checker) CanManageUsers() bool {
	return c.HasPermission(models.PermUsersManage) || c.HasRole(models.RoleAdmin)
}

func (c Checker) CanViewFinances() bool {
	return c.HasPermission(models.PermFinancesView) || c.HasRole(models.RolePartner, models.RoleAdmin)
}

func (c Checker) IsClient() bool  { return c.HasRole(models.RoleClient) }
func (c Checker) IsDriver() bool  { return c.HasRole(models.RoleDriver) }
func (c Checker) IsPartner() bool { return c.HasRole(models.RolePartner) }
func (c Checker) IsAdmin() bool   { return c.HasRole(models.RoleAdmin) }

// Capabilities is the flattened form of the derived checks.
type Capabilities struct {
	ManageServices bool `json:"manageServices"`
	ViewAnalytics  bool `json:"viewAnalytics"`
	ManageUsers    bool `json:"manageUsers"`
	ViewFinances   bool `json:"viewFinances"`
	Client         bool `json:"client"`
	Driver         bool `json:"driver"`
	Partner        bool `json:"partner"`
	Admin          bool `json:"admin"`
}

// Capabilities evaluates every derived check.
func (c Checker) Capabilities() Capabilities {
	return Capabilities{
		ManageServices: c.CanManageServices(),
		ViewAnalytics:  c.CanViewAnalytics(),
		ManageUsers:    c.CanManageUsers(),
		ViewFinances:   c.CanViewFinances(),
		Client:         c.IsClient(),
		Driver:         c.IsDriver(),
		Partner:        c.IsPartner(),
		Admin:          c.IsAdmin(),
	}
}
