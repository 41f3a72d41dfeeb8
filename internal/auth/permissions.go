package auth

import (
	"slices"

	"github.com/hongminglow/ets-hub/internal/models"
)

// PermissionsFor returns the fixed permission list granted to role.
// Unknown roles get an empty list. The returned slice is owned by the caller.
func PermissionsFor(role models.Role) []string {
	switch role {
	case models.RoleClient:
		return []string{
			models.PermServicesBook,
			models.PermServicesTrack,
			models.PermPaymentsView,
			models.PermPaymentsPay,
			models.PermProfileEdit,
			models.PermSupportContact,
		}
	case models.RoleDriver:
		return []string{
			models.PermOrdersView,
			models.PermOrdersAccept,
			models.PermOrdersComplete,
			models.PermNavigation,
			models.PermEarningsView,
			models.PermProfileEdit,
			models.PermSupportContact,
		}
	case models.RolePartner:
		return []string{
			models.PermServicesManage,
			models.PermOrdersManage,
			models.PermAnalyticsView,
			models.PermFinancesView,
			models.PermStaffManage,
			models.PermInventoryManage,
			models.PermProfileEdit,
			models.PermSupportContact,
		}
	case models.RoleAdmin:
		return []string{models.Wildcard}
	}
	return []string{}
}

// Grants reports whether perms contains name or the wildcard.
func Grants(perms []string, name string) bool {
	return slices.Contains(perms, name) || slices.Contains(perms, models.Wildcard)
}

// Catalogue describes every role together with its permissions.
func Catalogue() []models.RoleInfo {
	roles := models.Roles()
	out := make([]models.RoleInfo, 0, len(roles))
	for _, r := range roles {
		out = append(out, models.RoleInfo{
			Role:        r,
			Label:       r.Label(),
			Description: r.Description(),
			Permissions: PermissionsFor(r),
		})
	}
	return out
}
