package models

// Wildcard grants every permission.
const Wildcard = "*"

const (
	PermServicesBook    = "services.book"
	PermServicesTrack   = "services.track"
	PermServicesManage  = "services.manage"
	PermPaymentsView    = "payments.view"
	PermPaymentsPay     = "payments.pay"
	PermProfileEdit     = "profile.edit"
	PermSupportContact  = "support.contact"
	PermOrdersView      = "orders.view"
	PermOrdersAccept    = "orders.accept"
	PermOrdersComplete  = "orders.complete"
	PermOrdersManage    = "orders.manage"
	PermNavigation      = "navigation.access"
	PermEarningsView    = "earnings.view"
	PermAnalyticsView   = "analytics.view"
	PermFinancesView    = "finances.view"
	PermStaffManage     = "staff.manage"
	PermInventoryManage = "inventory.manage"
	PermUsersManage     = "users.manage"
)
