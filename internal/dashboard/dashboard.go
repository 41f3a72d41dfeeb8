package dashboard

import (
	"github.com/hongminglow/ets-hub/internal/auth"
	"github.com/hongminglow/ets-hub/internal/models"
)

// View names the page rendered for a visitor.
type View string

const (
	ViewAdmin    View = "admin"
	ViewConsumer View = "consumer"
)

// Select picks the admin view for an authenticated administrator and the
// consumer view for everyone else, anonymous visitors included.
func Select(identity *models.Identity) View {
	if identity != nil && identity.Role == models.RoleAdmin {
		return ViewAdmin
	}
	return ViewConsumer
}

// Copy is the role-flavored text on the consumer view.
type Copy struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

// Greeting returns the consumer copy for identity, or the guest copy when nil.
func Greeting(identity *models.Identity) Copy {
	if identity == nil {
		return Copy{
			Title:    "Добро пожаловать в экосистему ЕТС! 🚀",
			Subtitle: "Войдите, чтобы пользоваться всеми транспортными и логистическими услугами",
		}
	}
	switch identity.Role {
	case models.RoleDriver:
		return Copy{
			Title:    "С возвращением, " + identity.Name + "!",
			Subtitle: "Принимайте заказы, прокладывайте маршруты и следите за заработком",
		}
	case models.RolePartner:
		return Copy{
			Title:    "С возвращением, " + identity.Name + "!",
			Subtitle: "Управляйте услугами, персоналом и финансами вашего бизнеса",
		}
	}
	return Copy{
		Title:    "Добро пожаловать в экосистему ЕТС! 🚀",
		Subtitle: "Все транспортные и логистические услуги в одном приложении",
	}
}

// Page is the view model for either view. Only the fields of the selected view are set.
type Page struct {
	View          View              `json:"view"`
	Authenticated bool              `json:"authenticated"`
	User          *models.Identity  `json:"user,omitempty"`
	Capabilities  auth.Capabilities `json:"capabilities"`

	Copy      *Copy      `json:"copy,omitempty"`
	UserStats *UserStats `json:"userStats,omitempty"`
	Services  []Service  `json:"services,omitempty"`

	System   *SystemStats    `json:"system,omitempty"`
	Alerts   []Alert         `json:"alerts,omitempty"`
	Statuses []ServiceStatus `json:"statuses,omitempty"`
	Sections []Section       `json:"sections,omitempty"`
}

// Build assembles the page for identity, which may be nil.
func Build(identity *models.Identity) Page {
	checker := auth.NewChecker(identity)
	page := Page{
		View:          Select(identity),
		Authenticated: identity != nil,
		Capabilities:  checker.Capabilities(),
	}
	if identity != nil {
		cp := identity.Clone()
		page.User = &cp
	}

	if page.View == ViewAdmin {
		stats := systemStats()
		page.System = &stats
		page.Alerts = recentAlerts()
		page.Statuses = serviceStatus()
		page.Sections = sections()
		return page
	}

	greeting := Greeting(identity)
	page.Copy = &greeting
	page.Services = services()
	if identity != nil {
		stats := statsFor(identity)
		page.UserStats = &stats
	}
	return page
}

func statsFor(identity *models.Identity) UserStats {
	md := models.DefaultMetadata().Merge(identity.Metadata)
	return UserStats{
		Balance: *md.Balance,
		Bonuses: *md.Bonuses,
		Trips:   *md.TotalTrips,
		Rating:  *md.Rating,
	}
}
