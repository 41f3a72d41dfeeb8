package dashboard

// Service is one entry of the ecosystem catalogue on the home view.
type Service struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Stats       []Stat `json:"stats"`
}

// Stat is a labelled figure shown on a card.
type Stat struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// SystemStats are the headline numbers of the admin view.
type SystemStats struct {
	TotalUsers    int     `json:"totalUsers"`
	ActiveDrivers int     `json:"activeDrivers"`
	TotalOrders   int     `json:"totalOrders"`
	Revenue       float64 `json:"revenue"`
	SystemHealth  float64 `json:"systemHealth"`
}

// Alert severities.
const (
	AlertInfo    = "info"
	AlertWarning = "warning"
	AlertError   = "error"
)

// Alert is a recent operational event.
type Alert struct {
	ID      int    `json:"id"`
	Type    string `json:"type"`
	Message string `json:"message"`
	Time    string `json:"time"`
}

// Service states.
const (
	StatusOnline  = "online"
	StatusWarning = "warning"
	StatusError   = "error"
)

// ServiceStatus reports availability of one service.
type ServiceStatus struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Uptime string `json:"uptime"`
	Users  int    `json:"users"`
}

// Section is an admin management area.
type Section struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Count string `json:"count"`
}

// UserStats are the account figures on the home view.
type UserStats struct {
	Balance float64 `json:"balance"`
	Bonuses float64 `json:"bonuses"`
	Trips   int     `json:"trips"`
	Rating  float64 `json:"rating"`
}

func services() []Service {
	return []Service{
		{ID: "passenger", Title: "ЕТС Пассажир", Description: "Междугородние и городские маршруты",
			Stats: []Stat{{"поездок", "2.4k"}, {"маршрутов", "150+"}}},
		{ID: "taxi", Title: "ЕТС Такси", Description: "Быстрые поездки по городу",
			Stats: []Stat{{"поездок", "8.7k"}, {"водителей", "340"}}},
		{ID: "cargo", Title: "ЕТС Груз", Description: "Грузоперевозки любой сложности",
			Stats: []Stat{{"заказов", "1.2k"}, {"тоннаж", "450т"}}},
		{ID: "delivery", Title: "ЕТС Доставка", Description: "Курьерская доставка по городу",
			Stats: []Stat{{"доставок", "5.3k"}, {"среднее время", "45мин"}}},
		{ID: "market", Title: "ЕТС Маркет", Description: "Интернет-магазин с доставкой",
			Stats: []Stat{{"товаров", "12k+"}, {"продавцов", "250"}}},
		{ID: "booking", Title: "ЕТС Заказ", Description: "Бронирование услуг и столиков",
			Stats: []Stat{{"бронирований", "890"}, {"заведений", "120"}}},
		{ID: "school", Title: "ЕТС Школа", Description: "Образовательные курсы",
			Stats: []Stat{{"студентов", "1.8k"}, {"курсов", "45"}}},
	}
}

func systemStats() SystemStats {
	return SystemStats{
		TotalUsers:    45628,
		ActiveDrivers: 892,
		TotalOrders:   15420,
		Revenue:       2850000,
		SystemHealth:  98.5,
	}
}

func recentAlerts() []Alert {
	return []Alert{
		{ID: 1, Type: AlertWarning, Message: "Высокая нагрузка на сервер доставки", Time: "5 мин назад"},
		{ID: 2, Type: AlertInfo, Message: "Обновление карт завершено успешно", Time: "1 час назад"},
		{ID: 3, Type: AlertError, Message: "Сбой платежной системы восстановлен", Time: "2 часа назад"},
	}
}

func serviceStatus() []ServiceStatus {
	return []ServiceStatus{
		{Name: "ЕТС Пассажир", Status: StatusOnline, Uptime: "99.9%", Users: 12400},
		{Name: "ЕТС Такси", Status: StatusOnline, Uptime: "99.8%", Users: 8900},
		{Name: "ЕТС Груз", Status: StatusWarning, Uptime: "98.2%", Users: 3200},
		{Name: "ЕТС Доставка", Status: StatusOnline, Uptime: "99.7%", Users: 5600},
		{Name: "ЕТС Маркет", Status: StatusOnline, Uptime: "99.9%", Users: 15800},
		{Name: "ЕТС Заказ", Status: StatusOnline, Uptime: "99.5%", Users: 2100},
		{Name: "ЕТС Школа", Status: StatusOnline, Uptime: "99.6%", Users: 890},
	}
}

func sections() []Section {
	return []Section{
		{ID: "users", Title: "Пользователи", Count: "45.6k"},
		{ID: "drivers", Title: "Водители", Count: "892"},
		{ID: "partners", Title: "Партнеры", Count: "234"},
		{ID: "orders", Title: "Заказы", Count: "15.4k"},
		{ID: "finances", Title: "Финансы", Count: "2.85M₽"},
		{ID: "analytics", Title: "Аналитика", Count: "Отчеты"},
	}
}
