package models

// Route, bir otobüs hattını temsil eder.
// Hat CRUD'u backend'in route mikroservisine aittir — client yalnızca
// listeleme için okur, bu yüzden model minimal tutulmuştur.
type Route struct {
	ID          int64  `json:"id"`
	RouteNumber string `json:"routeNumber"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
	IsActive    bool   `json:"isActive"`
}
