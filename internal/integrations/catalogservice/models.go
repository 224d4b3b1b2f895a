package catalogservice

// Service модель услуги из каталога
type Service struct {
	ID              int64   `json:"id"`
	BarbershopID    int64   `json:"barbershop_id"`
	Name            string  `json:"name"`
	DurationMinutes int     `json:"duration_minutes"`
	Price           float64 `json:"price"`
	Active          bool    `json:"active"`
}

// ErrorResponse модель ошибки от каталога
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
