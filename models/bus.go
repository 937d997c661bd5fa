package models

import "time"

// BusStatus, bir aracın operasyonel durumunu temsil eder.
type BusStatus string

const (
	BusStatusActive      BusStatus = "ACTIVE"
	BusStatusInactive    BusStatus = "INACTIVE"
	BusStatusMaintenance BusStatus = "MAINTENANCE"
)

// BusLocation, tek bir araç için telemetri verisidir — broker'ın
// /topic/locations konusundan gelen her mesajın gövdesi bu şekildedir.
//
// Heading: hareket yönü, derece cinsinden (0-360).
// Speed: km/h, negatif olamaz.
type BusLocation struct {
	BusID     int64     `json:"busId"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Speed     float64   `json:"speed"`
	Heading   float64   `json:"heading"`
	Timestamp time.Time `json:"timestamp"`
}

// Bus, bir araç hakkında bilinen son durumu temsil eder:
// tanımlayıcı alanlar (hat bilgisi, durum) + son telemetri.
//
// Telemetri güncellemeleri yalnızca Location'ı değiştirir; tanımlayıcı
// alanlar son tam bus kaydından taşınır. Bilinmeyen bir busId için
// gelen güncelleme, sadece telemetri içeren minimal bir kayıt oluşturur.
type Bus struct {
	ID        int64        `json:"id"`
	BusNumber string       `json:"busNumber,omitempty"`
	RouteID   *int64       `json:"routeId,omitempty"`
	RouteName string       `json:"routeName,omitempty"`
	Status    BusStatus    `json:"status,omitempty"`
	Location  *BusLocation `json:"location,omitempty"`
}
