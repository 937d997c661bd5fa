package models

import "time"

// AlertType, bir uyarının kategorisini temsil eder.
type AlertType string

// Geolocation servisinin yayınladığı uyarı kategorileri.
// Delay ve OffRoute kullanıcıya anında warning bildirimi olarak
// gösterilir; diğerleri sessizce listeye eklenir.
const (
	AlertDelay          AlertType = "DELAY"
	AlertOffRoute       AlertType = "OFF_ROUTE"
	AlertSpeeding       AlertType = "SPEEDING"
	AlertStoppedTooLong AlertType = "STOPPED_TOO_LONG"
	AlertEmergency      AlertType = "EMERGENCY"
	AlertMaintenance    AlertType = "MAINTENANCE_REQUIRED"
)

// Alert, bir araç veya hat durumu hakkında geçici bir bildirimdir.
// Client tarafında asla mutate edilmez; sabit kapasiteli, yeniden-eskiye
// sıralı bir buffer'da tutulur (kalıcı log değildir).
type Alert struct {
	AlertType AlertType `json:"alertType"`
	Message   string    `json:"message"`
	BusID     *int64    `json:"busId,omitempty"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// Urgent, uyarının anında kullanıcıya gösterilmesi gerekip
// gerekmediğini döner.
func (a *Alert) Urgent() bool {
	return a.AlertType == AlertDelay || a.AlertType == AlertOffRoute
}
