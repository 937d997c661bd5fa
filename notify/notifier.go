// Package notify, kullanıcıya gösterilecek kısa bildirimleri soyutlar.
//
// Servis katmanı bildirimleri Notifier interface'i üzerinden yayınlar;
// hangi yüzeye gideceği (terminal, log, test buffer'ı) wire-up'ta
// belirlenir. Servisler sunum detayı bilmez.
package notify

import "log"

// Severity, bir bildirimin önem derecesini belirtir.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notifier, kullanıcıya tek satırlık bildirim gösteren her şeydir.
type Notifier interface {
	Notify(severity Severity, message string)
}

// LogNotifier, bildirimleri stdlib log'a yazar. CLI'nin varsayılan
// yüzeyi budur.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Notify(severity Severity, message string) {
	log.Printf("[notify] %s: %s", severity, message)
}
