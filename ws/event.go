// Package ws, broker endpoint'ine kurulan tek WebSocket bağlantısını ve
// topic aboneliklerini yönetir.
//
// Mimari:
// - Client: tek bir multiplexed pub/sub bağlantısını temsil eder
// - Event: client-broker arası iletilen çerçeve (frame) formatı
//
// Event akışı:
// 1. Client bağlanır, topic başına bir subscribe frame gönderir
// 2. Broker her yayında {op: "message", topic, d} frame'i iletir
// 3. readPump frame'i ilgili aboneliğin handler'ına dispatch eder
// 4. Handler (LiveFeed) gövdeyi çözer ve yerel state'e merge eder
//
// Client uygulama mesajı YAYINLAMAZ — subscribe/heartbeat dışında tüm
// trafik broker'dan client'a doğrudur (receive-only tasarım).
package ws

import (
	"encoding/json"
	"fmt"
)

// Event, WebSocket üzerinden iletilen bir frame'i temsil eder.
//
// Op: frame türü — "subscribe", "message", "heartbeat" vb.
// Topic: mesajın ait olduğu konu (ör: /topic/locations)
// SubID: aboneliği tanımlayan id — subscribe/unsubscribe çiftini eşler
// Data: frame'e özgü payload. json.RawMessage — gövde çözülmeden
// handler'a iletilir, şeklini yalnızca handler bilir.
// Seq: broker'ın her outbound frame'e verdiği artan sayı.
type Event struct {
	Op    string          `json:"op"`
	Topic string          `json:"topic,omitempty"`
	SubID string          `json:"sid,omitempty"`
	Data  json.RawMessage `json:"d,omitempty"`
	Seq   int64           `json:"seq,omitempty"`
}

// Client → Broker operasyonları
const (
	OpSubscribe   = "subscribe"   // Topic aboneliği başlat
	OpUnsubscribe = "unsubscribe" // Aboneliği sonlandır
	OpHeartbeat   = "heartbeat"   // Her 30sn'de gönderilir — "hâlâ bağlıyım" sinyali
)

// Broker → Client operasyonları
const (
	OpReady        = "ready"         // Bağlantı kurulduğunda ilk gönderilen
	OpHeartbeatAck = "heartbeat_ack" // Heartbeat'e yanıt — "seni duydum"
	OpMessage      = "message"       // Bir topic'e yayınlanmış mesaj
)

// Abone olunan topic'ler.
const (
	TopicLocations = "/topic/locations" // Tüm araçların telemetri akışı
	TopicAlerts    = "/topic/alerts"    // Servis uyarıları
)

// Named subscription key'leri — her key başına en fazla bir handler.
const (
	KeyLocations = "locations"
	KeyAlerts    = "alerts"
)

// TopicBusLocation, tek bir aracın telemetri topic'ini döner.
func TopicBusLocation(busID int64) string {
	return fmt.Sprintf("%s/%d", TopicLocations, busID)
}

// KeyBusLocation, tek araç aboneliğinin named key'ini döner.
func KeyBusLocation(busID int64) string {
	return fmt.Sprintf("location-%d", busID)
}
