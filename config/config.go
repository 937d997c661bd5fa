// Package config, uygulamanın tüm konfigürasyonunu merkezi olarak yönetir.
// Environment variable'lardan okur, .env dosyasını da destekler.
//
// Her yerde ayrı ayrı os.Getenv() çağırmak yerine tek bir Config nesnesi
// taşırız — tüm varsayılan değerler tek bir dosyada görünür olur.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config, uygulamanın tüm konfigürasyon değerlerini taşır.
// Her alt bölüm ayrı bir struct — her struct tek bir concern'ü temsil eder.
type Config struct {
	API      APIConfig
	Broker   BrokerConfig
	State    StateConfig
	Language string // Bildirim dili: "en", "tr"
}

// APIConfig, REST backend (API gateway) ayarları.
type APIConfig struct {
	BaseURL string        // API gateway taban yolu (ör: http://localhost:8080/api/v1)
	Timeout time.Duration // Tüm HTTP istekleri için tek, sabit timeout
}

// BrokerConfig, gerçek zamanlı mesaj broker'ı (WebSocket) ayarları.
type BrokerConfig struct {
	URL            string        // Broker endpoint'i (ör: ws://localhost:8082/api/v1/ws)
	DialTimeout    time.Duration // Handshake için maksimum bekleme süresi
	ReconnectDelay time.Duration // Kopma sonrası yeniden bağlanma aralığı (sabit)
}

// StateConfig, yerel durum dosyası (SQLite) ayarları.
type StateConfig struct {
	Path       string // SQLite dosya yolu (ör: ./data/durak.db)
	Passphrase string // Boş değilse token disk'te şifrelenmiş saklanır
}

// Load, environment variable'lardan Config oluşturur.
// .env dosyası varsa önce onu yükler (development kolaylığı için).
func Load() (*Config, error) {
	// .env dosyası yoksa hata vermez, sessizce devam eder.
	_ = godotenv.Load()

	httpTimeout, err := strconv.Atoi(getEnv("HTTP_TIMEOUT_SECONDS", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT_SECONDS: %w", err)
	}

	dialTimeout, err := strconv.Atoi(getEnv("WS_DIAL_TIMEOUT_SECONDS", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid WS_DIAL_TIMEOUT_SECONDS: %w", err)
	}

	reconnectDelay, err := strconv.Atoi(getEnv("WS_RECONNECT_DELAY_SECONDS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid WS_RECONNECT_DELAY_SECONDS: %w", err)
	}

	cfg := &Config{
		API: APIConfig{
			BaseURL: getEnv("TRANSIT_API_URL", "http://localhost:8080/api/v1"),
			Timeout: time.Duration(httpTimeout) * time.Second,
		},
		Broker: BrokerConfig{
			URL:            getEnv("TRANSIT_WS_URL", "ws://localhost:8082/api/v1/ws"),
			DialTimeout:    time.Duration(dialTimeout) * time.Second,
			ReconnectDelay: time.Duration(reconnectDelay) * time.Second,
		},
		State: StateConfig{
			Path:       getEnv("DATA_PATH", "./data/durak.db"),
			Passphrase: getEnv("STATE_PASSPHRASE", ""),
		},
		Language: getEnv("LANGUAGE", "en"),
	}

	return cfg, nil
}

// getEnv, environment variable'ı okur, yoksa fallback değeri döner.
func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}
