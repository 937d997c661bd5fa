// Package main, durak CLI uygulamasının giriş noktasıdır.
//
// Bu dosyanın görevi — Dependency Injection "wire-up":
//  1. Config'i yükle
//  2. Yerel durum veritabanını (SQLite) başlat
//  3. i18n çevirilerini yükle
//  4. Credential repository'yi oluştur
//  5. API client'ını oluştur
//  6. Notifier'ı oluştur
//  7. Service'leri oluştur ve birbirine bağla
//  8. Kalıcı oturumu geri yükle
//  9. CLI komutlarını çalıştır
//
// Global değişken YOK — her şey bu fonksiyonda oluşturulup birbirine bağlanıyor.
package main

import (
	"context"
	"io/fs"
	"log"
	"os"

	"github.com/akinalp/durak/api"
	"github.com/akinalp/durak/cli"
	"github.com/akinalp/durak/config"
	"github.com/akinalp/durak/database"
	"github.com/akinalp/durak/notify"
	"github.com/akinalp/durak/pkg/i18n"
	"github.com/akinalp/durak/repository"
	"github.com/akinalp/durak/services"
	"github.com/akinalp/durak/ws"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime)

	// ─── 1. Config ───
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[main] failed to load config: %v", err)
	}

	// ─── 2. Yerel Durum Veritabanı ───
	migrations, err := fs.Sub(database.EmbeddedMigrations, "migrations")
	if err != nil {
		log.Fatalf("[main] failed to open embedded migrations: %v", err)
	}

	db, err := database.New(cfg.State.Path, migrations)
	if err != nil {
		log.Fatalf("[main] failed to initialize state database: %v", err)
	}
	defer db.Close()

	// ─── 3. i18n (Çoklu Dil Desteği) ───
	locales, err := fs.Sub(i18n.EmbeddedLocales, "locales")
	if err != nil {
		log.Fatalf("[main] failed to open embedded locales: %v", err)
	}
	if err := i18n.Load(locales); err != nil {
		log.Fatalf("[main] failed to load i18n translations: %v", err)
	}
	localizer := i18n.NewLocalizer(cfg.Language)

	// ─── 4. Repository Layer ───
	credRepo := repository.NewSQLiteCredentialRepo(db.Conn, cfg.State.Passphrase)

	// ─── 5. API Client ───
	apiClient := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout)
	defer apiClient.Close()

	// ─── 6. Notifier ───
	notifier := notify.NewLogNotifier()

	// ─── 7. Service Layer ───
	sessionService := services.NewSessionService(apiClient, credRepo, notifier, localizer)
	defer sessionService.Close()

	// Client ile SessionService arasında döngüsel bağımlılık var: client
	// token'a, servis client'a ihtiyaç duyar. Bu yüzden token kaynağı ve
	// 401 hook'u constructor'da değil burada bağlanır.
	apiClient.SetTokenSource(sessionService)
	apiClient.OnUnauthorized(sessionService.HandleUnauthorized)

	realtime := ws.NewClient(cfg.Broker.URL, cfg.Broker.DialTimeout, cfg.Broker.ReconnectDelay)
	feed := services.NewLiveFeed(apiClient, realtime, notifier, localizer)

	// ─── 8. Oturum Restore ───
	if err := sessionService.Initialize(context.Background()); err != nil {
		// Restore hatası uygulamayı düşürmez — anonim devam edilir.
		log.Printf("[main] session restore failed: %v", err)
	}

	// ─── 9. CLI ───
	app := &cli.App{
		Config:    cfg,
		API:       apiClient,
		Session:   sessionService,
		Feed:      feed,
		Localizer: localizer,
	}

	if err := cli.NewRootCmd(app).Execute(); err != nil {
		os.Exit(1)
	}
}
