// Package cli, cobra tabanlı komut yüzeyini barındırır.
//
// CLI sunum katmanıdır: terminal IO burada yaşar, iş kuralları
// services katmanındadır. Komutlar App üzerinden servislere erişir —
// global değişken yok, tüm bağımlılıklar main.go'da bağlanıp buraya
// taşınır.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/akinalp/durak/api"
	"github.com/akinalp/durak/config"
	"github.com/akinalp/durak/pkg/i18n"
	"github.com/akinalp/durak/services"
)

// App, komutların ihtiyaç duyduğu bağımlılık demeti.
type App struct {
	Config    *config.Config
	API       *api.Client
	Session   services.SessionService
	Feed      services.LiveFeed
	Localizer *i18n.Localizer
}

// NewRootCmd, root cobra komutunu ve alt komutları oluşturur.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "durak",
		Short: "durak — toplu taşıma yolcu istemcisi",
		Long: "durak, toplu taşıma backend'ine bağlanan terminal istemcisidir:\n" +
			"hesap yönetimi, araç/hat sorguları ve canlı telemetri takibi.",
		SilenceUsage: true,
	}

	root.AddCommand(
		newLoginCmd(app),
		newRegisterCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
		newProfileCmd(app),
		newBusesCmd(app),
		newRoutesCmd(app),
		newAlertsCmd(app),
		newHistoryCmd(app),
		newWatchCmd(app),
	)

	return root
}
