package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/akinalp/durak/models"
)

func newWatchCmd(app *App) *cobra.Command {
	var busID int64

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Canlı telemetri ve uyarı akışını izle",
		Long: "Broker'a bağlanır ve araç konumları ile servis uyarılarını\n" +
			"geldikçe ekrana yazar. Bağlantı koparsa otomatik olarak yeniden\n" +
			"bağlanır. Ctrl+C ile çıkılır.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Feed.Load(cmd.Context()); err != nil {
				return err
			}

			// Son bilinen durumu bas, sonra canlı akışa geç.
			for _, bus := range app.Feed.Buses() {
				if bus.Location != nil {
					printBusLine(bus)
				}
			}

			unsubscribe := app.Feed.Subscribe(makeFeedPrinter(app, busID))
			defer unsubscribe()

			if err := app.Feed.Start(); err != nil {
				return err
			}
			defer app.Feed.Stop()

			if busID != 0 {
				if err := app.Feed.WatchBus(busID); err != nil {
					return err
				}
				defer app.Feed.UnwatchBus(busID)
			}

			fmt.Println("Watching live feed (Ctrl+C to stop)...")

			done := make(chan os.Signal, 1)
			signal.Notify(done, os.Interrupt, syscall.SIGTERM)
			select {
			case <-done:
			case <-cmd.Context().Done():
			}

			fmt.Println("\nStopped.")
			return nil
		},
	}

	cmd.Flags().Int64Var(&busID, "bus", 0, "sadece bu aracın telemetri akışına ek abonelik aç")
	return cmd
}

// makeFeedPrinter, feed her değiştiğinde yeni gelen durumu yazan
// listener üretir. Feed listener'ı hangi kaydın değiştiğini söylemez;
// son görülen durumla fark alınır.
func makeFeedPrinter(app *App, busID int64) func() {
	lastSeen := make(map[int64]models.BusLocation)
	for _, bus := range app.Feed.Buses() {
		if bus.Location != nil {
			lastSeen[bus.ID] = *bus.Location
		}
	}

	// Load'un tohumladığı uyarılar zaten `alerts` komutuyla görülebilir —
	// akışta sadece bağlantı sonrası gelenler basılır.
	var lastTop *models.Alert
	if alerts := app.Feed.Alerts(); len(alerts) > 0 {
		top := alerts[0]
		lastTop = &top
	}

	return func() {
		for _, bus := range app.Feed.Buses() {
			if bus.Location == nil {
				continue
			}
			if busID != 0 && bus.ID != busID {
				continue
			}
			if prev, ok := lastSeen[bus.ID]; ok && prev == *bus.Location {
				continue
			}
			lastSeen[bus.ID] = *bus.Location
			printBusLine(bus)
		}

		// Buffer yeniden-eskiye sıralı ve sabit kapasiteli — "yeni olanlar",
		// son görülen en üst kayda kadar olanlardır.
		alerts := app.Feed.Alerts()
		newCount := len(alerts)
		if lastTop != nil {
			for i, a := range alerts {
				if a.Timestamp.Equal(lastTop.Timestamp) && a.Message == lastTop.Message && a.AlertType == lastTop.AlertType {
					newCount = i
					break
				}
			}
		}
		for i := newCount - 1; i >= 0; i-- {
			printAlert(alerts[i])
		}
		if len(alerts) > 0 {
			top := alerts[0]
			lastTop = &top
		}
	}
}

func printBusLine(bus models.Bus) {
	number := bus.BusNumber
	if number == "" {
		number = fmt.Sprintf("#%d", bus.ID)
	}
	fmt.Printf("%s  bus %-8s %s\n",
		bus.Location.Timestamp.Local().Format("15:04:05"),
		number, formatLocation(bus.Location))
}
