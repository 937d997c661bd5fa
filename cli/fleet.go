package cli

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/akinalp/durak/models"
)

func newBusesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "buses",
		Short: "Araçları ve son bilinen konumlarını listele",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Feed.Load(cmd.Context()); err != nil {
				return err
			}

			buses := app.Feed.Buses()
			if len(buses) == 0 {
				fmt.Println("No buses found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNUMBER\tROUTE\tSTATUS\tLOCATION")
			for _, bus := range buses {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
					bus.ID, bus.BusNumber, bus.RouteName, bus.Status, formatLocation(bus.Location))
			}
			return w.Flush()
		},
	}
}

func newRoutesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Hatları listele",
		RunE: func(cmd *cobra.Command, args []string) error {
			routes, err := app.API.ListRoutes(cmd.Context())
			if err != nil {
				return err
			}
			if len(routes) == 0 {
				fmt.Println("No routes found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNUMBER\tNAME\tACTIVE")
			for _, route := range routes {
				fmt.Fprintf(w, "%d\t%s\t%s\t%t\n", route.ID, route.RouteNumber, route.Name, route.IsActive)
			}
			return w.Flush()
		},
	}
}

func newAlertsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "alerts",
		Short: "Aktif servis uyarılarını listele",
		RunE: func(cmd *cobra.Command, args []string) error {
			alerts, err := app.API.ActiveAlerts(cmd.Context())
			if err != nil {
				return err
			}
			if len(alerts) == 0 {
				fmt.Println("No active alerts.")
				return nil
			}

			for _, alert := range alerts {
				printAlert(alert)
			}
			return nil
		},
	}
}

func newHistoryCmd(app *App) *cobra.Command {
	var hours int

	cmd := &cobra.Command{
		Use:   "history <bus-id>",
		Short: "Bir aracın konum geçmişini göster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			busID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid bus id %q", args[0])
			}

			history, err := app.API.LocationHistory(cmd.Context(), busID, hours)
			if err != nil {
				return err
			}
			if len(history) == 0 {
				fmt.Println("No location history.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TIME\tLAT\tLON\tSPEED\tHEADING")
			for _, loc := range history {
				fmt.Fprintf(w, "%s\t%.5f\t%.5f\t%.1f\t%.0f\n",
					loc.Timestamp.Local().Format("15:04:05"),
					loc.Latitude, loc.Longitude, loc.Speed, loc.Heading)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&hours, "hours", 1, "kaç saatlik geçmiş gösterilecek")
	return cmd
}

func formatLocation(loc *models.BusLocation) string {
	if loc == nil {
		return "-"
	}
	return fmt.Sprintf("%.5f,%.5f @ %s",
		loc.Latitude, loc.Longitude, loc.Timestamp.Local().Format("15:04:05"))
}

func printAlert(alert models.Alert) {
	bus := "-"
	if alert.BusID != nil {
		bus = strconv.FormatInt(*alert.BusID, 10)
	}
	marker := " "
	if alert.Urgent() {
		marker = "!"
	}
	fmt.Printf("%s [%s] bus=%s %s (%s)\n",
		marker, alert.AlertType, bus, alert.Message,
		alert.Timestamp.Local().Format("15:04:05"))
}
