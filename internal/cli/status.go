package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/msi-tools/coolboost/internal/domain"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show temperatures, cooler boost state and driver health",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

// runStatus reports each item independently; one failing read does not
// hide the others.
func runStatus(cmd *cobra.Command, args []string) error {
	d, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "=== MSI EC Status ===")
	for _, kind := range []domain.SensorKind{domain.SensorCPU, domain.SensorGPU} {
		v, err := d.Gateway.ReadTemperature(ctx, kind)
		if err != nil {
			fmt.Fprintf(out, "%s Temperature: Error - %v\n", kind, err)
			continue
		}
		fmt.Fprintf(out, "%s Temperature: %s\n", kind, domain.FormatCelsius(v))
	}

	on, err := d.Gateway.BoostStatus(ctx)
	switch {
	case err != nil:
		fmt.Fprintf(out, "Cooler Boost: Error - %v\n", err)
	case on:
		fmt.Fprintln(out, "Cooler Boost: Enabled")
	default:
		fmt.Fprintln(out, "Cooler Boost: Disabled")
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "=== Health ===")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CHECK\tSTATUS\tDETAIL")
	for _, s := range d.Health.RunOnce(ctx) {
		state := "ok"
		if !s.Healthy {
			state = "failing"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", s.Name, state, s.Error)
	}
	return w.Flush()
}
