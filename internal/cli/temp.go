package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msi-tools/coolboost/internal/domain"
)

func init() {
	rootCmd.AddCommand(cpuTempCmd, gpuTempCmd)
}

var cpuTempCmd = &cobra.Command{
	Use:   "cpu-temp",
	Short: "Print the CPU temperature",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTemp(cmd, domain.SensorCPU)
	},
}

var gpuTempCmd = &cobra.Command{
	Use:   "gpu-temp",
	Short: "Print the GPU temperature",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTemp(cmd, domain.SensorGPU)
	},
}

func runTemp(cmd *cobra.Command, kind domain.SensorKind) error {
	d, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	v, err := d.Gateway.ReadTemperature(cmd.Context(), kind)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Temperature: %s\n", kind, domain.FormatCelsius(v))
	return nil
}
