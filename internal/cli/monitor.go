package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/msi-tools/coolboost/internal/daemon"
)

func init() {
	f := monitorCmd.Flags()
	f.DurationVar(&monitorInterval, "interval", 0, "Time between temperature checks (overrides config)")
	f.Float64Var(&monitorCPUThreshold, "cpu-threshold", 0, "Enable boost above this CPU temperature in °C (overrides config)")
	f.Float64Var(&monitorGPUThreshold, "gpu-threshold", 0, "Enable boost above this GPU temperature in °C (overrides config)")
	f.BoolVar(&monitorRestore, "restore-on-exit", false, "Disable cooler boost when the monitor exits")
	rootCmd.AddCommand(monitorCmd)
}

var (
	monitorInterval     time.Duration
	monitorCPUThreshold float64
	monitorGPUThreshold float64
	monitorRestore      bool
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Run the thermal monitor until interrupted",
	Long: `Poll CPU and GPU temperatures and toggle cooler boost with hysteresis.
Stops on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runMonitor,
}

func runMonitor(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyMonitorFlags(cmd, &cfg)

	d, err := daemon.NewWithConfig(cfg)
	if err != nil {
		return err
	}
	defer d.Close()

	return d.Serve(cmd.Context())
}

// applyMonitorFlags overrides config with flags the user actually set.
func applyMonitorFlags(cmd *cobra.Command, cfg *daemon.Config) {
	f := cmd.Flags()
	if f.Changed("interval") {
		cfg.Thermal.PollInterval = monitorInterval.String()
	}
	if f.Changed("cpu-threshold") {
		cfg.Thermal.CPUThreshold = monitorCPUThreshold
	}
	if f.Changed("gpu-threshold") {
		cfg.Thermal.GPUThreshold = monitorGPUThreshold
	}
	if f.Changed("restore-on-exit") {
		cfg.Thermal.RestoreOnExit = monitorRestore
	}
}
