// Package cli implements the coolboost command-line interface using Cobra.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/msi-tools/coolboost/internal/daemon"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "coolboost",
	Short: "Keep MSI laptop temperatures low with cooler boost",
	Long: `coolboost reads CPU and GPU temperatures from the msi-ec kernel driver
and toggles cooler boost with hysteresis so the fans do not flap.

Requires the msi-ec driver (https://github.com/BeardOverflow/msi-ec).
Writing cooler boost usually needs root.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.coolboost/config.toml)")
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig honours --config, falling back to the default location.
func loadConfig() (daemon.Config, error) {
	if configPath != "" {
		return daemon.LoadConfigFile(configPath)
	}
	return daemon.LoadConfig()
}

// openDaemon builds a daemon from the effective config.
func openDaemon() (*daemon.Daemon, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return daemon.NewWithConfig(cfg)
}
