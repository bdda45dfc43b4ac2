package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msi-tools/coolboost/internal/domain"
)

func init() {
	rootCmd.AddCommand(boostCmd)
}

var boostCmd = &cobra.Command{
	Use:       "boost on|off",
	Short:     "Enable or disable cooler boost",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"on", "off"},
	RunE:      runBoost,
}

func runBoost(cmd *cobra.Command, args []string) error {
	enable := args[0] == "on"

	d, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	if err := d.Gateway.SetBoost(cmd.Context(), enable); err != nil {
		if errors.Is(err, domain.ErrPermissionDenied) {
			fmt.Fprintln(cmd.ErrOrStderr(), "Tip: Try running with sudo for write operations")
		}
		return err
	}

	if enable {
		fmt.Fprintln(cmd.OutOrStdout(), "Cooler boost enabled")
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "Cooler boost disabled")
	}
	return nil
}
