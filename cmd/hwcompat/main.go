package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hwcompat/hwcompat/internal/version"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "hwcompat",
	Short: "Hardware and driver compatibility audit tool",
	Long: `hwcompat audits the machine's hardware inventory and loaded kernel
modules against a device/driver deprecation database and reports which
devices or drivers become unsupported or removed in a target OS version.

The audit is read-only: no driver or device state is ever modified.`,
	Version: version.Version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is /etc/hwcompat/config.yaml)")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(historyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
