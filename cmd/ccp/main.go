package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/systmms/cyberark-ccp/cmd/ccp/commands"
	"github.com/systmms/cyberark-ccp/internal/config"
	"github.com/systmms/cyberark-ccp/internal/logging"
	"github.com/systmms/cyberark-ccp/internal/metrics"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Global flags
	var (
		configFile     string
		noColor        bool
		debug          bool
		nonInteractive bool
		enableMetrics  bool
	)

	// Create config placeholder
	cfg := &config.Config{}

	rootCmd := &cobra.Command{
		Use:   "ccp",
		Short: "Retrieve credentials from a CyberArk Central Credential Provider",
		Long: `ccp fetches account passwords from a CyberArk Central Credential
Provider (CCP) web service, authenticating the application by client
certificate or allowed-machine rules configured in PVWA.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Initialize logger with parsed flags
			logger := logging.New(debug, noColor)

			// Update config with parsed values
			cfg.Path = configFile
			cfg.Logger = logger
			cfg.NonInteractive = nonInteractive

			if enableMetrics {
				metrics.Init()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "ccp.yaml", "Config file path")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&nonInteractive, "non-interactive", false, "Non-interactive mode")
	rootCmd.PersistentFlags().BoolVar(&enableMetrics, "metrics", false, "Register Prometheus retrieval metrics")

	// Add commands
	rootCmd.AddCommand(
		commands.NewGetCommand(cfg),
		commands.NewCheckCommand(cfg),
	)

	return rootCmd.Execute()
}
