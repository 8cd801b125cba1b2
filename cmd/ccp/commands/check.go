package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/systmms/cyberark-ccp/internal/config"
	"github.com/systmms/cyberark-ccp/pkg/ccp"
)

func NewCheckCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration without contacting the CCP",
		Long: `Load and validate the configuration file, then construct a client
from it. Certificate paths are checked for readability; no request is
sent to the CCP.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Load(); err != nil {
				return err
			}
			cfg.Logger.Info("Configuration is valid: %s", cfg.Path)

			ep := cfg.Definition.Endpoint
			cfg.Logger.Info("Endpoint: %s (AppID: %s)", ep.URL, ep.AppID)
			if ep.Cert != "" {
				cfg.Logger.Info("Client certificate: %s", ep.Cert)
			} else {
				cfg.Logger.Warn("No client certificate configured; the CCP must allow this machine by address or OS user")
			}
			if ep.SkipVerify {
				cfg.Logger.Warn("TLS verification is disabled (skip_verify: true)")
			}

			client, err := ccp.New(cfg.ClientConfig())
			if err != nil {
				return fmt.Errorf("client construction failed: %w", err)
			}
			defer client.Close()
			cfg.Logger.Info("Client constructed successfully")

			return nil
		},
	}

	return cmd
}
