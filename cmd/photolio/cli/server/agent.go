package server

import (
	"context"
	"fmt"

	"github.com/mwantia/photolio/internal/agent"
	"github.com/spf13/cobra"

	config "github.com/mwantia/photolio/internal/config/server"
)

func NewAgentCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Start the Photolio server agent",
		Long: `Start the Photolio server agent.

The agent opens the metadata store, applies pending migrations and serves
the photo library API until it receives an interrupt.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadServerConfig()
			if err != nil {
				return fmt.Errorf("failed to load server configuration: %w", err)
			}

			return agent.NewAgent(cfg).Serve(context.Background())
		},
	}

	return cmd
}
