package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcoot/battle-royale/internal/api/response"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the arena server is up and how many matches it is ticking",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var health response.Health
			if err := client.Get("/api/v1/health", &health); err != nil {
				return fmt.Errorf("arena unreachable at %s: %w", cfg.ServerURL, err)
			}
			newOutput(cmd).Print(health)
			return nil
		},
	}
}
