package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/battle-royale/internal/api/request"
	"github.com/mcoot/battle-royale/internal/api/response"
)

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Match settings commands",
	}

	cmd.AddCommand(newSettingsGetCmd())
	cmd.AddCommand(newSettingsSetCmd())
	cmd.AddCommand(newSettingsDefaultCmd())

	return cmd
}

func newSettingsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Show the stored settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Settings

			if err := client.Get("/api/v1/settings", &result); err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}
}

func newSettingsSetCmd() *cobra.Command {
	var intervalMs int

	cmd := &cobra.Command{
		Use:   "set <name>...",
		Short: "Store the player roster and round interval",
		Long: `Store the settings used by new matches.

Names may be given as separate arguments or as a single
comma-separated list.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if intervalMs <= 0 {
				return fmt.Errorf("interval must be positive")
			}

			req := request.SettingsRequest{
				PlayerNames: splitNames(args),
				IntervalMs:  intervalMs,
			}

			var result response.Settings
			if err := client.Put("/api/v1/settings", req, &result); err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().IntVarP(&intervalMs, "interval", "i", 5000, "Milliseconds between rounds")

	return cmd
}

func newSettingsDefaultCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "default",
		Short: "Show the default settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Settings

			if err := client.Get("/api/v1/settings/default", &result); err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}
}

// splitNames accepts "a b c" and "a,b,c" alike
func splitNames(args []string) []string {
	var names []string
	for _, arg := range args {
		for _, name := range strings.Split(arg, ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
	}
	return names
}
