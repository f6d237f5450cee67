package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcoot/battle-royale/internal/api/response"
)

func newMatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Match commands",
	}

	cmd.AddCommand(newMatchCreateCmd())
	cmd.AddCommand(newMatchListCmd())
	cmd.AddCommand(newMatchGetCmd())
	cmd.AddCommand(newMatchControlCmd("start", "Start the match loop"))
	cmd.AddCommand(newMatchControlCmd("pause", "Pause a running match"))
	cmd.AddCommand(newMatchControlCmd("resume", "Resume a paused match"))
	cmd.AddCommand(newMatchControlCmd("restart", "Reset the roster and start again"))
	cmd.AddCommand(newMatchControlCmd("round", "Resolve a single round by hand"))
	cmd.AddCommand(newMatchDeleteCmd())
	cmd.AddCommand(newMatchLeaderboardCmd())
	cmd.AddCommand(newMatchRoundsCmd())

	return cmd
}

func newMatchCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Create a match from the stored settings",
		Long: `Create a match from the stored settings.

The host key is printed once and saved under --key-dir so later
control commands for this match pick it up automatically.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.CreateMatchResponse

			if err := client.Post("/api/v1/matches", nil, &result); err != nil {
				return err
			}

			if err := cfg.SaveHostKey(result.Match.ID, result.HostKey); err != nil {
				return fmt.Errorf("failed to save host key: %w", err)
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}
}

func newMatchListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List matches",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []response.Match

			if err := client.Get("/api/v1/matches", &result); err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}
}

func newMatchGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get match state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Match

			if err := client.Get(matchPath(args[0], ""), &result); err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}
}

func newMatchControlCmd(action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   action + " <id>",
		Short: short + " (host only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			host, err := hostClient(args[0])
			if err != nil {
				return err
			}

			var result response.Match
			if err := host.Post(matchPath(args[0], "/"+action), nil, &result); err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}
}

func newMatchDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a match that is not in progress (host only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			host, err := hostClient(id)
			if err != nil {
				return err
			}

			if err := host.Delete(matchPath(id, ""), nil, nil); err != nil {
				return err
			}

			if err := cfg.ForgetHostKey(id); err != nil {
				return err
			}

			newOutput(cmd).PrintMessage(fmt.Sprintf("Deleted match %s", id))
			return nil
		},
	}
}

func newMatchLeaderboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leaderboard <id>",
		Short: "Show the ranked leaderboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []response.LeaderboardItem

			if err := client.Get(matchPath(args[0], "/leaderboard"), &result); err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}
}

func newMatchRoundsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "rounds <id>",
		Short: "Show the round log, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []response.Round

			if err := client.Get(matchPath(args[0], "/rounds"), &result); err != nil {
				return err
			}

			if limit > 0 && len(result) > limit {
				result = result[:limit]
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Only show the latest n rounds")

	return cmd
}

func matchPath(id, suffix string) string {
	return fmt.Sprintf("/api/v1/matches/%s%s", id, suffix)
}
