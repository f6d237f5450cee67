package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcoot/battle-royale/internal/api/request"
	"github.com/mcoot/battle-royale/internal/api/response"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Match history commands",
	}

	cmd.AddCommand(newHistoryListCmd())
	cmd.AddCommand(newHistoryRemoveCmd())
	cmd.AddCommand(newHistoryExportCmd())

	return cmd
}

func newHistoryListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List finished matches, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []response.HistoryItem

			if err := client.Get("/api/v1/history", &result); err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}
}

func newHistoryRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <date>...",
		Short: "Remove history items by date (RFC 3339)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dates, err := parseDates(args)
			if err != nil {
				return err
			}

			var result response.RemoveHistoryResponse
			if err := client.Delete("/api/v1/history", request.RemoveHistoryRequest{Dates: dates}, &result); err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}
}

func newHistoryExportCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the history as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []response.HistoryItem

			if err := client.Get("/api/v1/history/export", &result); err != nil {
				return err
			}

			if file == "" {
				NewOutput("json", cmd.OutOrStdout()).Print(result)
				return nil
			}

			f, err := os.Create(file)
			if err != nil {
				return err
			}
			NewOutput("json", f).Print(result)
			if err := f.Close(); err != nil {
				return err
			}

			newOutput(cmd).PrintMessage(fmt.Sprintf("Exported %d items to %s", len(result), file))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Write to a file instead of stdout")

	return cmd
}

func parseDates(args []string) ([]time.Time, error) {
	dates := make([]time.Time, len(args))
	for i, arg := range args {
		d, err := time.Parse(time.RFC3339Nano, arg)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q: %w", arg, err)
		}
		dates[i] = d
	}
	return dates, nil
}
