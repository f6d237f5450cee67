package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "royale",
		Short: "CLI tool for the battle royale API",
		Long: `royale is a CLI tool for hosting and watching battle royale matches.

It supports all API operations including settings, match control,
history management and real-time SSE event streaming. The simulate
command runs a whole match locally without a server.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			client = NewClient(cfg.ServerURL)
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: ROYALE_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.HostKey, "host-key", cfg.HostKey, "Host key for match control (env: ROYALE_HOST_KEY)")
	rootCmd.PersistentFlags().StringVar(&cfg.KeyDir, "key-dir", cfg.KeyDir, "Directory for saved host keys (env: ROYALE_KEY_DIR)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(newSettingsCmd())
	rootCmd.AddCommand(newMatchCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newEventsCmd())
	rootCmd.AddCommand(newHealthCmd())
	rootCmd.AddCommand(newSimulateCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// hostClient returns a client carrying the host key for a match
func hostClient(matchID string) (*Client, error) {
	key, err := cfg.LoadHostKey(matchID)
	if err != nil {
		return nil, err
	}
	return client.WithHostKey(key), nil
}

func newOutput(cmd *cobra.Command) *Output {
	return NewOutput(cfg.Output, cmd.OutOrStdout())
}
