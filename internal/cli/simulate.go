package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/battle-royale/internal/api/response"
	"github.com/mcoot/battle-royale/internal/dependencies/random"
	"github.com/mcoot/battle-royale/internal/factory"
	"github.com/mcoot/battle-royale/internal/model"
	"github.com/mcoot/battle-royale/internal/services/hostkey"
)

func newSimulateCmd() *cobra.Command {
	var (
		names    []string
		interval time.Duration
		seed     uint64
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a whole match locally and print the round log",
		Long: `Run a match in-process without a server.

Rounds are printed as they are resolved, followed by the final
leaderboard and the winner announcement. The default roster is used
unless --names is given. Passing --seed replays the same match.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			var rnd random.Random
			if cmd.Flags().Changed("seed") {
				rnd = random.NewSeeded(seed)
			}
			return simulate(ctx, newOutput(cmd), splitNames(names), interval, rnd)
		},
	}

	cmd.Flags().StringSliceVar(&names, "names", nil, "Player names (default roster if empty)")
	cmd.Flags().DurationVar(&interval, "interval", 200*time.Millisecond, "Time between rounds")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Seed for a reproducible match")

	return cmd
}

// roundWatcher wakes the printer whenever a match event is published
type roundWatcher struct {
	wake chan struct{}
}

func (w *roundWatcher) Notify(model.Event) {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func simulate(ctx context.Context, out *Output, names []string, interval time.Duration, rnd random.Random) error {
	if interval <= 0 {
		return fmt.Errorf("interval must be positive")
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if cfg != nil && cfg.Verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	app, err := factory.New(factory.Config{
		Logger:        logger,
		StorageType:   factory.StorageTypeMemory,
		HostKeyConfig: hostkey.Config{Cost: bcrypt.MinCost},
		Random:        rnd,
	})
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	settings := app.SettingsService.Default()
	if len(names) > 0 {
		settings.PlayerNames = names
	}
	settings.IntervalMs = int(interval / time.Millisecond)
	if settings.IntervalMs == 0 {
		settings.IntervalMs = 1
	}
	if _, err := app.SettingsService.Save(ctx, settings); err != nil {
		return err
	}

	m, _, err := app.MatchController.CreateMatch(ctx)
	if err != nil {
		return err
	}

	watcher := &roundWatcher{wake: make(chan struct{}, 1)}
	app.MatchController.Subscribe(watcher)

	if _, err := app.Scheduler.Start(ctx, m.ID); err != nil {
		return err
	}

	printed := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-watcher.wake:
		}

		current, err := app.MatchController.GetMatch(ctx, m.ID)
		if err != nil {
			return err
		}

		for _, r := range current.Rounds[printed:] {
			out.Print(response.RoundFromModel(r))
		}
		printed = len(current.Rounds)

		if current.State == model.MatchStateFinished {
			ranking := app.Leaderboard.Rank(current.Players)
			out.Print(response.LeaderboardFromModel(ranking))
			out.PrintMessage(app.Leaderboard.Announcement(ranking))
			return nil
		}
	}
}
