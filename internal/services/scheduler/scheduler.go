package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/battle-royale/internal/dependencies/clock"
	"github.com/mcoot/battle-royale/internal/model"
)

// Controller is the part of the match controller driven by the scheduler
type Controller interface {
	Start(ctx context.Context, id model.MatchID) (*model.Match, error)
	Pause(ctx context.Context, id model.MatchID) (*model.Match, error)
	Resume(ctx context.Context, id model.MatchID) (*model.Match, error)
	Restart(ctx context.Context, id model.MatchID) (*model.Match, error)
	Tick(ctx context.Context, id model.MatchID) (*model.Match, bool, error)
	ListMatches(ctx context.Context) ([]*model.Match, error)
}

// Scheduler runs one ticker loop per running match
type Scheduler struct {
	controller Controller
	clock      clock.Clock
	logger     *slog.Logger

	mu    sync.Mutex
	loops map[model.MatchID]*loop
}

type loop struct {
	quit chan struct{}
	done chan struct{}
}

// New creates a new Scheduler
func New(controller Controller, clock clock.Clock, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		controller: controller,
		clock:      clock,
		logger:     logger.With(slog.String("component", "scheduler")),
		loops:      make(map[model.MatchID]*loop),
	}
}

// Start starts a match and its loop. The first round is resolved immediately.
func (s *Scheduler) Start(ctx context.Context, id model.MatchID) (*model.Match, error) {
	m, err := s.controller.Start(ctx, id)
	if err != nil {
		return nil, err
	}
	s.run(m)
	return m, nil
}

// Pause pauses a match. Its loop keeps ticking but rounds are skipped.
func (s *Scheduler) Pause(ctx context.Context, id model.MatchID) (*model.Match, error) {
	return s.controller.Pause(ctx, id)
}

// Resume resumes a paused match, starting a loop if none is running
func (s *Scheduler) Resume(ctx context.Context, id model.MatchID) (*model.Match, error) {
	m, err := s.controller.Resume(ctx, id)
	if err != nil {
		return nil, err
	}
	s.run(m)
	return m, nil
}

// Restart stops the loop, resets the match and starts it again under the same ID
func (s *Scheduler) Restart(ctx context.Context, id model.MatchID) (*model.Match, error) {
	s.Stop(id)

	if _, err := s.controller.Restart(ctx, id); err != nil {
		return nil, err
	}
	return s.Start(ctx, id)
}

// Recover starts a loop for every stored match that is running or paused,
// picking up matches left behind by a previous process. It returns how many
// loops were started.
func (s *Scheduler) Recover(ctx context.Context) (int, error) {
	matches, err := s.controller.ListMatches(ctx)
	if err != nil {
		return 0, fmt.Errorf("recover loops: %w", err)
	}

	recovered := 0
	for _, m := range matches {
		if !m.IsInProgress() || s.Running(m.ID) {
			continue
		}
		s.run(m)
		recovered++
	}

	if recovered > 0 {
		s.logger.Info("loops recovered", slog.Int("count", recovered))
	}
	return recovered, nil
}

// Running reports whether a loop is active for the match
func (s *Scheduler) Running(id model.MatchID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.loops[id]
	return ok
}

// Active returns how many match loops are running
func (s *Scheduler) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.loops)
}

// Stop ends the loop of a match and waits for it to exit. The match state is untouched.
func (s *Scheduler) Stop(id model.MatchID) {
	s.mu.Lock()
	l, ok := s.loops[id]
	delete(s.loops, id)
	s.mu.Unlock()

	if ok {
		close(l.quit)
		<-l.done
	}
}

// Shutdown stops every loop
func (s *Scheduler) Shutdown() {
	s.mu.Lock()
	loops := s.loops
	s.loops = make(map[model.MatchID]*loop)
	s.mu.Unlock()

	for _, l := range loops {
		close(l.quit)
	}
	for _, l := range loops {
		<-l.done
	}
	s.logger.Info("scheduler stopped", slog.Int("loops", len(loops)))
}

func (s *Scheduler) run(m *model.Match) {
	s.mu.Lock()
	if _, ok := s.loops[m.ID]; ok {
		s.mu.Unlock()
		return
	}
	l := &loop{
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
	s.loops[m.ID] = l
	s.mu.Unlock()

	interval := m.Settings.Interval()
	if interval <= 0 {
		interval = model.DefaultIntervalMs * time.Millisecond
	}

	s.logger.Info("loop started",
		slog.String("match_id", string(m.ID)),
		slog.Duration("interval", interval),
	)
	go s.loop(m.ID, interval, l)
}

func (s *Scheduler) loop(id model.MatchID, interval time.Duration, l *loop) {
	defer close(l.done)
	defer s.forget(id, l)

	if s.tick(id) {
		return
	}

	ticker := s.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.quit:
			return
		case <-ticker.C():
			if s.tick(id) {
				return
			}
		}
	}
}

// tick advances the match once and reports whether the loop should end
func (s *Scheduler) tick(id model.MatchID) bool {
	m, done, err := s.controller.Tick(context.Background(), id)
	if err != nil {
		s.logger.Error("tick failed",
			slog.String("match_id", string(id)),
			slog.String("error", err.Error()),
		)
		return true
	}
	if done {
		s.logger.Info("loop finished",
			slog.String("match_id", string(id)),
			slog.String("state", string(m.State)),
			slog.Int("rounds", m.CurrentRound()),
		)
	}
	return done
}

func (s *Scheduler) forget(id model.MatchID, l *loop) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loops[id] == l {
		delete(s.loops, id)
	}
}
