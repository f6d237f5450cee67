package match

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/mcoot/battle-royale/internal/dependencies/clock"
	"github.com/mcoot/battle-royale/internal/dependencies/random"
	"github.com/mcoot/battle-royale/internal/model"
	"github.com/mcoot/battle-royale/internal/services/history"
	"github.com/mcoot/battle-royale/internal/services/leaderboard"
	"github.com/mcoot/battle-royale/internal/storage"
)

const (
	idLength   = 8
	idAlphabet = "abcdefghijkmnpqrstuvwxyz23456789"
)

// Notifier receives every event published by the controller.
// Implementations must not block.
type Notifier interface {
	Notify(event model.Event)
}

// HostKeys issues and verifies match host keys
type HostKeys interface {
	Issue() (key string, hash string, err error)
	Verify(hash, key string) error
}

// Controller loads matches, applies lifecycle actions and persists the result
type Controller struct {
	storage     storage.Storage
	reducer     *Reducer
	leaderboard leaderboard.ServiceInterface
	history     history.ServiceInterface
	hostKeys    HostKeys
	clock       clock.Clock
	random      random.Random
	logger      *slog.Logger

	// mu serializes every read-modify-write of a match
	mu sync.Mutex

	notifierMu sync.RWMutex
	notifiers  []Notifier
}

// NewController creates a new match Controller
func NewController(
	storage storage.Storage,
	reducer *Reducer,
	leaderboard leaderboard.ServiceInterface,
	history history.ServiceInterface,
	hostKeys HostKeys,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:     storage,
		reducer:     reducer,
		leaderboard: leaderboard,
		history:     history,
		hostKeys:    hostKeys,
		clock:       clock,
		random:      random,
		logger:      logger,
	}
}

// Subscribe registers a notifier for all future events
func (c *Controller) Subscribe(n Notifier) {
	c.notifierMu.Lock()
	defer c.notifierMu.Unlock()
	c.notifiers = append(c.notifiers, n)
}

func (c *Controller) publish(events ...model.Event) {
	c.notifierMu.RLock()
	defer c.notifierMu.RUnlock()
	for _, event := range events {
		for _, n := range c.notifiers {
			n.Notify(event)
		}
	}
}

func (c *Controller) event(eventType model.EventType, m *model.Match, payload any) model.Event {
	return model.Event{
		Type:      eventType,
		Timestamp: c.clock.Now(),
		MatchID:   m.ID,
		Match:     m.Clone(),
		Payload:   payload,
	}
}

// CreateMatch initializes a match from the stored settings. The returned host key
// is not stored and cannot be recovered.
func (c *Controller) CreateMatch(ctx context.Context) (*model.Match, string, error) {
	settings, err := c.storage.GetSettings(ctx)
	if err != nil {
		return nil, "", err
	}

	key, hash, err := c.hostKeys.Issue()
	if err != nil {
		return nil, "", err
	}

	id := model.MatchID(c.random.String(idLength, idAlphabet))

	c.mu.Lock()
	m, err := c.reducer.Reduce(model.Match{}, Action{
		Type:        ActionInit,
		ID:          id,
		Settings:    *settings,
		HostKeyHash: hash,
	})
	if err == nil {
		err = c.storage.SaveMatch(ctx, &m)
	}
	c.mu.Unlock()
	if err != nil {
		c.logger.Error("failed to create match",
			slog.String("match_id", string(id)),
			slog.String("error", err.Error()),
		)
		return nil, "", err
	}

	c.logger.Info("match created",
		slog.String("match_id", string(id)),
		slog.Int("player_count", len(m.Players)),
		slog.Int("interval_ms", m.Settings.IntervalMs),
	)
	c.publish(c.event(model.EventMatchInitialized, &m, nil))
	return &m, key, nil
}

// GetMatch retrieves a match by ID
func (c *Controller) GetMatch(ctx context.Context, id model.MatchID) (*model.Match, error) {
	return c.storage.GetMatch(ctx, id)
}

// ListMatches returns all matches, newest first
func (c *Controller) ListMatches(ctx context.Context) ([]*model.Match, error) {
	matches, err := c.storage.ListMatches(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	return matches, nil
}

// VerifyHostKey checks that key controls the match
func (c *Controller) VerifyHostKey(ctx context.Context, id model.MatchID, key string) error {
	m, err := c.storage.GetMatch(ctx, id)
	if err != nil {
		return err
	}
	return c.hostKeys.Verify(m.HostKeyHash, key)
}

// Start moves an initialized match to running
func (c *Controller) Start(ctx context.Context, id model.MatchID) (*model.Match, error) {
	return c.transition(ctx, id, ActionStart, model.EventMatchStarted)
}

// Pause stops rounds from being resolved until Resume
func (c *Controller) Pause(ctx context.Context, id model.MatchID) (*model.Match, error) {
	return c.transition(ctx, id, ActionPause, model.EventMatchPaused)
}

// Resume continues a paused match
func (c *Controller) Resume(ctx context.Context, id model.MatchID) (*model.Match, error) {
	return c.transition(ctx, id, ActionResume, model.EventMatchResumed)
}

// Restart recreates the roster from the match settings and returns it to initialized
func (c *Controller) Restart(ctx context.Context, id model.MatchID) (*model.Match, error) {
	return c.transition(ctx, id, ActionRestart, model.EventMatchRestarted)
}

// Finish ends a running or paused match and records it in the history
func (c *Controller) Finish(ctx context.Context, id model.MatchID) (*model.Match, error) {
	c.mu.Lock()
	m, err := c.load(ctx, id)
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}
	events, err := c.finish(ctx, m)
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}

	c.publish(events...)
	return m, nil
}

// AdvanceRound resolves one round of a running match and finishes it as soon as
// fewer than two players are alive.
func (c *Controller) AdvanceRound(ctx context.Context, id model.MatchID) (*model.Match, error) {
	c.mu.Lock()
	m, err := c.load(ctx, id)
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}
	events, err := c.advance(ctx, m)
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}

	c.publish(events...)
	return m, nil
}

// Tick is one scheduler step. Paused matches are skipped. done reports that the
// match will never advance again.
func (c *Controller) Tick(ctx context.Context, id model.MatchID) (m *model.Match, done bool, err error) {
	c.mu.Lock()
	m, err = c.load(ctx, id)
	if err != nil {
		c.mu.Unlock()
		return nil, true, err
	}

	var events []model.Event
	switch m.State {
	case model.MatchStatePaused:
	case model.MatchStateRunning:
		events, err = c.advance(ctx, m)
	default:
		done = true
	}
	c.mu.Unlock()
	if err != nil {
		return nil, true, err
	}

	c.publish(events...)
	return m, done || m.State == model.MatchStateFinished, nil
}

// DeleteMatch removes a match that is not in progress
func (c *Controller) DeleteMatch(ctx context.Context, id model.MatchID) error {
	c.mu.Lock()
	m, err := c.load(ctx, id)
	if err == nil && m.IsInProgress() {
		err = model.ErrMatchInProgress
	}
	if err == nil {
		err = c.storage.DeleteMatch(ctx, id)
	}
	c.mu.Unlock()
	if err != nil {
		return err
	}

	c.logger.Info("match deleted", slog.String("match_id", string(id)))
	c.publish(model.Event{
		Type:      model.EventMatchDeleted,
		Timestamp: c.clock.Now(),
		MatchID:   id,
	})
	return nil
}

// Leaderboard returns the current ranking of a match
func (c *Controller) Leaderboard(ctx context.Context, id model.MatchID) ([]model.LeaderboardItem, error) {
	m, err := c.storage.GetMatch(ctx, id)
	if err != nil {
		return nil, err
	}
	return c.leaderboard.Rank(m.Players), nil
}

// Rounds returns the round log of a match, most recent first
func (c *Controller) Rounds(ctx context.Context, id model.MatchID) ([]model.Round, error) {
	m, err := c.storage.GetMatch(ctx, id)
	if err != nil {
		return nil, err
	}
	return model.NewestFirst(m.Rounds), nil
}

// transition applies a simple action and publishes eventType on success
func (c *Controller) transition(ctx context.Context, id model.MatchID, actionType ActionType, eventType model.EventType) (*model.Match, error) {
	c.mu.Lock()
	m, err := c.load(ctx, id)
	if err == nil {
		err = c.apply(ctx, m, actionType)
	}
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}

	c.logger.Info("match transition",
		slog.String("match_id", string(id)),
		slog.String("action", string(actionType)),
		slog.String("state", string(m.State)),
	)
	c.publish(c.event(eventType, m, nil))
	return m, nil
}

// Callers hold c.mu for the helpers below.

func (c *Controller) load(ctx context.Context, id model.MatchID) (*model.Match, error) {
	return c.storage.GetMatch(ctx, id)
}

// apply reduces m in place and saves it
func (c *Controller) apply(ctx context.Context, m *model.Match, actionType ActionType) error {
	next, err := c.reducer.Reduce(*m, Action{Type: actionType})
	if err != nil {
		return err
	}
	if err := c.storage.SaveMatch(ctx, &next); err != nil {
		c.logger.Error("failed to save match",
			slog.String("match_id", string(m.ID)),
			slog.String("error", err.Error()),
		)
		return err
	}
	*m = next
	return nil
}

func (c *Controller) advance(ctx context.Context, m *model.Match) ([]model.Event, error) {
	if m.State != model.MatchStateRunning {
		return nil, invalid(Action{Type: ActionCalculateRound}, m.State)
	}
	if m.IsOver() {
		return c.finish(ctx, m)
	}

	if err := c.apply(ctx, m, ActionCalculateRound); err != nil {
		return nil, err
	}

	round := m.Rounds[len(m.Rounds)-1]
	c.logger.Debug("round resolved",
		slog.String("match_id", string(m.ID)),
		slog.Int("round", round.Number),
		slog.Int("alive", m.AliveCount()),
	)
	events := []model.Event{c.event(model.EventRoundResolved, m, model.RoundResolvedPayload{
		Round: round,
		Alive: m.AliveCount(),
	})}

	if m.IsOver() {
		finished, err := c.finish(ctx, m)
		if err != nil {
			return nil, err
		}
		events = append(events, finished...)
	}
	return events, nil
}

func (c *Controller) finish(ctx context.Context, m *model.Match) ([]model.Event, error) {
	if err := c.apply(ctx, m, ActionFinish); err != nil {
		return nil, err
	}

	if _, err := c.history.Record(ctx, m); err != nil {
		// The match itself is finished and saved; a lost history entry is only logged
		c.logger.Error("failed to record history",
			slog.String("match_id", string(m.ID)),
			slog.String("error", err.Error()),
		)
	}

	ranking := c.leaderboard.Rank(m.Players)
	c.logger.Info("match finished",
		slog.String("match_id", string(m.ID)),
		slog.Int("rounds", m.CurrentRound()),
	)
	return []model.Event{c.event(model.EventMatchFinished, m, model.MatchFinishedPayload{
		Winners:      c.leaderboard.Winners(ranking),
		Announcement: c.leaderboard.Announcement(ranking),
	})}, nil
}
