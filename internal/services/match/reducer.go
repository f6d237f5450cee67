package match

import (
	"fmt"

	"github.com/mcoot/battle-royale/internal/dependencies/clock"
	"github.com/mcoot/battle-royale/internal/model"
	"github.com/mcoot/battle-royale/internal/services/battle"
)

// ActionType identifies a lifecycle action
type ActionType string

const (
	ActionInit           ActionType = "init"
	ActionStart          ActionType = "start"
	ActionPause          ActionType = "pause"
	ActionResume         ActionType = "resume"
	ActionCalculateRound ActionType = "calculate_round"
	ActionFinish         ActionType = "finish"
	ActionRestart        ActionType = "restart"
)

// Action is a request to move a match through its lifecycle.
// ID, Settings and HostKeyHash are only read by ActionInit.
type Action struct {
	Type        ActionType
	ID          model.MatchID
	Settings    model.Settings
	HostKeyHash string
}

// Reducer applies actions to match state. It never touches storage.
type Reducer struct {
	resolver battle.ServiceInterface
	clock    clock.Clock
}

// NewReducer creates a new Reducer
func NewReducer(resolver battle.ServiceInterface, clock clock.Clock) *Reducer {
	return &Reducer{
		resolver: resolver,
		clock:    clock,
	}
}

// Reduce returns the state that results from applying action to m.
// The input match is not modified. Illegal actions return ErrInvalidTransition.
func (r *Reducer) Reduce(m model.Match, action Action) (model.Match, error) {
	next := *m.Clone()
	now := r.clock.Now()

	switch action.Type {
	case ActionInit:
		if m.State != "" {
			return m, invalid(action, m.State)
		}
		next = model.Match{
			ID:          action.ID,
			State:       model.MatchStateInitialized,
			Settings:    action.Settings.Clone(),
			Players:     model.NewRoster(action.Settings.RosterNames()),
			Rounds:      []model.Round{},
			HostKeyHash: action.HostKeyHash,
			CreatedAt:   now,
		}

	case ActionStart:
		if m.State != model.MatchStateInitialized {
			return m, invalid(action, m.State)
		}
		next.State = model.MatchStateRunning
		next.StartedAt = &now

	case ActionPause:
		if m.State != model.MatchStateRunning {
			return m, invalid(action, m.State)
		}
		next.State = model.MatchStatePaused

	case ActionResume:
		if m.State != model.MatchStatePaused {
			return m, invalid(action, m.State)
		}
		next.State = model.MatchStateRunning

	case ActionCalculateRound:
		if m.State != model.MatchStateRunning {
			return m, invalid(action, m.State)
		}
		next.Rounds, next.Players = r.resolver.ResolveRound(next.Rounds, next.Players)

	case ActionFinish:
		if !m.IsInProgress() {
			return m, invalid(action, m.State)
		}
		next.State = model.MatchStateFinished
		next.FinishedAt = &now

	case ActionRestart:
		if m.State == "" {
			return m, invalid(action, m.State)
		}
		next.State = model.MatchStateInitialized
		next.Players = model.NewRoster(next.Settings.RosterNames())
		next.Rounds = []model.Round{}
		next.StartedAt = nil
		next.FinishedAt = nil

	default:
		return m, fmt.Errorf("%w: unknown action %q", model.ErrInvalidTransition, action.Type)
	}

	next.UpdatedAt = now
	return next, nil
}

func invalid(action Action, state model.MatchState) error {
	if state == "" {
		state = "idle"
	}
	return fmt.Errorf("%w: cannot %s a match that is %s", model.ErrInvalidTransition, action.Type, state)
}
