package match

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/battle-royale/internal/dependencies/mocks"
	"github.com/mcoot/battle-royale/internal/dependencies/random"
	"github.com/mcoot/battle-royale/internal/model"
	"github.com/mcoot/battle-royale/internal/services/battle"
	"github.com/mcoot/battle-royale/internal/services/history"
	"github.com/mcoot/battle-royale/internal/services/hostkey"
	"github.com/mcoot/battle-royale/internal/services/leaderboard"
	"github.com/mcoot/battle-royale/internal/storage/memory"
	"github.com/mcoot/battle-royale/internal/testutil"
)

// recorder collects published events
type recorder struct {
	mu     sync.Mutex
	events []model.Event
}

func (r *recorder) Notify(event model.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recorder) types() []model.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]model.EventType, len(r.events))
	for i, e := range r.events {
		types[i] = e.Type
	}
	return types
}

func (r *recorder) last() model.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[len(r.events)-1]
}

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	clock      *mocks.MockClock
	random     *mocks.MockRandom
	history    *history.Service
	controller *Controller
	events     *recorder
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.ctx = context.Background()

	logger := testutil.NopLogger()
	ranking := leaderboard.New()
	s.history = history.New(s.storage, ranking, s.clock, logger)
	s.controller = NewController(
		s.storage,
		NewReducer(battle.New(s.random), s.clock),
		ranking,
		s.history,
		hostkey.New(random.New(), hostkey.Config{Cost: bcrypt.MinCost}),
		s.clock,
		s.random,
		logger,
	)
	s.events = &recorder{}
	s.controller.Subscribe(s.events)

	s.saveSettings("A", "B", "C")
}

func (s *ControllerSuite) saveSettings(names ...string) {
	s.Require().NoError(s.storage.SaveSettings(s.ctx, &model.Settings{PlayerNames: names, IntervalMs: 100}))
}

func (s *ControllerSuite) createMatch(id string) (*model.Match, string) {
	s.random.QueueString(id)
	m, key, err := s.controller.CreateMatch(s.ctx)
	s.Require().NoError(err)
	return m, key
}

func (s *ControllerSuite) startedMatch(id string) *model.Match {
	s.createMatch(id)
	m, err := s.controller.Start(s.ctx, model.MatchID(id))
	s.Require().NoError(err)
	return m
}

// setHP overwrites hit points of a stored match to set up end-game situations
func (s *ControllerSuite) setHP(id model.MatchID, hp ...int) {
	m, err := s.storage.GetMatch(s.ctx, id)
	s.Require().NoError(err)
	for i, v := range hp {
		m.Players[i].HP = v
	}
	s.Require().NoError(s.storage.SaveMatch(s.ctx, m))
}

// CreateMatch tests

func (s *ControllerSuite) TestCreateMatch() {
	m, key := s.createMatch("abc")

	s.Equal(model.MatchID("abc"), m.ID)
	s.Equal(model.MatchStateInitialized, m.State)
	s.Len(m.Players, 3)
	s.NotEmpty(key)
	s.NotEqual(key, m.HostKeyHash)

	stored, err := s.storage.GetMatch(s.ctx, "abc")
	s.Require().NoError(err)
	s.Equal(model.MatchStateInitialized, stored.State)

	s.Equal([]model.EventType{model.EventMatchInitialized}, s.events.types())
}

func (s *ControllerSuite) TestCreateMatchWithoutSettings() {
	s.storage = memory.New()
	s.controller.storage = s.storage

	_, _, err := s.controller.CreateMatch(s.ctx)
	s.ErrorIs(err, model.ErrSettingsNotFound)
}

func (s *ControllerSuite) TestVerifyHostKey() {
	_, key := s.createMatch("abc")

	s.NoError(s.controller.VerifyHostKey(s.ctx, "abc", key))
	s.ErrorIs(s.controller.VerifyHostKey(s.ctx, "abc", "wrong"), model.ErrInvalidHostKey)
	s.ErrorIs(s.controller.VerifyHostKey(s.ctx, "missing", key), model.ErrMatchNotFound)
}

func (s *ControllerSuite) TestListMatchesNewestFirst() {
	s.createMatch("first")
	s.clock.Advance(time.Minute)
	s.createMatch("second")

	matches, err := s.controller.ListMatches(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(matches, 2)
	s.Equal(model.MatchID("second"), matches[0].ID)
	s.Equal(model.MatchID("first"), matches[1].ID)
}

// Transition tests

func (s *ControllerSuite) TestStartPauseResume() {
	s.createMatch("abc")

	m, err := s.controller.Start(s.ctx, "abc")
	s.Require().NoError(err)
	s.Equal(model.MatchStateRunning, m.State)

	m, err = s.controller.Pause(s.ctx, "abc")
	s.Require().NoError(err)
	s.Equal(model.MatchStatePaused, m.State)

	m, err = s.controller.Resume(s.ctx, "abc")
	s.Require().NoError(err)
	s.Equal(model.MatchStateRunning, m.State)

	s.Equal([]model.EventType{
		model.EventMatchInitialized,
		model.EventMatchStarted,
		model.EventMatchPaused,
		model.EventMatchResumed,
	}, s.events.types())
}

func (s *ControllerSuite) TestInvalidTransitionNotSaved() {
	s.createMatch("abc")

	_, err := s.controller.Pause(s.ctx, "abc")
	s.ErrorIs(err, model.ErrInvalidTransition)

	stored, err := s.storage.GetMatch(s.ctx, "abc")
	s.Require().NoError(err)
	s.Equal(model.MatchStateInitialized, stored.State)
	s.Len(s.events.types(), 1)
}

func (s *ControllerSuite) TestTransitionUnknownMatch() {
	_, err := s.controller.Start(s.ctx, "missing")
	s.ErrorIs(err, model.ErrMatchNotFound)
}

// AdvanceRound tests

func (s *ControllerSuite) TestAdvanceRound() {
	s.startedMatch("abc")

	m, err := s.controller.AdvanceRound(s.ctx, "abc")
	s.Require().NoError(err)
	s.Require().Len(m.Rounds, 1)
	s.Len(m.Rounds[0].Attacks, 3)

	event := s.events.last()
	s.Equal(model.EventRoundResolved, event.Type)
	payload, ok := event.Payload.(model.RoundResolvedPayload)
	s.Require().True(ok)
	s.Equal(1, payload.Round.Number)
	s.Equal(3, payload.Alive)
}

func (s *ControllerSuite) TestAdvanceRoundRequiresRunning() {
	s.createMatch("abc")

	_, err := s.controller.AdvanceRound(s.ctx, "abc")
	s.ErrorIs(err, model.ErrInvalidTransition)
}

func (s *ControllerSuite) TestAdvanceRoundFinishesOnLastKill() {
	s.startedMatch("abc")
	s.setHP("abc", 100, 0, 1)

	// A hits C (the only other candidate) for 1
	m, err := s.controller.AdvanceRound(s.ctx, "abc")
	s.Require().NoError(err)

	s.Equal(model.MatchStateFinished, m.State)
	s.Equal(0, m.Players[2].HP)
	s.Require().NotNil(m.Players[2].DiedAtRound)
	s.Equal(1, *m.Players[2].DiedAtRound)

	s.Equal(model.EventMatchFinished, s.events.last().Type)
	payload, ok := s.events.last().Payload.(model.MatchFinishedPayload)
	s.Require().True(ok)
	s.Require().Len(payload.Winners, 1)
	s.Equal("A", payload.Winners[0].Name)
	s.Contains(payload.Announcement, "A")

	items, err := s.history.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(items, 1)
	s.Equal(model.MatchID("abc"), items[0].MatchID)
	s.Equal(1, items[0].Rounds)
}

func (s *ControllerSuite) TestAdvanceRoundFinishesWithoutRoundWhenAlreadyOver() {
	s.saveSettings("Solo")
	s.startedMatch("abc")

	m, err := s.controller.AdvanceRound(s.ctx, "abc")
	s.Require().NoError(err)
	s.Equal(model.MatchStateFinished, m.State)
	s.Empty(m.Rounds)
}

// Tick tests

func (s *ControllerSuite) TestTickSkipsPaused() {
	s.startedMatch("abc")
	_, err := s.controller.Pause(s.ctx, "abc")
	s.Require().NoError(err)

	m, done, err := s.controller.Tick(s.ctx, "abc")
	s.Require().NoError(err)
	s.False(done)
	s.Empty(m.Rounds)
}

func (s *ControllerSuite) TestTickRunning() {
	s.startedMatch("abc")

	m, done, err := s.controller.Tick(s.ctx, "abc")
	s.Require().NoError(err)
	s.False(done)
	s.Len(m.Rounds, 1)
}

func (s *ControllerSuite) TestTickDoneWhenFinishedOrInitialized() {
	s.createMatch("abc")

	_, done, err := s.controller.Tick(s.ctx, "abc")
	s.Require().NoError(err)
	s.True(done)

	_, done, err = s.controller.Tick(s.ctx, "missing")
	s.ErrorIs(err, model.ErrMatchNotFound)
	s.True(done)
}

// Finish tests

func (s *ControllerSuite) TestFinishRecordsHistory() {
	s.startedMatch("abc")

	m, err := s.controller.Finish(s.ctx, "abc")
	s.Require().NoError(err)
	s.Equal(model.MatchStateFinished, m.State)

	items, err := s.history.List(s.ctx)
	s.Require().NoError(err)
	s.Len(items, 1)

	payload, ok := s.events.last().Payload.(model.MatchFinishedPayload)
	s.Require().True(ok)
	s.Len(payload.Winners, 3)
	s.Contains(payload.Announcement, "Multiple winners")
}

// Restart tests

func (s *ControllerSuite) TestRestartKeepsID() {
	s.startedMatch("abc")
	_, err := s.controller.AdvanceRound(s.ctx, "abc")
	s.Require().NoError(err)

	m, err := s.controller.Restart(s.ctx, "abc")
	s.Require().NoError(err)
	s.Equal(model.MatchID("abc"), m.ID)
	s.Equal(model.MatchStateInitialized, m.State)
	s.Empty(m.Rounds)
	s.Equal(model.EventMatchRestarted, s.events.last().Type)
}

// DeleteMatch tests

func (s *ControllerSuite) TestDeleteMatch() {
	s.createMatch("abc")

	s.Require().NoError(s.controller.DeleteMatch(s.ctx, "abc"))

	_, err := s.controller.GetMatch(s.ctx, "abc")
	s.ErrorIs(err, model.ErrMatchNotFound)
	s.Equal(model.EventMatchDeleted, s.events.last().Type)
	s.Nil(s.events.last().Match)
}

func (s *ControllerSuite) TestDeleteMatchInProgress() {
	s.startedMatch("abc")

	s.ErrorIs(s.controller.DeleteMatch(s.ctx, "abc"), model.ErrMatchInProgress)

	_, err := s.controller.Pause(s.ctx, "abc")
	s.Require().NoError(err)
	s.ErrorIs(s.controller.DeleteMatch(s.ctx, "abc"), model.ErrMatchInProgress)
}

func (s *ControllerSuite) TestDeleteMatchNotFound() {
	s.ErrorIs(s.controller.DeleteMatch(s.ctx, "missing"), model.ErrMatchNotFound)
}

// Read model tests

func (s *ControllerSuite) TestLeaderboardAndRounds() {
	s.startedMatch("abc")
	for range 3 {
		_, err := s.controller.AdvanceRound(s.ctx, "abc")
		s.Require().NoError(err)
	}

	rounds, err := s.controller.Rounds(s.ctx, "abc")
	s.Require().NoError(err)
	s.Require().Len(rounds, 3)
	s.Equal(3, rounds[0].Number)
	s.Equal(1, rounds[2].Number)

	board, err := s.controller.Leaderboard(s.ctx, "abc")
	s.Require().NoError(err)
	s.Len(board, 3)
	s.Equal(1, board[0].Position)
}

func (s *ControllerSuite) TestEventsCarrySnapshots() {
	s.startedMatch("abc")

	event := s.events.last()
	s.Require().NotNil(event.Match)
	event.Match.Players[0].HP = 1

	stored, err := s.storage.GetMatch(s.ctx, "abc")
	s.Require().NoError(err)
	s.Equal(model.StartingHP, stored.Players[0].HP)
}
