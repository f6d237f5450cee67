// Package storagetest holds behaviour every storage backend must share.
package storagetest

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/battle-royale/internal/model"
	"github.com/mcoot/battle-royale/internal/storage"
)

// Suite runs the common storage contract. Backends embed it and set Storage
// and Ctx in SetupTest.
type Suite struct {
	suite.Suite
	Storage storage.Storage
	Ctx     context.Context
}

func intPtr(v int) *int { return &v }

func (s *Suite) sampleMatch(id model.MatchID) *model.Match {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return &model.Match{
		ID:    id,
		State: model.MatchStateRunning,
		Settings: model.Settings{
			PlayerNames: []string{"A", "B"},
			IntervalMs:  1000,
		},
		Players: []model.Player{
			{Name: "A", HP: 80},
			{Name: "B", HP: 0, DiedAtRound: intPtr(1)},
		},
		Rounds: []model.Round{
			{Number: 1, Attacks: []model.Attack{
				{PlayerName: "A", EnemyName: "B", Weapon: "Svärd ⚔️", Damage: 30, IsCriticalHit: true, IsDeathblow: true},
			}},
		},
		HostKeyHash: "hash",
		CreatedAt:   created,
		UpdatedAt:   created,
		StartedAt:   &created,
	}
}

func (s *Suite) sampleHistoryItem(date time.Time) *model.HistoryItem {
	return &model.HistoryItem{
		Date:    date,
		MatchID: "match-1",
		Rounds:  3,
		Leaderboard: []model.LeaderboardItem{
			{Player: model.Player{Name: "A", HP: 40}, Position: 1},
			{Player: model.Player{Name: "B", HP: 0, DiedAtRound: intPtr(3)}, Position: 2},
		},
	}
}

// Settings tests

func (s *Suite) TestGetSettingsNotFound() {
	_, err := s.Storage.GetSettings(s.Ctx)
	s.ErrorIs(err, model.ErrSettingsNotFound)
}

func (s *Suite) TestSaveAndGetSettings() {
	settings := &model.Settings{PlayerNames: []string{"Calle", "Maria"}, DisplayNames: []string{"Calle 🦁", "Maria 🐥"}, IntervalMs: 2500}

	s.Require().NoError(s.Storage.SaveSettings(s.Ctx, settings))

	retrieved, err := s.Storage.GetSettings(s.Ctx)
	s.Require().NoError(err)
	s.Equal(settings, retrieved)
}

func (s *Suite) TestSaveSettingsOverwrites() {
	s.Require().NoError(s.Storage.SaveSettings(s.Ctx, &model.Settings{PlayerNames: []string{"A"}, IntervalMs: 1}))
	s.Require().NoError(s.Storage.SaveSettings(s.Ctx, &model.Settings{PlayerNames: []string{"B", "C"}, IntervalMs: 2}))

	retrieved, err := s.Storage.GetSettings(s.Ctx)
	s.Require().NoError(err)
	s.Equal([]string{"B", "C"}, retrieved.PlayerNames)
	s.Equal(2, retrieved.IntervalMs)
}

// Match tests

func (s *Suite) TestSaveAndGetMatch() {
	match := s.sampleMatch("match-1")

	s.Require().NoError(s.Storage.SaveMatch(s.Ctx, match))

	retrieved, err := s.Storage.GetMatch(s.Ctx, "match-1")
	s.Require().NoError(err)
	s.Equal(match.ID, retrieved.ID)
	s.Equal(match.State, retrieved.State)
	s.Equal(match.Settings, retrieved.Settings)
	s.Equal(match.Players, retrieved.Players)
	s.Equal(match.Rounds, retrieved.Rounds)
	s.Equal(match.HostKeyHash, retrieved.HostKeyHash)
	s.True(match.CreatedAt.Equal(retrieved.CreatedAt))
	s.Require().NotNil(retrieved.StartedAt)
	s.True(match.StartedAt.Equal(*retrieved.StartedAt))
	s.Nil(retrieved.FinishedAt)
}

func (s *Suite) TestGetMatchNotFound() {
	_, err := s.Storage.GetMatch(s.Ctx, "nonexistent")
	s.ErrorIs(err, model.ErrMatchNotFound)
}

func (s *Suite) TestSaveMatchUpdates() {
	match := s.sampleMatch("match-1")
	s.Require().NoError(s.Storage.SaveMatch(s.Ctx, match))

	match.State = model.MatchStateFinished
	match.Players[0].HP = 10
	s.Require().NoError(s.Storage.SaveMatch(s.Ctx, match))

	retrieved, err := s.Storage.GetMatch(s.Ctx, "match-1")
	s.Require().NoError(err)
	s.Equal(model.MatchStateFinished, retrieved.State)
	s.Equal(10, retrieved.Players[0].HP)
}

func (s *Suite) TestDeleteMatch() {
	s.Require().NoError(s.Storage.SaveMatch(s.Ctx, s.sampleMatch("match-1")))

	s.Require().NoError(s.Storage.DeleteMatch(s.Ctx, "match-1"))

	_, err := s.Storage.GetMatch(s.Ctx, "match-1")
	s.ErrorIs(err, model.ErrMatchNotFound)

	matches, err := s.Storage.ListMatches(s.Ctx)
	s.Require().NoError(err)
	s.Empty(matches)
}

func (s *Suite) TestListMatches() {
	s.Require().NoError(s.Storage.SaveMatch(s.Ctx, s.sampleMatch("match-1")))
	s.Require().NoError(s.Storage.SaveMatch(s.Ctx, s.sampleMatch("match-2")))

	matches, err := s.Storage.ListMatches(s.Ctx)
	s.Require().NoError(err)
	s.Len(matches, 2)

	ids := []model.MatchID{matches[0].ID, matches[1].ID}
	s.ElementsMatch([]model.MatchID{"match-1", "match-2"}, ids)
}

func (s *Suite) TestListMatchesEmpty() {
	matches, err := s.Storage.ListMatches(s.Ctx)
	s.Require().NoError(err)
	s.NotNil(matches)
	s.Empty(matches)
}

// History tests

func (s *Suite) TestSaveAndGetHistory() {
	date := time.Date(2024, 5, 1, 12, 30, 0, 123000000, time.UTC)
	item := s.sampleHistoryItem(date)

	s.Require().NoError(s.Storage.SaveHistoryItem(s.Ctx, item))

	items, err := s.Storage.GetHistory(s.Ctx)
	s.Require().NoError(err)
	s.Require().Len(items, 1)
	s.Equal(item.Key(), items[0].Key())
	s.Equal(item.MatchID, items[0].MatchID)
	s.Equal(item.Rounds, items[0].Rounds)
	s.Equal(item.Leaderboard, items[0].Leaderboard)
}

func (s *Suite) TestSaveHistoryItemSameDateReplaces() {
	date := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	s.Require().NoError(s.Storage.SaveHistoryItem(s.Ctx, s.sampleHistoryItem(date)))

	replacement := s.sampleHistoryItem(date)
	replacement.IsSaved = true
	s.Require().NoError(s.Storage.SaveHistoryItem(s.Ctx, replacement))

	items, err := s.Storage.GetHistory(s.Ctx)
	s.Require().NoError(err)
	s.Require().Len(items, 1)
	s.True(items[0].IsSaved)
}

func (s *Suite) TestDeleteHistoryItems() {
	first := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)
	third := second.Add(time.Hour)
	for _, date := range []time.Time{first, second, third} {
		s.Require().NoError(s.Storage.SaveHistoryItem(s.Ctx, s.sampleHistoryItem(date)))
	}

	s.Require().NoError(s.Storage.DeleteHistoryItems(s.Ctx, []int64{first.UnixMilli(), third.UnixMilli(), 42}))

	items, err := s.Storage.GetHistory(s.Ctx)
	s.Require().NoError(err)
	s.Require().Len(items, 1)
	s.Equal(second.UnixMilli(), items[0].Key())
}

func (s *Suite) TestDeleteHistoryItemsEmpty() {
	s.NoError(s.Storage.DeleteHistoryItems(s.Ctx, nil))
}
