package memory

import (
	"context"
	"sync"

	"github.com/mcoot/battle-royale/internal/model"
	"github.com/mcoot/battle-royale/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Values are copied on the way in and out so callers never share state.
type Storage struct {
	mu sync.RWMutex

	settings *model.Settings
	matches  map[model.MatchID]*model.Match
	history  map[int64]*model.HistoryItem
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		matches: make(map[model.MatchID]*model.Match),
		history: make(map[int64]*model.HistoryItem),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Settings operations

func (s *Storage) SaveSettings(ctx context.Context, settings *model.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = cloneSettings(settings)
	return nil
}

func (s *Storage) GetSettings(ctx context.Context) (*model.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.settings == nil {
		return nil, model.ErrSettingsNotFound
	}
	return cloneSettings(s.settings), nil
}

func cloneSettings(settings *model.Settings) *model.Settings {
	c := settings.Clone()
	return &c
}

// Match operations

func (s *Storage) SaveMatch(ctx context.Context, match *model.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matches[match.ID] = match.Clone()
	return nil
}

func (s *Storage) GetMatch(ctx context.Context, id model.MatchID) (*model.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	match, ok := s.matches[id]
	if !ok {
		return nil, model.ErrMatchNotFound
	}
	return match.Clone(), nil
}

func (s *Storage) DeleteMatch(ctx context.Context, id model.MatchID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.matches, id)
	return nil
}

func (s *Storage) ListMatches(ctx context.Context) ([]*model.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matches := make([]*model.Match, 0, len(s.matches))
	for _, match := range s.matches {
		matches = append(matches, match.Clone())
	}
	return matches, nil
}

// History operations

func (s *Storage) SaveHistoryItem(ctx context.Context, item *model.HistoryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history[item.Key()] = cloneHistoryItem(item)
	return nil
}

func (s *Storage) GetHistory(ctx context.Context) ([]*model.HistoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]*model.HistoryItem, 0, len(s.history))
	for _, item := range s.history {
		items = append(items, cloneHistoryItem(item))
	}
	return items, nil
}

func (s *Storage) DeleteHistoryItems(ctx context.Context, keys []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.history, key)
	}
	return nil
}

func cloneHistoryItem(item *model.HistoryItem) *model.HistoryItem {
	c := *item
	c.Leaderboard = append([]model.LeaderboardItem(nil), item.Leaderboard...)
	return &c
}
