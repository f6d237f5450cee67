package history

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/mcoot/battle-royale/internal/dependencies/clock"
	"github.com/mcoot/battle-royale/internal/model"
	"github.com/mcoot/battle-royale/internal/services/leaderboard"
	"github.com/mcoot/battle-royale/internal/storage"
)

// ServiceInterface defines the history operations used by handlers and the match controller
type ServiceInterface interface {
	Record(ctx context.Context, match *model.Match) (*model.HistoryItem, error)
	List(ctx context.Context) ([]*model.HistoryItem, error)
	Remove(ctx context.Context, dates []time.Time) (int, error)
	LoadSeed(ctx context.Context, path string) (int, error)
	Export(ctx context.Context) ([]*model.HistoryItem, error)
}

// Service keeps the record of finished matches
type Service struct {
	storage     storage.Storage
	leaderboard leaderboard.ServiceInterface
	clock       clock.Clock
	logger      *slog.Logger

	seeds singleflight.Group

	// serializes Record so two matches never claim the same date
	mu sync.Mutex
}

// Ensure Service implements ServiceInterface
var _ ServiceInterface = (*Service)(nil)

// New creates a new history service
func New(storage storage.Storage, leaderboard leaderboard.ServiceInterface, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage:     storage,
		leaderboard: leaderboard,
		clock:       clock,
		logger:      logger,
	}
}

// Record stores the final leaderboard of a match, dated now. Items are keyed by
// date, so a match finishing in a millisecond that is already taken is dated
// at the next free millisecond.
func (s *Service) Record(ctx context.Context, match *model.Match) (*model.HistoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	date, err := s.freeDate(ctx, s.clock.Now().Truncate(time.Millisecond))
	if err != nil {
		return nil, fmt.Errorf("record history for match %s: %w", match.ID, err)
	}

	item := &model.HistoryItem{
		Date:        date,
		MatchID:     match.ID,
		Rounds:      match.CurrentRound(),
		Leaderboard: s.leaderboard.Rank(match.Players),
	}

	if err := s.storage.SaveHistoryItem(ctx, item); err != nil {
		return nil, fmt.Errorf("record history for match %s: %w", match.ID, err)
	}

	s.logger.Info("history recorded",
		slog.String("match_id", string(match.ID)),
		slog.Int("rounds", item.Rounds),
	)
	return item, nil
}

func (s *Service) freeDate(ctx context.Context, date time.Time) (time.Time, error) {
	items, err := s.storage.GetHistory(ctx)
	if err != nil {
		return time.Time{}, err
	}
	taken := make(map[int64]bool, len(items))
	for _, item := range items {
		taken[item.Key()] = true
	}
	for taken[date.UnixMilli()] {
		date = date.Add(time.Millisecond)
	}
	return date, nil
}

// List returns all items, newest first
func (s *Service) List(ctx context.Context) ([]*model.HistoryItem, error) {
	items, err := s.storage.GetHistory(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Key() > items[j].Key()
	})
	return items, nil
}

// Remove deletes the items with the given dates and reports how many existed.
// It returns ErrHistoryNotFound when none of the dates matched.
func (s *Service) Remove(ctx context.Context, dates []time.Time) (int, error) {
	if len(dates) == 0 {
		return 0, nil
	}

	items, err := s.storage.GetHistory(ctx)
	if err != nil {
		return 0, err
	}
	existing := make(map[int64]bool, len(items))
	for _, item := range items {
		existing[item.Key()] = true
	}

	keys := make([]int64, 0, len(dates))
	for _, date := range dates {
		if key := date.UnixMilli(); existing[key] {
			keys = append(keys, key)
			delete(existing, key)
		}
	}
	if len(keys) == 0 {
		return 0, model.ErrHistoryNotFound
	}

	if err := s.storage.DeleteHistoryItems(ctx, keys); err != nil {
		return 0, err
	}

	s.logger.Info("history removed", slog.Int("count", len(keys)))
	return len(keys), nil
}

// LoadSeed merges a JSON file of saved items into storage. Seeded items replace
// stored items with the same date. Concurrent loads of the same file share one read.
func (s *Service) LoadSeed(ctx context.Context, path string) (int, error) {
	v, err, _ := s.seeds.Do(path, func() (any, error) {
		return s.loadSeed(ctx, path)
	})
	if err != nil {
		return 0, err
	}
	return v.(int), nil
}

func (s *Service) loadSeed(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read history seed: %w", err)
	}

	var items []*model.HistoryItem
	if err := json.Unmarshal(data, &items); err != nil {
		return 0, fmt.Errorf("decode history seed %s: %w", path, err)
	}

	for _, item := range items {
		item.IsSaved = true
		if err := s.storage.SaveHistoryItem(ctx, item); err != nil {
			return 0, err
		}
	}

	s.logger.Info("history seed loaded",
		slog.String("path", path),
		slog.Int("count", len(items)),
	)
	return len(items), nil
}

// Export returns every item, newest first, marked as saved
func (s *Service) Export(ctx context.Context) ([]*model.HistoryItem, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		item.IsSaved = true
	}
	return items, nil
}
