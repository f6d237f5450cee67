package storage

import (
	"context"

	"github.com/mcoot/battle-royale/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// Settings operations
	SaveSettings(ctx context.Context, settings *model.Settings) error
	GetSettings(ctx context.Context) (*model.Settings, error)

	// Match operations
	SaveMatch(ctx context.Context, match *model.Match) error
	GetMatch(ctx context.Context, id model.MatchID) (*model.Match, error)
	DeleteMatch(ctx context.Context, id model.MatchID) error
	ListMatches(ctx context.Context) ([]*model.Match, error)

	// History operations
	SaveHistoryItem(ctx context.Context, item *model.HistoryItem) error
	GetHistory(ctx context.Context) ([]*model.HistoryItem, error)
	DeleteHistoryItems(ctx context.Context, keys []int64) error
}
