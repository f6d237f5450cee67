package settings

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mcoot/battle-royale/internal/dependencies/random"
	"github.com/mcoot/battle-royale/internal/model"
	"github.com/mcoot/battle-royale/internal/storage"
)

// FallbackEmoji is used once the emoji pool has been used up
const FallbackEmoji = "🐛"

// EmojiPool is the set of emojis handed out to players without a fixed one
var EmojiPool = []string{
	"🐢", "🐲", "🦄", "🐼", "🐷", "🐦", "🐬", "🐘", "🐒", "🐇",
	"🐧", "🐫", "🐠", "🐞", "🐝", "🐳", "🐶", "🐌", "🐻", "🦍",
}

var fixedEmojis = map[string]string{
	"Calle": "🦁",
	"Maria": "🐥",
}

// ServiceInterface defines the settings operations used by handlers
type ServiceInterface interface {
	Save(ctx context.Context, settings model.Settings) (*model.Settings, error)
	Get(ctx context.Context) (*model.Settings, error)
	Default() model.Settings
}

// Service validates and stores the roster and tick interval for new matches
type Service struct {
	storage storage.Storage
	random  random.Random
	logger  *slog.Logger
}

// Ensure Service implements ServiceInterface
var _ ServiceInterface = (*Service)(nil)

// New creates a new settings service
func New(storage storage.Storage, random random.Random, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		random:  random,
		logger:  logger,
	}
}

// Save normalizes, validates and persists settings. Display names are drawn
// once here and stored with the settings.
func (s *Service) Save(ctx context.Context, settings model.Settings) (*model.Settings, error) {
	normalized, err := Normalize(settings)
	if err != nil {
		return nil, err
	}
	normalized.DisplayNames = s.DecorateNames(normalized.PlayerNames)

	if err := s.storage.SaveSettings(ctx, normalized); err != nil {
		return nil, err
	}

	s.logger.Info("settings saved",
		slog.Int("player_count", len(normalized.PlayerNames)),
		slog.Int("interval_ms", normalized.IntervalMs),
	)
	return normalized, nil
}

// Get returns the stored settings, or ErrSettingsNotFound
func (s *Service) Get(ctx context.Context) (*model.Settings, error) {
	return s.storage.GetSettings(ctx)
}

// Default returns the stock roster with the default interval and a fresh draw
// of display names
func (s *Service) Default() model.Settings {
	def := model.DefaultSettings()
	def.DisplayNames = s.DecorateNames(def.PlayerNames)
	return def
}

// DecorateNames appends an emoji to every name. Well-known names get a fixed emoji,
// the rest draw from the pool without replacement.
func (s *Service) DecorateNames(names []string) []string {
	pool := append([]string(nil), EmojiPool...)
	decorated := make([]string, len(names))

	for i, name := range names {
		emoji, ok := fixedEmojis[name]
		if !ok {
			emoji = FallbackEmoji
			if len(pool) > 0 {
				idx := s.random.Intn(len(pool))
				emoji = pool[idx]
				pool = append(pool[:idx], pool[idx+1:]...)
			}
		}
		decorated[i] = name + " " + emoji
	}
	return decorated
}

// Normalize trims player names and checks the settings can start a match
func Normalize(settings model.Settings) (*model.Settings, error) {
	if len(settings.PlayerNames) == 0 {
		return nil, fmt.Errorf("%w: at least one player is required", model.ErrInvalidSettings)
	}
	if settings.IntervalMs <= 0 {
		return nil, fmt.Errorf("%w: interval must be positive", model.ErrInvalidSettings)
	}

	names := make([]string, 0, len(settings.PlayerNames))
	seen := make(map[string]bool, len(settings.PlayerNames))
	for _, raw := range settings.PlayerNames {
		name := strings.TrimSpace(raw)
		if name == "" {
			return nil, fmt.Errorf("%w: player names must not be empty", model.ErrInvalidSettings)
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: duplicate player name %q", model.ErrInvalidSettings, name)
		}
		seen[name] = true
		names = append(names, name)
	}

	return &model.Settings{
		PlayerNames: names,
		IntervalMs:  settings.IntervalMs,
	}, nil
}
