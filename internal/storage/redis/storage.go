package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/battle-royale/internal/model"
	"github.com/mcoot/battle-royale/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Settings operations

func (s *Storage) SaveSettings(ctx context.Context, settings *model.Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, settingsKey(), data, 0).Err()
}

func (s *Storage) GetSettings(ctx context.Context) (*model.Settings, error) {
	data, err := s.client.Get(ctx, settingsKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrSettingsNotFound
		}
		return nil, err
	}

	var settings model.Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// Match operations

func (s *Storage) SaveMatch(ctx context.Context, match *model.Match) error {
	data, err := json.Marshal(match)
	if err != nil {
		return err
	}

	key := matchKey(match.ID)

	// Use pipeline for atomic save + index update
	pipe := s.client.Pipeline()
	pipe.Set(ctx, key, data, s.cfg.MatchTTL)
	pipe.SAdd(ctx, matchIndexKey(), key)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetMatch(ctx context.Context, id model.MatchID) (*model.Match, error) {
	data, err := s.client.Get(ctx, matchKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrMatchNotFound
		}
		return nil, err
	}

	var match model.Match
	if err := json.Unmarshal(data, &match); err != nil {
		return nil, err
	}
	return &match, nil
}

func (s *Storage) DeleteMatch(ctx context.Context, id model.MatchID) error {
	key := matchKey(id)

	pipe := s.client.Pipeline()
	pipe.Del(ctx, key)
	pipe.SRem(ctx, matchIndexKey(), key)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) ListMatches(ctx context.Context) ([]*model.Match, error) {
	keys, err := s.client.SMembers(ctx, matchIndexKey()).Result()
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return []*model.Match{}, nil
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	matches := make([]*model.Match, 0, len(values))
	var expired []any
	for i, v := range values {
		if v == nil {
			// Match expired; drop it from the index
			expired = append(expired, keys[i])
			continue
		}
		str, ok := v.(string)
		if !ok {
			continue
		}
		var match model.Match
		if err := json.Unmarshal([]byte(str), &match); err != nil {
			return nil, err
		}
		matches = append(matches, &match)
	}

	if len(expired) > 0 {
		if err := s.client.SRem(ctx, matchIndexKey(), expired...).Err(); err != nil {
			return nil, err
		}
	}
	return matches, nil
}

// History operations

func (s *Storage) SaveHistoryItem(ctx context.Context, item *model.HistoryItem) error {
	data, err := json.Marshal(item)
	if err != nil {
		return err
	}
	return s.client.HSet(ctx, historyKey(), historyField(item.Key()), data).Err()
}

func (s *Storage) GetHistory(ctx context.Context) ([]*model.HistoryItem, error) {
	values, err := s.client.HVals(ctx, historyKey()).Result()
	if err != nil {
		return nil, err
	}

	items := make([]*model.HistoryItem, 0, len(values))
	for _, v := range values {
		var item model.HistoryItem
		if err := json.Unmarshal([]byte(v), &item); err != nil {
			return nil, err
		}
		items = append(items, &item)
	}
	return items, nil
}

func (s *Storage) DeleteHistoryItems(ctx context.Context, keys []int64) error {
	if len(keys) == 0 {
		return nil
	}
	fields := make([]string, len(keys))
	for i, key := range keys {
		fields[i] = historyField(key)
	}
	return s.client.HDel(ctx, historyKey(), fields...).Err()
}

func historyField(key int64) string {
	return strconv.FormatInt(key, 10)
}
