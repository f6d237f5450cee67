// Package sqlite provides a SQLite-backed storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mcoot/battle-royale/internal/model"
	"github.com/mcoot/battle-royale/internal/storage"
)

//go:embed schema.sql
var schema string

// Store persists settings, matches and history in SQLite.
type Store struct {
	sqlDB *sql.DB
}

// Ensure Store implements the interface
var _ storage.Storage = (*Store)(nil)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// Open opens a SQLite store and applies the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// SQLite allows a single writer
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Settings operations

func (s *Store) SaveSettings(ctx context.Context, settings *model.Settings) error {
	payload, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO settings (id, payload, updated_at) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		string(payload), toMillis(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

func (s *Store) GetSettings(ctx context.Context) (*model.Settings, error) {
	var payload string
	err := s.sqlDB.QueryRowContext(ctx, `SELECT payload FROM settings WHERE id = 1`).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrSettingsNotFound
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}

	var settings model.Settings
	if err := json.Unmarshal([]byte(payload), &settings); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	return &settings, nil
}

// Match operations

func (s *Store) SaveMatch(ctx context.Context, match *model.Match) error {
	payload, err := json.Marshal(match)
	if err != nil {
		return err
	}
	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO matches (id, state, payload, created_at, updated_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   state = excluded.state,
		   payload = excluded.payload,
		   updated_at = excluded.updated_at`,
		string(match.ID), string(match.State), string(payload),
		toMillis(match.CreatedAt), toMillis(match.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("save match %s: %w", match.ID, err)
	}
	return nil
}

func (s *Store) GetMatch(ctx context.Context, id model.MatchID) (*model.Match, error) {
	var payload string
	err := s.sqlDB.QueryRowContext(ctx, `SELECT payload FROM matches WHERE id = ?`, string(id)).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrMatchNotFound
		}
		return nil, fmt.Errorf("get match %s: %w", id, err)
	}
	return decodeMatch(payload)
}

func (s *Store) DeleteMatch(ctx context.Context, id model.MatchID) error {
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM matches WHERE id = ?`, string(id)); err != nil {
		return fmt.Errorf("delete match %s: %w", id, err)
	}
	return nil
}

func (s *Store) ListMatches(ctx context.Context) ([]*model.Match, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT payload FROM matches ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	matches := []*model.Match{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		match, err := decodeMatch(payload)
		if err != nil {
			return nil, err
		}
		matches = append(matches, match)
	}
	return matches, rows.Err()
}

func decodeMatch(payload string) (*model.Match, error) {
	var match model.Match
	if err := json.Unmarshal([]byte(payload), &match); err != nil {
		return nil, fmt.Errorf("decode match: %w", err)
	}
	return &match, nil
}

// History operations

func (s *Store) SaveHistoryItem(ctx context.Context, item *model.HistoryItem) error {
	payload, err := json.Marshal(item)
	if err != nil {
		return err
	}
	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO history (date_ms, match_id, payload) VALUES (?, ?, ?)
		 ON CONFLICT(date_ms) DO UPDATE SET match_id = excluded.match_id, payload = excluded.payload`,
		item.Key(), string(item.MatchID), string(payload),
	)
	if err != nil {
		return fmt.Errorf("save history item: %w", err)
	}
	return nil
}

func (s *Store) GetHistory(ctx context.Context) ([]*model.HistoryItem, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT payload FROM history ORDER BY date_ms`)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	items := []*model.HistoryItem{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan history item: %w", err)
		}
		var item model.HistoryItem
		if err := json.Unmarshal([]byte(payload), &item); err != nil {
			return nil, fmt.Errorf("decode history item: %w", err)
		}
		items = append(items, &item)
	}
	return items, rows.Err()
}

func (s *Store) DeleteHistoryItems(ctx context.Context, keys []int64) error {
	if len(keys) == 0 {
		return nil
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `DELETE FROM history WHERE date_ms = ?`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, key := range keys {
		if _, err := stmt.ExecContext(ctx, key); err != nil {
			return fmt.Errorf("delete history item %d: %w", key, err)
		}
	}
	return tx.Commit()
}
