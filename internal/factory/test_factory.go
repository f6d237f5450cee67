package factory

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/battle-royale/internal/dependencies/mocks"
	"github.com/mcoot/battle-royale/internal/model"
	"github.com/mcoot/battle-royale/internal/services/hostkey"
	"github.com/mcoot/battle-royale/internal/services/settings"
	"github.com/mcoot/battle-royale/internal/storage/memory"
	"github.com/mcoot/battle-royale/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(store, mockClock, mockRandom, hostkey.Config{Cost: bcrypt.MinCost}, testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}

// SaveSettings stores a roster with the given names. It writes straight to
// storage so players keep their plain names and no random draws are consumed.
func (t *TestApp) SaveSettings(ctx context.Context, intervalMs int, names ...string) error {
	normalized, err := settings.Normalize(model.Settings{PlayerNames: names, IntervalMs: intervalMs})
	if err != nil {
		return err
	}
	return t.Storage.SaveSettings(ctx, normalized)
}

// CreateMatch creates a match with a fixed ID and host key
func (t *TestApp) CreateMatch(ctx context.Context, id, key string) (*model.Match, error) {
	// Host key first, then the match ID
	t.MockRandom.QueueString(key, id)
	m, _, err := t.MatchController.CreateMatch(ctx)
	return m, err
}

// SetHP overwrites a player's hit points directly in storage
func (t *TestApp) SetHP(ctx context.Context, id model.MatchID, name string, hp int) error {
	m, err := t.Storage.GetMatch(ctx, id)
	if err != nil {
		return err
	}
	for i := range m.Players {
		if m.Players[i].Name == name {
			m.Players[i].HP = hp
		}
	}
	return t.Storage.SaveMatch(ctx, m)
}
