package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/battle-royale/internal/model"
	"github.com/mcoot/battle-royale/internal/storage/storagetest"
)

type StoreSuite struct {
	storagetest.Suite
	path  string
	store *Store
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.path = filepath.Join(s.T().TempDir(), "royale.db")
	store, err := Open(s.path)
	s.Require().NoError(err)
	s.store = store
	s.Storage = store
	s.Ctx = context.Background()
}

func (s *StoreSuite) TearDownTest() {
	s.NoError(s.store.Close())
}

func (s *StoreSuite) TestDataSurvivesReopen() {
	s.Require().NoError(s.store.SaveSettings(s.Ctx, &model.Settings{PlayerNames: []string{"A", "B"}, IntervalMs: 50}))
	s.Require().NoError(s.store.SaveMatch(s.Ctx, &model.Match{ID: "match-1", State: model.MatchStateFinished}))
	s.Require().NoError(s.store.Close())

	reopened, err := Open(s.path)
	s.Require().NoError(err)
	s.store = reopened

	settings, err := reopened.GetSettings(s.Ctx)
	s.Require().NoError(err)
	s.Equal(50, settings.IntervalMs)

	match, err := reopened.GetMatch(s.Ctx, "match-1")
	s.Require().NoError(err)
	s.Equal(model.MatchStateFinished, match.State)
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open("  ")
	require.Error(t, err)
}

func TestCloseNil(t *testing.T) {
	var store *Store
	require.NoError(t, store.Close())
}
