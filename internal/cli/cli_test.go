package cli

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/battle-royale/internal/api"
	"github.com/mcoot/battle-royale/internal/api/response"
	"github.com/mcoot/battle-royale/internal/dependencies/random"
	"github.com/mcoot/battle-royale/internal/factory"
	"github.com/mcoot/battle-royale/internal/testutil"
)

type CLISuite struct {
	suite.Suite
	app    *factory.TestApp
	server *httptest.Server
	keyDir string
}

func TestCLISuite(t *testing.T) {
	suite.Run(t, new(CLISuite))
}

func (s *CLISuite) SetupTest() {
	s.app = factory.NewTestApp()
	s.server = httptest.NewServer(api.NewRouter(api.RouterConfig{
		Logger:          testutil.NopLogger(),
		SettingsService: s.app.SettingsService,
		HistoryService:  s.app.HistoryService,
		MatchController: s.app.MatchController,
		Scheduler:       s.app.Scheduler,
	}))
	s.keyDir = filepath.Join(s.T().TempDir(), "keys")
}

func (s *CLISuite) TearDownTest() {
	s.server.Close()
	_ = s.app.Close()
}

func (s *CLISuite) run(args ...string) (string, error) {
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--server", s.server.URL, "--key-dir", s.keyDir}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func (s *CLISuite) TestSettingsSetAndGet() {
	out, err := s.run("settings", "set", "-i", "1000", "Alice, Bob", "Carol")
	s.Require().NoError(err)
	s.Contains(out, "Interval: 1000ms")
	s.Contains(out, "Players (3):")

	out, err = s.run("settings", "get")
	s.Require().NoError(err)
	s.Contains(out, "Alice")
	s.Contains(out, "Carol")
}

func (s *CLISuite) TestSettingsGetMissing() {
	_, err := s.run("settings", "get")
	var apiErr *APIError
	s.Require().ErrorAs(err, &apiErr)
	s.Equal(404, apiErr.Status)
	s.Equal("SETTINGS_NOT_FOUND", apiErr.Code)
}

func (s *CLISuite) TestCreateSavesHostKey() {
	ctx := context.Background()
	s.Require().NoError(s.app.SaveSettings(ctx, 1000, "Alice", "Bob"))
	s.app.MockRandom.QueueString("secret-key", "match001")

	out, err := s.run("match", "create")
	s.Require().NoError(err)
	s.Contains(out, "Match: match001")
	s.Contains(out, "Host Key: secret-key")

	saved, err := os.ReadFile(filepath.Join(s.keyDir, "match001"))
	s.Require().NoError(err)
	s.Equal("secret-key", string(saved))

	// Saved key authorizes the delete, which then forgets it
	out, err = s.run("match", "delete", "match001")
	s.Require().NoError(err)
	s.Contains(out, "Deleted match match001")

	_, err = os.Stat(filepath.Join(s.keyDir, "match001"))
	s.True(os.IsNotExist(err))
}

func (s *CLISuite) TestControlWithoutHostKey() {
	ctx := context.Background()
	s.Require().NoError(s.app.SaveSettings(ctx, 1000, "Alice", "Bob"))
	_, err := s.app.CreateMatch(ctx, "match001", "secret-key")
	s.Require().NoError(err)

	_, err = s.run("match", "start", "match001")
	s.Require().Error(err)
	s.Contains(err.Error(), "UNAUTHORIZED")

	_, err = s.run("--host-key", "wrong", "match", "start", "match001")
	s.Require().Error(err)
	s.Contains(err.Error(), "INVALID_HOST_KEY")

	out, err := s.run("--host-key", "secret-key", "match", "pause", "match001")
	s.Require().Error(err, out)
	s.Contains(err.Error(), "INVALID_TRANSITION")
}

func (s *CLISuite) TestLeaderboardAndRounds() {
	ctx := context.Background()
	s.Require().NoError(s.app.SaveSettings(ctx, 1000, "Alice", "Bob"))
	_, err := s.app.CreateMatch(ctx, "match001", "secret-key")
	s.Require().NoError(err)
	s.Require().NoError(s.app.SetHP(ctx, "match001", "Bob", 1))
	_, err = s.app.MatchController.Start(ctx, "match001")
	s.Require().NoError(err)

	// Alice hits Bob for 1; Bob is dead before his turn
	s.app.MockRandom.QueueIntn(0, 0, 0)
	_, err = s.app.MatchController.AdvanceRound(ctx, "match001")
	s.Require().NoError(err)

	out, err := s.run("match", "leaderboard", "match001")
	s.Require().NoError(err)
	s.Contains(out, "1. Alice: 100 hp")
	s.Contains(out, "2. Bob: 0 hp (out in round 1)")

	out, err = s.run("match", "rounds", "match001")
	s.Require().NoError(err)
	s.Contains(out, "Round 1")
	s.Contains(out, "Alice hits Bob")
	s.Contains(out, "Bob is out!")

	out, err = s.run("-o", "json", "match", "get", "match001")
	s.Require().NoError(err)
	s.Contains(out, `"state": "finished"`)
}

func (s *CLISuite) TestHistoryRemoveRejectsBadDate() {
	_, err := s.run("history", "remove", "yesterday")
	s.Require().Error(err)
	s.Contains(err.Error(), "invalid date")
}

func (s *CLISuite) TestHealth() {
	out, err := s.run("health")
	s.Require().NoError(err)
	s.Contains(out, "Status: ok")
	s.Contains(out, "Ticking matches: 0")
}

func (s *CLISuite) TestSimulate() {
	var out bytes.Buffer
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := simulate(ctx, NewOutput("text", &out), []string{"Alice", "Bob"}, time.Millisecond, nil)
	s.Require().NoError(err)
	s.Contains(out.String(), "Round 1")
	s.Contains(out.String(), "1. ")
}

func (s *CLISuite) TestSimulateSeedReplays() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var first, second bytes.Buffer
	names := []string{"Alice", "Bob", "Carol"}
	s.Require().NoError(simulate(ctx, NewOutput("text", &first), names, time.Millisecond, random.NewSeeded(7)))
	s.Require().NoError(simulate(ctx, NewOutput("text", &second), names, time.Millisecond, random.NewSeeded(7)))
	s.Equal(first.String(), second.String())
}

func TestSplitNames(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, splitNames([]string{"a, b", " c ", ","}))
	assert.Nil(t, splitNames(nil))
}

func TestOutputHistoryText(t *testing.T) {
	var out bytes.Buffer
	NewOutput("text", &out).Print([]response.HistoryItem{{
		Date:   time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		Rounds: 7,
		Leaderboard: []response.LeaderboardItem{
			{Position: 1, Player: response.Player{Name: "Alice"}},
			{Position: 1, Player: response.Player{Name: "Bob"}},
			{Position: 3, Player: response.Player{Name: "Carol"}},
		},
		IsSaved: true,
	}})

	assert.Equal(t, "2024-01-01T12:00:00Z    7 rounds  winner: Alice, Bob [saved]\n", out.String())
}
