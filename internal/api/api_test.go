package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/battle-royale/internal/api"
	"github.com/mcoot/battle-royale/internal/api/apierr"
	"github.com/mcoot/battle-royale/internal/api/response"
	"github.com/mcoot/battle-royale/internal/factory"
	"github.com/mcoot/battle-royale/internal/model"
	"github.com/mcoot/battle-royale/internal/testutil"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	app := factory.NewTestApp()
	t.Cleanup(func() { _ = app.Close() })

	router := api.NewRouter(api.RouterConfig{
		Logger:          testutil.NopLogger(),
		SettingsService: app.SettingsService,
		HistoryService:  app.HistoryService,
		MatchController: app.MatchController,
		Scheduler:       app.Scheduler,
	})

	return &testServer{
		handler: router,
		app:     app,
	}
}

func (ts *testServer) request(method, path string, body any, hostKey string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if hostKey != "" {
		req.Header.Set("Authorization", "Bearer "+hostKey)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[apierr.ErrorResponse](t, rr).Error.Code
}

func saveSettings(t *testing.T, ts *testServer, names ...string) {
	t.Helper()
	require.NoError(t, ts.app.SaveSettings(t.Context(), 1000, names...))
}

// createMatch creates a match with a fixed ID and host key
func createMatch(t *testing.T, ts *testServer, id, key string) response.Match {
	t.Helper()
	ts.app.MockRandom.QueueString(key, id)
	rr := ts.request(http.MethodPost, "/api/v1/matches", nil, "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	resp := decode[response.CreateMatchResponse](t, rr)
	require.Equal(t, key, resp.HostKey)
	return resp.Match
}

func getMatch(t *testing.T, ts *testServer, id string) response.Match {
	t.Helper()
	rr := ts.request(http.MethodGet, "/api/v1/matches/"+id, nil, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	return decode[response.Match](t, rr)
}

// startMatch starts a match and waits for the immediate first round
func startMatch(t *testing.T, ts *testServer, id, key string) {
	t.Helper()
	rr := ts.request(http.MethodPost, "/api/v1/matches/"+id+"/start", nil, key)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.Eventually(t, func() bool {
		return getMatch(t, ts, id).Round >= 1
	}, 2*time.Second, 5*time.Millisecond)
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))
	health := decode[response.Health](t, rr)
	assert.Equal(t, "ok", health.Status)
	assert.Zero(t, health.ActiveLoops)

	saveSettings(t, ts, "Alice", "Bob")
	createMatch(t, ts, "match001", "key001")
	startMatch(t, ts, "match001", "key001")

	rr = ts.request(http.MethodGet, "/api/v1/health", nil, "")
	assert.Equal(t, 1, decode[response.Health](t, rr).ActiveLoops)
}

func TestSettingsLifecycle(t *testing.T) {
	ts := newTestServer(t)

	// Nothing saved yet
	rr := ts.request(http.MethodGet, "/api/v1/settings", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeSettingsNotFound, errorCode(t, rr))

	// Invalid settings are rejected
	rr = ts.request(http.MethodPut, "/api/v1/settings", map[string]any{"player_names": []string{"A", "A"}, "interval_ms": 1000}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidSettings, errorCode(t, rr))

	rr = ts.request(http.MethodPut, "/api/v1/settings", map[string]any{"player_names": []string{"A"}, "interval_ms": 0}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// Names are trimmed and decorated
	rr = ts.request(http.MethodPut, "/api/v1/settings", map[string]any{"player_names": []string{" Calle ", "Bob"}, "interval_ms": 2000}, "")
	require.Equal(t, http.StatusOK, rr.Code)
	saved := decode[response.Settings](t, rr)
	assert.Equal(t, []string{"Calle", "Bob"}, saved.PlayerNames)
	assert.Equal(t, 2000, saved.IntervalMs)
	require.Len(t, saved.DisplayNames, 2)
	assert.Equal(t, "Calle 🦁", saved.DisplayNames[0])

	// Reads return the stored display names, not a fresh draw
	for range 3 {
		rr = ts.request(http.MethodGet, "/api/v1/settings", nil, "")
		require.Equal(t, http.StatusOK, rr.Code)
		got := decode[response.Settings](t, rr)
		assert.Equal(t, []string{"Calle", "Bob"}, got.PlayerNames)
		assert.Equal(t, saved.DisplayNames, got.DisplayNames)
	}

	// Matches fight under the display names
	m := createMatch(t, ts, "match001", "key001")
	require.Len(t, m.Players, 2)
	assert.Equal(t, saved.DisplayNames[0], m.Players[0].Name)
	assert.Equal(t, saved.DisplayNames[1], m.Players[1].Name)
}

func TestSettingsInvalidBody(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/settings", bytes.NewBufferString("{not json"))
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidRequest, errorCode(t, rr))
}

func TestDefaultSettings(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/settings/default", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)

	resp := decode[response.Settings](t, rr)
	assert.Equal(t, model.DefaultSettings().PlayerNames, resp.PlayerNames)
	assert.Equal(t, model.DefaultIntervalMs, resp.IntervalMs)
	assert.Len(t, resp.DisplayNames, len(resp.PlayerNames))
}

func TestCreateMatchRequiresSettings(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/matches", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeSettingsNotFound, errorCode(t, rr))
}

func TestCreateGetAndListMatches(t *testing.T) {
	ts := newTestServer(t)
	saveSettings(t, ts, "Alice", "Bob", "Carol")

	created := createMatch(t, ts, "match001", "key1")
	assert.Equal(t, "match001", created.ID)
	assert.Equal(t, string(model.MatchStateInitialized), created.State)
	assert.Len(t, created.Players, 3)
	assert.Equal(t, 3, created.Alive)
	assert.Equal(t, 0, created.Round)
	for _, p := range created.Players {
		assert.Equal(t, model.StartingHP, p.HP)
		assert.Nil(t, p.DiedAtRound)
	}

	ts.app.MockClock.Advance(time.Minute)
	createMatch(t, ts, "match002", "key2")

	rr := ts.request(http.MethodGet, "/api/v1/matches", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	list := decode[[]response.Match](t, rr)
	require.Len(t, list, 2)
	assert.Equal(t, "match002", list[0].ID)
	assert.Equal(t, "match001", list[1].ID)

	rr = ts.request(http.MethodGet, "/api/v1/matches/missing", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeMatchNotFound, errorCode(t, rr))
}

func TestControlRequiresHostKey(t *testing.T) {
	ts := newTestServer(t)
	saveSettings(t, ts, "Alice", "Bob")
	createMatch(t, ts, "match001", "key1")

	rr := ts.request(http.MethodPost, "/api/v1/matches/match001/start", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, apierr.CodeUnauthorized, errorCode(t, rr))

	rr = ts.request(http.MethodPost, "/api/v1/matches/match001/start", nil, "wrong")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, apierr.CodeInvalidHostKey, errorCode(t, rr))

	rr = ts.request(http.MethodDelete, "/api/v1/matches/match001", nil, "wrong")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/matches/missing/start", nil, "key1")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	// Still untouched
	assert.Equal(t, string(model.MatchStateInitialized), getMatch(t, ts, "match001").State)
}

func TestPauseResumeAndTransitions(t *testing.T) {
	ts := newTestServer(t)
	saveSettings(t, ts, "Alice", "Bob")
	createMatch(t, ts, "match001", "key1")

	// Cannot pause before starting
	rr := ts.request(http.MethodPost, "/api/v1/matches/match001/pause", nil, "key1")
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeInvalidTransition, errorCode(t, rr))

	startMatch(t, ts, "match001", "key1")

	rr = ts.request(http.MethodPost, "/api/v1/matches/match001/start", nil, "key1")
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/matches/match001/pause", nil, "key1")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, string(model.MatchStatePaused), decode[response.Match](t, rr).State)

	// Rounds cannot be forced while paused
	rr = ts.request(http.MethodPost, "/api/v1/matches/match001/round", nil, "key1")
	assert.Equal(t, http.StatusConflict, rr.Code)

	// Deleting a paused match is refused
	rr = ts.request(http.MethodDelete, "/api/v1/matches/match001", nil, "key1")
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeMatchInProgress, errorCode(t, rr))

	rr = ts.request(http.MethodPost, "/api/v1/matches/match001/resume", nil, "key1")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, string(model.MatchStateRunning), decode[response.Match](t, rr).State)
}

func TestManualRoundAndFinish(t *testing.T) {
	ts := newTestServer(t)
	saveSettings(t, ts, "Alice", "Bob")
	createMatch(t, ts, "match001", "key1")
	startMatch(t, ts, "match001", "key1")

	before := getMatch(t, ts, "match001").Round

	rr := ts.request(http.MethodPost, "/api/v1/matches/match001/round", nil, "key1")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, before+1, decode[response.Match](t, rr).Round)

	// Bob falls to Alice's next hit
	require.NoError(t, ts.app.SetHP(t.Context(), "match001", "Bob", 1))

	rr = ts.request(http.MethodPost, "/api/v1/matches/match001/round", nil, "key1")
	require.Equal(t, http.StatusOK, rr.Code)
	finished := decode[response.Match](t, rr)
	assert.Equal(t, string(model.MatchStateFinished), finished.State)
	assert.Equal(t, 1, finished.Alive)
	assert.NotNil(t, finished.FinishedAt)

	// Leaderboard ranks the survivor first
	rr = ts.request(http.MethodGet, "/api/v1/matches/match001/leaderboard", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	board := decode[[]response.LeaderboardItem](t, rr)
	require.Len(t, board, 2)
	assert.Equal(t, "Alice", board[0].Name)
	assert.Equal(t, 1, board[0].Position)
	assert.Equal(t, "Bob", board[1].Name)
	assert.Equal(t, 2, board[1].Position)
	require.NotNil(t, board[1].DiedAtRound)
	assert.Equal(t, finished.Round, *board[1].DiedAtRound)

	// Rounds are served newest first
	rr = ts.request(http.MethodGet, "/api/v1/matches/match001/rounds", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	rounds := decode[[]response.Round](t, rr)
	require.Len(t, rounds, finished.Round)
	assert.Equal(t, finished.Round, rounds[0].Number)
	assert.Equal(t, 1, rounds[len(rounds)-1].Number)
	assert.True(t, rounds[0].Attacks[0].IsDeathblow)

	// No more rounds once finished
	rr = ts.request(http.MethodPost, "/api/v1/matches/match001/round", nil, "key1")
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, finished.Round, getMatch(t, ts, "match001").Round)

	// Finished matches can be deleted
	rr = ts.request(http.MethodDelete, "/api/v1/matches/match001", nil, "key1")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	rr = ts.request(http.MethodGet, "/api/v1/matches/match001", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRestartFinishedMatch(t *testing.T) {
	ts := newTestServer(t)
	saveSettings(t, ts, "Alice", "Bob")
	createMatch(t, ts, "match001", "key1")
	startMatch(t, ts, "match001", "key1")
	require.NoError(t, ts.app.SetHP(t.Context(), "match001", "Bob", 1))

	rr := ts.request(http.MethodPost, "/api/v1/matches/match001/round", nil, "key1")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, string(model.MatchStateFinished), decode[response.Match](t, rr).State)

	rr = ts.request(http.MethodPost, "/api/v1/matches/match001/restart", nil, "key1")
	require.Equal(t, http.StatusOK, rr.Code)
	restarted := decode[response.Match](t, rr)
	assert.Equal(t, "match001", restarted.ID)
	assert.Equal(t, string(model.MatchStateRunning), restarted.State)
	assert.Equal(t, 2, restarted.Alive)
}

func TestHistoryEndpoints(t *testing.T) {
	ts := newTestServer(t)
	saveSettings(t, ts, "Alice", "Bob")
	createMatch(t, ts, "match001", "key1")
	startMatch(t, ts, "match001", "key1")
	require.NoError(t, ts.app.SetHP(t.Context(), "match001", "Bob", 1))

	rr := ts.request(http.MethodPost, "/api/v1/matches/match001/round", nil, "key1")
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/history", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	items := decode[[]response.HistoryItem](t, rr)
	require.Len(t, items, 1)
	assert.Equal(t, "match001", items[0].MatchID)
	assert.False(t, items[0].IsSaved)
	require.Len(t, items[0].Leaderboard, 2)
	assert.Equal(t, "Alice", items[0].Leaderboard[0].Name)

	rr = ts.request(http.MethodGet, "/api/v1/history/export", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "history.json")
	exported := decode[[]response.HistoryItem](t, rr)
	require.Len(t, exported, 1)
	assert.True(t, exported[0].IsSaved)

	// Removal by date
	rr = ts.request(http.MethodDelete, "/api/v1/history", map[string]any{"dates": []time.Time{items[0].Date}}, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, decode[response.RemoveHistoryResponse](t, rr).Removed)

	rr = ts.request(http.MethodDelete, "/api/v1/history", map[string]any{"dates": []time.Time{items[0].Date}}, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeHistoryNotFound, errorCode(t, rr))

	rr = ts.request(http.MethodDelete, "/api/v1/history", map[string]any{"dates": []time.Time{}}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
