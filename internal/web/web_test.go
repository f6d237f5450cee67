package web_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/battle-royale/internal/factory"
	"github.com/mcoot/battle-royale/internal/model"
	"github.com/mcoot/battle-royale/internal/testutil"
	"github.com/mcoot/battle-royale/internal/web"
)

// webTestServer provides a test server for web interface testing
type webTestServer struct {
	t       *testing.T
	handler http.Handler
	app     *factory.TestApp
}

// newWebTestServer creates a new test server with all dependencies wired
func newWebTestServer(t *testing.T) *webTestServer {
	t.Helper()

	app := factory.NewTestApp()
	t.Cleanup(func() { _ = app.Close() })

	router := web.NewRouter(web.RouterConfig{
		Logger:          testutil.NopLogger(),
		MatchController: app.MatchController,
		HistoryService:  app.HistoryService,
		Leaderboard:     app.Leaderboard,
		HubManager:      app.HubManager,
		StaticDir:       "", // No static files in tests
	})

	return &webTestServer{
		t:       t,
		handler: router,
		app:     app,
	}
}

// get makes a GET request
func (ts *webTestServer) get(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

// parseHTML parses the response body as HTML
func parseHTML(r io.Reader) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		panic(err)
	}
	return doc
}

// Helper functions for common test operations

func (ts *webTestServer) ctx() context.Context {
	return ts.t.Context()
}

// createMatch saves settings for the given roster and creates a match
func (ts *webTestServer) createMatch(id string, names ...string) *model.Match {
	ts.t.Helper()
	require.NoError(ts.t, ts.app.SaveSettings(ts.ctx(), 1000, names...))
	m, err := ts.app.CreateMatch(ts.ctx(), id, "hostkey")
	require.NoError(ts.t, err)
	return m
}

// finishMatch starts a match and plays it out with the first player winning
func (ts *webTestServer) finishMatch(id model.MatchID, losers ...string) *model.Match {
	ts.t.Helper()
	_, err := ts.app.MatchController.Start(ts.ctx(), id)
	require.NoError(ts.t, err)
	for _, name := range losers {
		require.NoError(ts.t, ts.app.SetHP(ts.ctx(), id, name, 1))
	}
	var m *model.Match
	for range losers {
		m, err = ts.app.MatchController.AdvanceRound(ts.ctx(), id)
		require.NoError(ts.t, err)
		if m.State == model.MatchStateFinished {
			break
		}
	}
	require.Equal(ts.t, model.MatchStateFinished, m.State)
	return m
}

// Assertion helpers

func assertContainsText(t *testing.T, doc *goquery.Document, selector, text string) {
	t.Helper()
	found := strings.Contains(doc.Find(selector).Text(), text)
	assert.True(t, found, "Expected %q to contain %q, got %q", selector, text, doc.Find(selector).Text())
}

func assertElementCount(t *testing.T, doc *goquery.Document, selector string, count int) {
	t.Helper()
	assert.Equal(t, count, doc.Find(selector).Length(), "Expected %d elements matching %q", count, selector)
}
