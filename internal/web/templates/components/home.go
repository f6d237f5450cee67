package components

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/mcoot/battle-royale/internal/model"
)

const timeLayout = "2006-01-02 15:04"

// HomePage lists the current matches and the finished-match history
func HomePage(matches []*model.Match, history []*model.HistoryItem) templ.Component {
	return Layout("Battle Royale", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw(`<main class="home"><h1>Battle Royale</h1>`)
		hw.component(ctx, MatchList(matches))
		hw.component(ctx, HistoryTable(history))
		hw.raw(`</main>`)
		return hw.err
	}))
}

// MatchList renders links to every match
func MatchList(matches []*model.Match) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw(`<section id="matches"><h2>Matches</h2>`)
		if len(matches) == 0 {
			hw.raw(`<p class="empty">No matches yet</p></section>`)
			return hw.err
		}
		hw.raw(`<ul class="matches">`)
		for _, m := range matches {
			hw.raw(`<li class="match-link" data-state="`)
			hw.text(string(m.State))
			hw.raw(`"><a href="/matches/`)
			hw.text(string(m.ID))
			hw.raw(`">`)
			hw.text(string(m.ID))
			hw.raw(`</a> <span class="state">`)
			hw.text(stateLabel(m.State))
			hw.raw(`</span> <span class="alive">`)
			hw.text(strconv.Itoa(m.AliveCount()) + "/" + strconv.Itoa(len(m.Players)) + " alive")
			hw.raw(`</span></li>`)
		}
		hw.raw(`</ul></section>`)
		return hw.err
	})
}

// HistoryTable renders finished matches with their winners
func HistoryTable(items []*model.HistoryItem) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw(`<section id="history"><h2>History</h2>`)
		if len(items) == 0 {
			hw.raw(`<p class="empty">No finished matches</p></section>`)
			return hw.err
		}
		hw.raw(`<table class="history"><thead><tr><th>Date</th><th>Rounds</th><th>Winner</th></tr></thead><tbody>`)
		for _, item := range items {
			hw.raw(`<tr class="history-item"><td class="date">`)
			hw.text(item.Date.UTC().Format(timeLayout))
			hw.raw(`</td><td class="rounds">`)
			hw.text(strconv.Itoa(item.Rounds))
			hw.raw(`</td><td class="winner">`)
			hw.text(winnerNames(item.Leaderboard))
			hw.raw(`</td></tr>`)
		}
		hw.raw(`</tbody></table></section>`)
		return hw.err
	})
}

func winnerNames(items []model.LeaderboardItem) string {
	names := ""
	for _, item := range items {
		if item.Position != 1 {
			continue
		}
		if names != "" {
			names += ", "
		}
		names += item.Name
	}
	return names
}
