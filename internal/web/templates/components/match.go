package components

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/mcoot/battle-royale/internal/model"
)

// Element IDs targeted by live updates
const (
	StateID       = "match-state"
	LeaderboardID = "leaderboard"
	RoundLogID    = "round-log"
)

// MatchView is everything the match page shows
type MatchView struct {
	Match        *model.Match
	Leaderboard  []model.LeaderboardItem
	Rounds       []model.Round // newest first
	Announcement string
}

// MatchPage renders the read-only page for one match. Updates arrive over SSE.
func MatchPage(view MatchView) templ.Component {
	return Layout("Battle Royale "+string(view.Match.ID), templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw(`<main class="match" hx-ext="sse" sse-connect="/matches/`)
		hw.text(string(view.Match.ID))
		hw.raw(`/events">`)
		hw.raw(`<h1>Battle Royale <span class="match-id">`)
		hw.text(string(view.Match.ID))
		hw.raw(`</span></h1>`)

		hw.raw(`<section sse-swap="state" hx-swap="outerHTML" hx-target="#` + StateID + `">`)
		hw.component(ctx, MatchState(view.Match, view.Announcement))
		hw.raw(`</section>`)

		hw.raw(`<section sse-swap="leaderboard" hx-swap="outerHTML" hx-target="#` + LeaderboardID + `">`)
		hw.component(ctx, Leaderboard(view.Leaderboard))
		hw.raw(`</section>`)

		hw.raw(`<section>`)
		hw.component(ctx, RoundLog(view.Rounds))
		hw.raw(`<template sse-swap="round" hx-swap="afterbegin" hx-target="#` + RoundLogID + `"></template>`)
		hw.raw(`</section>`)

		hw.raw(`</main>`)
		return hw.err
	}))
}

// MatchState renders the state banner, including the winner announcement once finished
func MatchState(m *model.Match, announcement string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw(`<div id="` + StateID + `" class="state state-`)
		hw.text(string(m.State))
		hw.raw(`" data-state="`)
		hw.text(string(m.State))
		hw.raw(`"><span class="state-label">`)
		hw.text(stateLabel(m.State))
		hw.raw(`</span> <span class="round-number">Round `)
		hw.text(strconv.Itoa(m.CurrentRound()))
		hw.raw(`</span> <span class="alive">`)
		hw.text(strconv.Itoa(m.AliveCount()))
		hw.raw(` alive</span>`)
		if announcement != "" {
			hw.raw(`<p class="announcement">`)
			hw.text(announcement)
			hw.raw(`</p>`)
		}
		hw.raw(`</div>`)
		return hw.err
	})
}

func stateLabel(state model.MatchState) string {
	switch state {
	case model.MatchStateInitialized:
		return "Waiting to start"
	case model.MatchStateRunning:
		return "Fighting"
	case model.MatchStatePaused:
		return "Paused"
	case model.MatchStateFinished:
		return "Finished"
	default:
		return string(state)
	}
}

// Leaderboard renders the ranking table
func Leaderboard(items []model.LeaderboardItem) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw(`<table id="` + LeaderboardID + `" class="leaderboard"><thead><tr>`)
		hw.raw(`<th>#</th><th>Player</th><th>HP</th><th>Died</th></tr></thead><tbody>`)
		for _, item := range items {
			class := "alive"
			if !item.IsAlive() {
				class = "dead"
			}
			hw.raw(`<tr class="player ` + class + `"><td class="position">`)
			hw.text(strconv.Itoa(item.Position))
			hw.raw(`</td><td class="name">`)
			hw.text(item.Name)
			hw.raw(`</td><td class="hp">`)
			hw.text(strconv.Itoa(item.HP))
			hw.raw(`</td><td class="died">`)
			if item.DiedAtRound != nil {
				hw.text("Round " + strconv.Itoa(*item.DiedAtRound))
			}
			hw.raw(`</td></tr>`)
		}
		hw.raw(`</tbody></table>`)
		return hw.err
	})
}

// RoundLog renders rounds in the order given
func RoundLog(rounds []model.Round) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw(`<ol id="` + RoundLogID + `" class="round-log" reversed>`)
		for _, round := range rounds {
			hw.component(ctx, RoundEntry(round))
		}
		hw.raw(`</ol>`)
		return hw.err
	})
}

// RoundEntry renders one round and its attacks
func RoundEntry(round model.Round) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw(`<li class="round" data-round="`)
		hw.text(strconv.Itoa(round.Number))
		hw.raw(`"><h2>Round `)
		hw.text(strconv.Itoa(round.Number))
		hw.raw(`</h2><ul class="attacks">`)
		for _, attack := range round.Attacks {
			hw.raw(`<li class="attack`)
			if attack.IsCriticalHit {
				hw.raw(` critical`)
			}
			if attack.IsDeathblow {
				hw.raw(` deathblow`)
			}
			hw.raw(`">`)
			hw.text(AttackLine(attack))
			hw.raw(`</li>`)
		}
		hw.raw(`</ul></li>`)
		return hw.err
	})
}

// AttackLine describes an attack in one sentence
func AttackLine(a model.Attack) string {
	if a.IsPlaceholder() {
		return a.PlayerName + " has nobody left to fight"
	}
	line := a.PlayerName + " hits " + a.EnemyName + " with " + a.Weapon + " for " + strconv.Itoa(a.Damage)
	if a.IsCriticalHit {
		line += " (critical hit!)"
	}
	if a.IsDeathblow {
		return line + ". " + a.EnemyName + " is out! 💀"
	}
	return line + ". " + a.EnemyName + " has " + strconv.Itoa(a.NewEnemyHP) + " hp left"
}
