package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mcoot/battle-royale/internal/api/response"
	"github.com/mcoot/battle-royale/internal/model"
	"github.com/mcoot/battle-royale/internal/web/templates/components"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter
func NewOutput(format string, w io.Writer) *Output {
	if w == nil {
		w = os.Stdout
	}
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Settings:
		o.printSettings(v)
	case response.Match:
		o.printMatch(v)
	case []response.Match:
		o.printMatches(v)
	case response.CreateMatchResponse:
		o.printMatch(v.Match)
		fmt.Fprintf(o.w, "Host Key: %s\n", v.HostKey)
	case []response.LeaderboardItem:
		o.printLeaderboard(v)
	case []response.Round:
		for _, r := range v {
			o.printRound(r)
		}
	case response.Round:
		o.printRound(v)
	case []response.HistoryItem:
		o.printHistory(v)
	case response.RemoveHistoryResponse:
		fmt.Fprintf(o.w, "Removed: %d\n", v.Removed)
	case response.Health:
		fmt.Fprintf(o.w, "Status: %s\nTicking matches: %d\n", v.Status, v.ActiveLoops)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printSettings(s response.Settings) {
	fmt.Fprintf(o.w, "Interval: %dms\n", s.IntervalMs)
	names := s.PlayerNames
	if len(s.DisplayNames) == len(names) {
		names = s.DisplayNames
	}
	fmt.Fprintf(o.w, "Players (%d):\n", len(names))
	for _, name := range names {
		fmt.Fprintf(o.w, "  - %s\n", name)
	}
}

func (o *Output) printMatch(m response.Match) {
	fmt.Fprintf(o.w, "Match: %s\n", m.ID)
	fmt.Fprintf(o.w, "State: %s\n", m.State)
	fmt.Fprintf(o.w, "Round: %d\n", m.Round)
	fmt.Fprintf(o.w, "Alive: %d/%d\n", m.Alive, len(m.Players))
	for _, p := range m.Players {
		fmt.Fprintf(o.w, "  - %s\n", playerLine(p))
	}
}

func (o *Output) printMatches(matches []response.Match) {
	if len(matches) == 0 {
		fmt.Fprintln(o.w, "No matches")
		return
	}
	for _, m := range matches {
		fmt.Fprintf(o.w, "%s  %-11s round %-4d alive %d/%d  created %s\n",
			m.ID, m.State, m.Round, m.Alive, len(m.Players), m.CreatedAt.Format(time.DateTime))
	}
}

func (o *Output) printLeaderboard(items []response.LeaderboardItem) {
	for _, item := range items {
		fmt.Fprintf(o.w, "%3d. %s\n", item.Position, playerLine(item.Player))
	}
}

func (o *Output) printRound(r response.Round) {
	fmt.Fprintf(o.w, "Round %d\n", r.Number)
	for _, a := range r.Attacks {
		fmt.Fprintf(o.w, "  %s\n", attackLine(a))
	}
}

func (o *Output) printHistory(items []response.HistoryItem) {
	if len(items) == 0 {
		fmt.Fprintln(o.w, "No history")
		return
	}
	for _, item := range items {
		var winners []string
		for _, entry := range item.Leaderboard {
			if entry.Position == 1 {
				winners = append(winners, entry.Name)
			}
		}
		saved := ""
		if item.IsSaved {
			saved = " [saved]"
		}
		fmt.Fprintf(o.w, "%s  %3d rounds  winner: %s%s\n",
			item.Date.Format(time.RFC3339Nano), item.Rounds, strings.Join(winners, ", "), saved)
	}
}

func playerLine(p response.Player) string {
	if p.DiedAtRound != nil {
		return fmt.Sprintf("%s: %d hp (out in round %d)", p.Name, p.HP, *p.DiedAtRound)
	}
	return fmt.Sprintf("%s: %d hp", p.Name, p.HP)
}

func attackLine(a response.Attack) string {
	return components.AttackLine(model.Attack{
		PlayerName:    a.PlayerName,
		EnemyName:     a.EnemyName,
		Weapon:        a.Weapon,
		Damage:        a.Damage,
		IsCriticalHit: a.IsCriticalHit,
		IsDeathblow:   a.IsDeathblow,
		NewEnemyHP:    a.NewEnemyHP,
	})
}
