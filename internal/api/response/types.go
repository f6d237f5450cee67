package response

import (
	"time"

	"github.com/mcoot/battle-royale/internal/model"
)

// Settings represents the match settings
type Settings struct {
	PlayerNames  []string `json:"player_names"`
	IntervalMs   int      `json:"interval_ms"`
	DisplayNames []string `json:"display_names,omitempty"`
}

// SettingsFromModel converts model.Settings
func SettingsFromModel(s model.Settings) Settings {
	return Settings{
		PlayerNames:  s.PlayerNames,
		IntervalMs:   s.IntervalMs,
		DisplayNames: s.DisplayNames,
	}
}

// Player represents a combatant in API responses
type Player struct {
	Name        string `json:"name"`
	HP          int    `json:"hp"`
	Alive       bool   `json:"alive"`
	DiedAtRound *int   `json:"died_at_round"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p model.Player) Player {
	return Player{
		Name:        p.Name,
		HP:          p.HP,
		Alive:       p.IsAlive(),
		DiedAtRound: p.DiedAtRound,
	}
}

// LeaderboardItem is one ranked row of the leaderboard
type LeaderboardItem struct {
	Position int `json:"position"`
	Player
}

// LeaderboardFromModel converts a ranking
func LeaderboardFromModel(items []model.LeaderboardItem) []LeaderboardItem {
	resp := make([]LeaderboardItem, len(items))
	for i, item := range items {
		resp[i] = LeaderboardItem{Position: item.Position, Player: PlayerFromModel(item.Player)}
	}
	return resp
}

// Attack represents one attack within a round
type Attack struct {
	PlayerName    string `json:"player_name"`
	EnemyName     string `json:"enemy_name,omitempty"`
	Weapon        string `json:"weapon,omitempty"`
	Damage        int    `json:"damage"`
	IsCriticalHit bool   `json:"is_critical_hit"`
	IsDeathblow   bool   `json:"is_deathblow"`
	NewEnemyHP    int    `json:"new_enemy_hp"`
}

// Round represents a resolved round
type Round struct {
	Number  int      `json:"number"`
	Attacks []Attack `json:"attacks"`
}

// RoundFromModel converts model.Round
func RoundFromModel(r model.Round) Round {
	attacks := make([]Attack, len(r.Attacks))
	for i, a := range r.Attacks {
		attacks[i] = Attack{
			PlayerName:    a.PlayerName,
			EnemyName:     a.EnemyName,
			Weapon:        a.Weapon,
			Damage:        a.Damage,
			IsCriticalHit: a.IsCriticalHit,
			IsDeathblow:   a.IsDeathblow,
			NewEnemyHP:    a.NewEnemyHP,
		}
	}
	return Round{Number: r.Number, Attacks: attacks}
}

// RoundsFromModel converts a list of rounds, keeping their order
func RoundsFromModel(rounds []model.Round) []Round {
	resp := make([]Round, len(rounds))
	for i, r := range rounds {
		resp[i] = RoundFromModel(r)
	}
	return resp
}

// Match represents a match in API responses
type Match struct {
	ID         string     `json:"id"`
	State      string     `json:"state"`
	Settings   Settings   `json:"settings"`
	Players    []Player   `json:"players"`
	Round      int        `json:"round"`
	Alive      int        `json:"alive"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// MatchFromModel converts model.Match. Rounds are served separately.
func MatchFromModel(m *model.Match) Match {
	players := make([]Player, len(m.Players))
	for i, p := range m.Players {
		players[i] = PlayerFromModel(p)
	}
	return Match{
		ID:         string(m.ID),
		State:      string(m.State),
		Settings:   SettingsFromModel(m.Settings),
		Players:    players,
		Round:      m.CurrentRound(),
		Alive:      m.AliveCount(),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
		StartedAt:  m.StartedAt,
		FinishedAt: m.FinishedAt,
	}
}

// CreateMatchResponse is the response after creating a match.
// The host key is only ever returned here.
type CreateMatchResponse struct {
	Match   Match  `json:"match"`
	HostKey string `json:"host_key"`
}

// HistoryItem represents a finished match in the history
type HistoryItem struct {
	Date        time.Time         `json:"date"`
	MatchID     string            `json:"match_id,omitempty"`
	Rounds      int               `json:"rounds"`
	Leaderboard []LeaderboardItem `json:"leaderboard"`
	IsSaved     bool              `json:"is_saved"`
}

// HistoryFromModel converts history items, keeping their order
func HistoryFromModel(items []*model.HistoryItem) []HistoryItem {
	resp := make([]HistoryItem, len(items))
	for i, item := range items {
		resp[i] = HistoryItem{
			Date:        item.Date,
			MatchID:     string(item.MatchID),
			Rounds:      item.Rounds,
			Leaderboard: LeaderboardFromModel(item.Leaderboard),
			IsSaved:     item.IsSaved,
		}
	}
	return resp
}

// RemoveHistoryResponse is the response after removing history items
type RemoveHistoryResponse struct {
	Removed int `json:"removed"`
}

// Health reports that the server is up and how many matches it is ticking
type Health struct {
	Status      string `json:"status"`
	ActiveLoops int    `json:"active_loops"`
}
