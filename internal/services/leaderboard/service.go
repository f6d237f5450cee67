package leaderboard

import (
	"sort"
	"strings"

	"github.com/mcoot/battle-royale/internal/model"
)

// Service ranks players by survival
type Service struct{}

// New creates a new leaderboard Service
func New() *Service {
	return &Service{}
}

// Rank orders players by hp, then by how late they died, and assigns competition
// positions: tied players share a position and the next tier skips past them.
func (s *Service) Rank(players []model.Player) []model.LeaderboardItem {
	sorted := model.ClonePlayers(players)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].HP != sorted[j].HP {
			return sorted[i].HP > sorted[j].HP
		}
		return diedLater(sorted[i].DiedAtRound, sorted[j].DiedAtRound)
	})

	items := make([]model.LeaderboardItem, 0, len(sorted))
	for i, p := range sorted {
		position := i + 1
		if i > 0 && sameTier(sorted[i-1], p) {
			position = items[i-1].Position
		}
		items = append(items, model.LeaderboardItem{Player: p, Position: position})
	}
	return items
}

// diedLater reports whether a ranks above b; nil means never died and beats any round
func diedLater(a, b *int) bool {
	switch {
	case a == nil:
		return b != nil
	case b == nil:
		return false
	default:
		return *a > *b
	}
}

func sameTier(a, b model.Player) bool {
	if a.HP != b.HP {
		return false
	}
	if a.DiedAtRound == nil || b.DiedAtRound == nil {
		return a.DiedAtRound == nil && b.DiedAtRound == nil
	}
	return *a.DiedAtRound == *b.DiedAtRound
}

// Winners returns every item sharing first position
func (s *Service) Winners(items []model.LeaderboardItem) []model.LeaderboardItem {
	var winners []model.LeaderboardItem
	for _, item := range items {
		if item.Position == 1 {
			winners = append(winners, item)
		}
	}
	return winners
}

// Announcement returns the message shown when a match ends, or "" with no players
func (s *Service) Announcement(items []model.LeaderboardItem) string {
	winners := s.Winners(items)
	switch len(winners) {
	case 0:
		return ""
	case 1:
		return "Congratulations " + winners[0].Name + " 🥇 May you drink in peace 🍺"
	default:
		names := make([]string, len(winners))
		for i, w := range winners {
			names[i] = w.Name
		}
		return "Multiple winners! 🤯 Deathmatch between " + strings.Join(names, " and ")
	}
}

// Interface for dependency injection
type ServiceInterface interface {
	Rank(players []model.Player) []model.LeaderboardItem
	Winners(items []model.LeaderboardItem) []model.LeaderboardItem
	Announcement(items []model.LeaderboardItem) string
}

var _ ServiceInterface = (*Service)(nil)
