package model

// StartingHP is the hit point total every player enters a match with
const StartingHP = 100

// Player is a combatant in a match
type Player struct {
	Name        string `json:"name"` // unique within a match
	HP          int    `json:"hp"`
	DiedAtRound *int   `json:"died_at_round"` // nil while alive
}

// NewPlayer creates a player at full health
func NewPlayer(name string) Player {
	return Player{
		Name: name,
		HP:   StartingHP,
	}
}

// NewRoster creates a full-health player for each name, preserving order
func NewRoster(names []string) []Player {
	players := make([]Player, 0, len(names))
	for _, name := range names {
		players = append(players, NewPlayer(name))
	}
	return players
}

// IsAlive returns true if the player still has hit points
func (p Player) IsAlive() bool {
	return p.HP > 0
}

// AliveCount returns the number of players with hit points left
func AliveCount(players []Player) int {
	count := 0
	for _, p := range players {
		if p.IsAlive() {
			count++
		}
	}
	return count
}

// ClonePlayers returns a deep copy of the roster
func ClonePlayers(players []Player) []Player {
	if players == nil {
		return nil
	}
	result := make([]Player, len(players))
	for i, p := range players {
		result[i] = p
		if p.DiedAtRound != nil {
			round := *p.DiedAtRound
			result[i].DiedAtRound = &round
		}
	}
	return result
}
