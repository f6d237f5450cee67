package model

// Attack is one player-vs-player damage event within a round.
// An attack with an empty EnemyName means the attacker had nobody left to fight.
type Attack struct {
	PlayerName    string `json:"player_name"`
	EnemyName     string `json:"enemy_name"`
	Weapon        string `json:"weapon"`
	Damage        int    `json:"damage"`
	IsCriticalHit bool   `json:"is_critical_hit"`
	IsDeathblow   bool   `json:"is_deathblow"`
	NewEnemyHP    int    `json:"new_enemy_hp"`
}

// IsPlaceholder returns true for the attack recorded by a sole survivor
func (a Attack) IsPlaceholder() bool {
	return a.EnemyName == ""
}

// Round is one simulation tick in which every living player attacks once
type Round struct {
	Number  int      `json:"number"` // 1-indexed, sequential
	Attacks []Attack `json:"attacks"`
}

// LeaderboardItem is a player with its computed ranking position
type LeaderboardItem struct {
	Player
	Position int `json:"position"`
}

// CloneRounds returns a copy of the round history
func CloneRounds(rounds []Round) []Round {
	if rounds == nil {
		return nil
	}
	result := make([]Round, len(rounds))
	for i, r := range rounds {
		attacks := make([]Attack, len(r.Attacks))
		copy(attacks, r.Attacks)
		result[i] = Round{Number: r.Number, Attacks: attacks}
	}
	return result
}

// NewestFirst returns the rounds in reverse order, most recent first
func NewestFirst(rounds []Round) []Round {
	result := make([]Round, len(rounds))
	for i, r := range rounds {
		result[len(rounds)-1-i] = r
	}
	return result
}
