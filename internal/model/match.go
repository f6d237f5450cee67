package model

import "time"

// MatchID uniquely identifies a match
type MatchID string

// MatchState represents the current phase of a match
type MatchState string

const (
	MatchStateInitialized MatchState = "initialized" // Roster created, waiting for start
	MatchStateRunning     MatchState = "running"     // Rounds are being resolved on each tick
	MatchStatePaused      MatchState = "paused"      // Ticks are ignored until resumed
	MatchStateFinished    MatchState = "finished"    // Fewer than two players remain
)

// Match is the full state of one battle
type Match struct {
	ID       MatchID    `json:"id"`
	State    MatchState `json:"state"`
	Settings Settings   `json:"settings"`

	Players []Player `json:"players"`
	Rounds  []Round  `json:"rounds"`

	// HostKeyHash is the bcrypt hash of the key allowed to control the match
	HostKeyHash string `json:"host_key_hash"`

	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// AliveCount returns how many players still have hit points
func (m *Match) AliveCount() int {
	return AliveCount(m.Players)
}

// IsOver returns true once fewer than two players can fight
func (m *Match) IsOver() bool {
	return m.AliveCount() < 2
}

// IsInProgress returns true while the match has been started but not finished
func (m *Match) IsInProgress() bool {
	return m.State == MatchStateRunning || m.State == MatchStatePaused
}

// CurrentRound returns the number of the last resolved round, 0 before the first
func (m *Match) CurrentRound() int {
	return len(m.Rounds)
}

// Clone returns a deep copy of the match
func (m *Match) Clone() *Match {
	c := *m
	c.Settings = m.Settings.Clone()
	c.Players = ClonePlayers(m.Players)
	c.Rounds = CloneRounds(m.Rounds)
	if m.StartedAt != nil {
		t := *m.StartedAt
		c.StartedAt = &t
	}
	if m.FinishedAt != nil {
		t := *m.FinishedAt
		c.FinishedAt = &t
	}
	return &c
}
