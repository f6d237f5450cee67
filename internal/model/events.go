package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	EventMatchInitialized EventType = "match_initialized"
	EventMatchStarted     EventType = "match_started"
	EventMatchPaused      EventType = "match_paused"
	EventMatchResumed     EventType = "match_resumed"
	EventRoundResolved    EventType = "round_resolved"
	EventMatchFinished    EventType = "match_finished"
	EventMatchRestarted   EventType = "match_restarted"
	EventMatchDeleted     EventType = "match_deleted"
)

// Event is published after every successful match transition
type Event struct {
	Type      EventType
	Timestamp time.Time
	MatchID   MatchID
	Match     *Match // Snapshot after the transition; nil for deletions
	Payload   any    // Type-specific data
}

// RoundResolvedPayload contains data for round resolved events
type RoundResolvedPayload struct {
	Round Round
	Alive int
}

// MatchFinishedPayload contains data for match finished events
type MatchFinishedPayload struct {
	Winners      []LeaderboardItem
	Announcement string
}
