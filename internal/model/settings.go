package model

import "time"

// DefaultIntervalMs is the tick interval used when none is configured
const DefaultIntervalMs = 5000

// Settings configures the roster and cadence of new matches
type Settings struct {
	PlayerNames  []string `json:"player_names"`
	IntervalMs   int      `json:"interval_ms"`
	DisplayNames []string `json:"display_names,omitempty"`
}

// RosterNames returns the names players fight under. Display names win when
// there is one for every player.
func (s Settings) RosterNames() []string {
	if len(s.DisplayNames) == len(s.PlayerNames) {
		return s.DisplayNames
	}
	return s.PlayerNames
}

// Clone returns a copy that shares no slices with s
func (s Settings) Clone() Settings {
	s.PlayerNames = append([]string(nil), s.PlayerNames...)
	if s.DisplayNames != nil {
		s.DisplayNames = append([]string(nil), s.DisplayNames...)
	}
	return s
}

// Interval returns the tick interval as a duration
func (s Settings) Interval() time.Duration {
	return time.Duration(s.IntervalMs) * time.Millisecond
}

// DefaultSettings returns the stock roster used before anything is configured
func DefaultSettings() Settings {
	return Settings{
		PlayerNames: []string{"Calle", "Maria", "Marcus", "Niclas", "Jesper", "Young", "Elin", "Jocke", "Oscar"},
		IntervalMs:  DefaultIntervalMs,
	}
}
