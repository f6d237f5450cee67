package request

import "time"

// SettingsRequest is the request body for saving settings
type SettingsRequest struct {
	PlayerNames []string `json:"player_names"`
	IntervalMs  int      `json:"interval_ms"`
}

// RemoveHistoryRequest is the request body for removing history items
type RemoveHistoryRequest struct {
	Dates []time.Time `json:"dates"`
}
