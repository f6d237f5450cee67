package model

import "time"

// HistoryItem is the record of a finished match kept for later display.
// Items are identified by Date at millisecond precision.
type HistoryItem struct {
	Date        time.Time         `json:"date"`
	MatchID     MatchID           `json:"match_id,omitempty"`
	Rounds      int               `json:"rounds"`
	Leaderboard []LeaderboardItem `json:"leaderboard"`
	IsSaved     bool              `json:"is_saved,omitempty"` // true once exported or seeded from file
}

// Key returns the identity of the item
func (h HistoryItem) Key() int64 {
	return h.Date.UnixMilli()
}
