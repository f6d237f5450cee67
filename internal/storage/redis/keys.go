package redis

import (
	"fmt"

	"github.com/mcoot/battle-royale/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "royale"

// settingsKey returns the Redis key for the stored settings
func settingsKey() string {
	return fmt.Sprintf("%s:settings", keyPrefix)
}

// matchKey returns the Redis key for a Match
func matchKey(id model.MatchID) string {
	return fmt.Sprintf("%s:match:%s", keyPrefix, id)
}

// matchIndexKey returns the Redis key for the SET of known match keys
func matchIndexKey() string {
	return fmt.Sprintf("%s:idx:matches", keyPrefix)
}

// historyKey returns the Redis key for the HASH of history items, keyed by date millis
func historyKey() string {
	return fmt.Sprintf("%s:history", keyPrefix)
}
