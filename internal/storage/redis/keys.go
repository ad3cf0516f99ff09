package redis

import (
	"fmt"

	"github.com/mcoot/tilegame/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "tilegame"

// gameKey returns the Redis key for a Game
func gameKey(key model.GameKey) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, key)
}

// gamesIndexKey returns the Redis key for the SET of known game keys
func gamesIndexKey() string {
	return fmt.Sprintf("%s:idx:games", keyPrefix)
}

// dictionaryKey returns the Redis key for a named dictionary's word set
func dictionaryKey(name string) string {
	return fmt.Sprintf("%s:dictionary:%s", keyPrefix, name)
}
