package model

import (
	"time"

	"github.com/mcoot/tilegame/internal/tiles"
)

// TurnType identifies what a turn record describes
type TurnType string

const (
	TurnPlayed        TurnType = "PLAYED"
	TurnPassed        TurnType = "PASSED"
	TurnSwapped       TurnType = "SWAPPED"
	TurnChallengeLost TurnType = "CHALLENGE_LOST"
	TurnChallengeWon  TurnType = "CHALLENGE_WON"
	TurnTookBack      TurnType = "TOOK_BACK"
	TurnGameEnded     TurnType = "GAME_ENDED"
)

// Turn is an immutable ledger entry
type Turn struct {
	Type      TurnType
	PlayerKey PlayerKey
	Score     int               // Delta applied to PlayerKey
	Deltas    map[PlayerKey]int // Per-player deltas, GAME_ENDED only

	Placements   []Placement
	Replacements []tiles.Tile // Tiles drawn to refill the rack
	Words        []WordScore

	ChallengerKey PlayerKey
	NextToGo      PlayerKey
	Skipped       []PlayerKey // Players whose missed turn this turn used up
	Penalty       ChallengePenalty
	EndState      GameState

	Remaining time.Duration // Mover's clock when the turn was taken
	Timestamp time.Time
}

// DeltaFor returns the score change this turn applied to a player
func (t *Turn) DeltaFor(key PlayerKey) int {
	if t.Deltas != nil {
		return t.Deltas[key]
	}
	if t.PlayerKey == key {
		return t.Score
	}
	return 0
}

// Inverse builds the record that undoes a play
func Inverse(t Turn, turnType TurnType, challenger PlayerKey, now time.Time) Turn {
	inv := Turn{
		Type:         turnType,
		PlayerKey:    t.PlayerKey,
		Score:        -t.Score,
		Placements:   append([]Placement(nil), t.Placements...),
		Replacements: append([]tiles.Tile(nil), t.Replacements...),
		Timestamp:    now,
	}
	if turnType == TurnChallengeWon {
		inv.ChallengerKey = challenger
	}
	return inv
}
