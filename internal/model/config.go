package model

import "time"

// WordCheck controls when played words are checked against the dictionary
type WordCheck string

const (
	WordCheckNone   WordCheck = "NONE"   // No checking; rely on challenges
	WordCheckAfter  WordCheck = "AFTER"  // Accept the play, warn the player
	WordCheckReject WordCheck = "REJECT" // Refuse plays with unknown words
)

// ChallengePenalty selects what a failed challenge costs the challenger
type ChallengePenalty string

const (
	PenaltyNone    ChallengePenalty = "NONE"
	PenaltyMiss    ChallengePenalty = "MISS"
	PenaltyPerTurn ChallengePenalty = "PER_TURN"
	PenaltyPerWord ChallengePenalty = "PER_WORD"
)

// TimerType selects how player clocks run
type TimerType string

const (
	TimerNone    TimerType = "NONE"
	TimerPerTurn TimerType = "PER_TURN" // Clock resets at the start of each turn
	TimerPerGame TimerType = "PER_GAME" // One allowance for the whole game
)

// GameConfig holds the rules a game is played under
type GameConfig struct {
	Edition    string
	Dictionary string // Empty disables dictionary checks
	WordCheck  WordCheck

	ChallengePenalty ChallengePenalty
	PenaltyPoints    int

	Timer                TimerType
	TimeLimit            time.Duration
	TimePenaltyPerMinute int

	MinPlayers int
	MaxPlayers int
}

// DefaultGameConfig returns the default rules
func DefaultGameConfig() GameConfig {
	return GameConfig{
		Edition:              "English_Scrabble",
		WordCheck:            WordCheckNone,
		ChallengePenalty:     PenaltyMiss,
		PenaltyPoints:        5,
		Timer:                TimerNone,
		TimePenaltyPerMinute: 10,
		MinPlayers:           2,
		MaxPlayers:           4,
	}
}
