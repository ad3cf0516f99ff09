package model

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the engine wraps one of these
// (or is a storage/lookup error) and can be classified with errors.Is.
var (
	// ErrPrecondition signals a caller or protocol defect; retrying will not help
	ErrPrecondition = errors.New("precondition violated")
	// ErrInconsistent signals that the game's own invariants no longer hold
	ErrInconsistent = errors.New("internal inconsistency")
	// ErrProtocol signals a transport-level contract violation
	ErrProtocol = errors.New("protocol violation")
)

var (
	// Lookup errors
	ErrGameNotFound        = errors.New("game not found")
	ErrEditionNotFound     = errors.New("edition not found")
	ErrDictionaryNotLoaded = errors.New("dictionary not loaded")

	// Player errors
	ErrUnknownPlayer       = fmt.Errorf("%w: player is not in this game", ErrPrecondition)
	ErrNotPlayerTurn       = fmt.Errorf("%w: not this player's turn", ErrPrecondition)
	ErrInsufficientPlayers = fmt.Errorf("%w: insufficient players to start game", ErrPrecondition)
	ErrTooManyPlayers      = fmt.Errorf("%w: too many players", ErrPrecondition)

	// Lifecycle errors
	ErrNotPlaying      = fmt.Errorf("%w: game is not in play", ErrPrecondition)
	ErrGameStarted     = fmt.Errorf("%w: game has already started", ErrPrecondition)
	ErrNextGameExists  = fmt.Errorf("%w: a follow-on game already exists", ErrPrecondition)
	ErrGameFinishing   = fmt.Errorf("%w: a player has finished; confirm game over or challenge", ErrPrecondition)
	ErrBadEndState     = fmt.Errorf("%w: not a terminal game state", ErrPrecondition)
	ErrDuplicatePlayer = fmt.Errorf("%w: player is already in this game", ErrPrecondition)

	// Move errors
	ErrMissingMove = fmt.Errorf("%w: move has no placements", ErrPrecondition)
	ErrBadSquare   = fmt.Errorf("%w: placement is not on an empty square", ErrPrecondition)
	ErrNoTiles     = fmt.Errorf("%w: player does not hold the tiles", ErrPrecondition)
	ErrBagTooSmall = fmt.Errorf("%w: not enough tiles in the bag to swap", ErrPrecondition)
	ErrEmptyWord   = fmt.Errorf("%w: word is empty", ErrPrecondition)

	// Challenge and take-back errors
	ErrSelfChallenge     = fmt.Errorf("%w: cannot challenge own play", ErrPrecondition)
	ErrNoPlayToChallenge = fmt.Errorf("%w: no play by that player to challenge", ErrPrecondition)
	ErrNothingToTakeBack = fmt.Errorf("%w: no previous turn", ErrPrecondition)
	ErrNotPlayed         = fmt.Errorf("%w: previous turn was not a play", ErrPrecondition)
	ErrNotOwnPlay        = fmt.Errorf("%w: cannot take back another player's play", ErrPrecondition)

	// Dispatch errors
	ErrUnknownCommand = fmt.Errorf("%w: unknown command", ErrProtocol)

	// Consistency errors
	ErrMultipleEmptyRacks = fmt.Errorf("%w: more than one player has an empty rack", ErrInconsistent)
	ErrTileMissing        = fmt.Errorf("%w: tile missing from its container", ErrInconsistent)
)
