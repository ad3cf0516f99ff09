package model

import (
	"time"

	"github.com/mcoot/tilegame/internal/tiles"
)

// GameKey uniquely identifies a game
type GameKey string

// GameState represents the lifecycle phase of a game
type GameState string

const (
	GameStateWaiting GameState = "WAITING" // Not started
	GameStatePlaying GameState = "PLAYING"
	GameStatePaused  GameState = "PAUSED"

	// Terminal states
	GameStateGameOver              GameState = "GAME_OVER"
	GameStateTwoPasses             GameState = "TWO_PASSES"
	GameStateChallengeLostGameOver GameState = "CHALLENGE_LOST_GAME_OVER"
	GameStateFailedChallenge       GameState = "FAILED_CHALLENGE"
)

// IsEnded returns true for the terminal states
func (s GameState) IsEnded() bool {
	switch s {
	case GameStateGameOver, GameStateTwoPasses, GameStateChallengeLostGameOver, GameStateFailedChallenge:
		return true
	}
	return false
}

// Game is the aggregate that owns every tile zone, the roster and the ledger
type Game struct {
	Key    GameKey
	Config GameConfig
	State  GameState

	Board   *tiles.Board
	Bag     *tiles.Container
	Players []*Player // Turn order once started
	Ledger  Ledger

	WhoseTurn   PlayerKey
	PausedBy    PlayerKey
	NextGameKey GameKey

	TurnStartedAt time.Time // When the current mover's clock last started
	CreatedAt     time.Time
	UpdatedAt     time.Time

	unannounced []Turn // Recorded since the last save
}

// Record appends a turn to the ledger and holds it until it is announced
func (g *Game) Record(t Turn) {
	g.Ledger.Append(t)
	g.unannounced = append(g.unannounced, t)
}

// TakeUnannounced returns the turns recorded since the last call
func (g *Game) TakeUnannounced() []Turn {
	turns := g.unannounced
	g.unannounced = nil
	return turns
}

// GetPlayer returns the player with the given key, or nil
func (g *Game) GetPlayer(key PlayerKey) *Player {
	for _, p := range g.Players {
		if p.Key == key {
			return p
		}
	}
	return nil
}

// PlayerIndex returns the position of a player in turn order, or -1
func (g *Game) PlayerIndex(key PlayerKey) int {
	for i, p := range g.Players {
		if p.Key == key {
			return i
		}
	}
	return -1
}

// CurrentPlayer returns the player due to move, or nil
func (g *Game) CurrentPlayer() *Player {
	return g.GetPlayer(g.WhoseTurn)
}

// IsEnded returns true once the game has reached a terminal state
func (g *Game) IsEnded() bool {
	return g.State.IsEnded()
}

// TileCount returns the number of tiles across board, racks and bag
func (g *Game) TileCount() int {
	count := g.Board.Count() + g.Bag.Count()
	for _, p := range g.Players {
		count += p.Rack.Count()
	}
	return count
}

// WordList is a dictionary as the engine sees it
type WordList interface {
	Name() string
	HasWord(word string) bool
	// AddWord whitelists a word, returning false if it was already known
	AddWord(word string) bool
}
