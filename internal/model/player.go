package model

import (
	"time"

	"github.com/mcoot/tilegame/internal/tiles"
)

// PlayerKey uniquely identifies a player within the system
type PlayerKey string

// PlayerKind selects how a player is constructed and driven
type PlayerKind string

const (
	PlayerKindHuman PlayerKind = "human"
	PlayerKindRobot PlayerKind = "robot"
)

// Player is a participant in one game
type Player struct {
	Key          PlayerKey
	Name         string
	Kind         PlayerKind
	Score        int // Changed only by turn settlement
	Rack         *tiles.Container
	Clock        time.Duration // Remaining time; negative once overrun
	MissNextTurn bool
}

// IsRobot returns true for computer-driven players
func (p *Player) IsRobot() bool {
	return p.Kind == PlayerKindRobot
}

// PlayerSpec describes a roster entry when creating a game
type PlayerSpec struct {
	Key  PlayerKey
	Name string
	Kind PlayerKind
}
