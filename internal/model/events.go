package model

import (
	"time"

	"github.com/mcoot/tilegame/internal/tiles"
)

// EventType identifies the type of notification sent to players
type EventType string

const (
	EventReject   EventType = "REJECT"
	EventPause    EventType = "PAUSE"
	EventUnpause  EventType = "UNPAUSE"
	EventNextGame EventType = "NEXT_GAME"
	EventMessage  EventType = "MESSAGE"
	EventTurn     EventType = "TURN"
	EventDrawn    EventType = "DRAWN"
)

// RejectPayload lists the words that caused a play to be refused
type RejectPayload struct {
	PlayerKey PlayerKey `json:"player"`
	Words     []string  `json:"words"`
}

// PausePayload is sent for both PAUSE and UNPAUSE
type PausePayload struct {
	GameKey   GameKey   `json:"game"`
	PlayerKey PlayerKey `json:"player"`
	Name      string    `json:"name"`
	Timestamp time.Time `json:"timestamp"`
}

// NextGamePayload announces a follow-on game
type NextGamePayload struct {
	GameKey     GameKey `json:"game"`
	NextGameKey GameKey `json:"next_game"`
}

// DrawnPayload tells a player which tiles they drew. It is never broadcast.
type DrawnPayload struct {
	PlayerKey PlayerKey
	Tiles     []tiles.Tile
}

// MessagePayload is a chat-style message rendered by the client
type MessagePayload struct {
	Sender string   `json:"sender"`
	Text   string   `json:"text"` // i18n key
	Args   []string `json:"args,omitempty"`
}

// Message senders
const (
	SenderAdvisor = "Advisor"
)

// Message text keys
const (
	MessageWordAllowed        = "word-allowed"
	MessageWordAlreadyAllowed = "word-already-allowed"
	MessageUnknownWords       = "unknown-words"
)
