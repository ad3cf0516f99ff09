package testutil

import (
	"context"
	"sync"

	"github.com/mcoot/tilegame/internal/model"
)

// Notification is one event captured by MockNotifier
type Notification struct {
	Game    model.GameKey
	Player  model.PlayerKey // Empty for broadcasts
	Event   model.EventType
	Payload any
}

// MockNotifier records every notification it is asked to send
type MockNotifier struct {
	mu   sync.Mutex
	sent []Notification
}

// NewMockNotifier creates an empty MockNotifier
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (n *MockNotifier) NotifyPlayer(ctx context.Context, game model.GameKey, player model.PlayerKey, event model.EventType, payload any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, Notification{Game: game, Player: player, Event: event, Payload: payload})
}

func (n *MockNotifier) NotifyAll(ctx context.Context, game model.GameKey, event model.EventType, payload any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, Notification{Game: game, Event: event, Payload: payload})
}

// Sent returns a copy of the recorded notifications
func (n *MockNotifier) Sent() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notification(nil), n.sent...)
}

// OfType returns the recorded notifications of one event type
func (n *MockNotifier) OfType(event model.EventType) []Notification {
	var result []Notification
	for _, s := range n.Sent() {
		if s.Event == event {
			result = append(result, s)
		}
	}
	return result
}

// Reset forgets everything recorded so far
func (n *MockNotifier) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = nil
}
