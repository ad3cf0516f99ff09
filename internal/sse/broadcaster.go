package sse

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/mcoot/tilegame/internal/api/response"
	"github.com/mcoot/tilegame/internal/model"
)

// Envelope is the data of every game event on the stream
type Envelope struct {
	Game    model.GameKey   `json:"game"`
	Player  model.PlayerKey `json:"player,omitempty"`
	Event   model.EventType `json:"event"`
	Payload any             `json:"payload,omitempty"`
}

// Broadcaster delivers game notifications to SSE clients
type Broadcaster struct {
	hubManager *HubManager
	logger     *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		logger:     logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// NotifyPlayer sends an event to one player's connections
func (b *Broadcaster) NotifyPlayer(ctx context.Context, game model.GameKey, player model.PlayerKey, event model.EventType, payload any) {
	hub := b.hubManager.GetHub(game)
	if hub == nil {
		return
	}

	data, ok := b.encode(Envelope{Game: game, Player: player, Event: event, Payload: wire(payload)})
	if !ok {
		return
	}
	hub.SendTo(player, string(event), data)
}

// NotifyAll sends an event to every connection watching a game
func (b *Broadcaster) NotifyAll(ctx context.Context, game model.GameKey, event model.EventType, payload any) {
	hub := b.hubManager.GetHub(game)
	if hub == nil {
		return
	}

	if _, private := payload.(model.DrawnPayload); private {
		b.logger.Error("sse refused to broadcast private event",
			slog.String("game_key", string(game)),
			slog.String("event", string(event)))
		return
	}

	data, ok := b.encode(Envelope{Game: game, Event: event, Payload: wire(payload)})
	if !ok {
		return
	}
	hub.Broadcast(string(event), data)
}

// wire converts engine payloads to the shapes the JSON API uses. Turns
// carry only the number of tiles drawn.
func wire(payload any) any {
	switch p := payload.(type) {
	case model.Turn:
		return response.TurnFromModel(p)
	case model.DrawnPayload:
		return response.DrawnFromModel(p)
	}
	return payload
}

func (b *Broadcaster) encode(env Envelope) (string, bool) {
	data, err := json.Marshal(env)
	if err != nil {
		b.logger.Error("sse failed to encode event",
			slog.String("game_key", string(env.Game)),
			slog.String("event", string(env.Event)),
			slog.Any("error", err))
		return "", false
	}
	return string(data), true
}
