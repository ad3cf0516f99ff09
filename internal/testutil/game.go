package testutil

import (
	"time"

	"github.com/mcoot/tilegame/internal/model"
	"github.com/mcoot/tilegame/internal/tiles"
)

// NewTestGame builds a small two-player game in PLAYING state.
// Racks hold "CAT" and "DOG"; the bag holds E, E and a blank.
func NewTestGame(key model.GameKey) *model.Game {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	alice := &model.Player{Key: "alice", Name: "Alice", Kind: model.PlayerKindHuman, Rack: tiles.NewRack(7)}
	alice.Rack.AddTiles([]*tiles.Tile{tiles.NewTile('C', 3), tiles.NewTile('A', 1), tiles.NewTile('T', 1)})

	bob := &model.Player{Key: "bob", Name: "Bob", Kind: model.PlayerKindHuman, Rack: tiles.NewRack(7)}
	bob.Rack.AddTiles([]*tiles.Tile{tiles.NewTile('D', 2), tiles.NewTile('O', 1), tiles.NewTile('G', 2)})

	bag := tiles.NewBag(9)
	bag.AddTiles([]*tiles.Tile{tiles.NewTile('E', 1), tiles.NewTile('E', 1), tiles.NewBlank()})

	return &model.Game{
		Key:           key,
		Config:        model.DefaultGameConfig(),
		State:         model.GameStatePlaying,
		Board:         tiles.NewBoard(15),
		Bag:           bag,
		Players:       []*model.Player{alice, bob},
		WhoseTurn:     "alice",
		TurnStartedAt: now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
