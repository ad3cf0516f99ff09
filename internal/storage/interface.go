package storage

import (
	"context"

	"github.com/mcoot/tilegame/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// Game operations
	SaveGame(ctx context.Context, game *model.Game) error
	GetGame(ctx context.Context, key model.GameKey) (*model.Game, error)
	DeleteGame(ctx context.Context, key model.GameKey) error
	ListGames(ctx context.Context) ([]model.GameKey, error)

	// Dictionary operations
	GetDictionaryWords(ctx context.Context, name string) ([]string, error)
	SaveDictionaryWords(ctx context.Context, name string, words []string) error
}
