package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mcoot/tilegame/internal/model"
	"github.com/mcoot/tilegame/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	games        map[model.GameKey]*model.Game
	dictionaries map[string][]string
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		games:        make(map[model.GameKey]*model.Game),
		dictionaries: make(map[string][]string),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Game operations

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[game.Key] = game
	return nil
}

func (s *Storage) GetGame(ctx context.Context, key model.GameKey) (*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[key]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	return game, nil
}

func (s *Storage) DeleteGame(ctx context.Context, key model.GameKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, key)
	return nil
}

func (s *Storage) ListGames(ctx context.Context) ([]model.GameKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]model.GameKey, 0, len(s.games))
	for k := range s.games {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys, nil
}

// Dictionary operations

func (s *Storage) GetDictionaryWords(ctx context.Context, name string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	words, ok := s.dictionaries[name]
	if !ok {
		return nil, model.ErrDictionaryNotLoaded
	}
	// Return a copy to prevent mutation
	result := make([]string, len(words))
	copy(result, words)
	return result, nil
}

func (s *Storage) SaveDictionaryWords(ctx context.Context, name string, words []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Store a copy to prevent external mutation
	s.dictionaries[name] = make([]string, len(words))
	copy(s.dictionaries[name], words)
	return nil
}
