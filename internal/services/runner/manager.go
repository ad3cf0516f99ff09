package runner

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/mcoot/tilegame/internal/model"
	"github.com/mcoot/tilegame/internal/services/game"
)

// maxAttempts bounds how often a request follows a game whose runner
// stopped underneath it
const maxAttempts = 3

// Manager starts one Runner per live game, loading games from storage
// on first use. A game never has two runners: a stopping runner stays
// registered until it has finished, and lookups wait for it.
type Manager struct {
	controller *game.Controller
	runners    map[model.GameKey]*Runner
	mu         sync.Mutex
	closed     bool
	logger     *slog.Logger
}

// NewManager creates a new Manager
func NewManager(controller *game.Controller, logger *slog.Logger) *Manager {
	return &Manager{
		controller: controller,
		runners:    make(map[model.GameKey]*Runner),
		logger:     logger.With(slog.String("component", "game-runner")),
	}
}

// Create builds a new game and starts its runner
func (m *Manager) Create(ctx context.Context, cfg model.GameConfig, roster []model.PlayerSpec) (*model.Game, error) {
	g, err := m.controller.CreateGame(ctx, cfg, roster)
	if err != nil {
		return nil, err
	}

	r, err := m.adopt(g)
	if err != nil {
		return nil, err
	}
	return r.View(ctx)
}

// Get returns the runner for a game, loading the game if needed
func (m *Manager) Get(ctx context.Context, key model.GameKey) (*Runner, error) {
	for {
		m.mu.Lock()
		if m.closed {
			m.mu.Unlock()
			return nil, ErrClosed
		}
		r, ok := m.runners[key]
		m.mu.Unlock()

		if !ok {
			break
		}
		if !r.closing() {
			return r, nil
		}

		// The game is only reloaded once its last owner has saved and gone
		select {
		case <-r.stopped:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		m.forget(key, r)
	}

	g, err := m.controller.GetGame(ctx, key)
	if err != nil {
		return nil, err
	}
	return m.adopt(g)
}

// adopt starts a runner for g unless another caller got there first
func (m *Manager) adopt(g *model.Game) (*Runner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}
	if r, ok := m.runners[g.Key]; ok {
		return r, nil
	}

	r := newRunner(g, m.controller, m.logger)
	m.runners[g.Key] = r
	go r.Run()
	return r, nil
}

// forget drops r from the registry if it is still the game's runner
func (m *Manager) forget(key model.GameKey, r *Runner) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.runners[key] == r {
		delete(m.runners, key)
	}
}

// with runs fn against the game's runner, following the game to a new
// runner if the old one stopped before taking the request
func (m *Manager) with(ctx context.Context, key model.GameKey, fn func(r *Runner) error) error {
	var err error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		var r *Runner
		if r, err = m.Get(ctx, key); err != nil {
			return err
		}
		if err = fn(r); !errors.Is(err, ErrClosed) {
			return err
		}
	}
	return err
}

// Submit dispatches a command to a game
func (m *Manager) Submit(ctx context.Context, key model.GameKey, cmd model.Command, player model.PlayerKey, args model.CommandArgs) error {
	return m.with(ctx, key, func(r *Runner) error {
		return r.Submit(ctx, cmd, player, args)
	})
}

// View returns a snapshot of a game
func (m *Manager) View(ctx context.Context, key model.GameKey) (*model.Game, error) {
	var g *model.Game
	err := m.with(ctx, key, func(r *Runner) error {
		var err error
		g, err = r.View(ctx)
		return err
	})
	return g, err
}

// Join adds a player to a game that has not started
func (m *Manager) Join(ctx context.Context, key model.GameKey, spec model.PlayerSpec) error {
	return m.with(ctx, key, func(r *Runner) error {
		return r.Do(ctx, func(ctx context.Context, g *model.Game) error {
			return m.controller.AddPlayer(ctx, g, spec)
		})
	})
}

// Start begins play in a waiting game
func (m *Manager) Start(ctx context.Context, key model.GameKey) error {
	return m.with(ctx, key, func(r *Runner) error {
		return r.Do(ctx, func(ctx context.Context, g *model.Game) error {
			return m.controller.StartGame(ctx, g)
		})
	})
}

// Release stops the runner for a game. The game stays in storage.
func (m *Manager) Release(key model.GameKey) {
	m.mu.Lock()
	r, ok := m.runners[key]
	m.mu.Unlock()
	if !ok {
		return
	}

	r.Close()
	m.forget(key, r)
}

// ReleaseEnded stops the runners of games that have finished and returns
// how many were stopped. Finished games are still served from storage.
func (m *Manager) ReleaseEnded(ctx context.Context) int {
	m.mu.Lock()
	live := make(map[model.GameKey]*Runner, len(m.runners))
	for k, r := range m.runners {
		live[k] = r
	}
	m.mu.Unlock()

	released := 0
	for key, r := range live {
		ended, err := r.retireIf(ctx, func(g *model.Game) bool { return g.State.IsEnded() })
		if err != nil || !ended {
			continue
		}
		<-r.stopped
		m.forget(key, r)
		released++
	}
	if released > 0 {
		m.logger.Info("released finished games", slog.Int("count", released))
	}
	return released
}

// List returns the keys of every stored game
func (m *Manager) List(ctx context.Context) ([]model.GameKey, error) {
	return m.controller.ListGames(ctx)
}

// Delete stops a game's runner and removes the game from storage
func (m *Manager) Delete(ctx context.Context, key model.GameKey) error {
	m.Release(key)
	if err := m.controller.DeleteGame(ctx, key); err != nil {
		return err
	}
	// A lookup may have reloaded the game before it was deleted
	m.Release(key)
	return nil
}

// Count returns the number of running games
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.runners)
}

// Close stops every runner
func (m *Manager) Close() {
	m.mu.Lock()
	m.closed = true
	runners := m.runners
	m.runners = make(map[model.GameKey]*Runner)
	m.mu.Unlock()

	for _, r := range runners {
		r.Close()
	}
	m.logger.Info("game runners stopped", slog.Int("count", len(runners)))
}
