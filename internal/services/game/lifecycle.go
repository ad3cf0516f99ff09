package game

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mcoot/tilegame/internal/edition"
	"github.com/mcoot/tilegame/internal/model"
	"github.com/mcoot/tilegame/internal/tiles"
)

// CreateGame builds an empty game from an edition and adds the roster.
// The game is saved before and after the players are added.
func (c *Controller) CreateGame(ctx context.Context, cfg model.GameConfig, roster []model.PlayerSpec) (*model.Game, error) {
	ed, err := edition.Load(cfg.Edition)
	if err != nil {
		return nil, err
	}
	if cfg.MaxPlayers > 0 && len(roster) > cfg.MaxPlayers {
		return nil, model.ErrTooManyPlayers
	}

	now := c.clock.Now()
	bag := ed.NewBag()
	bag.Shuffle(c.random)

	g := &model.Game{
		Key:       model.GameKey(c.random.String(12, gameKeyAlphabet)),
		Config:    cfg,
		State:     model.GameStateWaiting,
		Board:     tiles.NewBoard(ed.BoardSize),
		Bag:       bag,
		Players:   []*model.Player{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := c.save(ctx, g); err != nil {
		return nil, err
	}

	for _, spec := range roster {
		if err := c.addPlayer(g, spec, ed.RackSize); err != nil {
			return nil, err
		}
	}

	if err := c.save(ctx, g); err != nil {
		return nil, err
	}

	c.logger.Info("game created",
		slog.String("game_key", string(g.Key)),
		slog.String("edition", cfg.Edition),
		slog.Int("player_count", len(g.Players)),
	)

	return g, nil
}

// AddPlayer adds a player to a game that has not started
func (c *Controller) AddPlayer(ctx context.Context, g *model.Game, spec model.PlayerSpec) error {
	if g.State != model.GameStateWaiting {
		return model.ErrGameStarted
	}
	if g.Config.MaxPlayers > 0 && len(g.Players) >= g.Config.MaxPlayers {
		return model.ErrTooManyPlayers
	}

	ed, err := edition.Load(g.Config.Edition)
	if err != nil {
		return err
	}
	if err := c.addPlayer(g, spec, ed.RackSize); err != nil {
		return err
	}

	c.logger.Info("player joined",
		slog.String("game_key", string(g.Key)),
		slog.String("player", string(spec.Key)),
	)

	return c.save(ctx, g)
}

func (c *Controller) addPlayer(g *model.Game, spec model.PlayerSpec, rackSize int) error {
	if g.GetPlayer(spec.Key) != nil {
		return fmt.Errorf("%w: %s", model.ErrDuplicatePlayer, spec.Key)
	}
	kind := spec.Kind
	if kind == "" {
		kind = model.PlayerKindHuman
	}
	construct, err := c.players.Lookup(kind)
	if err != nil {
		return fmt.Errorf("%w: %w", model.ErrPrecondition, err)
	}

	p := construct(spec)
	p.Rack = tiles.NewRack(rackSize)
	g.Players = append(g.Players, p)
	return nil
}

// StartGame shuffles the turn order, fills the racks and starts the clocks
func (c *Controller) StartGame(ctx context.Context, g *model.Game) error {
	if g.State != model.GameStateWaiting {
		return model.ErrGameStarted
	}
	if len(g.Players) < g.Config.MinPlayers || len(g.Players) == 0 {
		return model.ErrInsufficientPlayers
	}

	c.random.Shuffle(len(g.Players), func(i, j int) {
		g.Players[i], g.Players[j] = g.Players[j], g.Players[i]
	})

	for _, p := range g.Players {
		c.boardService.Refill(g.Bag, p.Rack)
		if g.Config.Timer != model.TimerNone {
			p.Clock = g.Config.TimeLimit
		}
	}

	now := c.clock.Now()
	g.State = model.GameStatePlaying
	c.startTurn(g, g.Players[0], now)

	c.logger.Info("game started",
		slog.String("game_key", string(g.Key)),
		slog.String("first_player", string(g.WhoseTurn)),
	)

	return c.save(ctx, g)
}

// Pause stops the clocks. Pausing a paused game does nothing.
func (c *Controller) Pause(ctx context.Context, g *model.Game, player model.PlayerKey) error {
	if g.State == model.GameStatePaused {
		return nil
	}
	if g.State != model.GameStatePlaying {
		return model.ErrNotPlaying
	}

	now := c.clock.Now()
	c.tickClock(g, now)
	g.State = model.GameStatePaused
	g.PausedBy = player

	if err := c.save(ctx, g); err != nil {
		return err
	}
	c.notifier.NotifyAll(ctx, g.Key, model.EventPause, c.pausePayload(g, player))
	return nil
}

// Unpause restarts the clocks. Unpausing a running game does nothing.
func (c *Controller) Unpause(ctx context.Context, g *model.Game, player model.PlayerKey) error {
	if g.State == model.GameStatePlaying {
		return nil
	}
	if g.State != model.GameStatePaused {
		return model.ErrNotPlaying
	}

	g.State = model.GameStatePlaying
	g.PausedBy = ""
	g.TurnStartedAt = c.clock.Now()

	if err := c.save(ctx, g); err != nil {
		return err
	}
	c.notifier.NotifyAll(ctx, g.Key, model.EventUnpause, c.pausePayload(g, player))
	return nil
}

func (c *Controller) pausePayload(g *model.Game, player model.PlayerKey) model.PausePayload {
	payload := model.PausePayload{GameKey: g.Key, PlayerKey: player, Timestamp: c.clock.Now()}
	if p := g.GetPlayer(player); p != nil {
		payload.Name = p.Name
	}
	return payload
}

// ConfirmGameOver settles the game and moves it to a terminal state.
// It does nothing unless the game is being played, so a repeat call
// cannot settle twice.
func (c *Controller) ConfirmGameOver(ctx context.Context, g *model.Game, player model.PlayerKey, endState model.GameState) error {
	if g.State != model.GameStatePlaying {
		return nil
	}
	if endState == "" {
		endState = model.GameStateGameOver
	}
	if !endState.IsEnded() {
		return fmt.Errorf("%w: %s", model.ErrBadEndState, endState)
	}

	now := c.clock.Now()
	c.tickClock(g, now)

	settlement, err := c.scoringService.Settle(g.Players, g.Config)
	if err != nil {
		c.logger.Error("settlement failed",
			slog.String("game_key", string(g.Key)),
			slog.String("error", err.Error()),
		)
		return err
	}

	for _, p := range g.Players {
		p.Score += settlement.Deltas[p.Key]
	}
	g.State = endState

	c.record(g, model.Turn{
		Type:      model.TurnGameEnded,
		PlayerKey: player,
		Deltas:    settlement.Deltas,
		EndState:  endState,
		Timestamp: now,
	})

	standings := c.scoringService.Standings(g.Players)
	c.logger.Info("game ended",
		slog.String("game_key", string(g.Key)),
		slog.String("end_state", string(endState)),
		slog.String("winner", string(c.scoringService.DetermineWinner(standings))),
	)

	return c.save(ctx, g)
}

// AnotherGame creates a follow-on game with the same rules and players.
// A game has at most one successor.
func (c *Controller) AnotherGame(ctx context.Context, g *model.Game) (*model.Game, error) {
	if g.NextGameKey != "" {
		return nil, fmt.Errorf("%w: %s", model.ErrNextGameExists, g.NextGameKey)
	}

	roster := make([]model.PlayerSpec, len(g.Players))
	for i, p := range g.Players {
		roster[i] = model.PlayerSpec{Key: p.Key, Name: p.Name, Kind: p.Kind}
	}

	next, err := c.CreateGame(ctx, g.Config, roster)
	if err != nil {
		return nil, err
	}

	if len(next.Players) >= next.Config.MinPlayers {
		if err := c.StartGame(ctx, next); err != nil {
			return nil, err
		}
	}

	g.NextGameKey = next.Key
	if err := c.save(ctx, g); err != nil {
		return nil, err
	}

	c.notifier.NotifyAll(ctx, g.Key, model.EventNextGame, model.NextGamePayload{
		GameKey:     g.Key,
		NextGameKey: next.Key,
	})

	c.logger.Info("follow-on game created",
		slog.String("game_key", string(g.Key)),
		slog.String("next_game_key", string(next.Key)),
	)

	return next, nil
}

// ListGames returns the keys of every stored game
func (c *Controller) ListGames(ctx context.Context) ([]model.GameKey, error) {
	return c.storage.ListGames(ctx)
}

// DeleteGame removes a game from storage
func (c *Controller) DeleteGame(ctx context.Context, key model.GameKey) error {
	if _, err := c.storage.GetGame(ctx, key); err != nil {
		return err
	}
	if err := c.storage.DeleteGame(ctx, key); err != nil {
		return fmt.Errorf("delete game %s: %w", key, err)
	}

	c.logger.Info("game deleted", slog.String("game_key", string(key)))
	return nil
}
