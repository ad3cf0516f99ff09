package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mcoot/tilegame/internal/dependencies/clock"
	"github.com/mcoot/tilegame/internal/dependencies/random"
	"github.com/mcoot/tilegame/internal/model"
	"github.com/mcoot/tilegame/internal/registry"
	"github.com/mcoot/tilegame/internal/services/board"
	"github.com/mcoot/tilegame/internal/services/scoring"
	"github.com/mcoot/tilegame/internal/storage"
)

const gameKeyAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Notifier delivers game events to connected players
type Notifier interface {
	NotifyPlayer(ctx context.Context, game model.GameKey, player model.PlayerKey, event model.EventType, payload any)
	NotifyAll(ctx context.Context, game model.GameKey, event model.EventType, payload any)
}

// Dictionaries resolves a game's dictionary by name
type Dictionaries interface {
	Dictionary(ctx context.Context, name string) (model.WordList, error)
}

// PlayerConstructor builds a fresh player for a roster entry
type PlayerConstructor func(spec model.PlayerSpec) *model.Player

// DefaultPlayers returns a registry with the built-in player kinds
func DefaultPlayers() *registry.Registry[model.PlayerKind, PlayerConstructor] {
	players := registry.New[model.PlayerKind, PlayerConstructor]()
	players.MustRegister(model.PlayerKindHuman, func(spec model.PlayerSpec) *model.Player {
		return &model.Player{Key: spec.Key, Name: spec.Name, Kind: model.PlayerKindHuman}
	})
	players.MustRegister(model.PlayerKindRobot, func(spec model.PlayerSpec) *model.Player {
		return &model.Player{Key: spec.Key, Name: spec.Name, Kind: model.PlayerKindRobot}
	})
	return players
}

type handler func(ctx context.Context, g *model.Game, player model.PlayerKey, args model.CommandArgs) error

// Controller is the turn state machine. It assumes a single caller per
// game at a time and takes no locks of its own.
type Controller struct {
	storage        storage.Storage
	boardService   *board.Service
	scoringService *scoring.Service
	dictionaries   Dictionaries
	notifier       Notifier
	players        *registry.Registry[model.PlayerKind, PlayerConstructor]
	commands       *registry.Registry[model.Command, handler]
	clock          clock.Clock
	random         random.Random
	logger         *slog.Logger
}

// NewController creates a new GameController
func NewController(
	storage storage.Storage,
	boardService *board.Service,
	scoringService *scoring.Service,
	dictionaries Dictionaries,
	notifier Notifier,
	players *registry.Registry[model.PlayerKind, PlayerConstructor],
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	c := &Controller{
		storage:        storage,
		boardService:   boardService,
		scoringService: scoringService,
		dictionaries:   dictionaries,
		notifier:       notifier,
		players:        players,
		clock:          clock,
		random:         random,
		logger:         logger.With(slog.String("component", "game")),
	}

	c.commands = registry.New[model.Command, handler]()
	c.commands.MustRegister(model.CommandPlay, func(ctx context.Context, g *model.Game, p model.PlayerKey, a model.CommandArgs) error {
		return c.Play(ctx, g, p, a.Move)
	})
	c.commands.MustRegister(model.CommandPass, func(ctx context.Context, g *model.Game, p model.PlayerKey, _ model.CommandArgs) error {
		return c.Pass(ctx, g, p)
	})
	c.commands.MustRegister(model.CommandSwap, func(ctx context.Context, g *model.Game, p model.PlayerKey, a model.CommandArgs) error {
		return c.Swap(ctx, g, p, a.Letters)
	})
	c.commands.MustRegister(model.CommandChallenge, func(ctx context.Context, g *model.Game, p model.PlayerKey, a model.CommandArgs) error {
		return c.Challenge(ctx, g, p, a.Challenged)
	})
	c.commands.MustRegister(model.CommandTakeBack, func(ctx context.Context, g *model.Game, p model.PlayerKey, _ model.CommandArgs) error {
		return c.TakeBack(ctx, g, p, model.TurnTookBack)
	})
	c.commands.MustRegister(model.CommandPause, func(ctx context.Context, g *model.Game, p model.PlayerKey, _ model.CommandArgs) error {
		return c.Pause(ctx, g, p)
	})
	c.commands.MustRegister(model.CommandUnpause, func(ctx context.Context, g *model.Game, p model.PlayerKey, _ model.CommandArgs) error {
		return c.Unpause(ctx, g, p)
	})
	c.commands.MustRegister(model.CommandConfirmGameOver, func(ctx context.Context, g *model.Game, p model.PlayerKey, a model.CommandArgs) error {
		return c.ConfirmGameOver(ctx, g, p, a.EndState)
	})
	c.commands.MustRegister(model.CommandAnotherGame, func(ctx context.Context, g *model.Game, p model.PlayerKey, _ model.CommandArgs) error {
		_, err := c.AnotherGame(ctx, g)
		return err
	})
	c.commands.MustRegister(model.CommandAllow, func(ctx context.Context, g *model.Game, p model.PlayerKey, a model.CommandArgs) error {
		return c.Allow(ctx, g, p, a.Word)
	})

	return c
}

// GetGame retrieves a game by key
func (c *Controller) GetGame(ctx context.Context, key model.GameKey) (*model.Game, error) {
	return c.storage.GetGame(ctx, key)
}

// Dispatch routes a command to its handler. An unknown command is a
// protocol error, not a validation failure.
func (c *Controller) Dispatch(ctx context.Context, g *model.Game, cmd model.Command, player model.PlayerKey, args model.CommandArgs) error {
	h, err := c.commands.Lookup(cmd)
	if err != nil {
		return fmt.Errorf("%w: %q", model.ErrUnknownCommand, cmd)
	}
	if g.GetPlayer(player) == nil {
		return fmt.Errorf("%w: %s", model.ErrUnknownPlayer, player)
	}

	c.logger.Debug("dispatching command",
		slog.String("game_key", string(g.Key)),
		slog.String("player", string(player)),
		slog.String("command", string(cmd)),
	)

	return h(ctx, g, player, args)
}

// requireTurn checks the player may take an ordinary turn now
func (c *Controller) requireTurn(g *model.Game, player model.PlayerKey) (*model.Player, error) {
	if g.State != model.GameStatePlaying {
		return nil, model.ErrNotPlaying
	}
	p := g.GetPlayer(player)
	if p == nil {
		return nil, model.ErrUnknownPlayer
	}
	if g.WhoseTurn != player {
		return nil, model.ErrNotPlayerTurn
	}
	if finisher := c.finisher(g); finisher != nil {
		return nil, fmt.Errorf("%w: %s", model.ErrGameFinishing, finisher.Key)
	}
	return p, nil
}

// finisher returns the player who has played out, once the bag is empty
func (c *Controller) finisher(g *model.Game) *model.Player {
	if !g.Bag.IsEmpty() {
		return nil
	}
	for _, p := range g.Players {
		if p.Rack.IsEmpty() {
			return p
		}
	}
	return nil
}

// nextPlayer returns who moves after the given player, skipping (and
// clearing) anyone tagged to miss a turn. The skipped players are
// returned so the turn can be undone exactly.
func (c *Controller) nextPlayer(g *model.Game, after model.PlayerKey) (*model.Player, []model.PlayerKey) {
	n := len(g.Players)
	i := g.PlayerIndex(after)
	var skipped []model.PlayerKey
	for step := 1; step <= n; step++ {
		candidate := g.Players[(i+step)%n]
		if candidate.MissNextTurn {
			candidate.MissNextTurn = false
			skipped = append(skipped, candidate.Key)
			c.logger.Info("player misses turn",
				slog.String("game_key", string(g.Key)),
				slog.String("player", string(candidate.Key)),
			)
			continue
		}
		return candidate, skipped
	}
	return g.Players[(i+1)%n], skipped
}

// tickClock charges the time since the turn started to the current mover
func (c *Controller) tickClock(g *model.Game, now time.Time) {
	if g.State == model.GameStatePlaying && g.Config.Timer != model.TimerNone {
		if p := g.CurrentPlayer(); p != nil {
			p.Clock -= now.Sub(g.TurnStartedAt)
		}
	}
	g.TurnStartedAt = now
}

// startTurn hands the turn to a player
func (c *Controller) startTurn(g *model.Game, p *model.Player, now time.Time) {
	g.WhoseTurn = p.Key
	g.TurnStartedAt = now
	if g.Config.Timer == model.TimerPerTurn {
		p.Clock = g.Config.TimeLimit
	}
}

// record appends a turn. It is announced once the game has been saved.
func (c *Controller) record(g *model.Game, turn model.Turn) {
	g.Record(turn)
}

// save stores the game and then announces the turns recorded since the
// last save. Nothing is announced if the save fails.
func (c *Controller) save(ctx context.Context, g *model.Game) error {
	g.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveGame(ctx, g); err != nil {
		g.TakeUnannounced()
		c.logger.Error("failed to save game",
			slog.String("game_key", string(g.Key)),
			slog.String("error", err.Error()),
		)
		return err
	}
	for _, turn := range g.TakeUnannounced() {
		c.announce(ctx, g, turn)
	}
	return nil
}

// announce broadcasts a turn. Drawn tiles go only to the player who drew them.
func (c *Controller) announce(ctx context.Context, g *model.Game, turn model.Turn) {
	c.notifier.NotifyAll(ctx, g.Key, model.EventTurn, turn)
	if len(turn.Replacements) > 0 && (turn.Type == model.TurnPlayed || turn.Type == model.TurnSwapped) {
		c.notifier.NotifyPlayer(ctx, g.Key, turn.PlayerKey, model.EventDrawn, model.DrawnPayload{
			PlayerKey: turn.PlayerKey,
			Tiles:     turn.Replacements,
		})
	}
}

// Restore stores a game as it was before a failed command, without
// announcing anything
func (c *Controller) Restore(ctx context.Context, g *model.Game) error {
	return c.storage.SaveGame(ctx, g)
}

// unknownWords returns the words the dictionary does not know
func unknownWords(dict model.WordList, words []string) []string {
	var bad []string
	for _, w := range words {
		if !dict.HasWord(w) {
			bad = append(bad, w)
		}
	}
	return bad
}

// isUnavailable reports whether a dictionary lookup failed for want of a dictionary
func isUnavailable(err error) bool {
	return errors.Is(err, model.ErrDictionaryNotLoaded)
}
