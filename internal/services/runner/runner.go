package runner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mcoot/tilegame/internal/model"
	"github.com/mcoot/tilegame/internal/services/game"
)

// ErrClosed is returned for work submitted after the runner has stopped
var ErrClosed = errors.New("game runner closed")

// request is one unit of work for a game's owner goroutine
type request struct {
	ctx   context.Context
	fn    func(ctx context.Context, g *model.Game) error
	write bool
	reply chan error
}

// Runner owns one live game. Every read and write of the game happens on
// its goroutine, so the engine itself needs no locks.
type Runner struct {
	game       *model.Game
	controller *game.Controller
	requests   chan request
	done       chan struct{}
	stopped    chan struct{}
	closeOnce  sync.Once
	retiring   bool // only touched on the owner goroutine
	logger     *slog.Logger
}

func newRunner(g *model.Game, controller *game.Controller, logger *slog.Logger) *Runner {
	return &Runner{
		game:       g,
		controller: controller,
		requests:   make(chan request),
		done:       make(chan struct{}),
		stopped:    make(chan struct{}),
		logger:     logger.With(slog.String("game_key", string(g.Key))),
	}
}

// Run serves requests until Close is called or the runner retires
func (r *Runner) Run() {
	defer close(r.stopped)
	r.logger.Debug("game runner started")
	for {
		select {
		case req := <-r.requests:
			req.reply <- r.handle(req)
			if r.retiring {
				r.closeOnce.Do(func() { close(r.done) })
				r.logger.Debug("game runner retired")
				return
			}
		case <-r.done:
			r.logger.Debug("game runner stopped")
			return
		}
	}
}

// handle runs one request. Once accepted a command runs to completion
// even if the caller goes away. A write that fails for any reason other
// than a refused precondition leaves the game as it was before.
func (r *Runner) handle(req request) (err error) {
	ctx := context.WithoutCancel(req.ctx)

	var before *model.Game
	if req.write {
		if before, err = clone(r.game); err != nil {
			return fmt.Errorf("%w: %w", model.ErrInconsistent, err)
		}
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("panic in game runner", slog.Any("panic", rec))
			err = fmt.Errorf("%w: %v", model.ErrInconsistent, rec)
		}
		if err != nil && before != nil && !refused(err) {
			r.restore(ctx, before, err)
		}
	}()
	return req.fn(ctx, r.game)
}

// refused reports whether err was raised before the game was touched
func refused(err error) bool {
	return errors.Is(err, model.ErrPrecondition) || errors.Is(err, model.ErrProtocol)
}

// restore discards a partly applied command
func (r *Runner) restore(ctx context.Context, before *model.Game, cause error) {
	r.logger.Warn("command failed, game restored", slog.String("error", cause.Error()))
	r.game = before
	if err := r.controller.Restore(ctx, before); err != nil {
		r.logger.Error("failed to store restored game", slog.String("error", err.Error()))
	}
}

// Do runs fn on the owner goroutine and waits for its result. fn may
// change the game; if it fails the change is undone.
func (r *Runner) Do(ctx context.Context, fn func(ctx context.Context, g *model.Game) error) error {
	return r.send(ctx, request{ctx: ctx, fn: fn, write: true, reply: make(chan error, 1)})
}

// read runs fn on the owner goroutine without guarding the game against it
func (r *Runner) read(ctx context.Context, fn func(ctx context.Context, g *model.Game) error) error {
	return r.send(ctx, request{ctx: ctx, fn: fn, reply: make(chan error, 1)})
}

func (r *Runner) send(ctx context.Context, req request) error {
	select {
	case r.requests <- req:
	case <-r.done:
		return ErrClosed
	case <-r.stopped:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-req.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Submit dispatches a player command to the game
func (r *Runner) Submit(ctx context.Context, cmd model.Command, player model.PlayerKey, args model.CommandArgs) error {
	return r.Do(ctx, func(ctx context.Context, g *model.Game) error {
		return r.controller.Dispatch(ctx, g, cmd, player, args)
	})
}

// View returns a deep copy of the game safe to use on any goroutine
func (r *Runner) View(ctx context.Context) (*model.Game, error) {
	var snapshot *model.Game
	err := r.read(ctx, func(ctx context.Context, g *model.Game) error {
		var err error
		snapshot, err = clone(g)
		return err
	})
	return snapshot, err
}

// retireIf stops the runner if the game satisfies cond. The check and the
// stop happen on the owner goroutine, so no command can slip in between.
func (r *Runner) retireIf(ctx context.Context, cond func(g *model.Game) bool) (bool, error) {
	retired := make(chan bool, 1)
	err := r.read(ctx, func(ctx context.Context, g *model.Game) error {
		r.retiring = cond(g)
		retired <- r.retiring
		return nil
	})
	if err != nil {
		return false, err
	}
	return <-retired, nil
}

// closing reports whether the runner has been asked to stop
func (r *Runner) closing() bool {
	select {
	case <-r.done:
		return true
	default:
		return false
	}
}

// Close stops the runner and waits for it to finish
func (r *Runner) Close() {
	r.closeOnce.Do(func() { close(r.done) })
	<-r.stopped
}

func clone(g *model.Game) (*model.Game, error) {
	data, err := json.Marshal(g)
	if err != nil {
		return nil, fmt.Errorf("snapshot game: %w", err)
	}
	var copied model.Game
	if err := json.Unmarshal(data, &copied); err != nil {
		return nil, fmt.Errorf("snapshot game: %w", err)
	}
	return &copied, nil
}
