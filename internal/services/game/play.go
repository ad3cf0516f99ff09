package game

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mcoot/tilegame/internal/model"
)

// Play puts a move on the board. Under the REJECT word check a play with
// unknown words is refused with a notification to the mover and nothing
// in the game changes.
func (c *Controller) Play(ctx context.Context, g *model.Game, player model.PlayerKey, move *model.Move) error {
	if move == nil || len(move.Placements) == 0 {
		return model.ErrMissingMove
	}
	p, err := c.requireTurn(g, player)
	if err != nil {
		return err
	}

	checking := g.Config.Dictionary != "" && !p.IsRobot()
	if checking && g.Config.WordCheck == model.WordCheckReject {
		dict, err := c.dictionaries.Dictionary(ctx, g.Config.Dictionary)
		switch {
		case err == nil:
			if bad := unknownWords(dict, move.WordList()); len(bad) > 0 {
				c.notifier.NotifyPlayer(ctx, g.Key, player, model.EventReject, model.RejectPayload{
					PlayerKey: player,
					Words:     bad,
				})
				return nil
			}
		case isUnavailable(err):
			c.logger.Warn("dictionary unavailable, play not checked",
				slog.String("game_key", string(g.Key)),
				slog.String("dictionary", g.Config.Dictionary),
			)
		default:
			return err
		}
	}

	if err := c.boardService.PlaceMove(g.Board, p.Rack, move.Placements); err != nil {
		return err
	}

	now := c.clock.Now()
	c.tickClock(g, now)

	replacements := c.boardService.Refill(g.Bag, p.Rack)
	p.Score += move.Score

	next, skipped := c.nextPlayer(g, player)
	c.record(g, model.Turn{
		Type:         model.TurnPlayed,
		PlayerKey:    player,
		Score:        move.Score,
		Placements:   append([]model.Placement(nil), move.Placements...),
		Replacements: replacements,
		Words:        append([]model.WordScore(nil), move.Words...),
		NextToGo:     next.Key,
		Skipped:      skipped,
		Remaining:    p.Clock,
		Timestamp:    now,
	})
	c.startTurn(g, next, now)

	if err := c.save(ctx, g); err != nil {
		return err
	}

	if checking && g.Config.WordCheck == model.WordCheckAfter {
		c.adviseUnknownWords(ctx, g, player, move.WordList())
	}
	return nil
}

// adviseUnknownWords tells a player which of their accepted words the dictionary lacks
func (c *Controller) adviseUnknownWords(ctx context.Context, g *model.Game, player model.PlayerKey, words []string) {
	dict, err := c.dictionaries.Dictionary(ctx, g.Config.Dictionary)
	if err != nil {
		return
	}
	if bad := unknownWords(dict, words); len(bad) > 0 {
		c.notifier.NotifyPlayer(ctx, g.Key, player, model.EventMessage, model.MessagePayload{
			Sender: model.SenderAdvisor,
			Text:   model.MessageUnknownWords,
			Args:   bad,
		})
	}
}

// Pass gives up the turn. When every player has passed twice in a row the
// game ends.
func (c *Controller) Pass(ctx context.Context, g *model.Game, player model.PlayerKey) error {
	p, err := c.requireTurn(g, player)
	if err != nil {
		return err
	}

	now := c.clock.Now()
	c.tickClock(g, now)

	next, skipped := c.nextPlayer(g, player)
	c.record(g, model.Turn{
		Type:      model.TurnPassed,
		PlayerKey: player,
		NextToGo:  next.Key,
		Skipped:   skipped,
		Remaining: p.Clock,
		Timestamp: now,
	})
	c.startTurn(g, next, now)

	if g.Ledger.TrailingPasses() >= 2*len(g.Players) {
		return c.ConfirmGameOver(ctx, g, player, model.GameStateTwoPasses)
	}
	return c.save(ctx, g)
}

// Swap exchanges rack tiles with the bag and ends the turn
func (c *Controller) Swap(ctx context.Context, g *model.Game, player model.PlayerKey, letters []rune) error {
	if len(letters) == 0 {
		return fmt.Errorf("%w: nothing to swap", model.ErrNoTiles)
	}
	p, err := c.requireTurn(g, player)
	if err != nil {
		return err
	}

	drawn, err := c.boardService.Swap(g.Bag, p.Rack, letters)
	if err != nil {
		return err
	}

	now := c.clock.Now()
	c.tickClock(g, now)

	next, skipped := c.nextPlayer(g, player)
	c.record(g, model.Turn{
		Type:         model.TurnSwapped,
		PlayerKey:    player,
		Replacements: drawn,
		NextToGo:     next.Key,
		Skipped:      skipped,
		Remaining:    p.Clock,
		Timestamp:    now,
	})
	c.startTurn(g, next, now)

	return c.save(ctx, g)
}

// TakeBack undoes the last play. turnType is TOOK_BACK when the mover
// withdraws their own play, or CHALLENGE_WON when a challenge removes it.
func (c *Controller) TakeBack(ctx context.Context, g *model.Game, player model.PlayerKey, turnType model.TurnType) error {
	if g.State != model.GameStatePlaying {
		return model.ErrNotPlaying
	}
	last, ok := g.Ledger.Last()
	if !ok {
		return model.ErrNothingToTakeBack
	}
	if last.Type != model.TurnPlayed {
		return fmt.Errorf("%w: last turn was %s", model.ErrNotPlayed, last.Type)
	}
	if turnType == model.TurnTookBack && last.PlayerKey != player {
		return model.ErrNotOwnPlay
	}
	mover := g.GetPlayer(last.PlayerKey)
	if mover == nil {
		return fmt.Errorf("%w: player %s of last turn is gone", model.ErrInconsistent, last.PlayerKey)
	}

	now := c.clock.Now()
	c.tickClock(g, now)

	if err := c.boardService.ReturnToBag(g.Bag, mover.Rack, last.Replacements); err != nil {
		return err
	}
	if err := c.boardService.LiftMove(g.Board, mover.Rack, last.Placements); err != nil {
		return err
	}
	mover.Score -= last.Score
	// Whoever the play skipped still owes their missed turn
	for _, key := range last.Skipped {
		if p := g.GetPlayer(key); p != nil {
			p.MissNextTurn = true
		}
	}

	var challenger model.PlayerKey
	if turnType == model.TurnChallengeWon {
		challenger = player
	}
	inverse := model.Inverse(last, turnType, challenger, now)

	switch turnType {
	case model.TurnChallengeWon:
		// The turn stays where it is and its clock starts afresh
		if current := g.CurrentPlayer(); current != nil {
			c.startTurn(g, current, now)
		}
	default:
		// The mover resumes with only the time they had left
		g.WhoseTurn = mover.Key
		g.TurnStartedAt = now
		mover.Clock = last.Remaining
	}
	inverse.NextToGo = g.WhoseTurn
	inverse.Remaining = mover.Clock
	c.record(g, inverse)

	c.logger.Info("play taken back",
		slog.String("game_key", string(g.Key)),
		slog.String("player", string(mover.Key)),
		slog.String("type", string(turnType)),
	)

	return c.save(ctx, g)
}
