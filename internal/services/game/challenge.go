package game

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mcoot/tilegame/internal/model"
	"github.com/mcoot/tilegame/internal/services/dictionary"
)

// Challenge disputes the words of the last play. A play with a word the
// dictionary does not know is taken back. Otherwise the challenger pays
// the configured penalty.
//
// When the dictionary cannot be resolved the challenge succeeds.
func (c *Controller) Challenge(ctx context.Context, g *model.Game, challenger, challenged model.PlayerKey) error {
	if g.State != model.GameStatePlaying {
		return model.ErrNotPlaying
	}
	if challenger == challenged {
		return model.ErrSelfChallenge
	}
	cp := g.GetPlayer(challenger)
	if cp == nil {
		return model.ErrUnknownPlayer
	}
	last, ok := g.Ledger.Last()
	if !ok || last.Type != model.TurnPlayed || last.PlayerKey != challenged {
		return fmt.Errorf("%w: %s", model.ErrNoPlayToChallenge, challenged)
	}

	words := make([]string, len(last.Words))
	for i, w := range last.Words {
		words[i] = w.Word
	}

	dict, err := c.dictionaries.Dictionary(ctx, g.Config.Dictionary)
	if err != nil {
		c.logger.Warn("dictionary unavailable, challenge succeeds",
			slog.String("game_key", string(g.Key)),
			slog.String("challenger", string(challenger)),
			slog.String("error", err.Error()),
		)
		return c.TakeBack(ctx, g, challenger, model.TurnChallengeWon)
	}

	if bad := unknownWords(dict, words); len(bad) > 0 {
		c.logger.Info("challenge won",
			slog.String("game_key", string(g.Key)),
			slog.String("challenger", string(challenger)),
			slog.Any("words", bad),
		)
		return c.TakeBack(ctx, g, challenger, model.TurnChallengeWon)
	}

	c.logger.Info("challenge lost",
		slog.String("game_key", string(g.Key)),
		slog.String("challenger", string(challenger)),
		slog.String("penalty", string(g.Config.ChallengePenalty)),
	)

	now := c.clock.Now()
	turn := model.Turn{
		Type:          model.TurnChallengeLost,
		PlayerKey:     challenger,
		ChallengerKey: challenger,
		Penalty:       g.Config.ChallengePenalty,
		Timestamp:     now,
	}

	switch g.Config.ChallengePenalty {
	case model.PenaltyMiss:
		if g.WhoseTurn != challenger {
			// Applied when the challenger's turn next comes round
			cp.MissNextTurn = true
			break
		}

		// The challenged player went out and nothing is left to draw;
		// the forfeited turn would have been the challenger's last.
		if mover := g.GetPlayer(challenged); mover != nil && mover.Rack.IsEmpty() && len(last.Replacements) == 0 {
			return c.ConfirmGameOver(ctx, g, challenger, model.GameStateFailedChallenge)
		}

		c.tickClock(g, now)
		next, skipped := c.nextPlayer(g, challenger)
		turn.NextToGo = next.Key
		turn.Skipped = skipped
		turn.Remaining = cp.Clock
		c.record(g, turn)
		c.startTurn(g, next, now)
		return c.save(ctx, g)

	case model.PenaltyPerTurn:
		turn.Score = -g.Config.PenaltyPoints

	case model.PenaltyPerWord:
		turn.Score = -g.Config.PenaltyPoints * len(last.Words)
	}

	cp.Score += turn.Score
	c.record(g, turn)
	return c.save(ctx, g)
}

// Allow adds a word to the game dictionary's whitelist
func (c *Controller) Allow(ctx context.Context, g *model.Game, player model.PlayerKey, word string) error {
	word = dictionary.Normalize(word)
	if word == "" {
		return model.ErrEmptyWord
	}

	dict, err := c.dictionaries.Dictionary(ctx, g.Config.Dictionary)
	if err != nil {
		return err
	}

	name := string(player)
	if p := g.GetPlayer(player); p != nil {
		name = p.Name
	}

	if dict.AddWord(word) {
		c.logger.Info("word allowed",
			slog.String("game_key", string(g.Key)),
			slog.String("player", string(player)),
			slog.String("word", word),
		)
		c.notifier.NotifyAll(ctx, g.Key, model.EventMessage, model.MessagePayload{
			Sender: model.SenderAdvisor,
			Text:   model.MessageWordAllowed,
			Args:   []string{name, word},
		})
		return nil
	}

	c.notifier.NotifyPlayer(ctx, g.Key, player, model.EventMessage, model.MessagePayload{
		Sender: model.SenderAdvisor,
		Text:   model.MessageWordAlreadyAllowed,
		Args:   []string{word, dict.Name()},
	})
	return nil
}
