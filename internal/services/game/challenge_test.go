package game

import (
	"time"

	"github.com/mcoot/tilegame/internal/model"
)

// Challenge tests

func (s *ControllerSuite) TestChallengeUnknownWordTakesPlayBack() {
	g := s.newGame()
	before := takeSnapshot(g)
	s.Require().NoError(s.controller.Play(s.ctx, g, "alice", catMove("ZZQX")))

	err := s.controller.Challenge(s.ctx, g, "bob", "alice")
	s.Require().NoError(err)

	s.Equal(before, takeSnapshot(g))
	// The turn stays with the challenger
	s.Equal(model.PlayerKey("bob"), g.WhoseTurn)

	last, _ := g.Ledger.Last()
	s.Equal(model.TurnChallengeWon, last.Type)
	s.Equal(model.PlayerKey("alice"), last.PlayerKey)
	s.Equal(model.PlayerKey("bob"), last.ChallengerKey)
	s.Equal(-5, last.Score)
	s.assertInvariants(g)
}

func (s *ControllerSuite) TestChallengeWonResetsTurnClock() {
	g := s.newGame(withTimer(model.TimerPerTurn, time.Minute))
	s.Require().NoError(s.controller.Play(s.ctx, g, "alice", catMove("ZZQX")))

	s.clock.Advance(30 * time.Second)
	s.Require().NoError(s.controller.Challenge(s.ctx, g, "bob", "alice"))

	s.Equal(time.Minute, g.GetPlayer("bob").Clock)
	s.Equal(s.clock.Now(), g.TurnStartedAt)
}

func (s *ControllerSuite) TestChallengeSucceedsWhenDictionaryUnavailable() {
	g := s.newGame(withConfig(func(cfg *model.GameConfig) { cfg.Dictionary = "Missing" }))
	s.Require().NoError(s.controller.Play(s.ctx, g, "alice", catMove()))

	s.Require().NoError(s.controller.Challenge(s.ctx, g, "bob", "alice"))

	last, _ := g.Ledger.Last()
	s.Equal(model.TurnChallengeWon, last.Type)
	s.True(g.Board.IsEmpty())
	s.assertInvariants(g)
}

func (s *ControllerSuite) TestChallengeLostPerWord() {
	g := s.newGame(withConfig(func(cfg *model.GameConfig) {
		cfg.ChallengePenalty = model.PenaltyPerWord
		cfg.PenaltyPoints = 5
	}))
	s.Require().NoError(s.controller.Play(s.ctx, g, "alice", catMove("CAT", "AT")))

	err := s.controller.Challenge(s.ctx, g, "bob", "alice")
	s.Require().NoError(err)

	s.Equal(-10, g.GetPlayer("bob").Score)
	s.Equal(5, g.GetPlayer("alice").Score)
	s.Equal(3, g.Board.Count())
	s.Equal(model.PlayerKey("bob"), g.WhoseTurn)

	last, _ := g.Ledger.Last()
	s.Equal(model.TurnChallengeLost, last.Type)
	s.Equal(model.PlayerKey("bob"), last.PlayerKey)
	s.Equal(-10, last.Score)
	s.Equal(model.PenaltyPerWord, last.Penalty)
	s.Empty(last.NextToGo)
	s.assertInvariants(g)
}

func (s *ControllerSuite) TestChallengeLostPerTurn() {
	g := s.newGame(withCarol(), withConfig(func(cfg *model.GameConfig) {
		cfg.ChallengePenalty = model.PenaltyPerTurn
		cfg.PenaltyPoints = 7
	}))
	s.Require().NoError(s.controller.Play(s.ctx, g, "alice", catMove("CAT", "AT")))

	s.Require().NoError(s.controller.Challenge(s.ctx, g, "carol", "alice"))

	s.Equal(-7, g.GetPlayer("carol").Score)
	s.Equal(model.PlayerKey("bob"), g.WhoseTurn)
	s.assertInvariants(g)
}

func (s *ControllerSuite) TestChallengeLostMissByCurrentPlayer() {
	g := s.newGame()
	s.Require().NoError(s.controller.Play(s.ctx, g, "alice", catMove()))

	s.Require().NoError(s.controller.Challenge(s.ctx, g, "bob", "alice"))

	s.Equal(model.PlayerKey("alice"), g.WhoseTurn)
	s.Equal(0, g.GetPlayer("bob").Score)
	s.False(g.GetPlayer("bob").MissNextTurn)

	last, _ := g.Ledger.Last()
	s.Equal(model.TurnChallengeLost, last.Type)
	s.Equal(model.PenaltyMiss, last.Penalty)
	s.Equal(model.PlayerKey("alice"), last.NextToGo)
	s.assertInvariants(g)
}

func (s *ControllerSuite) TestChallengeLostMissByOtherPlayer() {
	g := s.newGame(withCarol())
	s.Require().NoError(s.controller.Play(s.ctx, g, "alice", catMove()))

	s.Require().NoError(s.controller.Challenge(s.ctx, g, "carol", "alice"))

	s.True(g.GetPlayer("carol").MissNextTurn)
	s.Equal(model.PlayerKey("bob"), g.WhoseTurn)
	last, _ := g.Ledger.Last()
	s.Equal(model.TurnChallengeLost, last.Type)
	s.Zero(last.Score)

	// Carol's turn is skipped when it comes round
	s.Require().NoError(s.controller.Pass(s.ctx, g, "bob"))
	s.Equal(model.PlayerKey("alice"), g.WhoseTurn)
	s.False(g.GetPlayer("carol").MissNextTurn)
	s.assertInvariants(g)
}

func (s *ControllerSuite) TestChallengeLostNoPenalty() {
	g := s.newGame(withConfig(func(cfg *model.GameConfig) { cfg.ChallengePenalty = model.PenaltyNone }))
	s.Require().NoError(s.controller.Play(s.ctx, g, "alice", catMove()))

	s.Require().NoError(s.controller.Challenge(s.ctx, g, "bob", "alice"))

	s.Equal(model.PlayerKey("bob"), g.WhoseTurn)
	s.Equal(0, g.GetPlayer("bob").Score)
	last, _ := g.Ledger.Last()
	s.Equal(model.TurnChallengeLost, last.Type)
}

func (s *ControllerSuite) TestFailedChallengeEndsGameWhenPlayerWentOut() {
	g := s.newGame(withEmptyBag(), withRack("alice", rack("CAT", 3, 1, 1)))
	s.Require().NoError(s.controller.Play(s.ctx, g, "alice", catMove()))

	s.Require().NoError(s.controller.Challenge(s.ctx, g, "bob", "alice"))

	s.Equal(model.GameStateFailedChallenge, g.State)
	s.Equal(14, g.GetPlayer("alice").Score)
	s.Equal(-9, g.GetPlayer("bob").Score)

	last, _ := g.Ledger.Last()
	s.Equal(model.TurnGameEnded, last.Type)
	s.Equal(model.GameStateFailedChallenge, last.EndState)
	s.assertInvariants(g)
}

func (s *ControllerSuite) TestChallengeOwnPlay() {
	g := s.newGame()
	s.Require().NoError(s.controller.Play(s.ctx, g, "alice", catMove()))

	err := s.controller.Challenge(s.ctx, g, "alice", "alice")
	s.ErrorIs(err, model.ErrSelfChallenge)
	s.ErrorIs(err, model.ErrPrecondition)
}

func (s *ControllerSuite) TestChallengeWithoutPlay() {
	g := s.newGame()

	err := s.controller.Challenge(s.ctx, g, "bob", "alice")
	s.ErrorIs(err, model.ErrNoPlayToChallenge)

	s.Require().NoError(s.controller.Pass(s.ctx, g, "alice"))
	err = s.controller.Challenge(s.ctx, g, "bob", "alice")
	s.ErrorIs(err, model.ErrNoPlayToChallenge)
}

func (s *ControllerSuite) TestChallengeWrongPlayer() {
	g := s.newGame(withCarol())
	s.Require().NoError(s.controller.Play(s.ctx, g, "alice", catMove()))

	err := s.controller.Challenge(s.ctx, g, "carol", "bob")
	s.ErrorIs(err, model.ErrNoPlayToChallenge)
	s.Equal(3, g.Board.Count())
}

func (s *ControllerSuite) TestChallengeViaDispatch() {
	g := s.newGame()
	s.Require().NoError(s.controller.Play(s.ctx, g, "alice", catMove("ZZQX")))

	err := s.controller.Dispatch(s.ctx, g, model.CommandChallenge, "bob", model.CommandArgs{Challenged: "alice"})
	s.Require().NoError(err)

	last, _ := g.Ledger.Last()
	s.Equal(model.TurnChallengeWon, last.Type)
}

func (s *ControllerSuite) TestChallengeWonRestoresMissedTurn() {
	g := s.newGame(withCarol())
	s.Require().NoError(s.controller.Play(s.ctx, g, "alice", catMove()))
	s.Require().NoError(s.controller.Challenge(s.ctx, g, "carol", "alice"))

	s.Require().NoError(s.controller.Play(s.ctx, g, "bob", dogMove("DOGZ")))
	s.Equal(model.PlayerKey("alice"), g.WhoseTurn)
	s.False(g.GetPlayer("carol").MissNextTurn)

	s.Require().NoError(s.controller.Challenge(s.ctx, g, "alice", "bob"))
	last, _ := g.Ledger.Last()
	s.Require().Equal(model.TurnChallengeWon, last.Type)
	s.True(g.GetPlayer("carol").MissNextTurn)

	// Carol still sits out once
	s.Require().NoError(s.controller.Pass(s.ctx, g, "alice"))
	s.Require().NoError(s.controller.Pass(s.ctx, g, "bob"))
	s.Equal(model.PlayerKey("alice"), g.WhoseTurn)
	s.False(g.GetPlayer("carol").MissNextTurn)
	s.assertInvariants(g)
}
