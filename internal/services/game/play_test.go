package game

import (
	"time"

	"github.com/mcoot/tilegame/internal/model"
	"github.com/mcoot/tilegame/internal/tiles"
)

// Play tests

func (s *ControllerSuite) TestPlayMovesTilesAndAdvances() {
	g := s.newGame()

	err := s.controller.Play(s.ctx, g, "alice", catMove())
	s.Require().NoError(err)

	s.Equal(3, g.Board.Count())
	s.Equal('C', g.Board.At(tiles.Position{Row: 7, Col: 7}).Letter)
	s.Equal(7, g.GetPlayer("alice").Rack.Count())
	s.Equal(17, g.Bag.Count())
	s.Equal(5, g.GetPlayer("alice").Score)
	s.Equal(model.PlayerKey("bob"), g.WhoseTurn)

	last, ok := g.Ledger.Last()
	s.Require().True(ok)
	s.Equal(model.TurnPlayed, last.Type)
	s.Equal(model.PlayerKey("alice"), last.PlayerKey)
	s.Equal(5, last.Score)
	s.Len(last.Placements, 3)
	s.Len(last.Replacements, 3)
	s.Equal(model.PlayerKey("bob"), last.NextToGo)

	s.Len(s.notifier.OfType(model.EventTurn), 1)
	drawn := s.notifier.OfType(model.EventDrawn)
	s.Require().Len(drawn, 1)
	s.Equal(model.PlayerKey("alice"), drawn[0].Player)
	s.Len(drawn[0].Payload.(model.DrawnPayload).Tiles, 3)

	saved, err := s.storage.GetGame(s.ctx, g.Key)
	s.Require().NoError(err)
	s.Equal(1, saved.Ledger.Len())
	s.assertInvariants(g)
}

func (s *ControllerSuite) TestPlayWithBlank() {
	g := s.newGame()
	move := &model.Move{
		Placements: []model.Placement{
			{Row: 7, Col: 7, Letter: 'Z', IsBlank: true},
			{Row: 7, Col: 8, Letter: 'A', Score: 1},
		},
		Words: []model.WordScore{{Word: "ZA", Score: 1}},
		Score: 1,
	}

	s.Require().NoError(s.controller.Play(s.ctx, g, "alice", move))

	z := g.Board.At(tiles.Position{Row: 7, Col: 7})
	s.True(z.IsBlank)
	s.Equal('Z', z.Letter)
	s.assertInvariants(g)
}

func (s *ControllerSuite) TestPlayNotPlayersTurn() {
	g := s.newGame()

	err := s.controller.Play(s.ctx, g, "bob", catMove())
	s.ErrorIs(err, model.ErrNotPlayerTurn)
	s.True(g.Board.IsEmpty())
}

func (s *ControllerSuite) TestPlayMissingMove() {
	g := s.newGame()

	err := s.controller.Play(s.ctx, g, "alice", nil)
	s.ErrorIs(err, model.ErrMissingMove)
	s.ErrorIs(err, model.ErrPrecondition)

	err = s.controller.Play(s.ctx, g, "alice", &model.Move{})
	s.ErrorIs(err, model.ErrMissingMove)
}

func (s *ControllerSuite) TestPlayOccupiedSquareChangesNothing() {
	g := s.newGame()
	s.Require().NoError(g.Board.Place(tiles.Position{Row: 7, Col: 9}, tiles.NewTile('X', 8)))
	s.tileTotal++
	before := takeSnapshot(g)

	err := s.controller.Play(s.ctx, g, "alice", catMove())
	s.ErrorIs(err, model.ErrBadSquare)
	s.Equal(before, takeSnapshot(g))
	s.Zero(g.Ledger.Len())
}

func (s *ControllerSuite) TestPlayTilesNotHeld() {
	g := s.newGame()
	move := &model.Move{
		Placements: []model.Placement{{Row: 7, Col: 7, Letter: 'Q'}, {Row: 7, Col: 8, Letter: 'X'}},
		Words:      []model.WordScore{{Word: "QX"}},
	}
	before := takeSnapshot(g)

	err := s.controller.Play(s.ctx, g, "alice", move)
	s.ErrorIs(err, model.ErrNoTiles)
	s.Equal(before, takeSnapshot(g))
}

func (s *ControllerSuite) TestPlayRejectsUnknownWordsWithoutSideEffects() {
	g := s.newGame(withConfig(func(cfg *model.GameConfig) { cfg.WordCheck = model.WordCheckReject }))
	before := takeSnapshot(g)

	err := s.controller.Play(s.ctx, g, "alice", catMove("CAT", "ZZQX"))
	s.Require().NoError(err)

	s.Equal(before, takeSnapshot(g))
	s.Zero(g.Ledger.Len())
	s.Equal(model.PlayerKey("alice"), g.WhoseTurn)

	sent := s.notifier.Sent()
	s.Require().Len(sent, 1)
	s.Equal(model.EventReject, sent[0].Event)
	s.Equal(model.PlayerKey("alice"), sent[0].Player)
	s.Equal(model.RejectPayload{PlayerKey: "alice", Words: []string{"ZZQX"}}, sent[0].Payload)
	s.assertInvariants(g)
}

func (s *ControllerSuite) TestPlayRejectAcceptsKnownWords() {
	g := s.newGame(withConfig(func(cfg *model.GameConfig) { cfg.WordCheck = model.WordCheckReject }))

	s.Require().NoError(s.controller.Play(s.ctx, g, "alice", catMove("CAT", "AT")))
	s.Equal(3, g.Board.Count())
	s.Empty(s.notifier.OfType(model.EventReject))
}

func (s *ControllerSuite) TestPlayRejectSkipsRobots() {
	g := s.newGame(withConfig(func(cfg *model.GameConfig) { cfg.WordCheck = model.WordCheckReject }))
	g.GetPlayer("alice").Kind = model.PlayerKindRobot

	s.Require().NoError(s.controller.Play(s.ctx, g, "alice", catMove("ZZQX")))
	s.Equal(3, g.Board.Count())
}

func (s *ControllerSuite) TestPlayRejectWithUnavailableDictionaryIsUnchecked() {
	g := s.newGame(withConfig(func(cfg *model.GameConfig) {
		cfg.WordCheck = model.WordCheckReject
		cfg.Dictionary = "Missing"
	}))

	s.Require().NoError(s.controller.Play(s.ctx, g, "alice", catMove("ZZQX")))
	s.Equal(3, g.Board.Count())
}

func (s *ControllerSuite) TestPlayAfterCheckAdvises() {
	g := s.newGame(withConfig(func(cfg *model.GameConfig) { cfg.WordCheck = model.WordCheckAfter }))

	s.Require().NoError(s.controller.Play(s.ctx, g, "alice", catMove("ZZQX")))

	s.Equal(3, g.Board.Count())
	messages := s.notifier.OfType(model.EventMessage)
	s.Require().Len(messages, 1)
	s.Equal(model.PlayerKey("alice"), messages[0].Player)
	s.Equal(model.MessagePayload{
		Sender: model.SenderAdvisor,
		Text:   model.MessageUnknownWords,
		Args:   []string{"ZZQX"},
	}, messages[0].Payload)
}

func (s *ControllerSuite) TestPlayRefusedWhileAPlayerHasGoneOut() {
	g := s.newGame(withEmptyBag(), withRack("alice", rack("CAT", 3, 1, 1)))
	s.Require().NoError(s.controller.Play(s.ctx, g, "alice", catMove()))

	move := &model.Move{Placements: []model.Placement{{Row: 8, Col: 7, Letter: 'O'}}}
	err := s.controller.Play(s.ctx, g, "bob", move)
	s.ErrorIs(err, model.ErrGameFinishing)

	err = s.controller.Pass(s.ctx, g, "bob")
	s.ErrorIs(err, model.ErrGameFinishing)
}

func (s *ControllerSuite) TestPlayPerTurnTimerResetsNextClock() {
	g := s.newGame(withTimer(model.TimerPerTurn, time.Minute))
	g.GetPlayer("bob").Clock = 5 * time.Second

	s.clock.Advance(20 * time.Second)
	s.Require().NoError(s.controller.Play(s.ctx, g, "alice", catMove()))

	last, _ := g.Ledger.Last()
	s.Equal(40*time.Second, last.Remaining)
	s.Equal(time.Minute, g.GetPlayer("bob").Clock)
	s.Equal(s.clock.Now(), g.TurnStartedAt)
}

// Pass and swap tests

func (s *ControllerSuite) TestPassAdvances() {
	g := s.newGame()

	s.Require().NoError(s.controller.Pass(s.ctx, g, "alice"))

	s.Equal(model.PlayerKey("bob"), g.WhoseTurn)
	last, _ := g.Ledger.Last()
	s.Equal(model.TurnPassed, last.Type)
	s.Equal(model.GameStatePlaying, g.State)
}

func (s *ControllerSuite) TestTwoRoundsOfPassesEndsGame() {
	g := s.newGame()

	s.Require().NoError(s.controller.Pass(s.ctx, g, "alice"))
	s.Require().NoError(s.controller.Pass(s.ctx, g, "bob"))
	s.Require().NoError(s.controller.Pass(s.ctx, g, "alice"))
	s.Equal(model.GameStatePlaying, g.State)

	s.Require().NoError(s.controller.Pass(s.ctx, g, "bob"))

	s.Equal(model.GameStateTwoPasses, g.State)
	last, _ := g.Ledger.Last()
	s.Equal(model.TurnGameEnded, last.Type)
	s.Equal(model.GameStateTwoPasses, last.EndState)
	s.Equal(-8, g.GetPlayer("alice").Score)
	s.Equal(-9, g.GetPlayer("bob").Score)
	s.assertInvariants(g)
}

func (s *ControllerSuite) TestPassesAfterAPlayStartCounting() {
	g := s.newGame()

	s.Require().NoError(s.controller.Pass(s.ctx, g, "alice"))
	s.Require().NoError(s.controller.Pass(s.ctx, g, "bob"))
	s.Require().NoError(s.controller.Play(s.ctx, g, "alice", catMove()))
	s.Require().NoError(s.controller.Pass(s.ctx, g, "bob"))
	s.Require().NoError(s.controller.Pass(s.ctx, g, "alice"))
	s.Require().NoError(s.controller.Pass(s.ctx, g, "bob"))

	s.Equal(model.GameStatePlaying, g.State)
}

func (s *ControllerSuite) TestSwap() {
	g := s.newGame()

	s.Require().NoError(s.controller.Swap(s.ctx, g, "alice", []rune{'C', 'S'}))

	s.Equal(7, g.GetPlayer("alice").Rack.Count())
	s.NotContains(string(g.GetPlayer("alice").Rack.Letters()), "C")
	s.Equal(20, g.Bag.Count())
	s.Equal(model.PlayerKey("bob"), g.WhoseTurn)

	last, _ := g.Ledger.Last()
	s.Equal(model.TurnSwapped, last.Type)
	s.Len(last.Replacements, 2)
	s.assertInvariants(g)
}

func (s *ControllerSuite) TestSwapNothing() {
	g := s.newGame()

	err := s.controller.Swap(s.ctx, g, "alice", nil)
	s.ErrorIs(err, model.ErrNoTiles)
}

func (s *ControllerSuite) TestSwapBagTooSmall() {
	g := s.newGame(withEmptyBag())

	err := s.controller.Swap(s.ctx, g, "alice", []rune{'C'})
	s.ErrorIs(err, model.ErrBagTooSmall)
	s.Equal(model.PlayerKey("alice"), g.WhoseTurn)
}

// TakeBack tests

func (s *ControllerSuite) TestPlayThenTakeBackRestoresEverything() {
	g := s.newGame()
	move := catMove()
	move.Placements = append(move.Placements, model.Placement{Row: 7, Col: 10, Letter: 'S', IsBlank: true})
	before := takeSnapshot(g)

	s.Require().NoError(s.controller.Play(s.ctx, g, "alice", move))
	s.Require().NoError(s.controller.TakeBack(s.ctx, g, "alice", model.TurnTookBack))

	s.Equal(before, takeSnapshot(g))
	s.Equal(model.PlayerKey("alice"), g.WhoseTurn)

	last, _ := g.Ledger.Last()
	s.Equal(model.TurnTookBack, last.Type)
	s.Equal(-5, last.Score)
	s.Empty(last.ChallengerKey)
	s.Equal(2, g.Ledger.Len())
	s.assertInvariants(g)
}

func (s *ControllerSuite) TestTakeBackCarriesRemainingTime() {
	g := s.newGame(withTimer(model.TimerPerGame, 10*time.Minute))

	s.clock.Advance(2 * time.Minute)
	s.Require().NoError(s.controller.Play(s.ctx, g, "alice", catMove()))

	s.clock.Advance(time.Minute)
	s.Require().NoError(s.controller.TakeBack(s.ctx, g, "alice", model.TurnTookBack))

	s.Equal(8*time.Minute, g.GetPlayer("alice").Clock)
	s.Equal(9*time.Minute, g.GetPlayer("bob").Clock)
	s.Equal(model.PlayerKey("alice"), g.WhoseTurn)
}

func (s *ControllerSuite) TestTakeBackOthersPlay() {
	g := s.newGame()
	s.Require().NoError(s.controller.Play(s.ctx, g, "alice", catMove()))

	err := s.controller.TakeBack(s.ctx, g, "bob", model.TurnTookBack)
	s.ErrorIs(err, model.ErrNotOwnPlay)
	s.Equal(3, g.Board.Count())
}

func (s *ControllerSuite) TestTakeBackWithNoTurns() {
	g := s.newGame()

	err := s.controller.TakeBack(s.ctx, g, "alice", model.TurnTookBack)
	s.ErrorIs(err, model.ErrNothingToTakeBack)
}

func (s *ControllerSuite) TestTakeBackNonPlay() {
	g := s.newGame()
	s.Require().NoError(s.controller.Pass(s.ctx, g, "alice"))

	err := s.controller.TakeBack(s.ctx, g, "alice", model.TurnTookBack)
	s.ErrorIs(err, model.ErrNotPlayed)
	s.ErrorIs(err, model.ErrPrecondition)
}

func (s *ControllerSuite) TestTakeBackTwice() {
	g := s.newGame()
	s.Require().NoError(s.controller.Play(s.ctx, g, "alice", catMove()))
	s.Require().NoError(s.controller.TakeBack(s.ctx, g, "alice", model.TurnTookBack))

	err := s.controller.TakeBack(s.ctx, g, "alice", model.TurnTookBack)
	s.ErrorIs(err, model.ErrNotPlayed)
	s.assertInvariants(g)
}

// dogMove plays DOG from bob's rack on the row below the centre
func dogMove(words ...string) *model.Move {
	if len(words) == 0 {
		words = []string{"DOG"}
	}
	m := &model.Move{
		Placements: []model.Placement{
			{Row: 8, Col: 7, Letter: 'D', Score: 2},
			{Row: 8, Col: 8, Letter: 'O', Score: 1},
			{Row: 8, Col: 9, Letter: 'G', Score: 2},
		},
		Score: 5,
	}
	for _, w := range words {
		m.Words = append(m.Words, model.WordScore{Word: w, Score: 5})
	}
	return m
}

func (s *ControllerSuite) TestTakeBackRestoresMissedTurn() {
	g := s.newGame(withCarol())
	s.Require().NoError(s.controller.Play(s.ctx, g, "alice", catMove()))
	s.Require().NoError(s.controller.Challenge(s.ctx, g, "carol", "alice"))
	s.Require().True(g.GetPlayer("carol").MissNextTurn)

	// Bob's play uses up Carol's missed turn
	s.Require().NoError(s.controller.Play(s.ctx, g, "bob", dogMove()))
	s.Equal(model.PlayerKey("alice"), g.WhoseTurn)
	s.False(g.GetPlayer("carol").MissNextTurn)
	played, _ := g.Ledger.Last()
	s.Equal([]model.PlayerKey{"carol"}, played.Skipped)

	s.Require().NoError(s.controller.TakeBack(s.ctx, g, "bob", model.TurnTookBack))
	s.Equal(model.PlayerKey("bob"), g.WhoseTurn)
	s.True(g.GetPlayer("carol").MissNextTurn)

	s.Require().NoError(s.controller.Pass(s.ctx, g, "bob"))
	s.Equal(model.PlayerKey("alice"), g.WhoseTurn)
	s.False(g.GetPlayer("carol").MissNextTurn)
	s.assertInvariants(g)
}
