package game

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/tilegame/internal/dependencies/mocks"
	"github.com/mcoot/tilegame/internal/model"
	"github.com/mcoot/tilegame/internal/registry"
	"github.com/mcoot/tilegame/internal/services/board"
	"github.com/mcoot/tilegame/internal/services/scoring"
	"github.com/mcoot/tilegame/internal/storage"
	"github.com/mcoot/tilegame/internal/storage/memory"
	"github.com/mcoot/tilegame/internal/testutil"
	"github.com/mcoot/tilegame/internal/tiles"
)

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	notifier   *testutil.MockNotifier
	words      *testutil.MockWordList
	clock      *mocks.MockClock
	random     *mocks.MockRandom
	controller *Controller
	ctx        context.Context

	tileTotal int
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = memory.New()
	s.notifier = testutil.NewMockNotifier()
	s.words = testutil.NewMockWordList("TestDict", "CAT", "AT", "CATS", "DOG", "GO")
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.controller = s.newController(s.storage)
	s.ctx = context.Background()
}

func (s *ControllerSuite) newController(store storage.Storage) *Controller {
	return NewController(
		store,
		board.New(testutil.NopLogger()),
		scoring.New(),
		testutil.NewMockDictionaries(s.words),
		s.notifier,
		DefaultPlayers(),
		s.clock,
		s.random,
		testutil.NopLogger(),
	)
}

var errStoreDown = errors.New("store down")

// unreliableStore fails every save while broken
type unreliableStore struct {
	*memory.Storage
	broken bool
}

func (u *unreliableStore) SaveGame(ctx context.Context, g *model.Game) error {
	if u.broken {
		return errStoreDown
	}
	return u.Storage.SaveGame(ctx, g)
}

// Fixtures

type gameOption func(g *model.Game)

func rack(letters string, scores ...int) *tiles.Container {
	r := tiles.NewRack(7)
	for i, l := range letters {
		if l == '?' {
			r.AddTile(tiles.NewBlank())
			continue
		}
		score := 1
		if i < len(scores) {
			score = scores[i]
		}
		r.AddTile(tiles.NewTile(l, score))
	}
	return r
}

func withTimer(timer model.TimerType, limit time.Duration) gameOption {
	return func(g *model.Game) {
		g.Config.Timer = timer
		g.Config.TimeLimit = limit
		for _, p := range g.Players {
			p.Clock = limit
		}
	}
}

func withEmptyBag() gameOption {
	return func(g *model.Game) {
		g.Bag = tiles.NewBag(20)
	}
}

func withRack(key model.PlayerKey, r *tiles.Container) gameOption {
	return func(g *model.Game) {
		g.GetPlayer(key).Rack = r
	}
}

func withCarol() gameOption {
	return func(g *model.Game) {
		g.Players = append(g.Players, &model.Player{
			Key: "carol", Name: "Carol", Kind: model.PlayerKindHuman,
			Rack: rack("HM", 4, 3),
		})
	}
}

func withConfig(fn func(cfg *model.GameConfig)) gameOption {
	return func(g *model.Game) {
		fn(&g.Config)
	}
}

// newGame builds a two-player game in play with alice to move.
// Alice holds CATSER and a blank, bob holds DOGENIL.
func (s *ControllerSuite) newGame(opts ...gameOption) *model.Game {
	cfg := model.DefaultGameConfig()
	cfg.Dictionary = "TestDict"

	bag := tiles.NewBag(20)
	for _, l := range "AEIOURSTLNAEIOURSTLN" {
		bag.AddTile(tiles.NewTile(l, 1))
	}

	g := &model.Game{
		Key:    "game-1",
		Config: cfg,
		State:  model.GameStatePlaying,
		Board:  tiles.NewBoard(15),
		Bag:    bag,
		Players: []*model.Player{
			{Key: "alice", Name: "Alice", Kind: model.PlayerKindHuman, Rack: rack("CATSER?", 3, 1, 1, 1, 1, 1)},
			{Key: "bob", Name: "Bob", Kind: model.PlayerKindHuman, Rack: rack("DOGENIL", 2, 1, 2, 1, 1, 1, 1)},
		},
		WhoseTurn:     "alice",
		TurnStartedAt: s.clock.Now(),
		CreatedAt:     s.clock.Now(),
		UpdatedAt:     s.clock.Now(),
	}
	for _, opt := range opts {
		opt(g)
	}

	s.Require().NoError(s.storage.SaveGame(s.ctx, g))
	s.tileTotal = g.TileCount()
	return g
}

// catMove plays CAT across the centre; it also forms AT
func catMove(words ...string) *model.Move {
	if len(words) == 0 {
		words = []string{"CAT"}
	}
	m := &model.Move{
		Placements: []model.Placement{
			{Row: 7, Col: 7, Letter: 'C', Score: 3},
			{Row: 7, Col: 8, Letter: 'A', Score: 1},
			{Row: 7, Col: 9, Letter: 'T', Score: 1},
		},
		Score: 5,
	}
	for _, w := range words {
		m.Words = append(m.Words, model.WordScore{Word: w, Score: 5})
	}
	return m
}

func sortedLetters(c *tiles.Container) string {
	letters := c.Letters()
	sort.Slice(letters, func(i, j int) bool { return letters[i] < letters[j] })
	return string(letters)
}

func boardString(b *tiles.Board) string {
	var sb strings.Builder
	for row := range b.Squares {
		for col := range b.Squares[row] {
			if t := b.Squares[row][col].Tile; t != nil {
				sb.WriteRune(t.Letter)
			} else {
				sb.WriteRune('.')
			}
		}
		sb.WriteRune('\n')
	}
	return sb.String()
}

// snapshot captures everything a take-back must restore
type snapshot struct {
	Board  string
	Bag    string
	Racks  map[model.PlayerKey]string
	Scores map[model.PlayerKey]int
}

func takeSnapshot(g *model.Game) snapshot {
	snap := snapshot{
		Board:  boardString(g.Board),
		Bag:    sortedLetters(g.Bag),
		Racks:  make(map[model.PlayerKey]string),
		Scores: make(map[model.PlayerKey]int),
	}
	for _, p := range g.Players {
		snap.Racks[p.Key] = sortedLetters(p.Rack)
		snap.Scores[p.Key] = p.Score
	}
	return snap
}

// assertInvariants checks tile conservation and that scores match the ledger
func (s *ControllerSuite) assertInvariants(g *model.Game) {
	s.Equal(s.tileTotal, g.TileCount(), "tile count")
	for _, p := range g.Players {
		s.Equal(g.Ledger.ScoreFor(p.Key), p.Score, "score for %s", p.Key)
	}
}

// Dispatch tests

func (s *ControllerSuite) TestEveryCommandIsRegistered() {
	for _, cmd := range model.Commands() {
		_, err := s.controller.commands.Lookup(cmd)
		s.NoError(err, "command %s", cmd)
	}
	s.Len(s.controller.commands.Tags(), len(model.Commands()))
}

func (s *ControllerSuite) TestDispatchUnknownCommand() {
	g := s.newGame()

	err := s.controller.Dispatch(s.ctx, g, "fly", "alice", model.CommandArgs{})
	s.ErrorIs(err, model.ErrUnknownCommand)
	s.ErrorIs(err, model.ErrProtocol)
	s.NotErrorIs(err, model.ErrPrecondition)
}

func (s *ControllerSuite) TestDispatchUnknownPlayer() {
	g := s.newGame()

	err := s.controller.Dispatch(s.ctx, g, model.CommandPass, "zed", model.CommandArgs{})
	s.ErrorIs(err, model.ErrUnknownPlayer)
}

func (s *ControllerSuite) TestDispatchRoutesPlay() {
	g := s.newGame()

	err := s.controller.Dispatch(s.ctx, g, model.CommandPlay, "alice", model.CommandArgs{Move: catMove()})
	s.Require().NoError(err)
	s.Equal(3, g.Board.Count())
	s.Equal(model.PlayerKey("bob"), g.WhoseTurn)
}

func (s *ControllerSuite) TestDispatchRoutesConfirmGameOver() {
	g := s.newGame()

	err := s.controller.Dispatch(s.ctx, g, model.CommandConfirmGameOver, "bob", model.CommandArgs{})
	s.Require().NoError(err)
	s.Equal(model.GameStateGameOver, g.State)
}

// CreateGame and StartGame tests

func (s *ControllerSuite) TestCreateGameFromEdition() {
	s.random.QueueString("GAME00000001")
	roster := []model.PlayerSpec{{Key: "alice", Name: "Alice"}, {Key: "bob", Name: "Bob", Kind: model.PlayerKindRobot}}

	g, err := s.controller.CreateGame(s.ctx, model.DefaultGameConfig(), roster)
	s.Require().NoError(err)

	s.Equal(model.GameKey("GAME00000001"), g.Key)
	s.Equal(model.GameStateWaiting, g.State)
	s.Equal(15, g.Board.Size)
	s.Equal(100, g.Bag.Count())
	s.Require().Len(g.Players, 2)
	s.True(g.GetPlayer("bob").IsRobot())
	s.Equal(7, g.GetPlayer("alice").Rack.Capacity())
	s.True(g.GetPlayer("alice").Rack.IsEmpty())

	saved, err := s.storage.GetGame(s.ctx, "GAME00000001")
	s.Require().NoError(err)
	s.Len(saved.Players, 2)
}

func (s *ControllerSuite) TestCreateGameUnknownEdition() {
	cfg := model.DefaultGameConfig()
	cfg.Edition = "Klingon"

	_, err := s.controller.CreateGame(s.ctx, cfg, nil)
	s.ErrorIs(err, model.ErrEditionNotFound)
}

func (s *ControllerSuite) TestCreateGameTooManyPlayers() {
	roster := []model.PlayerSpec{{Key: "a"}, {Key: "b"}, {Key: "c"}, {Key: "d"}, {Key: "e"}}

	_, err := s.controller.CreateGame(s.ctx, model.DefaultGameConfig(), roster)
	s.ErrorIs(err, model.ErrTooManyPlayers)
}

func (s *ControllerSuite) TestAddPlayerRejectsDuplicatesAndUnknownKinds() {
	s.random.QueueString("GAME00000001")
	g, err := s.controller.CreateGame(s.ctx, model.DefaultGameConfig(), []model.PlayerSpec{{Key: "alice"}})
	s.Require().NoError(err)

	err = s.controller.AddPlayer(s.ctx, g, model.PlayerSpec{Key: "alice"})
	s.ErrorIs(err, model.ErrDuplicatePlayer)

	err = s.controller.AddPlayer(s.ctx, g, model.PlayerSpec{Key: "bob", Kind: "alien"})
	s.ErrorIs(err, model.ErrPrecondition)
	s.ErrorIs(err, registry.ErrUnknownTag)

	s.Require().NoError(s.controller.AddPlayer(s.ctx, g, model.PlayerSpec{Key: "bob", Name: "Bob"}))
	s.Len(g.Players, 2)
}

func (s *ControllerSuite) TestStartGameFillsRacks() {
	s.random.QueueString("GAME00000001")
	roster := []model.PlayerSpec{{Key: "alice", Name: "Alice"}, {Key: "bob", Name: "Bob"}}
	g, err := s.controller.CreateGame(s.ctx, model.DefaultGameConfig(), roster)
	s.Require().NoError(err)

	err = s.controller.StartGame(s.ctx, g)
	s.Require().NoError(err)

	s.Equal(model.GameStatePlaying, g.State)
	// Intn always yields 0, so the two players swap places
	s.Equal(model.PlayerKey("bob"), g.Players[0].Key)
	s.Equal(model.PlayerKey("bob"), g.WhoseTurn)
	s.Equal(7, g.Players[0].Rack.Count())
	s.Equal(7, g.Players[1].Rack.Count())
	s.Equal(86, g.Bag.Count())
	s.Equal(100, g.TileCount())
}

func (s *ControllerSuite) TestStartGameStartsClocks() {
	s.random.QueueString("GAME00000001")
	cfg := model.DefaultGameConfig()
	cfg.Timer = model.TimerPerGame
	cfg.TimeLimit = 20 * time.Minute
	g, err := s.controller.CreateGame(s.ctx, cfg, []model.PlayerSpec{{Key: "alice"}, {Key: "bob"}})
	s.Require().NoError(err)

	s.Require().NoError(s.controller.StartGame(s.ctx, g))

	for _, p := range g.Players {
		s.Equal(20*time.Minute, p.Clock)
	}
}

func (s *ControllerSuite) TestStartGameInsufficientPlayers() {
	s.random.QueueString("GAME00000001")
	g, err := s.controller.CreateGame(s.ctx, model.DefaultGameConfig(), []model.PlayerSpec{{Key: "alice"}})
	s.Require().NoError(err)

	err = s.controller.StartGame(s.ctx, g)
	s.ErrorIs(err, model.ErrInsufficientPlayers)
	s.Equal(model.GameStateWaiting, g.State)
}

func (s *ControllerSuite) TestStartGameTwice() {
	g := s.newGame()

	err := s.controller.StartGame(s.ctx, g)
	s.ErrorIs(err, model.ErrGameStarted)
}

// Pause tests

func (s *ControllerSuite) TestPauseAndUnpause() {
	g := s.newGame()

	s.Require().NoError(s.controller.Pause(s.ctx, g, "bob"))
	s.Equal(model.GameStatePaused, g.State)
	s.Equal(model.PlayerKey("bob"), g.PausedBy)

	pauses := s.notifier.OfType(model.EventPause)
	s.Require().Len(pauses, 1)
	payload := pauses[0].Payload.(model.PausePayload)
	s.Equal("Bob", payload.Name)
	s.Equal(s.clock.Now(), payload.Timestamp)

	s.Require().NoError(s.controller.Unpause(s.ctx, g, "alice"))
	s.Equal(model.GameStatePlaying, g.State)
	s.Empty(g.PausedBy)
	s.Len(s.notifier.OfType(model.EventUnpause), 1)

	saved, err := s.storage.GetGame(s.ctx, g.Key)
	s.Require().NoError(err)
	s.Equal(model.GameStatePlaying, saved.State)
}

func (s *ControllerSuite) TestPauseIsIdempotent() {
	g := s.newGame()

	s.Require().NoError(s.controller.Pause(s.ctx, g, "bob"))
	s.Require().NoError(s.controller.Pause(s.ctx, g, "alice"))
	s.Equal(model.PlayerKey("bob"), g.PausedBy)
	s.Len(s.notifier.OfType(model.EventPause), 1)

	s.Require().NoError(s.controller.Unpause(s.ctx, g, "alice"))
	s.Require().NoError(s.controller.Unpause(s.ctx, g, "alice"))
	s.Len(s.notifier.OfType(model.EventUnpause), 1)
}

func (s *ControllerSuite) TestPausedGameRefusesTurns() {
	g := s.newGame()
	s.Require().NoError(s.controller.Pause(s.ctx, g, "bob"))

	err := s.controller.Play(s.ctx, g, "alice", catMove())
	s.ErrorIs(err, model.ErrNotPlaying)
	s.True(g.Board.IsEmpty())
}

func (s *ControllerSuite) TestPauseStopsTheClock() {
	g := s.newGame(withTimer(model.TimerPerGame, 10*time.Minute))

	s.clock.Advance(time.Minute)
	s.Require().NoError(s.controller.Pause(s.ctx, g, "bob"))
	s.Equal(9*time.Minute, g.GetPlayer("alice").Clock)

	s.clock.Advance(5 * time.Minute)
	s.Require().NoError(s.controller.Unpause(s.ctx, g, "bob"))

	s.clock.Advance(time.Minute)
	s.Require().NoError(s.controller.Pass(s.ctx, g, "alice"))
	s.Equal(8*time.Minute, g.GetPlayer("alice").Clock)
}

func (s *ControllerSuite) TestPauseEndedGame() {
	g := s.newGame()
	s.Require().NoError(s.controller.ConfirmGameOver(s.ctx, g, "alice", ""))

	err := s.controller.Pause(s.ctx, g, "alice")
	s.ErrorIs(err, model.ErrNotPlaying)
}

// ConfirmGameOver tests

func (s *ControllerSuite) TestConfirmGameOverSettles() {
	g := s.newGame(withEmptyBag(), withRack("alice", rack("CAT", 3, 1, 1)))
	s.Require().NoError(s.controller.Play(s.ctx, g, "alice", catMove()))
	s.True(g.GetPlayer("alice").Rack.IsEmpty())

	err := s.controller.ConfirmGameOver(s.ctx, g, "bob", model.GameStateGameOver)
	s.Require().NoError(err)

	s.Equal(model.GameStateGameOver, g.State)
	// Bob's DOGENIL is worth 9
	s.Equal(14, g.GetPlayer("alice").Score)
	s.Equal(-9, g.GetPlayer("bob").Score)

	last, _ := g.Ledger.Last()
	s.Equal(model.TurnGameEnded, last.Type)
	s.Equal(model.GameStateGameOver, last.EndState)
	s.Equal(map[model.PlayerKey]int{"alice": 9, "bob": -9}, last.Deltas)
	s.assertInvariants(g)
}

func (s *ControllerSuite) TestConfirmGameOverIsIdempotent() {
	g := s.newGame(withEmptyBag(), withRack("alice", rack("CAT", 3, 1, 1)))
	s.Require().NoError(s.controller.Play(s.ctx, g, "alice", catMove()))
	s.Require().NoError(s.controller.ConfirmGameOver(s.ctx, g, "bob", model.GameStateGameOver))

	before := takeSnapshot(g)
	turns := g.Ledger.Len()

	err := s.controller.ConfirmGameOver(s.ctx, g, "alice", model.GameStateGameOver)
	s.Require().NoError(err)

	s.Equal(before, takeSnapshot(g))
	s.Equal(turns, g.Ledger.Len())
	s.Equal(model.GameStateGameOver, g.State)
	s.assertInvariants(g)
}

func (s *ControllerSuite) TestConfirmGameOverTwoEmptyRacks() {
	g := s.newGame(
		withEmptyBag(),
		withRack("alice", tiles.NewRack(7)),
		withRack("bob", tiles.NewRack(7)),
	)

	err := s.controller.ConfirmGameOver(s.ctx, g, "alice", model.GameStateGameOver)
	s.ErrorIs(err, model.ErrMultipleEmptyRacks)
	s.ErrorIs(err, model.ErrInconsistent)
	s.Equal(model.GameStatePlaying, g.State)
	s.Zero(g.Ledger.Len())
}

func (s *ControllerSuite) TestConfirmGameOverBadEndState() {
	g := s.newGame()

	err := s.controller.ConfirmGameOver(s.ctx, g, "alice", model.GameStatePaused)
	s.ErrorIs(err, model.ErrBadEndState)
	s.Equal(model.GameStatePlaying, g.State)
}

func (s *ControllerSuite) TestConfirmGameOverAppliesTimePenalty() {
	g := s.newGame(withTimer(model.TimerPerGame, time.Minute))
	g.Config.TimePenaltyPerMinute = 10

	// Alice overruns by two minutes
	s.clock.Advance(3 * time.Minute)
	s.Require().NoError(s.controller.ConfirmGameOver(s.ctx, g, "alice", model.GameStateGameOver))

	s.Equal(-2*time.Minute, g.GetPlayer("alice").Clock)
	// Rack value 8 plus 20 for the overrun
	s.Equal(-28, g.GetPlayer("alice").Score)
	s.Equal(-9, g.GetPlayer("bob").Score)
	s.assertInvariants(g)
}

// AnotherGame tests

func (s *ControllerSuite) TestAnotherGameCreatesAndStartsSuccessor() {
	g := s.newGame()
	s.random.QueueString("NEXTGAME0001")

	next, err := s.controller.AnotherGame(s.ctx, g)
	s.Require().NoError(err)

	s.Equal(model.GameKey("NEXTGAME0001"), next.Key)
	s.Equal(next.Key, g.NextGameKey)
	s.Equal(model.GameStatePlaying, next.State)
	s.Equal(g.Config, next.Config)
	s.Zero(next.Ledger.Len())
	for _, p := range next.Players {
		s.Equal(0, p.Score)
		s.Equal(7, p.Rack.Count())
		s.False(p.MissNextTurn)
	}

	saved, err := s.storage.GetGame(s.ctx, "NEXTGAME0001")
	s.Require().NoError(err)
	s.Equal(model.GameStatePlaying, saved.State)

	notes := s.notifier.OfType(model.EventNextGame)
	s.Require().Len(notes, 1)
	s.Equal(model.NextGamePayload{GameKey: "game-1", NextGameKey: "NEXTGAME0001"}, notes[0].Payload)
}

func (s *ControllerSuite) TestAnotherGameTwice() {
	g := s.newGame()
	s.random.QueueString("NEXTGAME0001", "NEXTGAME0002")

	_, err := s.controller.AnotherGame(s.ctx, g)
	s.Require().NoError(err)

	_, err = s.controller.AnotherGame(s.ctx, g)
	s.ErrorIs(err, model.ErrNextGameExists)
	s.Equal(model.GameKey("NEXTGAME0001"), g.NextGameKey)

	keys, err := s.storage.ListGames(s.ctx)
	s.Require().NoError(err)
	s.Equal([]model.GameKey{"NEXTGAME0001", "game-1"}, keys)
	s.Len(s.notifier.OfType(model.EventNextGame), 1)
}

func (s *ControllerSuite) TestAnotherGameWithTooFewPlayersWaits() {
	g := s.newGame(withConfig(func(cfg *model.GameConfig) { cfg.MinPlayers = 3 }))
	s.random.QueueString("NEXTGAME0001")

	next, err := s.controller.AnotherGame(s.ctx, g)
	s.Require().NoError(err)
	s.Equal(model.GameStateWaiting, next.State)
	s.Equal(next.Key, g.NextGameKey)
}

func (s *ControllerSuite) TestFailedSaveAnnouncesNothing() {
	store := &unreliableStore{Storage: s.storage}
	controller := s.newController(store)
	g := s.newGame()

	store.broken = true
	err := controller.Play(s.ctx, g, "alice", catMove())
	s.ErrorIs(err, errStoreDown)
	s.Empty(s.notifier.OfType(model.EventTurn))
	s.Empty(s.notifier.OfType(model.EventDrawn))

	err = controller.Pause(s.ctx, g, "alice")
	s.ErrorIs(err, errStoreDown)
	s.Empty(s.notifier.OfType(model.EventPause))

	// The next successful save announces only its own turn
	store.broken = false
	g.State = model.GameStatePlaying
	s.Require().NoError(controller.Pass(s.ctx, g, "bob"))
	turns := s.notifier.OfType(model.EventTurn)
	s.Require().Len(turns, 1)
	s.Equal(model.TurnPassed, turns[0].Payload.(model.Turn).Type)
}

// Allow tests

func (s *ControllerSuite) TestAllowNewWord() {
	g := s.newGame()

	err := s.controller.Allow(s.ctx, g, "alice", " quixotic ")
	s.Require().NoError(err)

	s.True(s.words.HasWord("QUIXOTIC"))
	sent := s.notifier.Sent()
	s.Require().Len(sent, 1)
	s.Empty(sent[0].Player)
	s.Equal(model.MessagePayload{
		Sender: model.SenderAdvisor,
		Text:   model.MessageWordAllowed,
		Args:   []string{"Alice", "QUIXOTIC"},
	}, sent[0].Payload)
}

func (s *ControllerSuite) TestAllowKnownWordTellsOnlyRequester() {
	g := s.newGame()

	err := s.controller.Allow(s.ctx, g, "bob", "cat")
	s.Require().NoError(err)

	sent := s.notifier.Sent()
	s.Require().Len(sent, 1)
	s.Equal(model.PlayerKey("bob"), sent[0].Player)
	s.Equal(model.MessageWordAlreadyAllowed, sent[0].Payload.(model.MessagePayload).Text)
}

func (s *ControllerSuite) TestAllowEmptyWord() {
	g := s.newGame()

	err := s.controller.Allow(s.ctx, g, "bob", "   ")
	s.ErrorIs(err, model.ErrEmptyWord)
}

func (s *ControllerSuite) TestAllowWithoutDictionary() {
	g := s.newGame(withConfig(func(cfg *model.GameConfig) { cfg.Dictionary = "" }))

	err := s.controller.Allow(s.ctx, g, "bob", "cat")
	s.ErrorIs(err, model.ErrDictionaryNotLoaded)
}
