package request

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/mcoot/tilegame/internal/model"
	"github.com/mcoot/tilegame/internal/tiles"
)

// GameConfig overrides the default rules of a new game. Zero values keep
// the default.
type GameConfig struct {
	Edition              string `json:"edition,omitempty"`
	Dictionary           string `json:"dictionary,omitempty"`
	WordCheck            string `json:"word_check,omitempty"`
	ChallengePenalty     string `json:"challenge_penalty,omitempty"`
	PenaltyPoints        *int   `json:"penalty_points,omitempty"`
	Timer                string `json:"timer,omitempty"`
	TimeLimit            string `json:"time_limit,omitempty"` // Go duration, e.g. "25m"
	TimePenaltyPerMinute *int   `json:"time_penalty_per_minute,omitempty"`
	MinPlayers           int    `json:"min_players,omitempty"`
	MaxPlayers           int    `json:"max_players,omitempty"`
}

// Apply merges the overrides into cfg
func (c GameConfig) Apply(cfg model.GameConfig) (model.GameConfig, error) {
	if c.Edition != "" {
		cfg.Edition = c.Edition
	}
	if c.Dictionary != "" {
		cfg.Dictionary = c.Dictionary
	}
	if c.WordCheck != "" {
		switch wc := model.WordCheck(c.WordCheck); wc {
		case model.WordCheckNone, model.WordCheckAfter, model.WordCheckReject:
			cfg.WordCheck = wc
		default:
			return cfg, fmt.Errorf("unknown word check %q", c.WordCheck)
		}
	}
	if c.ChallengePenalty != "" {
		switch p := model.ChallengePenalty(c.ChallengePenalty); p {
		case model.PenaltyNone, model.PenaltyMiss, model.PenaltyPerTurn, model.PenaltyPerWord:
			cfg.ChallengePenalty = p
		default:
			return cfg, fmt.Errorf("unknown challenge penalty %q", c.ChallengePenalty)
		}
	}
	if c.PenaltyPoints != nil {
		cfg.PenaltyPoints = *c.PenaltyPoints
	}
	if c.Timer != "" {
		switch t := model.TimerType(c.Timer); t {
		case model.TimerNone, model.TimerPerTurn, model.TimerPerGame:
			cfg.Timer = t
		default:
			return cfg, fmt.Errorf("unknown timer %q", c.Timer)
		}
	}
	if c.TimeLimit != "" {
		d, err := time.ParseDuration(c.TimeLimit)
		if err != nil || d <= 0 {
			return cfg, fmt.Errorf("invalid time limit %q", c.TimeLimit)
		}
		cfg.TimeLimit = d
	}
	if c.TimePenaltyPerMinute != nil {
		cfg.TimePenaltyPerMinute = *c.TimePenaltyPerMinute
	}
	if c.MinPlayers > 0 {
		cfg.MinPlayers = c.MinPlayers
	}
	if c.MaxPlayers > 0 {
		cfg.MaxPlayers = c.MaxPlayers
	}
	if cfg.Timer != model.TimerNone && cfg.TimeLimit <= 0 {
		return cfg, fmt.Errorf("timer %s needs a time limit", cfg.Timer)
	}
	return cfg, nil
}

// PlayerSpec is a roster entry
type PlayerSpec struct {
	Key  string `json:"key"`
	Name string `json:"name,omitempty"`
	Kind string `json:"kind,omitempty"`
}

// ToModel converts to a model.PlayerSpec
func (p PlayerSpec) ToModel() model.PlayerSpec {
	return model.PlayerSpec{Key: model.PlayerKey(p.Key), Name: p.Name, Kind: model.PlayerKind(p.Kind)}
}

// CreateGameRequest is the request body for creating a game
type CreateGameRequest struct {
	Config  GameConfig   `json:"config"`
	Players []PlayerSpec `json:"players"`
	Start   bool         `json:"start,omitempty"`
}

// JoinRequest is the request body for joining a game
type JoinRequest struct {
	Name string `json:"name,omitempty"`
	Kind string `json:"kind,omitempty"`
}

// Placement is one tile of a move
type Placement struct {
	Row    int    `json:"row"`
	Col    int    `json:"col"`
	Letter string `json:"letter"`
	Score  int    `json:"score"`
	Blank  bool   `json:"blank,omitempty"`
}

// WordScore is a word formed by a move
type WordScore struct {
	Word  string `json:"word"`
	Score int    `json:"score"`
}

// Move is a proposed play
type Move struct {
	Placements []Placement `json:"placements"`
	Words      []WordScore `json:"words"`
	Score      int         `json:"score"`
}

// ToModel converts to a model.Move
func (m *Move) ToModel() (*model.Move, error) {
	move := &model.Move{Score: m.Score}
	for _, p := range m.Placements {
		letter, err := singleLetter(p.Letter)
		if err != nil {
			return nil, err
		}
		move.Placements = append(move.Placements, model.Placement{
			Row: p.Row, Col: p.Col, Letter: letter, Score: p.Score, IsBlank: p.Blank,
		})
	}
	for _, w := range m.Words {
		move.Words = append(move.Words, model.WordScore{Word: w.Word, Score: w.Score})
	}
	return move, nil
}

// CommandRequest is the request body for sending a command to a game
type CommandRequest struct {
	Command    string `json:"command"`
	Move       *Move  `json:"move,omitempty"`
	Letters    string `json:"letters,omitempty"` // swap; "?" is a blank
	Challenged string `json:"challenged,omitempty"`
	EndState   string `json:"end_state,omitempty"`
	Word       string `json:"word,omitempty"`
}

// Args converts the command's arguments
func (c CommandRequest) Args() (model.CommandArgs, error) {
	args := model.CommandArgs{
		Challenged: model.PlayerKey(c.Challenged),
		EndState:   model.GameState(c.EndState),
		Word:       c.Word,
	}
	if c.Move != nil {
		move, err := c.Move.ToModel()
		if err != nil {
			return args, err
		}
		args.Move = move
	}
	for _, r := range c.Letters {
		if r == '?' {
			r = tiles.BlankLetter
		}
		args.Letters = append(args.Letters, r)
	}
	return args, nil
}

func singleLetter(s string) (rune, error) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("letter must be a single character, got %q", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}
