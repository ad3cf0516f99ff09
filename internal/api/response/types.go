package response

import (
	"time"

	"github.com/mcoot/tilegame/internal/model"
	"github.com/mcoot/tilegame/internal/tiles"
)

// Tile is a tile in a rack or on the board
type Tile struct {
	Row    *int   `json:"row,omitempty"`
	Col    *int   `json:"col,omitempty"`
	Letter string `json:"letter"`
	Score  int    `json:"score"`
	Blank  bool   `json:"blank,omitempty"`
}

func tileFromModel(t *tiles.Tile) Tile {
	return Tile{Letter: string(t.Letter), Score: t.Score, Blank: t.IsBlank}
}

// Player is a participant as seen by a viewer. Only the viewer's own rack
// is shown.
type Player struct {
	Key          string `json:"key"`
	Name         string `json:"name"`
	Kind         string `json:"kind"`
	Score        int    `json:"score"`
	RackCount    int    `json:"rack_count"`
	Rack         []Tile `json:"rack,omitempty"`
	ClockSeconds *int   `json:"clock_seconds,omitempty"`
	MissNextTurn bool   `json:"miss_next_turn,omitempty"`
}

// Config is the rules a game is played under
type Config struct {
	Edition              string `json:"edition"`
	Dictionary           string `json:"dictionary,omitempty"`
	WordCheck            string `json:"word_check"`
	ChallengePenalty     string `json:"challenge_penalty"`
	PenaltyPoints        int    `json:"penalty_points"`
	Timer                string `json:"timer"`
	TimeLimitSeconds     int    `json:"time_limit_seconds,omitempty"`
	TimePenaltyPerMinute int    `json:"time_penalty_per_minute"`
	MinPlayers           int    `json:"min_players"`
	MaxPlayers           int    `json:"max_players"`
}

// ConfigFromModel converts model.GameConfig
func ConfigFromModel(c model.GameConfig) Config {
	return Config{
		Edition:              c.Edition,
		Dictionary:           c.Dictionary,
		WordCheck:            string(c.WordCheck),
		ChallengePenalty:     string(c.ChallengePenalty),
		PenaltyPoints:        c.PenaltyPoints,
		Timer:                string(c.Timer),
		TimeLimitSeconds:     int(c.TimeLimit / time.Second),
		TimePenaltyPerMinute: c.TimePenaltyPerMinute,
		MinPlayers:           c.MinPlayers,
		MaxPlayers:           c.MaxPlayers,
	}
}

// Turn is a ledger entry
type Turn struct {
	Type       string         `json:"type"`
	Player     string         `json:"player,omitempty"`
	Score      int            `json:"score"`
	Deltas     map[string]int `json:"deltas,omitempty"`
	Placements []Tile         `json:"placements,omitempty"`
	Words      []string       `json:"words,omitempty"`
	Drawn      int            `json:"drawn,omitempty"`
	Challenger string         `json:"challenger,omitempty"`
	NextToGo   string         `json:"next_to_go,omitempty"`
	Skipped    []string       `json:"skipped,omitempty"`
	Penalty    string         `json:"penalty,omitempty"`
	EndState   string         `json:"end_state,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
}

// TurnFromModel converts a model.Turn. Drawn tiles are counted, not shown.
func TurnFromModel(t model.Turn) Turn {
	resp := Turn{
		Type:       string(t.Type),
		Player:     string(t.PlayerKey),
		Score:      t.Score,
		Drawn:      len(t.Replacements),
		Challenger: string(t.ChallengerKey),
		NextToGo:   string(t.NextToGo),
		Penalty:    string(t.Penalty),
		EndState:   string(t.EndState),
		Timestamp:  t.Timestamp,
	}
	if t.Deltas != nil {
		resp.Deltas = make(map[string]int, len(t.Deltas))
		for k, v := range t.Deltas {
			resp.Deltas[string(k)] = v
		}
	}
	for _, p := range t.Placements {
		row, col := p.Row, p.Col
		resp.Placements = append(resp.Placements, Tile{
			Row: &row, Col: &col, Letter: string(p.Letter), Score: p.Score, Blank: p.IsBlank,
		})
	}
	for _, w := range t.Words {
		resp.Words = append(resp.Words, w.Word)
	}
	for _, k := range t.Skipped {
		resp.Skipped = append(resp.Skipped, string(k))
	}
	return resp
}

// Drawn lists the tiles a player took from the bag
type Drawn struct {
	Player string `json:"player"`
	Tiles  []Tile `json:"tiles"`
}

// DrawnFromModel converts a model.DrawnPayload
func DrawnFromModel(d model.DrawnPayload) Drawn {
	resp := Drawn{Player: string(d.PlayerKey), Tiles: make([]Tile, 0, len(d.Tiles))}
	for i := range d.Tiles {
		resp.Tiles = append(resp.Tiles, tileFromModel(&d.Tiles[i]))
	}
	return resp
}

// Game is the state of a game as seen by one player, or by a spectator
// when the viewer is empty
type Game struct {
	Key         string    `json:"key"`
	State       string    `json:"state"`
	Config      Config    `json:"config"`
	BoardSize   int       `json:"board_size"`
	Board       []Tile    `json:"board"`
	BagCount    int       `json:"bag_count"`
	Players     []Player  `json:"players"`
	WhoseTurn   string    `json:"whose_turn,omitempty"`
	PausedBy    string    `json:"paused_by,omitempty"`
	NextGameKey string    `json:"next_game_key,omitempty"`
	Turns       []Turn    `json:"turns"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// GameFromModel converts a model.Game for a viewer
func GameFromModel(g *model.Game, viewer model.PlayerKey) Game {
	resp := Game{
		Key:         string(g.Key),
		State:       string(g.State),
		Config:      ConfigFromModel(g.Config),
		BoardSize:   g.Board.Size,
		Board:       []Tile{},
		BagCount:    g.Bag.Count(),
		WhoseTurn:   string(g.WhoseTurn),
		PausedBy:    string(g.PausedBy),
		NextGameKey: string(g.NextGameKey),
		Turns:       make([]Turn, 0, g.Ledger.Len()),
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}

	for row := range g.Board.Squares {
		for col := range g.Board.Squares[row] {
			t := g.Board.Squares[row][col].Tile
			if t == nil {
				continue
			}
			tile := tileFromModel(t)
			r, c := row, col
			tile.Row, tile.Col = &r, &c
			resp.Board = append(resp.Board, tile)
		}
	}

	for _, p := range g.Players {
		player := Player{
			Key:          string(p.Key),
			Name:         p.Name,
			Kind:         string(p.Kind),
			Score:        p.Score,
			RackCount:    p.Rack.Count(),
			MissNextTurn: p.MissNextTurn,
		}
		if g.Config.Timer != model.TimerNone {
			secs := int(p.Clock / time.Second)
			player.ClockSeconds = &secs
		}
		if viewer != "" && p.Key == viewer {
			for _, t := range p.Rack.Tiles() {
				player.Rack = append(player.Rack, tileFromModel(t))
			}
		}
		resp.Players = append(resp.Players, player)
	}

	for _, t := range g.Ledger.Turns {
		resp.Turns = append(resp.Turns, TurnFromModel(t))
	}
	return resp
}

// CommandResponse is returned after a command is accepted
type CommandResponse struct {
	Command string `json:"command"`
	Game    Game   `json:"game"`
}

// Health is the health check response
type Health struct {
	Status string `json:"status"`
}
