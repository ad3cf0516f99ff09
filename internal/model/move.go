package model

import "github.com/mcoot/tilegame/internal/tiles"

// Placement is a tile put on a board square
type Placement struct {
	Row     int
	Col     int
	Letter  rune
	Score   int
	IsBlank bool
}

// Position returns the board square of the placement
func (p Placement) Position() tiles.Position {
	return tiles.Position{Row: p.Row, Col: p.Col}
}

// Tile returns the tile the placement describes
func (p Placement) Tile() tiles.Tile {
	return tiles.Tile{Letter: p.Letter, Score: p.Score, IsBlank: p.IsBlank}
}

// WordScore is a word formed by a move and what it scored
type WordScore struct {
	Word  string
	Score int
}

// Move is a proposed play. Score is computed by the mover's client.
type Move struct {
	Placements []Placement
	Words      []WordScore
	Score      int
}

// WordList returns just the words of the move
func (m *Move) WordList() []string {
	words := make([]string, len(m.Words))
	for i, w := range m.Words {
		words[i] = w.Word
	}
	return words
}
