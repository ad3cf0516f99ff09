package tiles

import "errors"

// BlankLetter is the letter carried by a blank tile that has not been assigned
const BlankLetter = ' '

// ErrTileNotFound is returned when a requested tile is not held by a container
var ErrTileNotFound = errors.New("tile not found")

// Tile is a single lettered piece
type Tile struct {
	Letter  rune
	Score   int
	IsBlank bool
}

// NewTile creates a lettered tile
func NewTile(letter rune, score int) *Tile {
	return &Tile{Letter: letter, Score: score}
}

// NewBlank creates an unassigned blank tile
func NewBlank() *Tile {
	return &Tile{Letter: BlankLetter, IsBlank: true}
}

// Assign gives a blank tile a letter. It has no effect on lettered tiles.
func (t *Tile) Assign(letter rune) {
	if t.IsBlank {
		t.Letter = letter
	}
}

// Reset returns a blank tile to its unassigned state.
// Must be called whenever a blank leaves the board.
func (t *Tile) Reset() {
	if t.IsBlank {
		t.Letter = BlankLetter
	}
}

// Matches reports whether t satisfies a request without wildcard resolution
func (t *Tile) Matches(want Tile) bool {
	if want.IsBlank {
		return t.IsBlank
	}
	return !t.IsBlank && t.Letter == want.Letter
}

// Slot is a positional cell that holds at most one tile
type Slot struct {
	Tile     *Tile
	Underlay rune // display only
}

// IsEmpty returns true if the slot holds no tile
func (s *Slot) IsEmpty() bool {
	return s.Tile == nil
}
