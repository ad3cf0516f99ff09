package tiles

import "errors"

var (
	ErrInvalidPosition = errors.New("invalid board position")
	ErrSquareOccupied  = errors.New("square is already occupied")
	ErrSquareEmpty     = errors.New("square is empty")
)

// Position identifies a square on the board
type Position struct {
	Row int // 0-indexed from top
	Col int // 0-indexed from left
}

// Board is the two-dimensional container tiles are played onto
type Board struct {
	Size    int
	Squares [][]Slot // Row-major: Squares[row][col]
}

// NewBoard creates an empty square board
func NewBoard(size int) *Board {
	squares := make([][]Slot, size)
	for i := range squares {
		squares[i] = make([]Slot, size)
	}
	return &Board{Size: size, Squares: squares}
}

// IsValidPosition returns true if the position is within bounds
func (b *Board) IsValidPosition(pos Position) bool {
	return pos.Row >= 0 && pos.Row < b.Size && pos.Col >= 0 && pos.Col < b.Size
}

// At returns the tile at the given position, or nil if empty or out of bounds
func (b *Board) At(pos Position) *Tile {
	if !b.IsValidPosition(pos) {
		return nil
	}
	return b.Squares[pos.Row][pos.Col].Tile
}

// CanPlace checks that the position is on the board and empty
func (b *Board) CanPlace(pos Position) error {
	if !b.IsValidPosition(pos) {
		return ErrInvalidPosition
	}
	if b.At(pos) != nil {
		return ErrSquareOccupied
	}
	return nil
}

// Place puts a tile on an empty square
func (b *Board) Place(pos Position, tile *Tile) error {
	if err := b.CanPlace(pos); err != nil {
		return err
	}
	b.Squares[pos.Row][pos.Col].Tile = tile
	return nil
}

// Lift removes and returns the tile at the given position
func (b *Board) Lift(pos Position) (*Tile, error) {
	if !b.IsValidPosition(pos) {
		return nil, ErrInvalidPosition
	}
	t := b.Squares[pos.Row][pos.Col].Tile
	if t == nil {
		return nil, ErrSquareEmpty
	}
	b.Squares[pos.Row][pos.Col].Tile = nil
	return t, nil
}

// Count returns the number of tiles on the board
func (b *Board) Count() int {
	count := 0
	for row := range b.Squares {
		for col := range b.Squares[row] {
			if b.Squares[row][col].Tile != nil {
				count++
			}
		}
	}
	return count
}

// IsEmpty returns true if no tiles have been played
func (b *Board) IsEmpty() bool {
	return b.Count() == 0
}
