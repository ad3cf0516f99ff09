package board

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/mcoot/tilegame/internal/model"
	"github.com/mcoot/tilegame/internal/tiles"
)

// Service moves tiles between a game's racks, board and bag
type Service struct {
	logger *slog.Logger
}

// New creates a new BoardService
func New(logger *slog.Logger) *Service {
	return &Service{
		logger: logger.With(slog.String("component", "board")),
	}
}

// ValidatePlacements checks every placement targets a distinct empty square
func (s *Service) ValidatePlacements(board *tiles.Board, placements []model.Placement) error {
	seen := make(map[tiles.Position]bool, len(placements))
	for _, p := range placements {
		pos := p.Position()
		if err := board.CanPlace(pos); err != nil {
			return fmt.Errorf("%w: (%d,%d): %v", model.ErrBadSquare, pos.Row, pos.Col, err)
		}
		if seen[pos] {
			return fmt.Errorf("%w: (%d,%d) used twice", model.ErrBadSquare, pos.Row, pos.Col)
		}
		seen[pos] = true
	}
	return nil
}

// PlaceMove moves the placed tiles from a rack to the board.
// Nothing moves unless every square is free and the rack holds every tile.
func (s *Service) PlaceMove(board *tiles.Board, rack *tiles.Container, placements []model.Placement) error {
	if err := s.ValidatePlacements(board, placements); err != nil {
		return err
	}

	wants := make([]tiles.Tile, len(placements))
	for i, p := range placements {
		wants[i] = p.Tile()
	}
	removed, err := rack.RemoveTiles(wants)
	if err != nil {
		if errors.Is(err, tiles.ErrTileNotFound) {
			return fmt.Errorf("%w: %v", model.ErrNoTiles, err)
		}
		return err
	}

	for i, p := range placements {
		if err := board.Place(p.Position(), removed[i]); err != nil {
			// Squares were validated above
			return fmt.Errorf("%w: %v", model.ErrInconsistent, err)
		}
	}
	return nil
}

// LiftMove moves placed tiles from the board back to a rack.
// Blanks are reset as they leave the board.
func (s *Service) LiftMove(board *tiles.Board, rack *tiles.Container, placements []model.Placement) error {
	for _, p := range placements {
		tile, err := board.Lift(p.Position())
		if err != nil {
			return fmt.Errorf("%w: lifting (%d,%d): %v", model.ErrTileMissing, p.Row, p.Col, err)
		}
		tile.Reset()
		if _, ok := rack.AddTile(tile); !ok {
			return fmt.Errorf("%w: rack full returning %q", model.ErrInconsistent, tile.Letter)
		}
	}
	return nil
}

// Refill draws from the bag until the rack is full or the bag is empty.
// Returns copies of the drawn tiles for the ledger.
func (s *Service) Refill(bag, rack *tiles.Container) []tiles.Tile {
	drawn := bag.Draw(rack.Capacity() - rack.Count())
	rack.AddTiles(drawn)

	result := make([]tiles.Tile, len(drawn))
	for i, t := range drawn {
		result[i] = *t
	}
	return result
}

// ReturnToBag moves the given tiles from a rack back to the bag
func (s *Service) ReturnToBag(bag, rack *tiles.Container, returned []tiles.Tile) error {
	wants := make([]tiles.Tile, len(returned))
	for i, t := range returned {
		// Exact matches only; a drawn blank is requested as a blank
		wants[i] = tiles.Tile{Letter: t.Letter, IsBlank: t.IsBlank}
	}
	removed, err := rack.RemoveTiles(wants)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrTileMissing, err)
	}
	for _, t := range removed {
		t.Reset()
		if _, ok := bag.AddTile(t); !ok {
			return fmt.Errorf("%w: bag full returning %q", model.ErrInconsistent, t.Letter)
		}
	}
	return nil
}

// Swap exchanges rack tiles for the same number drawn from the bag.
// The returned tiles go back into the bag after the draw.
func (s *Service) Swap(bag, rack *tiles.Container, letters []rune) ([]tiles.Tile, error) {
	if bag.Count() < len(letters) {
		return nil, model.ErrBagTooSmall
	}

	if !holds(rack, letters) {
		return nil, fmt.Errorf("%w: swap %q", model.ErrNoTiles, string(letters))
	}

	wants := make([]tiles.Tile, len(letters))
	for i, l := range letters {
		wants[i] = tiles.Tile{Letter: l, IsBlank: l == tiles.BlankLetter}
	}
	removed, err := rack.RemoveTiles(wants)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrNoTiles, err)
	}

	fresh := bag.Draw(len(letters))
	rack.AddTiles(fresh)
	for _, t := range removed {
		t.Reset()
		bag.AddTile(t)
	}

	drawn := make([]tiles.Tile, len(fresh))
	for i, t := range fresh {
		drawn[i] = *t
	}
	return drawn, nil
}

// holds reports whether the rack has every letter without using blanks as wildcards
func holds(rack *tiles.Container, letters []rune) bool {
	have := make(map[rune]int)
	for _, l := range rack.Letters() {
		have[l]++
	}
	for _, l := range letters {
		if have[l] == 0 {
			return false
		}
		have[l]--
	}
	return true
}

// Interface for dependency injection
type ServiceInterface interface {
	ValidatePlacements(board *tiles.Board, placements []model.Placement) error
	PlaceMove(board *tiles.Board, rack *tiles.Container, placements []model.Placement) error
	LiftMove(board *tiles.Board, rack *tiles.Container, placements []model.Placement) error
	Refill(bag, rack *tiles.Container) []tiles.Tile
	ReturnToBag(bag, rack *tiles.Container, returned []tiles.Tile) error
	Swap(bag, rack *tiles.Container, letters []rune) ([]tiles.Tile, error)
}

var _ ServiceInterface = (*Service)(nil)
