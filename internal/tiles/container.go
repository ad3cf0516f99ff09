package tiles

import (
	"fmt"

	"github.com/mcoot/tilegame/internal/dependencies/random"
)

// Kind distinguishes container variants
type Kind string

const (
	KindExchange Kind = "exchange" // bag or swap tray, exact matches only
	KindRack     Kind = "rack"     // player hand, blanks act as wildcards
)

// Container is a fixed-capacity ordered set of slots
type Container struct {
	Kind  Kind
	Slots []Slot
}

// NewBag creates an empty exchange container
func NewBag(capacity int) *Container {
	return &Container{Kind: KindExchange, Slots: make([]Slot, capacity)}
}

// NewRack creates an empty rack container
func NewRack(capacity int) *Container {
	return &Container{Kind: KindRack, Slots: make([]Slot, capacity)}
}

// Capacity returns the fixed number of slots
func (c *Container) Capacity() int {
	return len(c.Slots)
}

// Count returns the number of occupied slots
func (c *Container) Count() int {
	n := 0
	for i := range c.Slots {
		if !c.Slots[i].IsEmpty() {
			n++
		}
	}
	return n
}

// IsEmpty returns true if no slot holds a tile
func (c *Container) IsEmpty() bool {
	return c.Count() == 0
}

// Tiles returns the held tiles in slot order
func (c *Container) Tiles() []*Tile {
	var result []*Tile
	for i := range c.Slots {
		if t := c.Slots[i].Tile; t != nil {
			result = append(result, t)
		}
	}
	return result
}

// Letters returns the held letters; unassigned blanks show as BlankLetter
func (c *Container) Letters() []rune {
	var result []rune
	for _, t := range c.Tiles() {
		result = append(result, t.Letter)
	}
	return result
}

// Score returns the total point value of the held tiles
func (c *Container) Score() int {
	total := 0
	for _, t := range c.Tiles() {
		total += t.Score
	}
	return total
}

// AddTile places a tile in the first empty slot.
// Returns the slot index, or false if the container is full.
func (c *Container) AddTile(tile *Tile) (int, bool) {
	for i := range c.Slots {
		if c.Slots[i].IsEmpty() {
			c.Slots[i].Tile = tile
			return i, true
		}
	}
	return -1, false
}

// AddTiles adds each tile in turn and returns the slots used.
// Tiles that do not fit are not placed.
func (c *Container) AddTiles(tiles []*Tile) []int {
	var used []int
	for _, t := range tiles {
		if i, ok := c.AddTile(t); ok {
			used = append(used, i)
		}
	}
	return used
}

// RemoveTile removes a tile matching the request.
// Racks fall back to a blank when no exact letter is held; the blank
// is assigned the requested letter.
func (c *Container) RemoveTile(want Tile) (*Tile, error) {
	i, err := c.find(want, nil)
	if err != nil {
		return nil, err
	}
	return c.take(i, want), nil
}

// RemoveTiles removes every requested tile or none of them.
// On a miss the container is left exactly as it was.
func (c *Container) RemoveTiles(wants []Tile) ([]*Tile, error) {
	claimed := make(map[int]bool, len(wants))
	picks := make([]int, len(wants))
	for n, want := range wants {
		i, err := c.find(want, claimed)
		if err != nil {
			return nil, err
		}
		claimed[i] = true
		picks[n] = i
	}

	removed := make([]*Tile, len(wants))
	for n, i := range picks {
		removed[n] = c.take(i, wants[n])
	}
	return removed, nil
}

// Draw removes up to n tiles from the front of the container
func (c *Container) Draw(n int) []*Tile {
	var drawn []*Tile
	for i := range c.Slots {
		if len(drawn) == n {
			break
		}
		if t := c.Slots[i].Tile; t != nil {
			drawn = append(drawn, t)
			c.Slots[i].Tile = nil
		}
	}
	return drawn
}

// Shuffle permutes the held tiles in place (Fisher-Yates over occupied slots)
func (c *Container) Shuffle(rnd random.Random) {
	var occupied []int
	for i := range c.Slots {
		if !c.Slots[i].IsEmpty() {
			occupied = append(occupied, i)
		}
	}
	rnd.Shuffle(len(occupied), func(i, j int) {
		a, b := occupied[i], occupied[j]
		c.Slots[a].Tile, c.Slots[b].Tile = c.Slots[b].Tile, c.Slots[a].Tile
	})
}

// find locates a slot for the request, skipping claimed slots.
// Exact matches win over wildcard blanks.
func (c *Container) find(want Tile, claimed map[int]bool) (int, error) {
	blank := -1
	for i := range c.Slots {
		t := c.Slots[i].Tile
		if t == nil || claimed[i] {
			continue
		}
		if t.Matches(want) {
			return i, nil
		}
		if blank < 0 && c.Kind == KindRack && t.IsBlank {
			blank = i
		}
	}
	if blank >= 0 {
		return blank, nil
	}
	return -1, fmt.Errorf("%w: %q in %s", ErrTileNotFound, want.Letter, c.Kind)
}

func (c *Container) take(i int, want Tile) *Tile {
	t := c.Slots[i].Tile
	c.Slots[i].Tile = nil
	if want.Letter != BlankLetter && want.Letter != 0 {
		t.Assign(want.Letter)
	}
	return t
}
