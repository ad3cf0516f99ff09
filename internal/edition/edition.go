// Package edition loads the tile sets and board dimensions games are built from.
package edition

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/mcoot/tilegame/internal/model"
	"github.com/mcoot/tilegame/internal/tiles"
)

//go:embed editions/*.yaml
var editionFS embed.FS

// LetterSpec describes how many of one tile an edition has
type LetterSpec struct {
	Letter string `yaml:"letter"`
	Blank  bool   `yaml:"blank"`
	Count  int    `yaml:"count"`
	Score  int    `yaml:"score"`
}

// Edition is a named tile distribution with board and rack sizes
type Edition struct {
	Name      string       `yaml:"name"`
	BoardSize int          `yaml:"board_size"`
	RackSize  int          `yaml:"rack_size"`
	Letters   []LetterSpec `yaml:"letters"`
}

// Load returns the embedded edition with the given name
func Load(name string) (*Edition, error) {
	data, err := editionFS.ReadFile(path.Join("editions", name+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", model.ErrEditionNotFound, name)
	}
	return Parse(data)
}

// Parse decodes and validates an edition document
func Parse(data []byte) (*Edition, error) {
	var e Edition
	if err := yaml.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("parse edition: %w", err)
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return &e, nil
}

// Names lists the embedded editions
func Names() []string {
	entries, err := fs.ReadDir(editionFS, "editions")
	if err != nil {
		return nil
	}
	var names []string
	for _, entry := range entries {
		names = append(names, strings.TrimSuffix(entry.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

// Validate checks the edition can build a playable game
func (e *Edition) Validate() error {
	if e.Name == "" {
		return fmt.Errorf("edition has no name")
	}
	if e.BoardSize <= 0 || e.RackSize <= 0 {
		return fmt.Errorf("edition %s: board and rack sizes must be positive", e.Name)
	}
	for _, spec := range e.Letters {
		if spec.Count <= 0 {
			return fmt.Errorf("edition %s: count for %q must be positive", e.Name, spec.Letter)
		}
		if !spec.Blank && utf8.RuneCountInString(spec.Letter) != 1 {
			return fmt.Errorf("edition %s: letter %q must be a single character", e.Name, spec.Letter)
		}
	}
	return nil
}

// TileCount returns the number of tiles in a full bag
func (e *Edition) TileCount() int {
	total := 0
	for _, spec := range e.Letters {
		total += spec.Count
	}
	return total
}

// NewBag builds a full, unshuffled bag
func (e *Edition) NewBag() *tiles.Container {
	bag := tiles.NewBag(e.TileCount())
	for _, spec := range e.Letters {
		for i := 0; i < spec.Count; i++ {
			if spec.Blank {
				bag.AddTile(tiles.NewBlank())
				continue
			}
			letter, _ := utf8.DecodeRuneInString(spec.Letter)
			bag.AddTile(tiles.NewTile(letter, spec.Score))
		}
	}
	return bag
}
