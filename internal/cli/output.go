package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/tilegame/internal/api/response"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

func newOutput(cmd *cobra.Command) *Output {
	return NewOutput(cfg.Output, cmd.OutOrStdout())
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

// PrintList outputs one item per line
func (o *Output) PrintList(items []string) {
	if o.format == "json" {
		o.printJSON(items)
		return
	}
	for _, item := range items {
		fmt.Fprintln(o.w, item)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Game:
		o.printGame(v)
	case response.Health:
		fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printGame(g response.Game) {
	fmt.Fprintf(o.w, "Game: %s\n", g.Key)
	fmt.Fprintf(o.w, "State: %s\n", g.State)
	if g.WhoseTurn != "" {
		fmt.Fprintf(o.w, "Turn: %s\n", g.WhoseTurn)
	}
	if g.PausedBy != "" {
		fmt.Fprintf(o.w, "Paused by: %s\n", g.PausedBy)
	}
	if g.NextGameKey != "" {
		fmt.Fprintf(o.w, "Next game: %s\n", g.NextGameKey)
	}
	fmt.Fprintf(o.w, "Bag: %d tiles\n", g.BagCount)

	fmt.Fprintf(o.w, "Players (%d):\n", len(g.Players))
	for _, p := range g.Players {
		line := fmt.Sprintf("  - %s (%s): %d points, %d tiles", p.Name, p.Key, p.Score, p.RackCount)
		if p.ClockSeconds != nil {
			line += fmt.Sprintf(", %ds left", *p.ClockSeconds)
		}
		if p.MissNextTurn {
			line += " [misses next turn]"
		}
		fmt.Fprintln(o.w, line)
		if len(p.Rack) > 0 {
			fmt.Fprintf(o.w, "    Rack: %s\n", rackString(p.Rack))
		}
	}

	if len(g.Board) > 0 {
		fmt.Fprintln(o.w)
		o.printBoard(g.BoardSize, g.Board)
	}

	if n := len(g.Turns); n > 0 {
		t := g.Turns[n-1]
		fmt.Fprintf(o.w, "\nLast turn: %s by %s (%+d)", t.Type, t.Player, t.Score)
		if len(t.Words) > 0 {
			fmt.Fprintf(o.w, " %s", strings.Join(t.Words, ", "))
		}
		fmt.Fprintln(o.w)
	}
}

func rackString(rack []response.Tile) string {
	letters := make([]string, len(rack))
	for i, t := range rack {
		if t.Blank {
			letters[i] = "?"
			continue
		}
		letters[i] = t.Letter
	}
	return strings.Join(letters, " ")
}

func (o *Output) printBoard(size int, placed []response.Tile) {
	cells := make([][]string, size)
	for row := range cells {
		cells[row] = make([]string, size)
	}
	for _, t := range placed {
		if t.Row == nil || t.Col == nil || *t.Row >= size || *t.Col >= size {
			continue
		}
		letter := t.Letter
		if t.Blank {
			letter = strings.ToLower(letter)
		}
		cells[*t.Row][*t.Col] = letter
	}

	// Print column headers
	fmt.Fprint(o.w, "    ")
	for col := 0; col < size; col++ {
		fmt.Fprintf(o.w, "%2d ", col)
	}
	fmt.Fprintln(o.w)

	for row := 0; row < size; row++ {
		fmt.Fprintf(o.w, "%2d |", row)
		for col := 0; col < size; col++ {
			if cells[row][col] == "" {
				fmt.Fprint(o.w, " . ")
			} else {
				fmt.Fprintf(o.w, " %s ", cells[row][col])
			}
		}
		fmt.Fprintln(o.w, "|")
	}
}
