package scoring

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/mcoot/tilegame/internal/model"
)

// Service provides end-of-game settlement and standings
type Service struct{}

// New creates a new ScoringService
func New() *Service {
	return &Service{}
}

// Settlement is the outcome of settling a finished game
type Settlement struct {
	Deltas   map[model.PlayerKey]int
	Pot      int             // Points forfeited by players left holding tiles
	Finisher model.PlayerKey // The player who emptied their rack, if any
}

// Settle computes the end-of-game score changes without applying them.
// Each player left holding tiles loses their rack value into a pot, which
// goes to the single player with an empty rack. Under a per-game timer,
// overrun clocks are penalised.
func (s *Service) Settle(players []*model.Player, cfg model.GameConfig) (*Settlement, error) {
	result := &Settlement{Deltas: make(map[model.PlayerKey]int, len(players))}

	for _, p := range players {
		result.Deltas[p.Key] = 0
		if p.Rack.IsEmpty() {
			if result.Finisher != "" {
				return nil, fmt.Errorf("%w: %s and %s", model.ErrMultipleEmptyRacks, result.Finisher, p.Key)
			}
			result.Finisher = p.Key
			continue
		}
		value := p.Rack.Score()
		result.Deltas[p.Key] -= value
		result.Pot += value
	}

	if result.Finisher != "" {
		result.Deltas[result.Finisher] += result.Pot
	}

	if cfg.Timer == model.TimerPerGame {
		for _, p := range players {
			if penalty := TimePenalty(p.Clock, cfg.TimePenaltyPerMinute); penalty < 0 {
				result.Deltas[p.Key] += penalty
			}
		}
	}

	return result, nil
}

// TimePenalty returns the (non-positive) points lost for an overrun clock
func TimePenalty(remaining time.Duration, perMinute int) int {
	if remaining >= 0 {
		return 0
	}
	return int(math.Round(remaining.Seconds() * float64(perMinute) / 60))
}

// Standing is one line of a scoreboard
type Standing struct {
	PlayerKey model.PlayerKey
	Name      string
	Score     int
}

// Standings returns players ordered by score, highest first
func (s *Service) Standings(players []*model.Player) []Standing {
	result := make([]Standing, 0, len(players))
	for _, p := range players {
		result = append(result, Standing{PlayerKey: p.Key, Name: p.Name, Score: p.Score})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Score > result[j].Score
	})

	return result
}

// DetermineWinner returns the winner's key, or empty string if tie
func (s *Service) DetermineWinner(standings []Standing) model.PlayerKey {
	if len(standings) == 0 {
		return ""
	}

	topScore := standings[0].Score
	tieCount := 0
	for _, st := range standings {
		if st.Score == topScore {
			tieCount++
		}
	}

	if tieCount > 1 {
		return "" // Tie
	}

	return standings[0].PlayerKey
}

// Interface for dependency injection
type ServiceInterface interface {
	Settle(players []*model.Player, cfg model.GameConfig) (*Settlement, error)
	Standings(players []*model.Player) []Standing
	DetermineWinner(standings []Standing) model.PlayerKey
}

var _ ServiceInterface = (*Service)(nil)
