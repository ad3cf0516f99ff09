package model

// Ledger is the append-only history of a game's turns
type Ledger struct {
	Turns []Turn
}

// Append adds a turn to the end of the ledger
func (l *Ledger) Append(t Turn) {
	l.Turns = append(l.Turns, t)
}

// Len returns the number of turns recorded
func (l *Ledger) Len() int {
	return len(l.Turns)
}

// Last returns the most recent turn
func (l *Ledger) Last() (Turn, bool) {
	if len(l.Turns) == 0 {
		return Turn{}, false
	}
	return l.Turns[len(l.Turns)-1], true
}

// All returns a copy of the recorded turns
func (l *Ledger) All() []Turn {
	result := make([]Turn, len(l.Turns))
	copy(result, l.Turns)
	return result
}

// ScoreFor sums every recorded delta for a player
func (l *Ledger) ScoreFor(key PlayerKey) int {
	total := 0
	for i := range l.Turns {
		total += l.Turns[i].DeltaFor(key)
	}
	return total
}

// TrailingPasses counts consecutive PASSED turns at the end of the ledger
func (l *Ledger) TrailingPasses() int {
	count := 0
	for i := len(l.Turns) - 1; i >= 0; i-- {
		if l.Turns[i].Type != TurnPassed {
			break
		}
		count++
	}
	return count
}
