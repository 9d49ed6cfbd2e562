package game

// PlayerState is one participant's progress in a round. It is owned by its
// Session and only mutated through Session.Guess.
type PlayerState struct {
	ID       string
	Guesses  []GuessRecord
	Keyboard Keyboard
}

func newPlayerState(id string) *PlayerState {
	return &PlayerState{ID: id, Keyboard: Keyboard{}}
}

// Attempts is the number of guesses submitted so far.
func (p *PlayerState) Attempts() int { return len(p.Guesses) }

// HasGuessed reports whether word was already submitted this round.
func (p *PlayerState) HasGuessed(word string) bool {
	for _, g := range p.Guesses {
		if g.Guess == word {
			return true
		}
	}
	return false
}

// Solved reports whether the guess history contains target. It is a query
// over history rather than a flag so it can be recomputed at any time.
func (p *PlayerState) Solved(target string) bool {
	return p.HasGuessed(target)
}

// SolvedAt returns the 1-based attempt on which target was guessed, or 0.
func (p *PlayerState) SolvedAt(target string) int {
	for i, g := range p.Guesses {
		if g.Guess == target {
			return i + 1
		}
	}
	return 0
}

func (p *PlayerState) record(rec GuessRecord) {
	p.Guesses = append(p.Guesses, rec)
	p.Keyboard.Merge(rec.Guess, rec.Verdicts)
}
