// internal/game/types.go
//
// Core type definitions for the room game engine.
// Defines:
//   - Verdict:     per-letter result of a guess, ordered for keyboard merging.
//   - GuessRecord: one scored guess, immutable once created.
//   - Lexicon:     the dictionary capability the engine needs.

package game

import "fmt"

// Verdict is the evaluation result for a single letter.
//
// Values are ordered: Unknown < Absent < Present < Correct. Unknown is the
// zero value, so a missing keyboard entry reads as Unknown.
type Verdict int

const (
	Unknown Verdict = iota // letter never guessed (keyboard only)
	Absent                 // letter does not occur in the target
	Present                // letter occurs in the target at another position
	Correct                // letter is in the correct position
)

var verdictNames = [...]string{"unknown", "absent", "present", "correct"}

func (v Verdict) String() string {
	if v < Unknown || v > Correct {
		return fmt.Sprintf("verdict(%d)", int(v))
	}
	return verdictNames[v]
}

// MarshalText encodes the verdict by name so JSON payloads stay readable.
func (v Verdict) MarshalText() ([]byte, error) {
	if v < Unknown || v > Correct {
		return nil, fmt.Errorf("game: invalid verdict %d", int(v))
	}
	return []byte(verdictNames[v]), nil
}

// UnmarshalText is the inverse of MarshalText.
func (v *Verdict) UnmarshalText(b []byte) error {
	for i, n := range verdictNames {
		if n == string(b) {
			*v = Verdict(i)
			return nil
		}
	}
	return fmt.Errorf("game: unknown verdict %q", string(b))
}

// GuessRecord is one scored guess. len(Verdicts) == len(Guess) always.
type GuessRecord struct {
	Guess    string    `json:"guess"`
	Verdicts []Verdict `json:"verdicts"`
}

// Solved reports whether every letter of the record is Correct.
func (r GuessRecord) Solved() bool {
	if len(r.Verdicts) == 0 {
		return false
	}
	for _, v := range r.Verdicts {
		if v != Correct {
			return false
		}
	}
	return true
}

// Lexicon answers dictionary membership. *words.Dictionary implements it.
type Lexicon interface {
	IsValidWord(candidate string) bool
}
