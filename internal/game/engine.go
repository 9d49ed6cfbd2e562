// internal/game/engine.go
//
// Guess evaluation.
//
// Evaluate implements the two-pass scoring used by every Wordle variant:
//
// Pass 1:
//   - Mark exact position matches Correct and consume that target position.
//
// Pass 2:
//   - For each remaining guess letter, scan the unconsumed target positions
//     left to right; the first equal letter marks the guess letter Present
//     and consumes the position. No match marks it Absent.
//
// A letter repeated in the guess more often than in the target therefore
// never earns more Correct+Present verdicts than the target holds.

package game

import (
	"fmt"
	"strings"

	"github.com/robalobadob/wordle/apps/room-bot/internal/apperr"
)

// Evaluate scores guess against target. Both are compared case-insensitively.
// It fails with apperr.ErrLengthMismatch when the lengths differ.
func Evaluate(guess, target string) ([]Verdict, error) {
	g := []rune(strings.ToLower(guess))
	t := []rune(strings.ToLower(target))
	if len(g) != len(t) {
		return nil, fmt.Errorf("%w: want %d letters, got %d", apperr.ErrLengthMismatch, len(t), len(g))
	}

	res := make([]Verdict, len(g))
	consumed := make([]bool, len(t))

	// First pass: exact matches.
	for i := range g {
		if g[i] == t[i] {
			res[i] = Correct
			consumed[i] = true
		}
	}

	// Second pass: misplaced letters against what is left of the target.
	for i := range g {
		if res[i] == Correct {
			continue
		}
		res[i] = Absent
		for j := range t {
			if !consumed[j] && t[j] == g[i] {
				res[i] = Present
				consumed[j] = true
				break
			}
		}
	}
	return res, nil
}
