package game

import "strings"

// Keyboard holds the best-known verdict per letter for one player.
// Letters missing from the map are Unknown.
type Keyboard map[rune]Verdict

// Merge folds one scored guess into the keyboard, keeping the highest
// verdict seen per letter. Merging the same guess again is a no-op.
func (k Keyboard) Merge(guess string, verdicts []Verdict) {
	for i, r := range []rune(strings.ToLower(guess)) {
		if i >= len(verdicts) {
			return
		}
		if verdicts[i] > k[r] {
			k[r] = verdicts[i]
		}
	}
}

// Status returns the best-known verdict for letter.
func (k Keyboard) Status(letter rune) Verdict {
	return k[toLower(letter)]
}

// Snapshot copies the keyboard into a string-keyed map for transport.
func (k Keyboard) Snapshot() map[string]Verdict {
	out := make(map[string]Verdict, len(k))
	for r, v := range k {
		out[string(r)] = v
	}
	return out
}

func toLower(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}
