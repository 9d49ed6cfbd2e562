// internal/words/words.go
//
// Dictionary of candidate words for room rounds.
//
// Responsibilities:
//   - Load the word list from a configured file, or fall back to the
//     embedded default in the assets package.
//   - Pick a uniformly random word whose length falls in a range.
//   - Case-insensitive membership tests over the whole list, independent of
//     any length filtering.
//
// File formats (Load):
//   - *.json: a JSON array of strings, e.g. ["crane","trace"].
//   - anything else: one word per line; blank lines and "#" comments skipped.
//
// A Dictionary is immutable once built and safe for concurrent use.

package words

import (
	"bufio"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/robalobadob/wordle/apps/room-bot/assets"
	"github.com/robalobadob/wordle/apps/room-bot/internal/apperr"
)

// Bounds on target word length.
const (
	MinTargetLength = 4
	MaxTargetLength = 6
)

// Dictionary is an immutable word set, each entry tagged with its length.
type Dictionary struct {
	list     []string
	set      map[string]struct{}
	byLength map[int][]string
}

// New builds a Dictionary from raw entries. Entries are trimmed and
// lowercased; anything that is not purely a–z is dropped, as are duplicates.
func New(entries []string) *Dictionary {
	d := &Dictionary{
		set:      make(map[string]struct{}, len(entries)),
		byLength: make(map[int][]string),
	}
	for _, e := range entries {
		w, ok := Normalize(e)
		if !ok {
			continue
		}
		if _, dup := d.set[w]; dup {
			continue
		}
		d.set[w] = struct{}{}
		d.list = append(d.list, w)
		d.byLength[len(w)] = append(d.byLength[len(w)], w)
	}
	return d
}

// Load reads a dictionary from path. An empty path selects the embedded
// default list.
func Load(path string) (*Dictionary, error) {
	if path == "" {
		list, err := assets.DefaultWords()
		if err != nil {
			return nil, fmt.Errorf("words: embedded list: %w", err)
		}
		return New(list), nil
	}

	var (
		list []string
		err  error
	)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		list, err = readJSONFile(path)
	} else {
		list, err = readWordFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("words: load %s: %w", path, err)
	}
	return New(list), nil
}

// readJSONFile loads a JSON array of words.
func readJSONFile(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out []string
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// readWordFile loads one word per line.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out, sc.Err()
}

// Candidates returns every word whose length is in [minLen, maxLen], in
// load order. The returned slice is a copy.
func (d *Dictionary) Candidates(minLen, maxLen int) []string {
	var out []string
	for _, w := range d.list {
		if n := len(w); n >= minLen && n <= maxLen {
			out = append(out, w)
		}
	}
	return out
}

// PickWord samples uniformly from the words whose length is in
// [minLen, maxLen]. It returns apperr.ErrNoCandidates when the range is empty.
func (d *Dictionary) PickWord(minLen, maxLen int) (string, error) {
	cands := d.Candidates(minLen, maxLen)
	if len(cands) == 0 {
		return "", fmt.Errorf("%w: length %d-%d", apperr.ErrNoCandidates, minLen, maxLen)
	}
	nBig, err := rand.Int(rand.Reader, big.NewInt(int64(len(cands))))
	if err != nil {
		return "", fmt.Errorf("words: random pick: %w", err)
	}
	return cands[nBig.Int64()], nil
}

// IsValidWord reports whether candidate is in the dictionary, ignoring case.
func (d *Dictionary) IsValidWord(candidate string) bool {
	_, ok := d.set[strings.ToLower(strings.TrimSpace(candidate))]
	return ok
}

// Len returns the number of distinct words.
func (d *Dictionary) Len() int { return len(d.list) }

// Stats returns word counts keyed by length.
func (d *Dictionary) Stats() map[int]int {
	out := make(map[int]int, len(d.byLength))
	for n, ws := range d.byLength {
		out[n] = len(ws)
	}
	return out
}

// Normalize trims and lowercases w. ok is false unless the result is a
// non-empty run of a–z.
func Normalize(w string) (string, bool) {
	w = strings.ToLower(strings.TrimSpace(w))
	return w, w != "" && isAlpha(w)
}

// isAlpha reports whether s is all lowercase ASCII letters.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
