// assets/embed.go
//
// Embedded default dictionary. Used when WORDS_FILE is not configured so the
// bot can always open a room.

package assets

import (
	"bufio"
	"embed"
	"strings"
)

//go:embed words.txt
var FS embed.FS

// readLines returns the non-empty, non-comment lines of an embedded file,
// trimmed and lowercased.
func readLines(name string) ([]string, error) {
	f, err := FS.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, strings.ToLower(s))
	}
	return out, sc.Err()
}

// DefaultWords returns the embedded dictionary.
func DefaultWords() ([]string, error) {
	return readLines("words.txt")
}
