// Package daily selects a deterministic "word of the day" per scope, so every
// room created in the same channel on the same UTC date gets the same word.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// WordIndex returns HMAC(salt, scope|date) % n, or 0 when n <= 0.
func WordIndex(scopeID string, date time.Time, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(scopeID + "|" + DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for the modulus
	v := binary.BigEndian.Uint64(sum[:8])
	return int(v % uint64(n))
}

// Pick returns the daily word for scopeID among candidates, or "" if there
// are none.
func Pick(candidates []string, scopeID string, date time.Time, salt string) string {
	if len(candidates) == 0 {
		return ""
	}
	return candidates[WordIndex(scopeID, date, salt, len(candidates))]
}
