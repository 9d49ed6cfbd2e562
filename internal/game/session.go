// internal/game/session.go
//
// Session is one room's round: target word, participants in join order and
// the started flag.
//
// Invariants:
//   - The host is the first player, added at construction.
//   - MaxAttempts() == len(Target) + 1 for every player.
//   - Once Started, the player set is frozen.
//   - A player never holds more than MaxAttempts() guesses, and never the
//     same guess twice.
//
// Session is not safe for concurrent use; the room controller serializes
// every access.

package game

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/robalobadob/wordle/apps/room-bot/internal/apperr"
)

// Session holds the state of a single room.
type Session struct {
	ID        string    // Round identifier (uuid).
	ScopeID   string    // Chat context the room is bound to.
	Name      string    // Display name chosen by the host.
	HostID    string    // Player who created the room.
	Target    string    // Lowercase solution word.
	Started   bool      // True once the host starts the round.
	CreatedAt time.Time // Creation time (UTC).

	players map[string]*PlayerState
	order   []string
}

// NewSession creates a room with the host auto-joined as first player.
func NewSession(scopeID, name, hostID, target string) *Session {
	s := &Session{
		ID:        uuid.NewString(),
		ScopeID:   scopeID,
		Name:      name,
		HostID:    hostID,
		Target:    strings.ToLower(target),
		CreatedAt: time.Now().UTC(),
		players:   make(map[string]*PlayerState),
	}
	s.players[hostID] = newPlayerState(hostID)
	s.order = append(s.order, hostID)
	return s
}

// WordLength is the number of letters in the target.
func (s *Session) WordLength() int { return utf8.RuneCountInString(s.Target) }

// MaxAttempts is the per-player guess limit.
func (s *Session) MaxAttempts() int { return s.WordLength() + 1 }

// AddPlayer joins playerID to the room.
func (s *Session) AddPlayer(playerID string) error {
	if s.Started {
		return apperr.ErrAlreadyStarted
	}
	if _, ok := s.players[playerID]; ok {
		return apperr.ErrAlreadyJoined
	}
	s.players[playerID] = newPlayerState(playerID)
	s.order = append(s.order, playerID)
	return nil
}

// Start freezes the player set. Only the host may start, and only once.
func (s *Session) Start(requesterID string) error {
	if requesterID != s.HostID {
		return apperr.ErrNotHost
	}
	if s.Started {
		return apperr.ErrAlreadyStarted
	}
	if len(s.order) == 0 {
		return apperr.ErrNoPlayers
	}
	s.Started = true
	return nil
}

// Player returns the state for playerID.
func (s *Session) Player(playerID string) (*PlayerState, bool) {
	p, ok := s.players[playerID]
	return p, ok
}

// PlayerIDs lists players in join order.
func (s *Session) PlayerIDs() []string {
	return append([]string(nil), s.order...)
}

// PlayerCount is the number of joined players.
func (s *Session) PlayerCount() int { return len(s.order) }

// Guess validates and applies text as playerID's next guess.
//
// Checks run in order and the first failure wins:
//  1. length equals the target length       (ErrLengthMismatch)
//  2. word is in lex, or is the target      (ErrInvalidWord)
//  3. attempts remain                       (ErrAttemptsExhausted)
//  4. not a repeat of an earlier guess      (ErrDuplicateGuess)
//
// On success the scored record is appended and the keyboard merged. A guess
// equal to the target still counts as an attempt.
func (s *Session) Guess(playerID, text string, lex Lexicon) (GuessRecord, error) {
	if !s.Started {
		return GuessRecord{}, apperr.ErrNotStarted
	}
	p, ok := s.players[playerID]
	if !ok {
		return GuessRecord{}, apperr.ErrNotParticipant
	}

	guess := strings.ToLower(strings.TrimSpace(text))
	if n := utf8.RuneCountInString(guess); n != s.WordLength() {
		return GuessRecord{}, fmt.Errorf("%w: want %d letters, got %d", apperr.ErrLengthMismatch, s.WordLength(), n)
	}
	if guess != s.Target && (lex == nil || !lex.IsValidWord(guess)) {
		return GuessRecord{}, apperr.ErrInvalidWord
	}
	if p.Attempts() >= s.MaxAttempts() {
		return GuessRecord{}, fmt.Errorf("%w: used %d of %d", apperr.ErrAttemptsExhausted, p.Attempts(), s.MaxAttempts())
	}
	if p.HasGuessed(guess) {
		return GuessRecord{}, apperr.ErrDuplicateGuess
	}

	verdicts, err := Evaluate(guess, s.Target)
	if err != nil {
		return GuessRecord{}, err
	}
	rec := GuessRecord{Guess: guess, Verdicts: verdicts}
	p.record(rec)
	return rec, nil
}

// Finished reports whether playerID has solved the word or used every attempt.
func (s *Session) Finished(playerID string) bool {
	p, ok := s.players[playerID]
	if !ok {
		return false
	}
	return p.Solved(s.Target) || p.Attempts() >= s.MaxAttempts()
}

// RoundOver reports whether every player is finished. A room without
// players is never over, since it can never have started.
func (s *Session) RoundOver() bool {
	if !s.Started || len(s.order) == 0 {
		return false
	}
	for _, id := range s.order {
		if !s.Finished(id) {
			return false
		}
	}
	return true
}

// Winners lists, in join order, the players whose history contains the target.
func (s *Session) Winners() []string {
	out := []string{}
	for _, id := range s.order {
		if s.players[id].Solved(s.Target) {
			out = append(out, id)
		}
	}
	return out
}
