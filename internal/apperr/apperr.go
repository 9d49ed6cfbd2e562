// internal/apperr/apperr.go
//
// Error taxonomy shared by the dictionary, the game engine and the room
// controller.
//
// Every user-facing failure is one of three kinds:
//   - Validation:    the actor sent something malformed (bad length, unknown
//                    word, repeated guess, no attempts left).
//   - State:         the request does not fit the room's lifecycle state.
//   - Configuration: the deployment cannot satisfy the request (for example
//                    an empty dictionary after length filtering).
//
// Errors are sentinels; call sites wrap them with fmt.Errorf("%w: ...") to
// add detail, and callers classify with errors.Is or KindOf.

package apperr

import "errors"

// Kind classifies an application error.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindState
	KindConfiguration
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindState:
		return "state"
	case KindConfiguration:
		return "configuration"
	default:
		return "unknown"
	}
}

// Error is a classified sentinel error. Code is a stable machine-readable
// identifier used by the transport adapters.
type Error struct {
	Kind Kind
	Code string
	msg  string
}

func (e *Error) Error() string { return e.msg }

func newError(kind Kind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, msg: msg}
}

// Validation errors.
var (
	ErrLengthMismatch    = newError(KindValidation, "length_mismatch", "guess length does not match the word length")
	ErrInvalidWord       = newError(KindValidation, "invalid_word", "not in word list")
	ErrDuplicateGuess    = newError(KindValidation, "duplicate_guess", "word already guessed")
	ErrAttemptsExhausted = newError(KindValidation, "attempts_exhausted", "no attempts left")
	ErrMissingName       = newError(KindValidation, "missing_name", "room name is required")
	ErrUnknownEvent      = newError(KindValidation, "unknown_event", "unknown event type")
	ErrUnknownMode       = newError(KindValidation, "unknown_mode", "unknown room mode")
)

// State errors.
var (
	ErrSessionExists  = newError(KindState, "session_exists", "a room already exists here")
	ErrNoSession      = newError(KindState, "no_session", "no room here")
	ErrAlreadyJoined  = newError(KindState, "already_joined", "already in the room")
	ErrAlreadyStarted = newError(KindState, "already_started", "round already started")
	ErrNotStarted     = newError(KindState, "not_started", "round has not started")
	ErrNotHost        = newError(KindState, "not_host", "only the host can do that")
	ErrNotParticipant = newError(KindState, "not_participant", "not a player in this room")
	ErrNoPlayers      = newError(KindState, "no_players", "room has no players")
)

// Configuration errors.
var (
	ErrNoCandidates = newError(KindConfiguration, "no_candidates", "no dictionary words in the requested length range")
)

// KindOf reports the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// CodeOf reports the code of the first *Error in err's chain, or "internal".
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return "internal"
}
