// internal/room/event.go
//
// Inbound events and outbound effects of the room controller.
//
// Adapters (Discord, HTTP) parse platform input into an Event, hand it to the
// Dispatcher, and turn the returned Effects into platform output. Effects
// carry semantic content only (verdict grid, attempt counts, winners); the
// render package decides how it looks.

package room

import "github.com/robalobadob/wordle/apps/room-bot/internal/game"

// EventType names an inbound event.
type EventType string

const (
	EventCreate EventType = "create"
	EventJoin   EventType = "join"
	EventStart  EventType = "start"
	EventGuess  EventType = "guess"
	EventEnd    EventType = "end"
)

// Create modes.
const (
	ModeRandom = "random"
	ModeDaily  = "daily"
)

// Event is "actor did X in scope".
type Event struct {
	Type    EventType `json:"type"`
	ScopeID string    `json:"scopeId"`
	ActorID string    `json:"actorId"`
	Payload Payload   `json:"payload"`
}

// Payload carries the event-specific arguments.
type Payload struct {
	Name string `json:"name,omitempty"` // create: room name
	Mode string `json:"mode,omitempty"` // create: "random" (default) or "daily"
	Text string `json:"text,omitempty"` // guess: the guessed word
}

// EffectType names an outbound effect.
type EffectType string

const (
	EffectRender EffectType = "render" // one player's board
	EffectNotify EffectType = "notify" // lifecycle or progress notice
	EffectReveal EffectType = "reveal" // round over, target revealed
)

// Effect is "send this to scope". Exactly one of Board, Notice, Reveal is set,
// matching Type.
type Effect struct {
	Type    EffectType `json:"type"`
	ScopeID string     `json:"scopeId"`
	Board   *Board     `json:"board,omitempty"`
	Notice  *Notice    `json:"notice,omitempty"`
	Reveal  *Reveal    `json:"reveal,omitempty"`
}

// Board is one player's view of the round.
type Board struct {
	PlayerID    string                  `json:"playerId"`
	RoomName    string                  `json:"roomName"`
	WordLength  int                     `json:"wordLength"`
	Attempts    int                     `json:"attempts"`
	MaxAttempts int                     `json:"maxAttempts"`
	Rows        []game.GuessRecord      `json:"rows"`
	Keyboard    map[string]game.Verdict `json:"keyboard"`
}

// NoticeKind names a notice.
type NoticeKind string

const (
	NoticeRoomCreated     NoticeKind = "room_created"
	NoticePlayerJoined    NoticeKind = "player_joined"
	NoticeRoundStarted    NoticeKind = "round_started"
	NoticePlayerSolved    NoticeKind = "player_solved"
	NoticePlayerExhausted NoticeKind = "player_exhausted"
)

// Notice describes a lifecycle or progress event. Fields not relevant to
// Kind are zero.
type Notice struct {
	Kind        NoticeKind `json:"kind"`
	ActorID     string     `json:"actorId"`
	RoomName    string     `json:"roomName"`
	HostID      string     `json:"hostId"`
	Mode        string     `json:"mode,omitempty"`
	WordLength  int        `json:"wordLength"`
	MaxAttempts int        `json:"maxAttempts"`
	Players     int        `json:"players"`
	Attempts    int        `json:"attempts,omitempty"`
}

// Reveal ends a round. Forced is true when the host ended it early.
type Reveal struct {
	RoomName string   `json:"roomName"`
	Target   string   `json:"target"`
	Winners  []string `json:"winners"`
	Forced   bool     `json:"forced"`
}

// View is a read-only room summary. It never exposes the target.
type View struct {
	ID          string       `json:"id"`
	ScopeID     string       `json:"scopeId"`
	Name        string       `json:"name"`
	HostID      string       `json:"hostId"`
	Started     bool         `json:"started"`
	WordLength  int          `json:"wordLength"`
	MaxAttempts int          `json:"maxAttempts"`
	Players     []PlayerView `json:"players"`
}

// PlayerView summarizes one player's progress.
type PlayerView struct {
	ID       string `json:"id"`
	Attempts int    `json:"attempts"`
	Solved   bool   `json:"solved"`
	Finished bool   `json:"finished"`
}
