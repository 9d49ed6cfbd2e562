// internal/render/render.go
//
// Text presentation of room effects for chat platforms.
//
// The engine only supplies semantic content; this package decides how a
// board, keyboard, notice, reveal or error reads in a chat message:
//   - Board:    one line per attempt; played rows show verdict blocks and the
//               uppercase guess, unplayed rows are blank blocks.
//   - Keyboard: the three QWERTY rows, each key prefixed with its status.
//   - Errors:   short user-facing sentences keyed by apperr code.

package render

import (
	"fmt"
	"strings"

	"github.com/robalobadob/wordle/apps/room-bot/internal/apperr"
	"github.com/robalobadob/wordle/apps/room-bot/internal/game"
	"github.com/robalobadob/wordle/apps/room-bot/internal/room"
)

// Embed colors.
const (
	ColorRoom   = 0x00D9E5
	ColorStart  = 0x00FF00
	ColorReveal = 0xFFD700
	ColorError  = 0xE53935
)

var qwerty = []string{"qwertyuiop", "asdfghjkl", "zxcvbnm"}

// Message is a rendered effect, ready for an adapter to send.
type Message struct {
	Title string
	Body  string
	Color int
}

// Renderer formats effects. Mention turns a player id into display text
// (a Discord mention, a username, ...); nil prints the id as-is.
type Renderer struct {
	Prefix  string
	Mention func(id string) string
}

// New returns a Renderer using prefix for command hints.
func New(prefix string, mention func(id string) string) Renderer {
	return Renderer{Prefix: prefix, Mention: mention}
}

func (r Renderer) who(id string) string {
	if r.Mention == nil {
		return id
	}
	return r.Mention(id)
}

// Block returns the square used for a verdict.
func Block(v game.Verdict) string {
	switch v {
	case game.Correct:
		return "🟩"
	case game.Present:
		return "🟨"
	case game.Absent:
		return "⬛"
	default:
		return "⬜"
	}
}

// Grid renders the attempt rows of a board.
func Grid(b room.Board) string {
	var sb strings.Builder
	for i := 0; i < b.MaxAttempts; i++ {
		if i < len(b.Rows) {
			row := b.Rows[i]
			for _, v := range row.Verdicts {
				sb.WriteString(Block(v))
			}
			sb.WriteString(" ")
			sb.WriteString(strings.ToUpper(row.Guess))
		} else {
			sb.WriteString(strings.Repeat(Block(game.Unknown), b.WordLength))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// Keyboard renders the best-known status of every letter.
func Keyboard(kb map[string]game.Verdict) string {
	lines := make([]string, 0, len(qwerty))
	for _, row := range qwerty {
		keys := make([]string, 0, len(row))
		for _, letter := range row {
			keys = append(keys, Block(kb[string(letter)])+strings.ToUpper(string(letter)))
		}
		lines = append(lines, strings.Join(keys, " "))
	}
	return strings.Join(lines, "\n")
}

// Board renders a player's whole board: counters, grid and keyboard.
func (r Renderer) Board(b room.Board) Message {
	body := fmt.Sprintf("Player: %s\nWord length: **%d** letters\nAttempts: **%d/%d**\n\n%s\n%s",
		r.who(b.PlayerID), b.WordLength, b.Attempts, b.MaxAttempts, Grid(b), Keyboard(b.Keyboard))
	return Message{Title: "Wordle - " + b.RoomName, Body: body, Color: ColorRoom}
}

// Notice renders a lifecycle notice.
func (r Renderer) Notice(n room.Notice) Message {
	switch n.Kind {
	case room.NoticeRoomCreated:
		mode := ""
		if n.Mode == room.ModeDaily {
			mode = " (daily word)"
		}
		return Message{
			Title: "Room created" + mode,
			Body: fmt.Sprintf("Room: **%s**\nHost: %s\nWord length: **%d** letters\n\nType `%sjoin` to join\nThe host types `%sstart` to begin",
				n.RoomName, r.who(n.HostID), n.WordLength, r.Prefix, r.Prefix),
			Color: ColorRoom,
		}
	case room.NoticePlayerJoined:
		return Message{
			Body:  fmt.Sprintf("%s joined the room\nPlayers: **%d**", r.who(n.ActorID), n.Players),
			Color: ColorRoom,
		}
	case room.NoticeRoundStarted:
		return Message{
			Title: "Round started!",
			Body: fmt.Sprintf("Word length: **%d** letters\nMax attempts: **%d**\nPlayers: **%d**\n\nType a **%d-letter** word to guess.\n%s correct spot | %s wrong spot | %s not in word",
				n.WordLength, n.MaxAttempts, n.Players, n.WordLength,
				Block(game.Correct), Block(game.Present), Block(game.Absent)),
			Color: ColorStart,
		}
	case room.NoticePlayerSolved:
		return Message{
			Body:  fmt.Sprintf("%s solved it in **%d** attempts!", r.who(n.ActorID), n.Attempts),
			Color: ColorStart,
		}
	case room.NoticePlayerExhausted:
		return Message{
			Body:  fmt.Sprintf("%s used all %d attempts\nWaiting for the other players...", r.who(n.ActorID), n.Attempts),
			Color: ColorRoom,
		}
	}
	return Message{Body: string(n.Kind), Color: ColorRoom}
}

// Reveal renders the end of a round.
func (r Renderer) Reveal(rv room.Reveal) Message {
	title := "Round over!"
	if rv.Forced {
		title = "Room ended"
	}
	body := fmt.Sprintf("The word was: **%s**", strings.ToUpper(rv.Target))
	if len(rv.Winners) > 0 {
		names := make([]string, len(rv.Winners))
		for i, id := range rv.Winners {
			names[i] = r.who(id)
		}
		body += "\n\nWinners:\n" + strings.Join(names, "\n")
	} else if !rv.Forced {
		body += "\n\nNobody solved it."
	}
	return Message{Title: title, Body: body, Color: ColorReveal}
}

// Effect renders any effect.
func (r Renderer) Effect(e room.Effect) Message {
	switch {
	case e.Board != nil:
		return r.Board(*e.Board)
	case e.Notice != nil:
		return r.Notice(*e.Notice)
	case e.Reveal != nil:
		return r.Reveal(*e.Reveal)
	}
	return Message{Body: string(e.Type)}
}

// Error renders a user-facing error for the actor who caused it.
func (r Renderer) Error(err error) string {
	switch apperr.CodeOf(err) {
	case "length_mismatch":
		return "Wrong length: " + detail(err)
	case "invalid_word":
		return "That is not a valid word"
	case "duplicate_guess":
		return "You already guessed that word"
	case "attempts_exhausted":
		return "You have used all your attempts"
	case "missing_name":
		return fmt.Sprintf("Please give the room a name\nUsage: `%screate <name>`", r.Prefix)
	case "session_exists":
		return "A room already exists here; end it before creating a new one"
	case "no_session":
		return fmt.Sprintf("There is no room here; create one with `%screate <name>`", r.Prefix)
	case "already_joined":
		return "You are already in the room"
	case "already_started":
		return "The round has already started"
	case "not_started":
		return fmt.Sprintf("The round has not started yet; the host types `%sstart` to begin", r.Prefix)
	case "not_participant":
		return fmt.Sprintf("You are not in this room; type `%sjoin` to join", r.Prefix)
	case "no_players":
		return "The room has no players"
	case "not_host":
		return "Only the host can do that"
	case "unknown_mode":
		return "Unknown room mode; use random or daily"
	case "unknown_event":
		return "Unknown command"
	case "no_candidates":
		return "No words are available right now"
	}
	return "Something went wrong"
}

// detail returns the part of a wrapped error message after the sentinel.
func detail(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, ": "); i >= 0 {
		return msg[i+2:]
	}
	return msg
}
