package discord

import (
	"strings"

	"github.com/robalobadob/wordle/apps/room-bot/internal/room"
)

// Command is a chat message understood by the bot.
type Command struct {
	Type room.EventType
	Name string // create: room name, may be empty
	Mode string // create: room.ModeRandom or room.ModeDaily
	Text string // guess: the word as typed
}

// Parse maps a message to a command. Recognized forms, with prefix "!":
//
//	!create <name>   open a room (random word)
//	!daily <name>    open a room with the channel's word of the day
//	!join            join the open room
//	!start           host starts the round
//	!end             host ends the room
//	<letters>        a guess; only plain a–z/A–Z text counts
//
// Anything else reports false and is ignored.
func Parse(prefix, content string) (Command, bool) {
	content = strings.TrimSpace(content)
	if content == "" {
		return Command{}, false
	}

	if prefix != "" && strings.HasPrefix(content, prefix) {
		fields := strings.Fields(strings.TrimPrefix(content, prefix))
		if len(fields) == 0 {
			return Command{}, false
		}
		name := strings.Join(fields[1:], " ")
		switch strings.ToLower(fields[0]) {
		case "create":
			return Command{Type: room.EventCreate, Name: name, Mode: room.ModeRandom}, true
		case "daily":
			return Command{Type: room.EventCreate, Name: name, Mode: room.ModeDaily}, true
		case "join":
			return Command{Type: room.EventJoin}, true
		case "start":
			return Command{Type: room.EventStart}, true
		case "end":
			return Command{Type: room.EventEnd}, true
		}
		return Command{}, false
	}

	if !isLetters(content) {
		return Command{}, false
	}
	return Command{Type: room.EventGuess, Text: content}, true
}

// isLetters reports whether s is only ASCII letters.
func isLetters(s string) bool {
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return false
		}
	}
	return true
}
