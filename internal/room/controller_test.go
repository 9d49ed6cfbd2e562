package room

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle/apps/room-bot/internal/apperr"
	"github.com/robalobadob/wordle/apps/room-bot/internal/game"
	"github.com/robalobadob/wordle/apps/room-bot/internal/store"
	"github.com/robalobadob/wordle/apps/room-bot/internal/words"
)

var testWords = []string{
	"crane", "trace", "slate", "plant", "brick", "dumpy", "fjord", "glyph", "waltz",
	"word", "able", "acid", "aged", "also", "area", "planet",
}

// fixedWords always picks target; membership comes from the real dictionary.
type fixedWords struct {
	*words.Dictionary
	target string
}

func (f fixedWords) PickWord(minLen, maxLen int) (string, error) { return f.target, nil }

func newTestController(t *testing.T, target string) *Controller {
	t.Helper()
	return NewController(fixedWords{Dictionary: words.New(testWords), target: target}, store.NewMemoryStore(), Config{})
}

func handle(t *testing.T, c *Controller, typ EventType, scope, actor string, p Payload) []Effect {
	t.Helper()
	effects, err := c.Handle(context.Background(), Event{Type: typ, ScopeID: scope, ActorID: actor, Payload: p})
	require.NoError(t, err, "%s by %s", typ, actor)
	return effects
}

func handleErr(c *Controller, typ EventType, scope, actor string, p Payload) error {
	_, err := c.Handle(context.Background(), Event{Type: typ, ScopeID: scope, ActorID: actor, Payload: p})
	return err
}

func TestCreate(t *testing.T) {
	c := newTestController(t, "crane")

	effects := handle(t, c, EventCreate, "chan-1", "alice", Payload{Name: "lobby"})
	require.Len(t, effects, 1)
	assert.Equal(t, EffectNotify, effects[0].Type)
	assert.Equal(t, &Notice{
		Kind: NoticeRoomCreated, ActorID: "alice", RoomName: "lobby", HostID: "alice",
		Mode: ModeRandom, WordLength: 5, MaxAttempts: 6, Players: 1,
	}, effects[0].Notice)

	v, err := c.Snapshot(context.Background(), "chan-1")
	require.NoError(t, err)
	assert.Equal(t, "lobby", v.Name)
	assert.False(t, v.Started)
	assert.Equal(t, []PlayerView{{ID: "alice"}}, v.Players)

	assert.ErrorIs(t, handleErr(c, EventCreate, "chan-1", "bob", Payload{Name: "again"}), apperr.ErrSessionExists)
	assert.ErrorIs(t, handleErr(c, EventCreate, "chan-2", "bob", Payload{Name: "  "}), apperr.ErrMissingName)
	assert.ErrorIs(t, handleErr(c, EventCreate, "chan-2", "bob", Payload{Name: "x", Mode: "weekly"}), apperr.ErrUnknownMode)

	// Another scope is independent.
	handle(t, c, EventCreate, "chan-2", "bob", Payload{Name: "other"})
}

func TestJoinTwiceReportsAlreadyJoined(t *testing.T) {
	c := newTestController(t, "crane")
	handle(t, c, EventCreate, "chan-1", "alice", Payload{Name: "lobby"})

	effects := handle(t, c, EventJoin, "chan-1", "bob", Payload{})
	require.Len(t, effects, 1)
	assert.Equal(t, NoticePlayerJoined, effects[0].Notice.Kind)
	assert.Equal(t, 2, effects[0].Notice.Players)

	assert.ErrorIs(t, handleErr(c, EventJoin, "chan-1", "bob", Payload{}), apperr.ErrAlreadyJoined)
	assert.ErrorIs(t, handleErr(c, EventJoin, "chan-1", "alice", Payload{}), apperr.ErrAlreadyJoined)

	v, err := c.Snapshot(context.Background(), "chan-1")
	require.NoError(t, err)
	assert.Len(t, v.Players, 2)
}

func TestLifecycleStateErrors(t *testing.T) {
	c := newTestController(t, "crane")

	assert.ErrorIs(t, handleErr(c, EventJoin, "chan-1", "bob", Payload{}), apperr.ErrNoSession)
	assert.ErrorIs(t, handleErr(c, EventStart, "chan-1", "bob", Payload{}), apperr.ErrNoSession)
	assert.ErrorIs(t, handleErr(c, EventGuess, "chan-1", "bob", Payload{Text: "crane"}), apperr.ErrNoSession)
	assert.ErrorIs(t, handleErr(c, EventEnd, "chan-1", "bob", Payload{}), apperr.ErrNoSession)

	handle(t, c, EventCreate, "chan-1", "alice", Payload{Name: "lobby"})
	handle(t, c, EventJoin, "chan-1", "bob", Payload{})

	assert.ErrorIs(t, handleErr(c, EventGuess, "chan-1", "alice", Payload{Text: "crane"}), apperr.ErrNotStarted)
	assert.ErrorIs(t, handleErr(c, EventStart, "chan-1", "bob", Payload{}), apperr.ErrNotHost)

	effects := handle(t, c, EventStart, "chan-1", "alice", Payload{})
	require.Len(t, effects, 3)
	assert.Equal(t, NoticeRoundStarted, effects[0].Notice.Kind)
	assert.Equal(t, "alice", effects[1].Board.PlayerID)
	assert.Equal(t, "bob", effects[2].Board.PlayerID)
	assert.Equal(t, 6, effects[2].Board.MaxAttempts)

	assert.ErrorIs(t, handleErr(c, EventStart, "chan-1", "alice", Payload{}), apperr.ErrAlreadyStarted)
	assert.ErrorIs(t, handleErr(c, EventJoin, "chan-1", "carol", Payload{}), apperr.ErrAlreadyStarted)
	assert.ErrorIs(t, handleErr(c, EventGuess, "chan-1", "carol", Payload{Text: "crane"}), apperr.ErrNotParticipant)
	assert.ErrorIs(t, handleErr(c, EventType("dance"), "chan-1", "alice", Payload{}), apperr.ErrUnknownEvent)
}

func TestRejectedGuessLeavesStateUnchanged(t *testing.T) {
	c := newTestController(t, "crane")
	handle(t, c, EventCreate, "chan-1", "alice", Payload{Name: "lobby"})
	handle(t, c, EventStart, "chan-1", "alice", Payload{})
	handle(t, c, EventGuess, "chan-1", "alice", Payload{Text: "trace"})

	for _, tt := range []struct {
		text string
		want error
	}{
		{text: "cranes", want: apperr.ErrLengthMismatch},
		{text: "zzzzz", want: apperr.ErrInvalidWord},
		{text: "Trace", want: apperr.ErrDuplicateGuess},
	} {
		_, err := c.Handle(context.Background(), Event{Type: EventGuess, ScopeID: "chan-1", ActorID: "alice", Payload: Payload{Text: tt.text}})
		assert.ErrorIs(t, err, tt.want, tt.text)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	}

	b, err := c.Board(context.Background(), "chan-1", "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, b.Attempts)
	assert.Equal(t, []game.GuessRecord{{Guess: "trace", Verdicts: []game.Verdict{
		game.Absent, game.Correct, game.Correct, game.Present, game.Correct,
	}}}, b.Rows)
	assert.Equal(t, game.Present, b.Keyboard["c"])

	_, err = c.Board(context.Background(), "chan-1", "mallory")
	assert.ErrorIs(t, err, apperr.ErrNotParticipant)
}

func TestRoundEndsAfterLastPlayerFinishes(t *testing.T) {
	c := newTestController(t, "crane")
	handle(t, c, EventCreate, "chan-1", "alice", Payload{Name: "lobby"})
	handle(t, c, EventJoin, "chan-1", "bob", Payload{})
	handle(t, c, EventStart, "chan-1", "alice", Payload{})

	handle(t, c, EventGuess, "chan-1", "alice", Payload{Text: "trace"})
	handle(t, c, EventGuess, "chan-1", "alice", Payload{Text: "slate"})
	effects := handle(t, c, EventGuess, "chan-1", "alice", Payload{Text: "CRANE"})
	require.Len(t, effects, 2)
	assert.Equal(t, EffectRender, effects[0].Type)
	assert.Equal(t, 3, effects[0].Board.Attempts)
	assert.Equal(t, NoticePlayerSolved, effects[1].Notice.Kind)
	assert.Equal(t, 3, effects[1].Notice.Attempts)

	bobs := []string{"trace", "slate", "plant", "brick", "dumpy"}
	for _, w := range bobs {
		effects := handle(t, c, EventGuess, "chan-1", "bob", Payload{Text: w})
		require.Len(t, effects, 1, "round must not end before bob's last guess")
	}

	// Alice is done; bob still has one attempt left.
	v, err := c.Snapshot(context.Background(), "chan-1")
	require.NoError(t, err)
	assert.True(t, v.Players[0].Solved)
	assert.False(t, v.Players[1].Finished)

	effects = handle(t, c, EventGuess, "chan-1", "bob", Payload{Text: "fjord"})
	require.Len(t, effects, 3)
	assert.Equal(t, NoticePlayerExhausted, effects[1].Notice.Kind)
	assert.Equal(t, 6, effects[1].Notice.Attempts)
	require.Equal(t, EffectReveal, effects[2].Type)
	assert.Equal(t, &Reveal{RoomName: "lobby", Target: "crane", Winners: []string{"alice"}}, effects[2].Reveal)

	// Scope is empty again.
	_, err = c.Snapshot(context.Background(), "chan-1")
	assert.ErrorIs(t, err, apperr.ErrNoSession)
	handle(t, c, EventCreate, "chan-1", "bob", Payload{Name: "rematch"})
}

func TestSolvedPlayerKeepsGuessingQuietly(t *testing.T) {
	c := newTestController(t, "crane")
	handle(t, c, EventCreate, "chan-1", "alice", Payload{Name: "lobby"})
	handle(t, c, EventJoin, "chan-1", "bob", Payload{})
	handle(t, c, EventStart, "chan-1", "alice", Payload{})

	handle(t, c, EventGuess, "chan-1", "alice", Payload{Text: "crane"})
	effects := handle(t, c, EventGuess, "chan-1", "alice", Payload{Text: "slate"})
	require.Len(t, effects, 1, "no second solved notice")
	assert.Equal(t, 2, effects[0].Board.Attempts)

	v, err := c.Snapshot(context.Background(), "chan-1")
	require.NoError(t, err)
	assert.True(t, v.Players[0].Solved)
}

func TestRoundWithNoWinners(t *testing.T) {
	c := newTestController(t, "word")
	handle(t, c, EventCreate, "chan-1", "alice", Payload{Name: "lobby"})
	handle(t, c, EventStart, "chan-1", "alice", Payload{})

	var last []Effect
	for _, w := range []string{"able", "acid", "aged", "also", "area"} {
		last = handle(t, c, EventGuess, "chan-1", "alice", Payload{Text: w})
	}
	require.Len(t, last, 3)
	assert.Equal(t, NoticePlayerExhausted, last[1].Notice.Kind)
	assert.Equal(t, &Reveal{RoomName: "lobby", Target: "word", Winners: []string{}}, last[2].Reveal)
}

func TestEndIsHostOnly(t *testing.T) {
	c := newTestController(t, "crane")
	handle(t, c, EventCreate, "chan-1", "alice", Payload{Name: "lobby"})
	handle(t, c, EventJoin, "chan-1", "bob", Payload{})
	handle(t, c, EventStart, "chan-1", "alice", Payload{})
	handle(t, c, EventGuess, "chan-1", "bob", Payload{Text: "crane"})

	assert.ErrorIs(t, handleErr(c, EventEnd, "chan-1", "bob", Payload{}), apperr.ErrNotHost)

	effects := handle(t, c, EventEnd, "chan-1", "alice", Payload{})
	require.Len(t, effects, 1)
	assert.Equal(t, &Reveal{RoomName: "lobby", Target: "crane", Winners: []string{"bob"}, Forced: true}, effects[0].Reveal)

	_, err := c.Snapshot(context.Background(), "chan-1")
	assert.ErrorIs(t, err, apperr.ErrNoSession)
}

func TestEndBeforeStart(t *testing.T) {
	c := newTestController(t, "crane")
	handle(t, c, EventCreate, "chan-1", "alice", Payload{Name: "lobby"})

	effects := handle(t, c, EventEnd, "chan-1", "alice", Payload{})
	require.Len(t, effects, 1)
	assert.True(t, effects[0].Reveal.Forced)
	assert.Equal(t, "crane", effects[0].Reveal.Target)
}

func TestFallbackWordWhenNoCandidates(t *testing.T) {
	c := NewController(words.New([]string{"go", "rhythms"}), store.NewMemoryStore(), Config{FallbackWord: "WORD"})
	handle(t, c, EventCreate, "chan-1", "alice", Payload{Name: "lobby"})
	handle(t, c, EventStart, "chan-1", "alice", Payload{})

	// The fallback is not in the dictionary but is still a valid guess.
	effects := handle(t, c, EventGuess, "chan-1", "alice", Payload{Text: "word"})
	require.Len(t, effects, 3)
	assert.Equal(t, "word", effects[2].Reveal.Target)
	assert.Equal(t, []string{"alice"}, effects[2].Reveal.Winners)
}

func TestUnusableFallbackRefusesCreate(t *testing.T) {
	for _, fb := range []string{"hello world", "ab", "x1y2z", "planets", "plant"} {
		t.Run(fb, func(t *testing.T) {
			c := NewController(words.New([]string{"go", "rhythms"}), store.NewMemoryStore(), Config{
				MaxLength:    4,
				FallbackWord: fb,
			})
			err := handleErr(c, EventCreate, "chan-1", "alice", Payload{Name: "lobby"})
			assert.ErrorIs(t, err, apperr.ErrNoCandidates)
			assert.Equal(t, apperr.KindConfiguration, apperr.KindOf(err))

			_, err = c.Snapshot(context.Background(), "chan-1")
			assert.ErrorIs(t, err, apperr.ErrNoSession)
		})
	}
}

func TestLengthRangeIsClamped(t *testing.T) {
	c := NewController(words.New([]string{"go", "ab", "word", "able"}), store.NewMemoryStore(), Config{
		MinLength: 2,
		MaxLength: 2,
	})
	effects := handle(t, c, EventCreate, "chan-1", "alice", Payload{Name: "lobby"})
	assert.Equal(t, 4, effects[0].Notice.WordLength)
	assert.Equal(t, 5, effects[0].Notice.MaxAttempts)

	c = NewController(words.New([]string{"word", "planet", "rhythms"}), store.NewMemoryStore(), Config{
		MinLength: 7,
		MaxLength: 9,
	})
	effects = handle(t, c, EventCreate, "chan-1", "alice", Payload{Name: "lobby"})
	assert.Equal(t, 6, effects[0].Notice.WordLength)
}

func TestDailyModeIsDeterministic(t *testing.T) {
	day := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	c := NewController(words.New(testWords), store.NewMemoryStore(), Config{
		DailySalt: "salt",
		Now:       func() time.Time { return day },
	})

	reveal := func() string {
		handle(t, c, EventCreate, "chan-1", "alice", Payload{Name: "daily", Mode: ModeDaily})
		effects := handle(t, c, EventEnd, "chan-1", "alice", Payload{})
		return effects[0].Reveal.Target
	}
	first := reveal()
	assert.Equal(t, first, reveal())
	assert.True(t, words.New(testWords).IsValidWord(first))
	assert.GreaterOrEqual(t, len(first), 4)
	assert.LessOrEqual(t, len(first), 6)
}

func TestRandomModeUsesDictionaryRange(t *testing.T) {
	c := NewController(words.New(testWords), store.NewMemoryStore(), Config{MinLength: 6, MaxLength: 6})
	handle(t, c, EventCreate, "chan-1", "alice", Payload{Name: "lobby"})
	effects := handle(t, c, EventEnd, "chan-1", "alice", Payload{})
	assert.Equal(t, "planet", effects[0].Reveal.Target)
}

func TestRenderEffectIsSnapshot(t *testing.T) {
	c := newTestController(t, "crane")
	handle(t, c, EventCreate, "chan-1", "alice", Payload{Name: "lobby"})
	handle(t, c, EventStart, "chan-1", "alice", Payload{})

	first := handle(t, c, EventGuess, "chan-1", "alice", Payload{Text: "trace"})
	handle(t, c, EventGuess, "chan-1", "alice", Payload{Text: "slate"})

	assert.Len(t, first[0].Board.Rows, 1)
	assert.Equal(t, 1, first[0].Board.Attempts)
}
