// internal/room/controller.go
//
// Session lifecycle controller.
//
// States per scope: Empty → Created → Started → (Ended, back to Empty).
//
//   create  Empty    → Created   host auto-joined, target picked (4–6 letters)
//   join    Created  → Created   adds a player; frozen once Started
//   start   Created  → Started   host only
//   guess   Started  → Started   validated, scored, merged; may end the round
//   end     Created|Started → Empty   host only, reveals the target
//
// Errors are local to the event: a failed event leaves the session exactly
// as it was and never touches other scopes.

package room

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/room-bot/internal/apperr"
	"github.com/robalobadob/wordle/apps/room-bot/internal/daily"
	"github.com/robalobadob/wordle/apps/room-bot/internal/game"
	"github.com/robalobadob/wordle/apps/room-bot/internal/store"
	"github.com/robalobadob/wordle/apps/room-bot/internal/words"
)

const (
	defaultMinLength    = 4
	defaultMaxLength    = 6
	defaultFallbackWord = "word"
)

// WordSource is the dictionary capability the controller needs.
// *words.Dictionary implements it.
type WordSource interface {
	game.Lexicon
	PickWord(minLen, maxLen int) (string, error)
	Candidates(minLen, maxLen int) []string
}

// Config tunes word selection. Zero values take the defaults.
type Config struct {
	MinLength    int              // shortest target (default 4, clamped to 4..6)
	MaxLength    int              // longest target (default 6, clamped to 4..6)
	FallbackWord string           // used when no dictionary word fits (default "word")
	DailySalt    string           // HMAC salt for daily mode
	Now          func() time.Time // clock for daily mode (default time.Now)
}

// withDefaults fills zero values and clamps the length range to the target
// bounds. A fallback that is not a-z or does not fit the range is cleared,
// so an empty range refuses creation instead of producing an unguessable
// target.
func (c Config) withDefaults() Config {
	if c.MinLength <= 0 {
		c.MinLength = defaultMinLength
	}
	if c.MaxLength <= 0 {
		c.MaxLength = defaultMaxLength
	}
	c.MinLength = min(max(c.MinLength, words.MinTargetLength), words.MaxTargetLength)
	c.MaxLength = min(max(c.MaxLength, c.MinLength), words.MaxTargetLength)

	if c.FallbackWord == "" {
		c.FallbackWord = defaultFallbackWord
	}
	fallback, ok := words.Normalize(c.FallbackWord)
	if !ok || len(fallback) < c.MinLength || len(fallback) > c.MaxLength {
		log.Warn().Str("fallback", c.FallbackWord).Int("min", c.MinLength).Int("max", c.MaxLength).
			Msg("fallback word unusable; empty ranges will refuse creation")
		fallback = ""
	}
	c.FallbackWord = fallback

	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}

// Controller owns every live session and applies events to them.
type Controller struct {
	mu    sync.Mutex // one event at a time
	words WordSource
	store store.Store
	cfg   Config
}

// NewController wires a controller over a dictionary and a session store.
func NewController(ws WordSource, st store.Store, cfg Config) *Controller {
	return &Controller{words: ws, store: st, cfg: cfg.withDefaults()}
}

// Handle validates ev against the scope's current state, applies it, and
// returns the effects to deliver. On error no effects are returned and state
// is unchanged.
func (c *Controller) Handle(ctx context.Context, ev Event) ([]Effect, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var (
		effects []Effect
		err     error
	)
	switch ev.Type {
	case EventCreate:
		effects, err = c.create(ctx, ev)
	case EventJoin:
		effects, err = c.join(ctx, ev)
	case EventStart:
		effects, err = c.start(ctx, ev)
	case EventGuess:
		effects, err = c.guess(ctx, ev)
	case EventEnd:
		effects, err = c.end(ctx, ev)
	default:
		err = fmt.Errorf("%w: %q", apperr.ErrUnknownEvent, ev.Type)
	}

	logger := log.Debug().Str("scope", ev.ScopeID).Str("actor", ev.ActorID).Str("event", string(ev.Type))
	if err != nil {
		logger.Err(err).Str("kind", apperr.KindOf(err).String()).Msg("event rejected")
		return nil, err
	}
	logger.Int("effects", len(effects)).Msg("event applied")
	return effects, nil
}

// session loads the live session for scopeID or reports ErrNoSession.
func (c *Controller) session(ctx context.Context, scopeID string) (*game.Session, error) {
	s, err := c.store.Get(ctx, scopeID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.ErrNoSession
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ------------------------------ transitions --------------------------------

func (c *Controller) create(ctx context.Context, ev Event) ([]Effect, error) {
	name := strings.TrimSpace(ev.Payload.Name)
	if name == "" {
		return nil, apperr.ErrMissingName
	}
	if _, err := c.session(ctx, ev.ScopeID); err == nil {
		return nil, apperr.ErrSessionExists
	} else if !errors.Is(err, apperr.ErrNoSession) {
		return nil, err
	}

	mode := ev.Payload.Mode
	if mode == "" {
		mode = ModeRandom
	}
	target, err := c.pickTarget(ev.ScopeID, mode)
	if err != nil {
		return nil, err
	}

	s := game.NewSession(ev.ScopeID, name, ev.ActorID, target)
	if err := c.store.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	log.Info().Str("scope", s.ScopeID).Str("round", s.ID).Str("host", s.HostID).
		Int("length", s.WordLength()).Str("mode", mode).Msg("room created")

	return []Effect{c.notice(s, NoticeRoomCreated, ev.ActorID, func(n *Notice) { n.Mode = mode })}, nil
}

// pickTarget chooses the round's word. An empty length range falls back to
// the configured word; only an unusable fallback refuses creation.
func (c *Controller) pickTarget(scopeID, mode string) (string, error) {
	var (
		word string
		err  error
	)
	switch mode {
	case ModeDaily:
		word = daily.Pick(c.words.Candidates(c.cfg.MinLength, c.cfg.MaxLength), scopeID, c.cfg.Now(), c.cfg.DailySalt)
		if word == "" {
			err = apperr.ErrNoCandidates
		}
	case ModeRandom:
		word, err = c.words.PickWord(c.cfg.MinLength, c.cfg.MaxLength)
	default:
		return "", fmt.Errorf("%w: %q", apperr.ErrUnknownMode, mode)
	}
	if err == nil {
		return word, nil
	}
	if !errors.Is(err, apperr.ErrNoCandidates) {
		return "", err
	}

	if c.cfg.FallbackWord == "" {
		return "", err
	}
	log.Warn().Err(err).Str("fallback", c.cfg.FallbackWord).Msg("no dictionary word in range; using fallback")
	return c.cfg.FallbackWord, nil
}

func (c *Controller) join(ctx context.Context, ev Event) ([]Effect, error) {
	s, err := c.session(ctx, ev.ScopeID)
	if err != nil {
		return nil, err
	}
	if err := s.AddPlayer(ev.ActorID); err != nil {
		return nil, err
	}
	return []Effect{c.notice(s, NoticePlayerJoined, ev.ActorID, nil)}, nil
}

func (c *Controller) start(ctx context.Context, ev Event) ([]Effect, error) {
	s, err := c.session(ctx, ev.ScopeID)
	if err != nil {
		return nil, err
	}
	if err := s.Start(ev.ActorID); err != nil {
		return nil, err
	}

	effects := []Effect{c.notice(s, NoticeRoundStarted, ev.ActorID, nil)}
	for _, id := range s.PlayerIDs() {
		effects = append(effects, renderEffect(s, id))
	}
	return effects, nil
}

func (c *Controller) guess(ctx context.Context, ev Event) ([]Effect, error) {
	s, err := c.session(ctx, ev.ScopeID)
	if err != nil {
		return nil, err
	}
	rec, err := s.Guess(ev.ActorID, ev.Payload.Text, c.words)
	if err != nil {
		return nil, err
	}

	effects := []Effect{renderEffect(s, ev.ActorID)}
	p, _ := s.Player(ev.ActorID)
	switch {
	case rec.Solved():
		effects = append(effects, c.notice(s, NoticePlayerSolved, ev.ActorID, func(n *Notice) { n.Attempts = p.Attempts() }))
	case !p.Solved(s.Target) && p.Attempts() == s.MaxAttempts():
		effects = append(effects, c.notice(s, NoticePlayerExhausted, ev.ActorID, func(n *Notice) { n.Attempts = p.Attempts() }))
	}

	reveal, err := c.checkRoundEnd(ctx, s)
	if err != nil {
		return nil, err
	}
	if reveal != nil {
		effects = append(effects, *reveal)
	}
	return effects, nil
}

// checkRoundEnd closes the round once every player has solved the word or
// used every attempt, returning the reveal effect. It returns nil while any
// player is still going.
func (c *Controller) checkRoundEnd(ctx context.Context, s *game.Session) (*Effect, error) {
	if !s.RoundOver() {
		return nil, nil
	}
	if err := c.store.Delete(ctx, s.ScopeID); err != nil {
		return nil, fmt.Errorf("close session: %w", err)
	}
	winners := s.Winners()
	log.Info().Str("scope", s.ScopeID).Str("round", s.ID).Strs("winners", winners).Msg("round over")
	return &Effect{
		Type:    EffectReveal,
		ScopeID: s.ScopeID,
		Reveal:  &Reveal{RoomName: s.Name, Target: s.Target, Winners: winners},
	}, nil
}

func (c *Controller) end(ctx context.Context, ev Event) ([]Effect, error) {
	s, err := c.session(ctx, ev.ScopeID)
	if err != nil {
		return nil, err
	}
	if ev.ActorID != s.HostID {
		return nil, apperr.ErrNotHost
	}
	if err := c.store.Delete(ctx, s.ScopeID); err != nil {
		return nil, fmt.Errorf("close session: %w", err)
	}
	log.Info().Str("scope", s.ScopeID).Str("round", s.ID).Msg("room ended by host")
	return []Effect{{
		Type:    EffectReveal,
		ScopeID: s.ScopeID,
		Reveal:  &Reveal{RoomName: s.Name, Target: s.Target, Winners: s.Winners(), Forced: true},
	}}, nil
}

// -------------------------------- queries ----------------------------------

// Snapshot summarizes the live room in scopeID.
func (c *Controller) Snapshot(ctx context.Context, scopeID string) (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, err := c.session(ctx, scopeID)
	if err != nil {
		return View{}, err
	}
	v := View{
		ID:          s.ID,
		ScopeID:     s.ScopeID,
		Name:        s.Name,
		HostID:      s.HostID,
		Started:     s.Started,
		WordLength:  s.WordLength(),
		MaxAttempts: s.MaxAttempts(),
	}
	for _, id := range s.PlayerIDs() {
		p, _ := s.Player(id)
		v.Players = append(v.Players, PlayerView{
			ID:       id,
			Attempts: p.Attempts(),
			Solved:   p.Solved(s.Target),
			Finished: s.Finished(id),
		})
	}
	return v, nil
}

// Board returns playerID's board in scopeID.
func (c *Controller) Board(ctx context.Context, scopeID, playerID string) (Board, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, err := c.session(ctx, scopeID)
	if err != nil {
		return Board{}, err
	}
	if _, ok := s.Player(playerID); !ok {
		return Board{}, apperr.ErrNotParticipant
	}
	return *renderEffect(s, playerID).Board, nil
}

// -------------------------------- effects ----------------------------------

func (c *Controller) notice(s *game.Session, kind NoticeKind, actorID string, fill func(*Notice)) Effect {
	n := &Notice{
		Kind:        kind,
		ActorID:     actorID,
		RoomName:    s.Name,
		HostID:      s.HostID,
		WordLength:  s.WordLength(),
		MaxAttempts: s.MaxAttempts(),
		Players:     s.PlayerCount(),
	}
	if fill != nil {
		fill(n)
	}
	return Effect{Type: EffectNotify, ScopeID: s.ScopeID, Notice: n}
}

// renderEffect snapshots playerID's board. Rows are copied so later guesses
// do not alter an effect already handed out.
func renderEffect(s *game.Session, playerID string) Effect {
	p, _ := s.Player(playerID)
	rows := make([]game.GuessRecord, len(p.Guesses))
	copy(rows, p.Guesses)
	return Effect{
		Type:    EffectRender,
		ScopeID: s.ScopeID,
		Board: &Board{
			PlayerID:    playerID,
			RoomName:    s.Name,
			WordLength:  s.WordLength(),
			Attempts:    p.Attempts(),
			MaxAttempts: s.MaxAttempts(),
			Rows:        rows,
			Keyboard:    p.Keyboard.Snapshot(),
		},
	}
}
