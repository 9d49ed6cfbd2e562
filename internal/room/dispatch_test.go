package room

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle/apps/room-bot/internal/apperr"
)

// recorder is a Handler that logs the order events arrive in.
type recorder struct {
	mu    sync.Mutex
	seen  []string
	delay time.Duration
}

func (r *recorder) Handle(ctx context.Context, ev Event) ([]Effect, error) {
	time.Sleep(r.delay)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, ev.Payload.Text)
	return []Effect{{Type: EffectNotify, ScopeID: ev.ScopeID}}, nil
}

func TestDispatcherAppliesInArrivalOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rec := &recorder{}
	d := NewDispatcher(rec, 0)
	go func() { _ = d.Run(ctx) }()

	for _, w := range []string{"a", "b", "c", "d"} {
		effects, err := d.Submit(ctx, Event{Type: EventGuess, ScopeID: "s", Payload: Payload{Text: w}})
		require.NoError(t, err)
		assert.Len(t, effects, 1)
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, rec.seen)
}

func TestDispatcherThroughController(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d := NewDispatcher(newTestController(t, "crane"), 4)
	go func() { _ = d.Run(ctx) }()

	_, err := d.Submit(ctx, Event{Type: EventCreate, ScopeID: "chan-1", ActorID: "alice", Payload: Payload{Name: "lobby"}})
	require.NoError(t, err)

	// Concurrent joins from many goroutines are serialized: each player joins
	// exactly once and duplicates are rejected.
	var wg sync.WaitGroup
	errs := make([]error, 10)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = d.Submit(ctx, Event{Type: EventJoin, ScopeID: "chan-1", ActorID: []string{"bob", "carol"}[i%2]})
		}(i)
	}
	wg.Wait()

	ok, dup := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, apperr.ErrAlreadyJoined):
			dup++
		}
	}
	assert.Equal(t, 2, ok)
	assert.Equal(t, 8, dup)
}

func TestDispatcherStopped(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	d := NewDispatcher(&recorder{}, 1)

	stopped := make(chan struct{})
	go func() {
		_ = d.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	// Whether or not the request makes it into the queue, nobody will answer.
	_, err := d.Submit(context.Background(), Event{Type: EventJoin})
	assert.ErrorIs(t, err, ErrDispatcherStopped)
	_, err = d.Submit(context.Background(), Event{Type: EventJoin})
	assert.ErrorIs(t, err, ErrDispatcherStopped)
}

func TestDispatcherSubmitContextCancelled(t *testing.T) {
	d := NewDispatcher(&recorder{}, 1)
	// Not running: the first submit queues and then waits for a reply.
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := d.Submit(ctx, Event{Type: EventJoin})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
