// Package prompt implements a request/response exchange with a deadline: an
// adapter asks an actor for free-text input and resumes on the actor's
// next message in the same scope or on expiry, whichever comes first.
//
// A timeout aborts only the sub-flow that asked; callers treat it as "leave
// state unchanged", never as fatal.
package prompt

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	// ErrTimeout is returned by Await when no reply arrived in time.
	ErrTimeout = errors.New("prompt: timed out waiting for reply")
	// ErrPending is returned by Await when the actor already has an open prompt in the scope.
	ErrPending = errors.New("prompt: reply already pending")
)

type key struct{ scope, actor string }

// Broker routes replies to waiting prompts. The zero value is not usable;
// call NewBroker.
type Broker struct {
	mu      sync.Mutex
	waiting map[key]chan string
}

func NewBroker() *Broker {
	return &Broker{waiting: make(map[key]chan string)}
}

// Waiter is a registered prompt. Replies offered after Register are kept
// until Wait collects them, so a caller can register, ask, then wait
// without losing an early reply.
type Waiter struct {
	b  *Broker
	k  key
	ch chan string
}

// Register opens a prompt for actor in scope. The caller must call Wait or
// Cancel.
func (b *Broker) Register(scope, actor string) (*Waiter, error) {
	k := key{scope, actor}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, busy := b.waiting[k]; busy {
		return nil, ErrPending
	}
	w := &Waiter{b: b, k: k, ch: make(chan string, 1)}
	b.waiting[k] = w.ch
	return w, nil
}

// Wait blocks until the reply arrives, timeout elapses, or ctx ends. The
// prompt is closed on return.
func (w *Waiter) Wait(ctx context.Context, timeout time.Duration) (string, error) {
	defer w.Cancel()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case text := <-w.ch:
		return text, nil
	case <-timer.C:
		return "", ErrTimeout
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Cancel closes the prompt without waiting.
func (w *Waiter) Cancel() { w.b.cancel(w.k, w.ch) }

// Await registers a prompt and waits for it.
func (b *Broker) Await(ctx context.Context, scope, actor string, timeout time.Duration) (string, error) {
	w, err := b.Register(scope, actor)
	if err != nil {
		return "", err
	}
	return w.Wait(ctx, timeout)
}

// Offer hands text to actor's open prompt in scope. It reports whether a
// prompt consumed the text; false means the message should be handled as
// ordinary input.
func (b *Broker) Offer(scope, actor, text string) bool {
	k := key{scope, actor}

	b.mu.Lock()
	defer b.mu.Unlock()
	ch, ok := b.waiting[k]
	if !ok {
		return false
	}
	delete(b.waiting, k)
	ch <- text
	return true
}

// Pending reports whether actor has an open prompt in scope.
func (b *Broker) Pending(scope, actor string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.waiting[key{scope, actor}]
	return ok
}

// cancel drops k if it still refers to ch.
func (b *Broker) cancel(k key, ch chan string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if cur, ok := b.waiting[k]; ok && cur == ch {
		delete(b.waiting, k)
	}
}
