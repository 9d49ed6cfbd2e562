// internal/room/dispatch.go
//
// Dispatcher serializes events from every adapter into one FIFO loop, so
// events are applied strictly in arrival order and each one is fully
// processed before the next is accepted.

package room

import (
	"context"
	"errors"
)

// ErrDispatcherStopped is returned by Submit once Run has returned.
var ErrDispatcherStopped = errors.New("room: dispatcher stopped")

const defaultQueueSize = 64

// Handler applies one event. *Controller implements it.
type Handler interface {
	Handle(ctx context.Context, ev Event) ([]Effect, error)
}

// Result is the outcome of one submitted event.
type Result struct {
	Effects []Effect
	Err     error
}

type request struct {
	ctx   context.Context
	ev    Event
	reply chan Result
}

// Dispatcher owns the single event loop.
type Dispatcher struct {
	h    Handler
	reqs chan request
	done chan struct{}
}

// NewDispatcher builds a dispatcher with a bounded queue. queueSize <= 0
// selects a default.
func NewDispatcher(h Handler, queueSize int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	return &Dispatcher{
		h:    h,
		reqs: make(chan request, queueSize),
		done: make(chan struct{}),
	}
}

// Run processes events until ctx is cancelled. It must be called exactly once.
func (d *Dispatcher) Run(ctx context.Context) error {
	defer close(d.done)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req := <-d.reqs:
			// A submitter that already gave up still gets its event applied;
			// the reply channel is buffered so nothing blocks.
			effects, err := d.h.Handle(req.ctx, req.ev)
			req.reply <- Result{Effects: effects, Err: err}
		}
	}
}

// Submit enqueues ev and waits for its result.
func (d *Dispatcher) Submit(ctx context.Context, ev Event) ([]Effect, error) {
	req := request{ctx: context.WithoutCancel(ctx), ev: ev, reply: make(chan Result, 1)}

	select {
	case d.reqs <- req:
	case <-d.done:
		return nil, ErrDispatcherStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case res := <-req.reply:
		return res.Effects, res.Err
	case <-d.done:
		// Run may have finished this request just before stopping.
		select {
		case res := <-req.reply:
			return res.Effects, res.Err
		default:
			return nil, ErrDispatcherStopped
		}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
