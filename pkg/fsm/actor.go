package fsm

import (
	"context"
	"sync"

	"github.com/turtacn/Hierarch/pkg/consts"
	"github.com/turtacn/Hierarch/pkg/errors"
)

type envelope[K Kind, E Event] struct {
	event E
	query bool
	reply chan outcome[K]
}

type outcome[K Kind] struct {
	state K
	err   error
}

// Actor fronts an Engine with a single goroutine so that any number of
// producers can dispatch into it. Messages are processed one at a time in
// arrival order; a transition always runs to completion before the next
// message is looked at.
type Actor[K Kind, E Event] struct {
	engine *Engine[K, E]
	inbox  chan envelope[K, E]
	done   chan struct{}

	mu       sync.RWMutex
	stopped  bool
	stopOnce sync.Once
}

// NewActor wraps an initialized engine. size is the inbox capacity; values
// below one fall back to the default.
func NewActor[K Kind, E Event](engine *Engine[K, E], size int) *Actor[K, E] {
	if size < 1 {
		size = consts.DefaultMailboxSize
	}
	return &Actor[K, E]{
		engine: engine,
		inbox:  make(chan envelope[K, E], size),
		done:   make(chan struct{}),
	}
}

// Run processes the inbox until ctx is cancelled or Stop is called. It closes
// the engine on the way out.
func (a *Actor[K, E]) Run(ctx context.Context) error {
	a.engine.log.Info("hsm actor started")
	defer a.engine.log.Info("hsm actor stopped")
	for {
		select {
		case <-ctx.Done():
			a.Stop()
			return ctx.Err()
		case <-a.done:
			return nil
		case env := <-a.inbox:
			a.handle(env)
		}
	}
}

func (a *Actor[K, E]) handle(env envelope[K, E]) {
	if env.query {
		state, err := a.engine.CurrentState()
		env.reply <- outcome[K]{state: state, err: err}
		return
	}
	env.reply <- outcome[K]{err: a.engine.Dispatch(env.event)}
}

// Post queues ev and returns a channel that yields the dispatch result once
// the event and its whole cascade have been processed.
func (a *Actor[K, E]) Post(ev E) <-chan error {
	out := make(chan error, 1)
	r := a.send(context.Background(), envelope[K, E]{event: ev})
	go func() {
		out <- (<-r).err
	}()
	return out
}

// Dispatch posts ev and waits for its result or for ctx to end.
func (a *Actor[K, E]) Dispatch(ctx context.Context, ev E) error {
	select {
	case r := <-a.send(ctx, envelope[K, E]{event: ev}):
		return r.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// CurrentState asks the owning goroutine for the current state, so the answer
// reflects every event posted before the call.
func (a *Actor[K, E]) CurrentState(ctx context.Context) (K, error) {
	select {
	case r := <-a.send(ctx, envelope[K, E]{query: true}):
		return r.state, r.err
	case <-ctx.Done():
		var zero K
		return zero, ctx.Err()
	}
}

// Stop ends Run, closes the engine and fails everything still queued with
// EngineStopped. It is safe to call more than once.
func (a *Actor[K, E]) Stop() {
	a.stopOnce.Do(func() {
		close(a.done)
		a.mu.Lock()
		a.stopped = true
		a.mu.Unlock()
		a.engine.Close()
		for {
			select {
			case env := <-a.inbox:
				env.reply <- outcome[K]{err: a.stoppedErr()}
			default:
				return
			}
		}
	})
}

func (a *Actor[K, E]) send(ctx context.Context, env envelope[K, E]) chan outcome[K] {
	env.reply = make(chan outcome[K], 1)
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.stopped {
		env.reply <- outcome[K]{err: a.stoppedErr()}
		return env.reply
	}
	select {
	case a.inbox <- env:
	case <-a.done:
		env.reply <- outcome[K]{err: a.stoppedErr()}
	case <-ctx.Done():
		env.reply <- outcome[K]{err: ctx.Err()}
	}
	return env.reply
}

func (a *Actor[K, E]) stoppedErr() error {
	return errors.Newf(errors.ErrCodeEngineStopped, "Post", "actor for %s has stopped", a.engine.name)
}

// Personal.AI order the ending
