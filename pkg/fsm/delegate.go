package fsm

import (
	"sync"

	"github.com/turtacn/Hierarch/pkg/errors"
)

type commandKind int

const (
	cmdTransition commandKind = iota
	cmdEvent
)

// command is a request posted by a state through its delegate.
type command[E Event] struct {
	kind   commandKind
	from   stateID
	target stateID // cmdTransition
	event  E       // cmdEvent
}

// mailbox is the single-consumer queue between delegates and the engine.
// Any number of delegates post; only the engine drains. Posts are accepted
// only while the engine holds the mailbox open around its state callbacks.
type mailbox[E Event] struct {
	mu        sync.Mutex
	queue     []command[E]
	accepting bool
	closed    bool
}

func newMailbox[E Event]() *mailbox[E] {
	return &mailbox[E]{}
}

func (m *mailbox[E]) post(cmd command[E]) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return errors.New(errors.ErrCodeDelegateNotConnected, "post",
			"the engine behind this delegate has been closed", nil)
	}
	if !m.accepting {
		return errors.New(errors.ErrCodeRequestOutsideDispatch, "post",
			"requests are only accepted from inside a state callback", nil)
	}
	m.queue = append(m.queue, cmd)
	return nil
}

// open starts accepting posts.
func (m *mailbox[E]) open() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accepting = true
}

// seal stops accepting posts and drops anything the engine did not reap.
func (m *mailbox[E]) seal() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accepting = false
	m.queue = nil
}

// drain returns everything posted so far in arrival order.
func (m *mailbox[E]) drain() []command[E] {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.queue
	m.queue = nil
	return out
}

func (m *mailbox[E]) close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.queue = nil
}

// Delegate is the handle a state uses to ask its engine for a transition or
// a follow-up event. Exactly one delegate is minted per state by
// Builder.CreateDelegate. Copies share the same owner and mailbox.
//
// Requests are queued, never executed in place: the engine reaps them after
// the handler that posted them has returned. A request made while the engine
// is idle, from another goroutine or a stored delegate, fails with
// RequestOutsideDispatch instead of leaking into the next dispatch.
type Delegate[K Kind, E Event] struct {
	owner stateID
	box   *mailbox[E]
}

// Owner returns the state this delegate was minted for.
func (d Delegate[K, E]) Owner() K {
	return K(d.owner)
}

// RequestTransition asks the engine to settle in target once the current
// event has been handled. At most one transition is honored per handled event.
func (d Delegate[K, E]) RequestTransition(target K) error {
	if d.box == nil {
		return errors.New(errors.ErrCodeDelegateNotConnected, "RequestTransition",
			"delegate was not created by a builder", nil)
	}
	return d.box.post(command[E]{kind: cmdTransition, from: d.owner, target: stateID(target)})
}

// RequestEvent asks the engine to dispatch ev after the current event,
// in FIFO order with other follow-up events.
func (d Delegate[K, E]) RequestEvent(ev E) error {
	if d.box == nil {
		return errors.New(errors.ErrCodeDelegateNotConnected, "RequestEvent",
			"delegate was not created by a builder", nil)
	}
	return d.box.post(command[E]{kind: cmdEvent, from: d.owner, event: ev})
}

// Personal.AI order the ending
