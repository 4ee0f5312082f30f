// Package fsm implements a hierarchical state machine engine.
//
// States form a single tree rooted at a designated top state. An event
// dispatched into the engine is offered to the current leaf first and then to
// each ancestor in turn until one of them reports it handled. States never
// hold a reference to the engine: they ask for transitions and follow-up
// events through a Delegate, and the engine reaps those requests once the
// handler walk has returned.
package fsm

import "fmt"

// stateID is the engine's internal token for a state.
type stateID uint16

// Kind is the consumer's enumeration of states. Conversion to and from the
// numeric id is a plain type conversion, so it is lossless in both
// directions. IsValid reports false for the consumer's designated invalid
// sentinel and for any number that names no state; String should report the
// sentinel's name for such values rather than panic.
type Kind interface {
	~uint16
	fmt.Stringer
	IsValid() bool
}

// Event is anything that can be dispatched into an engine. String is used in
// trace output and may include arguments; Name identifies the event type.
type Event interface {
	fmt.Stringer
	Name() string
}

// State is implemented by every concrete state registered with a Builder.
//
// HandleEvent returns true if the state fully handled ev, false to let its
// parent try. It must not block and must not call back into the engine; use
// the state's Delegate to request a transition or a follow-up event.
//
// Enter, Start and Exit are only invoked by the engine while it changes state.
// Enter runs for every state on the way down to the target, Start runs once
// on the state being settled into, Exit runs for every state left behind.
type State[E Event] interface {
	HandleEvent(ev E) bool
	Enter()
	Start()
	Exit()
}

// BaseState provides no-op lifecycle hooks. Embed it and override what you need.
type BaseState struct{}

func (BaseState) Enter() {}
func (BaseState) Start() {}
func (BaseState) Exit()  {}

// Personal.AI order the ending
