package fsm

import "time"

// DispatchInfo describes one external dispatch once it has run to completion,
// including its cascade of follow-up items.
type DispatchInfo struct {
	Engine     string
	DispatchID string
	Event      string
	State      string // Current state when the event arrived
	HandledBy  string // Empty when no state handled the event
	FollowUps  int
	Duration   time.Duration
	Err        error
}

// TransitionInfo describes one completed state change.
type TransitionInfo struct {
	Engine  string
	From    string
	To      string
	Exited  []string
	Entered []string
	Trace   string
}

// Observer receives engine activity. Calls happen on the goroutine running
// the dispatch and must not call back into the engine.
type Observer interface {
	ObserveDispatch(info DispatchInfo)
	ObserveTransition(info TransitionInfo)
}

type nopObserver struct{}

func (nopObserver) ObserveDispatch(DispatchInfo)     {}
func (nopObserver) ObserveTransition(TransitionInfo) {}

// Personal.AI order the ending
