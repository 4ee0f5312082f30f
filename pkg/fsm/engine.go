package fsm

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/turtacn/Hierarch/pkg/consts"
	"github.com/turtacn/Hierarch/pkg/errors"
	"github.com/turtacn/Hierarch/pkg/logger"
)

type settings struct {
	logger     logger.Logger
	observer   Observer
	maxCascade int
	strict     bool
}

func defaultSettings() settings {
	return settings{
		logger:     logger.Log,
		observer:   nopObserver{},
		maxCascade: consts.DefaultMaxCascade,
	}
}

// Option configures an engine at build time.
type Option func(*settings)

// WithLogger sets the logger for the engine
func WithLogger(l logger.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithObserver registers an observer for dispatches and transitions
func WithObserver(o Observer) Option {
	return func(s *settings) {
		if o != nil {
			s.observer = o
		}
	}
}

// WithMaxCascade bounds the follow-up items processed for one external
// dispatch. n <= 0 removes the bound.
func WithMaxCascade(n int) Option {
	return func(s *settings) {
		s.maxCascade = n
	}
}

// WithStrictTransitions makes a second transition request for the same
// handled event panic instead of returning an error.
func WithStrictTransitions(strict bool) Option {
	return func(s *settings) {
		s.strict = strict
	}
}

// Engine owns a hierarchy of states and runs events through it.
//
// Dispatch, Init and Close are serialized by a mutex. States must not call
// them from inside their callbacks; that is what their Delegate is for.
// CurrentState and IsInState never block and may be called from anywhere.
type Engine[K Kind, E Event] struct {
	mu       sync.Mutex
	name     string
	id       uuid.UUID
	states   *hierarchy[E]
	box      *mailbox[E]
	settings settings
	log      logger.Logger

	current     atomic.Uint32
	initialized atomic.Bool
	closed      bool
}

// Name returns the name given to the builder.
func (e *Engine[K, E]) Name() string {
	return e.name
}

// ID returns the unique id of this engine instance.
func (e *Engine[K, E]) ID() string {
	return e.id.String()
}

// CurrentState returns the state the engine last settled in.
func (e *Engine[K, E]) CurrentState() (K, error) {
	if !e.initialized.Load() {
		var zero K
		return zero, errors.Newf(errors.ErrCodeEngineNotInitialized, "CurrentState",
			"engine %s has not been initialized", e.name)
	}
	return K(e.currentID()), nil
}

// IsInState reports whether k is the current state or one of its ancestors.
func (e *Engine[K, E]) IsInState(k K) bool {
	if !e.initialized.Load() {
		return false
	}
	path, err := e.states.pathToRoot(e.currentID())
	if err != nil {
		return false
	}
	for _, id := range path {
		if id == stateID(k) {
			return true
		}
	}
	return false
}

// States returns every registered state ordered by id.
func (e *Engine[K, E]) States() []K {
	out := make([]K, 0, len(e.states.nodes))
	for id := range e.states.nodes {
		out = append(out, K(id))
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Top returns the top state.
func (e *Engine[K, E]) Top() K {
	return K(e.states.top)
}

// ParentOf returns the parent of k; false for the top state or an unknown k.
func (e *Engine[K, E]) ParentOf(k K) (K, bool) {
	p, ok := e.states.parentOf(stateID(k))
	return K(p), ok
}

// Children returns the direct children of k ordered by id.
func (e *Engine[K, E]) Children(k K) []K {
	ids := e.states.children(stateID(k))
	out := make([]K, len(ids))
	for i, id := range ids {
		out[i] = K(id)
	}
	return out
}

// Path returns the chain from the top state down to k, inclusive.
func (e *Engine[K, E]) Path(k K) ([]K, error) {
	ids, err := e.states.pathToRoot(stateID(k))
	if err != nil {
		return nil, err
	}
	reverse(ids)
	out := make([]K, len(ids))
	for i, id := range ids {
		out[i] = K(id)
	}
	return out, nil
}

// Init enters every state from the top down to start, inclusive, then starts
// start. It is the only way out of the uninitialized state.
func (e *Engine[K, E]) Init(start K) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return errors.Newf(errors.ErrCodeEngineStopped, "Init", "engine %s is closed", e.name)
	}
	if e.initialized.Load() {
		return errors.Newf(errors.ErrCodeAlreadyInitialized, "Init",
			"engine %s is already in %s", e.name, e.nameOf(e.currentID()))
	}
	target := stateID(start)
	if !e.states.contains(target) {
		return errors.Newf(errors.ErrCodeInvalidStateID, "Init",
			"initial state %s was never added", start)
	}
	path, err := enterPath(e.states, target, e.states.top, true)
	if err != nil {
		return err
	}

	e.box.open()
	defer e.box.seal()
	for _, id := range path {
		n, _ := e.states.get(id)
		n.state.Enter()
	}
	n, _ := e.states.get(target)
	n.state.Start()
	e.current.Store(uint32(target))
	e.initialized.Store(true)

	entered := e.names(path)
	trace := transitionTrace(e.name, "INIT", nil, entered, e.nameOf(target))
	e.log.Info("hsm initialized", "state", e.nameOf(target), "trace", trace)
	e.settings.observer.ObserveTransition(TransitionInfo{
		Engine:  e.name,
		To:      e.nameOf(target),
		Entered: entered,
		Trace:   trace,
	})

	_, err = e.runCascade(e.log, e.box.drain())
	return err
}

// Dispatch runs ev through the hierarchy: the current state first, then each
// ancestor until one handles it. Requests posted by handlers are honored
// afterwards, follow-up events in FIFO order, until the cascade is empty.
//
// An event no state handles is not an error. Failures while processing
// follow-up events are logged and do not fail the call, with the exception of
// exceeding the cascade bound.
func (e *Engine[K, E]) Dispatch(ev E) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return errors.Newf(errors.ErrCodeEngineStopped, "Dispatch", "engine %s is closed", e.name)
	}
	if !e.initialized.Load() {
		return errors.Newf(errors.ErrCodeEngineNotInitialized, "Dispatch",
			"engine %s must be initialized before dispatching %s", e.name, ev.Name())
	}

	e.box.open()
	defer e.box.seal()

	began := time.Now()
	dispatchID := ulid.Make().String()
	log := e.log.With("dispatch_id", dispatchID)
	info := DispatchInfo{
		Engine:     e.name,
		DispatchID: dispatchID,
		Event:      ev.String(),
		State:      e.nameOf(e.currentID()),
	}

	handledBy, pending, err := e.handleEvent(log, ev)
	info.HandledBy = handledBy
	if err == nil {
		info.FollowUps, err = e.runCascade(log, pending)
	}
	info.Duration = time.Since(began)
	info.Err = err
	e.settings.observer.ObserveDispatch(info)
	return err
}

// Close disconnects every delegate. Later dispatches fail with EngineStopped.
func (e *Engine[K, E]) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	e.box.close()
	e.log.Info("hsm closed")
}

// handleEvent walks ev up from the current state, then reaps the mailbox.
// It returns the name of the handling state and the commands left for the
// cascade.
func (e *Engine[K, E]) handleEvent(log logger.Logger, ev E) (string, []command[E], error) {
	cursor := e.currentID()
	if !e.states.contains(cursor) {
		return "", nil, errors.Newf(errors.ErrCodeInvalidStateID, "Dispatch",
			"current state %s was never added", e.nameOf(cursor))
	}
	origin := traceOrigin(e.nameOf(cursor), ev.String())

	handledBy := ""
	for {
		n, ok := e.states.get(cursor)
		if !ok {
			return "", nil, errors.Newf(errors.ErrCodeImpossibleStateMismatch, "Dispatch",
				"parent state %s was never added", e.nameOf(cursor))
		}
		if n.state.HandleEvent(ev) {
			handledBy = e.nameOf(cursor)
			break
		}
		parent, ok := e.states.parentOf(cursor)
		if !ok {
			break
		}
		log.Debug("letting parent handle event", "event", ev.Name(), "state", e.nameOf(cursor), "parent", e.nameOf(parent))
		cursor = parent
	}
	log.Info("hsm dispatch", "event", ev.Name(), "trace", dispatchTrace(e.name, origin, handledBy))

	var (
		target   *command[E]
		pending  []command[E]
		conflict error
	)
	for _, cmd := range e.box.drain() {
		switch cmd.kind {
		case cmdEvent:
			log.Debug("queued follow-up event", "event", cmd.event.Name(), "requested_by", e.nameOf(cmd.from))
			pending = append(pending, cmd)
		case cmdTransition:
			if target == nil {
				c := cmd
				target = &c
				continue
			}
			err := errors.Newf(errors.ErrCodeMultipleConcurrentChangeState, "Dispatch",
				"%s requested a change to %s, but %s already requested %s while handling %s",
				e.nameOf(cmd.from), e.nameOf(cmd.target), e.nameOf(target.from), e.nameOf(target.target), ev.Name())
			if e.settings.strict {
				panic(err)
			}
			if conflict == nil {
				conflict = err
			}
		}
	}

	if target != nil {
		more, err := e.changeState(log, origin, target.target)
		if err != nil {
			return handledBy, pending, err
		}
		pending = append(pending, more...)
	}
	return handledBy, pending, conflict
}

// changeState exits up to the LCA, enters down to target and starts target.
// Every path is resolved before the first callback runs, so a failure never
// leaves a transition half done.
func (e *Engine[K, E]) changeState(log logger.Logger, origin string, target stateID) ([]command[E], error) {
	current := e.currentID()
	if target == current {
		log.Debug("transition to current state ignored", "state", e.nameOf(target))
		return nil, nil
	}
	if !e.states.contains(target) {
		return nil, errors.Newf(errors.ErrCodeInvalidStateID, "changeState",
			"requested state %s was never added", e.nameOf(target))
	}
	lca, err := findLCA(e.states, current, target)
	if err != nil {
		return nil, err
	}
	var exits []stateID
	if lca != current {
		if exits, err = exitPath(e.states, current, lca); err != nil {
			return nil, err
		}
	}
	enters, err := enterPath(e.states, target, lca, false)
	if err != nil {
		return nil, err
	}

	for _, id := range exits {
		n, _ := e.states.get(id)
		n.state.Exit()
	}
	for _, id := range enters {
		n, _ := e.states.get(id)
		n.state.Enter()
	}
	n, _ := e.states.get(target)
	n.state.Start()
	e.current.Store(uint32(target))

	exited, entered := e.names(exits), e.names(enters)
	trace := transitionTrace(e.name, origin, exited, entered, e.nameOf(target))
	log.Info("hsm transition", "from", e.nameOf(current), "to", e.nameOf(target), "trace", trace)
	e.settings.observer.ObserveTransition(TransitionInfo{
		Engine:  e.name,
		From:    e.nameOf(current),
		To:      e.nameOf(target),
		Exited:  exited,
		Entered: entered,
		Trace:   trace,
	})

	// Requests posted from Exit/Enter/Start callbacks.
	return e.box.drain(), nil
}

// runCascade processes follow-up items breadth-first until none remain.
func (e *Engine[K, E]) runCascade(log logger.Logger, pending []command[E]) (int, error) {
	processed := 0
	for len(pending) > 0 {
		if limit := e.settings.maxCascade; limit > 0 && processed >= limit {
			err := errors.Newf(errors.ErrCodeCascadeLimit, "Dispatch",
				"follow-up chain exceeded %d items, %d discarded", limit, len(pending))
			log.Error("follow-up cascade aborted", "err", err)
			return processed, err
		}
		cmd := pending[0]
		pending = pending[1:]
		processed++

		var (
			more []command[E]
			err  error
		)
		switch cmd.kind {
		case cmdEvent:
			_, more, err = e.handleEvent(log, cmd.event)
		case cmdTransition:
			more, err = e.changeState(log, traceOrigin(e.nameOf(cmd.from), "deferred"), cmd.target)
		}
		pending = append(pending, more...)
		if err != nil {
			log.Error("follow-up failed", "requested_by", e.nameOf(cmd.from), "err", err)
		}
	}
	return processed, nil
}

func (e *Engine[K, E]) currentID() stateID {
	return stateID(e.current.Load())
}

func (e *Engine[K, E]) nameOf(id stateID) string {
	return K(id).String()
}

func (e *Engine[K, E]) names(ids []stateID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = e.nameOf(id)
	}
	return out
}

// Personal.AI order the ending
