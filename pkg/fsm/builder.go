package fsm

import (
	stderrors "errors"
	"sort"

	"github.com/google/uuid"
	"github.com/turtacn/Hierarch/pkg/errors"
)

// Builder collects states and their delegates and produces an Engine.
// A builder must not be reused once Build or Init has succeeded.
type Builder[K Kind, E Event] struct {
	name      string
	top       stateID
	settings  settings
	states    *hierarchy[E]
	box       *mailbox[E]
	delegated map[stateID]bool
	errs      []error
}

// NewBuilder starts a hierarchy rooted at top.
func NewBuilder[K Kind, E Event](name string, top K, opts ...Option) *Builder[K, E] {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}
	return &Builder[K, E]{
		name:      name,
		top:       stateID(top),
		settings:  s,
		states:    newHierarchy[E](stateID(top), func(id stateID) string { return K(id).String() }),
		box:       newMailbox[E](),
		delegated: make(map[stateID]bool),
	}
}

// CreateDelegate mints the one delegate for id. The state it belongs to is
// usually constructed with it and added afterwards.
func (b *Builder[K, E]) CreateDelegate(id K) (Delegate[K, E], error) {
	if !id.IsValid() {
		return Delegate[K, E]{}, errors.Newf(errors.ErrCodeNotAState, "CreateDelegate",
			"%s is not a state", id)
	}
	if b.delegated[stateID(id)] {
		return Delegate[K, E]{}, errors.Newf(errors.ErrCodeAlreadyDelegated, "CreateDelegate",
			"a delegate was already created for %s", id)
	}
	b.delegated[stateID(id)] = true
	return Delegate[K, E]{owner: stateID(id), box: b.box}, nil
}

// AddState registers state under id. Every state but the top takes exactly
// one parent. Problems are collected and reported together by Build.
func (b *Builder[K, E]) AddState(state State[E], id K, parent ...K) *Builder[K, E] {
	sid := stateID(id)
	switch {
	case !id.IsValid():
		b.errs = append(b.errs, errors.Newf(errors.ErrCodeInvalidStateID, "AddState",
			"%s is not a valid state id", id))
	case state == nil:
		b.errs = append(b.errs, errors.Newf(errors.ErrCodeNotAState, "AddState",
			"no handler given for %s", id))
	case b.states.contains(sid):
		b.errs = append(b.errs, errors.Newf(errors.ErrCodeDuplicateState, "AddState",
			"%s was added twice", id))
	case len(parent) > 1:
		b.errs = append(b.errs, errors.Newf(errors.ErrCodeMultipleParents, "AddState",
			"%s was given %d parents", id, len(parent)))
	default:
		b.states.nodes[sid] = &node[E]{id: sid, state: state}
		if len(parent) == 1 {
			b.states.parents[sid] = stateID(parent[0])
		}
	}
	return b
}

// Build validates the hierarchy and returns an engine that still needs Init.
// All problems found are returned joined; no engine is produced on error.
func (b *Builder[K, E]) Build() (*Engine[K, E], error) {
	errs := append([]error(nil), b.errs...)

	orphans := make([]stateID, 0)
	for id := range b.delegated {
		if !b.states.contains(id) {
			orphans = append(orphans, id)
		}
	}
	sort.Slice(orphans, func(i, j int) bool { return orphans[i] < orphans[j] })
	for _, id := range orphans {
		errs = append(errs, errors.Newf(errors.ErrCodeNotAState, "Build",
			"a delegate was created for %s but the state was never added", K(id)))
	}
	if err := b.states.validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return nil, stderrors.Join(errs...)
	}

	id := uuid.New()
	e := &Engine[K, E]{
		name:     b.name,
		id:       id,
		states:   b.states,
		box:      b.box,
		settings: b.settings,
		log:      b.settings.logger.With("engine", b.name, "engine_id", id.String()),
	}
	e.log.Info("hsm built", "states", len(b.states.nodes), "top", K(b.top).String())
	return e, nil
}

// Init builds the engine and settles it in start.
func (b *Builder[K, E]) Init(start K) (*Engine[K, E], error) {
	e, err := b.Build()
	if err != nil {
		return nil, err
	}
	if err := e.Init(start); err != nil {
		return nil, err
	}
	return e, nil
}

// Personal.AI order the ending
