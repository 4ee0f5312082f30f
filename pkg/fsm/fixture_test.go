package fsm

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/turtacn/Hierarch/pkg/logger"
)

// Test hierarchy:
//
//	Top
//	├── A
//	│   ├── A1
//	│   └── A2
//	└── B
//	    └── B1
//	        └── B1x
type testKind uint16

const (
	kTop testKind = iota + 1
	kA
	kA1
	kA2
	kB
	kB1
	kB1x
	kInvalid testKind = 0xFFFF
)

var testKindNames = map[testKind]string{
	kTop: "Top",
	kA:   "A",
	kA1:  "A1",
	kA2:  "A2",
	kB:   "B",
	kB1:  "B1",
	kB1x: "B1x",
}

var testParents = map[testKind]testKind{
	kA:   kTop,
	kA1:  kA,
	kA2:  kA,
	kB:   kTop,
	kB1:  kB,
	kB1x: kB1,
}

var allKinds = []testKind{kTop, kA, kA1, kA2, kB, kB1, kB1x}

func (k testKind) String() string {
	if name, ok := testKindNames[k]; ok {
		return name
	}
	return "Invalid"
}

func (k testKind) IsValid() bool {
	_, ok := testKindNames[k]
	return ok
}

type testEvent struct {
	name string
	arg  int
}

func ev(name string) testEvent { return testEvent{name: name} }

func (e testEvent) Name() string { return e.name }

func (e testEvent) String() string {
	if e.arg == 0 {
		return e.name
	}
	return fmt.Sprintf("%s(%d)", e.name, e.arg)
}

// recorder collects callback invocations across every fake of a fixture.
type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) add(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

func (r *recorder) take() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.calls
	r.calls = nil
	return out
}

type fake struct {
	id       testKind
	rec      *recorder
	delegate Delegate[testKind, testEvent]

	onEvent func(p *fake, e testEvent) bool
	onEnter func(p *fake)
	onStart func(p *fake)
	onExit  func(p *fake)
}

func (p *fake) HandleEvent(e testEvent) bool {
	p.rec.add("%s.handle(%s)", p.id, e)
	if p.onEvent == nil {
		return false
	}
	return p.onEvent(p, e)
}

func (p *fake) Enter() {
	p.rec.add("%s.enter", p.id)
	if p.onEnter != nil {
		p.onEnter(p)
	}
}

func (p *fake) Start() {
	p.rec.add("%s.start", p.id)
	if p.onStart != nil {
		p.onStart(p)
	}
}

func (p *fake) Exit() {
	p.rec.add("%s.exit", p.id)
	if p.onExit != nil {
		p.onExit(p)
	}
}

type fixture struct {
	rec     *recorder
	fakes  map[testKind]*fake
	builder *Builder[testKind, testEvent]
}

// newFixture registers a fake for every test state. Behaviour is attached to
// the fakes before calling start.
func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	opts = append([]Option{WithLogger(logger.Discard())}, opts...)
	f := &fixture{
		rec:     &recorder{},
		fakes:  make(map[testKind]*fake),
		builder: NewBuilder[testKind, testEvent]("TestHsm", kTop, opts...),
	}
	for _, k := range allKinds {
		d, err := f.builder.CreateDelegate(k)
		require.NoError(t, err)
		p := &fake{id: k, rec: f.rec, delegate: d}
		f.fakes[k] = p
		if parent, ok := testParents[k]; ok {
			f.builder.AddState(p, k, parent)
		} else {
			f.builder.AddState(p, k)
		}
	}
	return f
}

// start initializes the engine in k and discards the init callbacks.
func (f *fixture) start(t *testing.T, k testKind) *Engine[testKind, testEvent] {
	t.Helper()
	e, err := f.builder.Init(k)
	require.NoError(t, err)
	f.rec.take()
	return e
}

func (f *fixture) on(k testKind, handler func(p *fake, e testEvent) bool) {
	f.fakes[k].onEvent = handler
}

// transitionOn makes k handle name by requesting a transition to target.
func (f *fixture) transitionOn(k testKind, name string, target testKind) {
	f.on(k, func(p *fake, e testEvent) bool {
		if e.name != name {
			return false
		}
		if err := p.delegate.RequestTransition(target); err != nil {
			panic(err)
		}
		return true
	})
}

func testHierarchy() *hierarchy[testEvent] {
	h := newHierarchy[testEvent](stateID(kTop), func(id stateID) string { return testKind(id).String() })
	for _, k := range allKinds {
		h.nodes[stateID(k)] = &node[testEvent]{id: stateID(k)}
	}
	for child, parent := range testParents {
		h.parents[stateID(child)] = stateID(parent)
	}
	return h
}
