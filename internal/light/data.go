package light

import "sync"

// Counts tallies lifecycle callbacks received by one state.
type Counts struct {
	Enter int
	Start int
	Exit  int
}

// Data is shared by the light's states. It is exposed for inspection only;
// nothing outside the package mutates it.
type Data struct {
	mu         sync.Mutex
	brightness int
	counts     map[State]*Counts
	topHandled int
}

func newData(brightness int) *Data {
	d := &Data{brightness: brightness, counts: make(map[State]*Counts)}
	for _, s := range States {
		d.counts[s] = &Counts{}
	}
	return d
}

// Brightness is 0 when off and 100 when fully on.
func (d *Data) Brightness() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.brightness
}

// Counts returns a copy of the callback tally for s.
func (d *Data) Counts(s State) Counts {
	d.mu.Lock()
	defer d.mu.Unlock()
	if c, ok := d.counts[s]; ok {
		return *c
	}
	return Counts{}
}

// TopHandled counts events that fell through to the top state.
func (d *Data) TopHandled() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.topHandled
}

// ResetCounts zeroes every tally, brightness is kept.
func (d *Data) ResetCounts() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, c := range d.counts {
		*c = Counts{}
	}
	d.topHandled = 0
}

// NoneCalled reports whether no state has seen a lifecycle callback since the
// last reset.
func (d *Data) NoneCalled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, c := range d.counts {
		if *c != (Counts{}) {
			return false
		}
	}
	return true
}

func (d *Data) setBrightness(v int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.brightness = clamp(v)
}

// adjust moves brightness by pct percent of its current value.
func (d *Data) adjust(pct int, increase bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delta := d.brightness * pct / 100
	if !increase {
		delta = -delta
	}
	d.brightness = clamp(d.brightness + delta)
}

func (d *Data) count(s State, f func(c *Counts)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	f(d.counts[s])
}

func (d *Data) countTop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.topHandled++
}

func clamp(v int) int {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}

// Personal.AI order the ending
