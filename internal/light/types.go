// Package light is a dimmable light modelled as a hierarchical state machine:
//
//	Top
//	├── On
//	│   └── Dimmer
//	└── Off
package light

import (
	"fmt"
	"strings"

	"github.com/turtacn/Hierarch/pkg/errors"
)

// State enumerates the light's states.
type State uint16

const (
	Top     State = 1
	On      State = 2
	Off     State = 3
	Dimmer  State = 4
	Invalid State = 0xFFFF
)

var stateNames = map[State]string{
	Top:    "Top",
	On:     "On",
	Off:    "Off",
	Dimmer: "Dimmer",
}

// States lists every valid state in id order.
var States = []State{Top, On, Off, Dimmer}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "Invalid"
}

// IsValid is false for Invalid and for any id that names no state.
func (s State) IsValid() bool {
	_, ok := stateNames[s]
	return ok
}

// ParseState maps a state name, case-insensitively, to its State.
func ParseState(name string) (State, error) {
	for s, n := range stateNames {
		if strings.EqualFold(n, name) {
			return s, nil
		}
	}
	return Invalid, errors.Newf(errors.ErrCodeConfigInvalid, "ParseState", "unknown light state %q", name)
}

// EventKind enumerates the events a light understands.
type EventKind int

const (
	EventInvalid EventKind = iota
	Toggle
	Set
	TurnOff
	TurnOn
	ReduceByPercent
	IncreaseByPercent
)

var eventNames = map[EventKind]string{
	EventInvalid:      "Invalid",
	Toggle:            "Toggle",
	Set:               "Set",
	TurnOff:           "TurnOff",
	TurnOn:            "TurnOn",
	ReduceByPercent:   "ReduceByPercent",
	IncreaseByPercent: "IncreaseByPercent",
}

func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// takesValue reports whether events of this kind carry a percentage.
func (k EventKind) takesValue() bool {
	return k == Set || k == ReduceByPercent || k == IncreaseByPercent
}

// Event is one input to the light. Value is a percentage and only
// meaningful for Set, ReduceByPercent and IncreaseByPercent.
type Event struct {
	Kind  EventKind
	Value int
}

func (e Event) Name() string {
	return e.Kind.String()
}

func (e Event) String() string {
	if e.Kind.takesValue() {
		return fmt.Sprintf("%s(%d)", e.Kind, e.Value)
	}
	return e.Kind.String()
}

// ParseEvent builds an Event from its name and value as written in a
// scenario file. Percentages outside 0..100 are rejected.
func ParseEvent(name string, value int) (Event, error) {
	for k, n := range eventNames {
		if k == EventInvalid || !strings.EqualFold(n, name) {
			continue
		}
		if k.takesValue() && (value < 0 || value > 100) {
			return Event{}, errors.Newf(errors.ErrCodeUnknownEvent, "ParseEvent",
				"%s takes a percentage in 0..100, got %d", n, value)
		}
		ev := Event{Kind: k}
		if k.takesValue() {
			ev.Value = value
		}
		return ev, nil
	}
	return Event{}, errors.Newf(errors.ErrCodeUnknownEvent, "ParseEvent", "unknown light event %q", name)
}

// Personal.AI order the ending
