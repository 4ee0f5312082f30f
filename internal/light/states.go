package light

import (
	"github.com/turtacn/Hierarch/pkg/fsm"
	"github.com/turtacn/Hierarch/pkg/logger"
)

type delegate = fsm.Delegate[State, Event]

// counted records lifecycle callbacks in the shared data.
type counted struct {
	id   State
	data *Data
}

func (c counted) Enter() { c.data.count(c.id, func(n *Counts) { n.Enter++ }) }
func (c counted) Start() { c.data.count(c.id, func(n *Counts) { n.Start++ }) }
func (c counted) Exit()  { c.data.count(c.id, func(n *Counts) { n.Exit++ }) }

// requester wraps a state's delegate. A failed request means the engine is
// gone; the event is still reported handled so nothing else reacts to it.
type requester struct {
	delegate delegate
	log      logger.Logger
}

func (r requester) transition(target State) bool {
	if err := r.delegate.RequestTransition(target); err != nil {
		r.log.Error("transition request failed", "from", r.delegate.Owner().String(), "to", target.String(), "err", err)
	}
	return true
}

func (r requester) follow(ev Event) bool {
	if err := r.delegate.RequestEvent(ev); err != nil {
		r.log.Error("follow-up request failed", "from", r.delegate.Owner().String(), "event", ev.String(), "err", err)
	}
	return true
}

// topState swallows everything its children leave alone.
type topState struct {
	counted
}

func (s *topState) HandleEvent(Event) bool {
	s.data.countTop()
	return true
}

type onState struct {
	counted
	requester
}

func (s *onState) HandleEvent(ev Event) bool {
	switch ev.Kind {
	case Toggle, TurnOff:
		return s.transition(Off)
	case TurnOn:
		return s.transition(On)
	}
	return false
}

// Start rather than Enter: passing through On on the way to Dimmer must not
// flash the light to full.
func (s *onState) Start() {
	s.counted.Start()
	s.data.setBrightness(100)
}

type offState struct {
	counted
	requester
}

func (s *offState) HandleEvent(ev Event) bool {
	switch ev.Kind {
	case Toggle, TurnOn:
		return s.transition(On)
	case TurnOff:
		return true
	}
	return false
}

func (s *offState) Start() {
	s.counted.Start()
	s.data.setBrightness(0)
}

// dimmerState leaves Toggle, TurnOff and TurnOn to On.
type dimmerState struct {
	counted
	requester
}

func (s *dimmerState) HandleEvent(ev Event) bool {
	switch ev.Kind {
	case Set:
		switch {
		case ev.Value <= 0:
			s.data.setBrightness(0)
			return s.transition(Off)
		case ev.Value >= 100:
			s.data.setBrightness(100)
			return s.follow(Event{Kind: TurnOn})
		default:
			s.data.setBrightness(ev.Value)
			return true
		}
	case ReduceByPercent:
		s.data.adjust(ev.Value, false)
		return true
	case IncreaseByPercent:
		s.data.adjust(ev.Value, true)
		return true
	}
	return false
}

// Personal.AI order the ending
