package light

import (
	"github.com/turtacn/Hierarch/pkg/fsm"
	"github.com/turtacn/Hierarch/pkg/logger"
)

// Controller owns a light engine and the data its states share.
type Controller struct {
	engine *fsm.Engine[State, Event]
	data   *Data
}

// New builds the light hierarchy and settles it in initial.
func New(name string, initial State, opts ...fsm.Option) (*Controller, error) {
	e, data, err := Build(name, opts...)
	if err != nil {
		return nil, err
	}
	if err := e.Init(initial); err != nil {
		return nil, err
	}
	return &Controller{engine: e, data: data}, nil
}

// Build returns the light engine uninitialized, together with its data.
func Build(name string, opts ...fsm.Option) (*fsm.Engine[State, Event], *Data, error) {
	data := newData(0)
	log := logger.Log.With("component", "light", "engine", name)
	b := fsm.NewBuilder[State, Event](name, Top, opts...)

	req := func(s State) (requester, error) {
		d, err := b.CreateDelegate(s)
		return requester{delegate: d, log: log}, err
	}
	onReq, err := req(On)
	if err != nil {
		return nil, nil, err
	}
	offReq, err := req(Off)
	if err != nil {
		return nil, nil, err
	}
	dimmerReq, err := req(Dimmer)
	if err != nil {
		return nil, nil, err
	}

	// Dimmer shares most of On's behaviour, hence On is its parent.
	b.AddState(&topState{counted{Top, data}}, Top).
		AddState(&onState{counted{On, data}, onReq}, On, Top).
		AddState(&offState{counted{Off, data}, offReq}, Off, Top).
		AddState(&dimmerState{counted{Dimmer, data}, dimmerReq}, Dimmer, On)

	e, err := b.Build()
	if err != nil {
		return nil, nil, err
	}
	return e, data, nil
}

func (c *Controller) Dispatch(ev Event) error {
	return c.engine.Dispatch(ev)
}

func (c *Controller) CurrentState() (State, error) {
	return c.engine.CurrentState()
}

// Data exposes the shared data for inspection.
func (c *Controller) Data() *Data {
	return c.data
}

func (c *Controller) Engine() *fsm.Engine[State, Event] {
	return c.engine
}

func (c *Controller) Close() {
	c.engine.Close()
}

// Personal.AI order the ending
