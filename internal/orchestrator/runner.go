package orchestrator

import (
	"context"

	"github.com/turtacn/Hierarch/internal/light"
	"github.com/turtacn/Hierarch/pkg/consts"
	"github.com/turtacn/Hierarch/pkg/fsm"
	"github.com/turtacn/Hierarch/pkg/logger"
	"github.com/turtacn/Hierarch/pkg/protocol"
)

// Step is the outcome of one scenario event.
type Step struct {
	Index      int    `yaml:"index"`
	Event      string `yaml:"event"`
	State      string `yaml:"state"`
	Brightness int    `yaml:"brightness"`
	Error      string `yaml:"error,omitempty"`
}

// Report summarises a scenario run.
type Report struct {
	Engine     string `yaml:"engine"`
	EngineID   string `yaml:"engine_id"`
	Mode       string `yaml:"mode"`
	Initial    string `yaml:"initial"`
	Final      string `yaml:"final"`
	Brightness int    `yaml:"brightness"`
	Failed     int    `yaml:"failed"`
	Steps      []Step `yaml:"steps"`
}

// Runner builds a light engine from configuration and drives the scenario
// through it, either on the caller's goroutine or through an actor.
type Runner struct {
	cfg      *protocol.Config
	observer fsm.Observer
	log      logger.Logger
}

// NewRunner prepares a run of cfg. observer may be nil.
func NewRunner(cfg *protocol.Config, observer fsm.Observer) *Runner {
	return &Runner{
		cfg:      cfg,
		observer: observer,
		log:      logger.Log.With("component", "orchestrator"),
	}
}

type driver struct {
	dispatch func(ctx context.Context, ev light.Event) error
	state    func(ctx context.Context) (light.State, error)
	stop     func()
}

// Run dispatches every scenario event in order. A failed dispatch is
// recorded in its step and does not stop the run; a bad configuration or a
// cancelled context does.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	initial, err := light.ParseState(r.cfg.Engine.InitialState)
	if err != nil {
		return nil, err
	}
	events := make([]light.Event, 0, len(r.cfg.Scenario.Events))
	for _, es := range r.cfg.Scenario.Events {
		ev, err := light.ParseEvent(es.Name, es.Value)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}

	opts := []fsm.Option{
		fsm.WithLogger(logger.Log),
		fsm.WithMaxCascade(r.cfg.Engine.MaxCascade),
		fsm.WithStrictTransitions(r.cfg.Engine.StrictTransitions),
	}
	if r.observer != nil {
		opts = append(opts, fsm.WithObserver(r.observer))
	}
	c, err := light.New(r.cfg.Engine.Name, initial, opts...)
	if err != nil {
		return nil, err
	}

	d := r.driver(ctx, c)
	defer d.stop()

	report := &Report{
		Engine:   c.Engine().Name(),
		EngineID: c.Engine().ID(),
		Mode:     r.cfg.Engine.Mode,
		Initial:  initial.String(),
	}
	r.log.Info("Scenario starting", "engine", report.Engine, "mode", report.Mode, "events", len(events))

	for i, ev := range events {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		step := Step{Index: i, Event: ev.String()}
		if err := d.dispatch(ctx, ev); err != nil {
			r.log.Warn("Dispatch failed", "event", ev.String(), "err", err)
			step.Error = err.Error()
			report.Failed++
		}
		state, err := d.state(ctx)
		if err != nil {
			return report, err
		}
		step.State = state.String()
		step.Brightness = c.Data().Brightness()
		report.Steps = append(report.Steps, step)
	}

	final, err := d.state(ctx)
	if err != nil {
		return report, err
	}
	report.Final = final.String()
	report.Brightness = c.Data().Brightness()
	r.log.Info("Scenario finished", "final", report.Final, "failed", report.Failed)
	return report, nil
}

func (r *Runner) driver(ctx context.Context, c *light.Controller) driver {
	if consts.EngineMode(r.cfg.Engine.Mode) != consts.ModeActor {
		return driver{
			dispatch: func(_ context.Context, ev light.Event) error { return c.Dispatch(ev) },
			state:    func(context.Context) (light.State, error) { return c.CurrentState() },
			stop:     c.Close,
		}
	}

	a := fsm.NewActor(c.Engine(), r.cfg.Engine.MailboxSize)
	runCtx, cancel := context.WithCancel(ctx)
	go func() {
		_ = a.Run(runCtx)
	}()
	return driver{
		dispatch: func(ctx context.Context, ev light.Event) error {
			stepCtx, cancel := context.WithTimeout(ctx, consts.DefaultActorTimeout)
			defer cancel()
			return a.Dispatch(stepCtx, ev)
		},
		state: a.CurrentState,
		stop: func() {
			a.Stop()
			cancel()
		},
	}
}

// Personal.AI order the ending
