package consts

import "time"

// EngineMode defines how the scenario runner drives an engine.
type EngineMode string

const (
	ModeSync  EngineMode = "sync"  // Caller's goroutine owns the engine
	ModeActor EngineMode = "actor" // A dedicated goroutine owns the engine
)

// Engine defaults
const (
	DefaultEngineName = "LightHsm"
	// DefaultMaxCascade bounds follow-up items processed for one external dispatch.
	DefaultMaxCascade   = 128
	// UnboundedCascade in config lifts the follow-up bound entirely.
	UnboundedCascade    = -1
	DefaultMailboxSize  = 64
	DefaultInitialState = "Dimmer"
)

// Observability defaults
const (
	DefaultConfigFile  = "hierarch.yaml"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "json"
	DefaultMetricsPort = ":9090"
	MetricsNamespace   = "hierarch"
)

// DefaultActorTimeout bounds a single scenario step when running in actor mode.
const DefaultActorTimeout = 5 * time.Second

// Personal.AI order the ending
