package protocol

import (
	"fmt"
	"os"

	"github.com/turtacn/Hierarch/pkg/consts"
	"github.com/turtacn/Hierarch/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config represents the root configuration of a Hierarch run
type Config struct {
	Version       string              `yaml:"version"`
	Engine        EngineConfig        `yaml:"engine"`
	Observability ObservabilityConfig `yaml:"observability"`
	Scenario      ScenarioConfig      `yaml:"scenario"`
}

type EngineConfig struct {
	Name              string `yaml:"name"`
	InitialState      string `yaml:"initial_state"`
	Mode              string `yaml:"mode"`        // sync | actor
	MaxCascade        int    `yaml:"max_cascade"` // Follow-up items per dispatch, -1 for no bound
	MailboxSize       int    `yaml:"mailbox_size"`
	StrictTransitions bool   `yaml:"strict_transitions"` // Panic on a second transition request
}

type ObservabilityConfig struct {
	MetricsPort string `yaml:"metrics_port"`
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
}

type ScenarioConfig struct {
	Events []EventSpec `yaml:"events"`
}

// EventSpec names one event to dispatch. Value is the numeric argument of
// parameterised events such as Set or ReduceByPercent.
type EventSpec struct {
	Name  string `yaml:"name"`
	Value int    `yaml:"value"`
}

// Load reads, parses, defaults and validates the configuration at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.ErrCodeConfigInvalid, "Load", "cannot read config", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration bytes.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.New(errors.ErrCodeConfigInvalid, "Parse", "malformed yaml", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyDefaults fills zero values from pkg/consts.
func (c *Config) ApplyDefaults() {
	if c.Engine.Name == "" {
		c.Engine.Name = consts.DefaultEngineName
	}
	if c.Engine.InitialState == "" {
		c.Engine.InitialState = consts.DefaultInitialState
	}
	if c.Engine.Mode == "" {
		c.Engine.Mode = string(consts.ModeSync)
	}
	if c.Engine.MaxCascade == 0 {
		c.Engine.MaxCascade = consts.DefaultMaxCascade
	}
	if c.Engine.MailboxSize == 0 {
		c.Engine.MailboxSize = consts.DefaultMailboxSize
	}
	if c.Observability.LogLevel == "" {
		c.Observability.LogLevel = consts.DefaultLogLevel
	}
	if c.Observability.LogFormat == "" {
		c.Observability.LogFormat = consts.DefaultLogFormat
	}
}

// Validate rejects values no engine can be built from.
func (c *Config) Validate() error {
	switch consts.EngineMode(c.Engine.Mode) {
	case consts.ModeSync, consts.ModeActor:
	default:
		return errors.New(errors.ErrCodeConfigInvalid, "Validate",
			fmt.Sprintf("unknown engine mode %q", c.Engine.Mode), nil)
	}
	if c.Engine.MaxCascade < consts.UnboundedCascade {
		return errors.New(errors.ErrCodeConfigInvalid, "Validate",
			fmt.Sprintf("max_cascade must be positive or %d for no bound", consts.UnboundedCascade), nil)
	}
	if c.Engine.MailboxSize < 0 {
		return errors.New(errors.ErrCodeConfigInvalid, "Validate", "mailbox_size must not be negative", nil)
	}
	for i, ev := range c.Scenario.Events {
		if ev.Name == "" {
			return errors.New(errors.ErrCodeConfigInvalid, "Validate",
				fmt.Sprintf("scenario event %d has no name", i), nil)
		}
	}
	return nil
}

// Personal.AI order the ending
