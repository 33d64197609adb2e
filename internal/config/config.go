package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/coolsim/internal/cooling"
	"github.com/san-kum/coolsim/internal/integrators"
)

const (
	DefaultInitial      = 90.0
	DefaultAmbient      = 20.0
	DefaultObservedTemp = 60.0
	DefaultObservedTime = 10.0
	DefaultMinutes      = 60.0
	DefaultSamples      = 300
	DefaultPrecision    = 4
	DefaultDt           = 0.01
	DefaultIntegrator   = "rk4"
)

var ErrInvalid = errors.New("config: invalid scenario")

type Config struct {
	Initial      float64  `yaml:"initial"`
	Ambient      float64  `yaml:"ambient"`
	ObservedTemp *float64 `yaml:"observed_temperature,omitempty"`
	ObservedTime *float64 `yaml:"observed_time,omitempty"`
	Minutes      float64  `yaml:"minutes"`
	Samples      int      `yaml:"samples"`
	// Precision is the number of decimals k is rounded to before use; -1
	// keeps full precision.
	Precision  int         `yaml:"precision"`
	Integrator string      `yaml:"integrator"`
	Dt         float64     `yaml:"dt"`
	Labels     LabelConfig `yaml:"labels"`
}

type LabelConfig struct {
	Title       string `yaml:"title"`
	Time        string `yaml:"time"`
	Temperature string `yaml:"temperature"`
}

func DefaultConfig() *Config {
	return &Config{
		Initial:      DefaultInitial,
		Ambient:      DefaultAmbient,
		ObservedTemp: ptr(DefaultObservedTemp),
		ObservedTime: ptr(DefaultObservedTime),
		Minutes:      DefaultMinutes,
		Samples:      DefaultSamples,
		Precision:    DefaultPrecision,
		Integrator:   DefaultIntegrator,
		Dt:           DefaultDt,
		Labels: LabelConfig{
			Title:       "Cooling of a body (Newton's law)",
			Time:        "time (minutes)",
			Temperature: "temperature (°C)",
		},
	}
}

// Load reads a YAML scenario on top of DefaultConfig. An observation left
// out of the file stays at its default; write `observed_temperature: null`
// to drop it.
func Load(path string) (*Config, error) {
	return LoadWith(path, DefaultConfig())
}

// LoadWith reads a YAML scenario on top of base, which is not modified.
func LoadWith(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the sampling parameters. Physical consistency of the
// observation is left to cooling.Body.RateConstant.
func (c *Config) Validate() error {
	if c.Minutes <= 0 {
		return fmt.Errorf("%w: minutes must be positive, got %g", ErrInvalid, c.Minutes)
	}
	if c.Samples < 2 {
		return fmt.Errorf("%w: samples must be at least 2, got %d", ErrInvalid, c.Samples)
	}
	if c.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalid, c.Dt)
	}
	if c.Precision < -1 {
		return fmt.Errorf("%w: precision must be -1 or more, got %d", ErrInvalid, c.Precision)
	}
	if _, err := integrators.Lookup(c.Integrator); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Observation is nil unless both the temperature and the time are set.
func (c *Config) Observation() *cooling.Observation {
	if c.ObservedTemp == nil || c.ObservedTime == nil {
		return nil
	}
	return &cooling.Observation{Temperature: *c.ObservedTemp, Time: *c.ObservedTime}
}

func (c *Config) Body() *cooling.Body {
	return cooling.NewBody(c.Initial, c.Ambient, c.Observation())
}

// RateConstant fits k and rounds it to the configured precision.
func (c *Config) RateConstant() (float64, error) {
	k, err := c.Body().RateConstant()
	if err != nil {
		return 0, err
	}
	return cooling.Round(k, c.Precision), nil
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	out := *c
	if c.ObservedTemp != nil {
		out.ObservedTemp = ptr(*c.ObservedTemp)
	}
	if c.ObservedTime != nil {
		out.ObservedTime = ptr(*c.ObservedTime)
	}
	return &out
}

func ptr(v float64) *float64 { return &v }
