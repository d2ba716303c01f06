package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"convert-capacity/internal/capacity"
	"convert-capacity/internal/pipeline"
	"convert-capacity/internal/ramp"
	"convert-capacity/internal/synthetic"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	// Optional: load ladders from a separate YAML (e.g. examples/scenarios/*.yaml).
	// Non-empty inline ladders override the file's.
	LaddersFile string          `yaml:"ladders_file"`
	Ladders     LaddersConfig   `yaml:"ladders"`
	Synthetic   SyntheticConfig `yaml:"synthetic"`
	Subgraph    SubgraphConfig  `yaml:"subgraph"`
	Log         LogConfig       `yaml:"log"`
	API         APIConfig       `yaml:"api"`
}

// LaddersConfig is the parameter sweep. Deltas are fractions (0.01 = 1%);
// DeltaRange is in percent.
type LaddersConfig struct {
	Name        string      `yaml:"name,omitempty"`
	Description string      `yaml:"description,omitempty"`
	Divisors    []int       `yaml:"divisors"`
	Deltas      []float64   `yaml:"deltas"`
	DeltaRange  *DeltaRange `yaml:"delta_range,omitempty"`
}

type DeltaRange struct {
	From float64 `yaml:"from"`
	To   float64 `yaml:"to"`
	Step float64 `yaml:"step"`
}

type SyntheticConfig struct {
	Enabled  bool    `yaml:"enabled"`
	MinPrice float64 `yaml:"min_price"`
	Step     float64 `yaml:"step"`
}

type SubgraphConfig struct {
	BeanURL           string        `yaml:"bean_url"`
	FieldURL          string        `yaml:"field_url"`
	FieldAddress      string        `yaml:"field_address"`
	BatchSize         int           `yaml:"batch_size"`
	MinSeason         int           `yaml:"min_season"`
	Retries           int           `yaml:"retries"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Timeout           time.Duration `yaml:"timeout"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type APIConfig struct {
	Port           string   `yaml:"port"`
	Env            string   `yaml:"env"`
	ScenarioDir    string   `yaml:"scenario_dir"`
	AllowedOrigins []string `yaml:"allowed_origins"` // empty allows any origin
}

const (
	DefaultBeanURL      = "https://graph.pinto.money/pinto"
	DefaultFieldURL     = "https://graph.pinto.money/pintostalk"
	DefaultFieldAddress = "0xd1a0d188e861ed9d15773a2f3574a2e94134ba8f"
)

// Default returns the built-in configuration.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads path, fills defaults, applies the environment overlay and
// validates. An empty path starts from Default().
func Load(path string) (*Config, error) {
	var (
		c   *Config
		err error
	)
	if path == "" {
		c = &Config{}
	} else {
		c, err = LoadUnchecked(path)
		if err != nil {
			return nil, err
		}
	}
	c.applyDefaults()
	ApplyEnv(c)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not default or validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if c.LaddersFile != "" {
		laddersPath := c.LaddersFile
		if !filepath.IsAbs(laddersPath) {
			// Prefer the config file's directory, fall back to cwd.
			cand := filepath.Join(filepath.Dir(path), laddersPath)
			if _, err := os.Stat(cand); err == nil {
				laddersPath = cand
			}
		}
		loaded, err := LoadLaddersFile(laddersPath)
		if err != nil {
			return nil, err
		}
		c.Ladders = MergeLadders(loaded, c.Ladders)
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if len(c.Ladders.Divisors) == 0 {
		c.Ladders.Divisors = capacity.DefaultDivisors()
	}
	if len(c.Ladders.Deltas) == 0 && c.Ladders.DeltaRange == nil {
		for _, d := range ramp.DefaultLadder() {
			c.Ladders.Deltas = append(c.Ladders.Deltas, float64(d))
		}
	}
	if c.Synthetic.MinPrice == 0 {
		c.Synthetic.MinPrice = synthetic.DefaultOptions().MinPrice
	}
	if c.Synthetic.Step == 0 {
		c.Synthetic.Step = synthetic.DefaultOptions().Step
	}

	s := &c.Subgraph
	if s.BeanURL == "" {
		s.BeanURL = DefaultBeanURL
	}
	if s.FieldURL == "" {
		s.FieldURL = DefaultFieldURL
	}
	if s.FieldAddress == "" {
		s.FieldAddress = DefaultFieldAddress
	}
	if s.BatchSize == 0 {
		s.BatchSize = 1000
	}
	if s.MinSeason == 0 {
		s.MinSeason = 4
	}
	if s.Retries == 0 {
		s.Retries = 3
	}
	if s.RequestsPerSecond == 0 {
		s.RequestsPerSecond = 10
	}
	if s.Timeout == 0 {
		s.Timeout = 30 * time.Second
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.API.Port == "" {
		c.API.Port = "8080"
	}
	if c.API.Env == "" {
		c.API.Env = "development"
	}
	if c.API.ScenarioDir == "" {
		c.API.ScenarioDir = "./examples/scenarios"
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if _, err := c.Params(); err != nil {
		return fmt.Errorf("ladders invalid: %w", err)
	}
	if err := c.SyntheticOptions().Validate(); err != nil {
		return fmt.Errorf("synthetic config invalid: %w", err)
	}
	if c.Subgraph.BatchSize <= 0 {
		return errors.New("subgraph.batch_size must be > 0")
	}
	if c.Subgraph.Retries < 1 {
		return errors.New("subgraph.retries must be >= 1")
	}
	if c.Subgraph.RequestsPerSecond <= 0 {
		return errors.New("subgraph.requests_per_second must be > 0")
	}
	switch c.Log.Format {
	case "json", "console", "pretty":
	default:
		return fmt.Errorf("log.format must be json, console or pretty, got %q", c.Log.Format)
	}
	return nil
}

// Params resolves the ladders into pipeline parameters.
func (c *Config) Params() (pipeline.Params, error) {
	return c.Ladders.Params()
}

// SyntheticOptions returns the grid options.
func (c *Config) SyntheticOptions() synthetic.Options {
	return synthetic.Options{MinPrice: c.Synthetic.MinPrice, Step: c.Synthetic.Step}
}

// Params resolves explicit deltas plus the optional range. When a range is
// present the combined ladder is sorted and de-duplicated; otherwise the
// configured order is kept.
func (l LaddersConfig) Params() (pipeline.Params, error) {
	p := pipeline.Params{Divisors: append([]int(nil), l.Divisors...)}
	for _, d := range l.Deltas {
		p.Deltas = append(p.Deltas, ramp.Delta(d))
	}
	if l.DeltaRange != nil {
		r, err := ramp.RangeLadder(l.DeltaRange.From, l.DeltaRange.To, l.DeltaRange.Step)
		if err != nil {
			return pipeline.Params{}, err
		}
		p.Deltas = ramp.SortLadder(append(p.Deltas, r...))
	}
	if err := p.Validate(); err != nil {
		return pipeline.Params{}, err
	}
	return p, nil
}

type laddersFileWrapper struct {
	Ladders LaddersConfig `yaml:"ladders"`
}

// LoadLaddersFile reads a file holding a top-level "ladders" block.
func LoadLaddersFile(path string) (LaddersConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return LaddersConfig{}, err
	}
	var w laddersFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return LaddersConfig{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return w.Ladders, nil
}

// MergeLadders overlays non-empty fields from override onto base.
func MergeLadders(base, override LaddersConfig) LaddersConfig {
	out := base
	if override.Name != "" {
		out.Name = override.Name
	}
	if override.Description != "" {
		out.Description = override.Description
	}
	if len(override.Divisors) > 0 {
		out.Divisors = override.Divisors
	}
	if len(override.Deltas) > 0 {
		out.Deltas = override.Deltas
	}
	if override.DeltaRange != nil {
		out.DeltaRange = override.DeltaRange
	}
	return out
}
