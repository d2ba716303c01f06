package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"convert-capacity/internal/ramp"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"LOG_LEVEL", "LOG_FORMAT", "API_PORT", "API_ENV", "SCENARIO_DIR", "SUBGRAPH_BEAN_URL", "SUBGRAPH_FIELD_URL"} {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())

	p, err := c.Params()
	require.NoError(t, err)
	assert.Equal(t, []int{100, 200, 300, 400, 500, 600, 700, 800, 900, 1000}, p.Divisors)
	require.Len(t, p.Deltas, 21)
	assert.Equal(t, "0_10", p.Deltas[0].Label())
	assert.Equal(t, "5_00", p.Deltas[20].Label())

	assert.Equal(t, 0.25, c.Synthetic.MinPrice)
	assert.Equal(t, 0.01, c.Synthetic.Step)
	assert.False(t, c.Synthetic.Enabled)
	assert.Equal(t, DefaultBeanURL, c.Subgraph.BeanURL)
	assert.Equal(t, 1000, c.Subgraph.BatchSize)
	assert.Equal(t, 4, c.Subgraph.MinSeason)
	assert.Equal(t, 3, c.Subgraph.Retries)
	assert.Equal(t, 30*time.Second, c.Subgraph.Timeout)
}

func TestLoadEmptyPath(t *testing.T) {
	clearEnv(t)
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoadInline(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, t.TempDir(), "cfg.yaml", `
ladders:
  divisors: [250, 500]
  deltas: [0.01, 0.02]
synthetic:
  enabled: true
  min_price: 0.3
subgraph:
  timeout: 5s
log:
  level: debug
  format: json
`)
	c, err := Load(path)
	require.NoError(t, err)

	p, err := c.Params()
	require.NoError(t, err)
	assert.Equal(t, []int{250, 500}, p.Divisors)
	assert.Equal(t, []ramp.Delta{0.01, 0.02}, p.Deltas)
	assert.True(t, c.Synthetic.Enabled)
	assert.Equal(t, 0.3, c.Synthetic.MinPrice)
	assert.Equal(t, 0.01, c.Synthetic.Step)
	assert.Equal(t, 5*time.Second, c.Subgraph.Timeout)
	assert.Equal(t, "debug", c.Log.Level)
}

func TestLoadLaddersFileWithOverride(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, "scenarios/fine.yaml", `
ladders:
  name: fine
  divisors: [100]
  delta_range: {from: 0.1, to: 0.5, step: 0.1}
`)
	path := writeFile(t, dir, "cfg.yaml", `
ladders_file: scenarios/fine.yaml
ladders:
  divisors: [300, 600]
`)
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "fine", c.Ladders.Name)

	p, err := c.Params()
	require.NoError(t, err)
	assert.Equal(t, []int{300, 600}, p.Divisors)
	require.Len(t, p.Deltas, 5)
	assert.Equal(t, "0_10", p.Deltas[0].Label())
	assert.Equal(t, "0_50", p.Deltas[4].Label())
}

func TestLoadMissingLaddersFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "cfg.yaml", "ladders_file: nope.yaml\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"negative divisor", func(c *Config) { c.Ladders.Divisors = []int{-1} }},
		{"duplicate divisor", func(c *Config) { c.Ladders.Divisors = []int{100, 100} }},
		{"zero delta", func(c *Config) { c.Ladders.Deltas = []float64{0} }},
		{"duplicate delta", func(c *Config) { c.Ladders.Deltas = []float64{0.01, 0.01} }},
		{"bad range", func(c *Config) { c.Ladders.DeltaRange = &DeltaRange{From: 1, To: 0.5, Step: 0.1} }},
		{"synthetic step", func(c *Config) { c.Synthetic.Step = -0.01 }},
		{"synthetic min", func(c *Config) { c.Synthetic.MinPrice = -1 }},
		{"batch size", func(c *Config) { c.Subgraph.BatchSize = -5 }},
		{"log format", func(c *Config) { c.Log.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestZeroDivisorAllowed(t *testing.T) {
	c := Default()
	c.Ladders.Divisors = []int{0, 100}
	assert.NoError(t, c.Validate())
}

func TestMergeLadders(t *testing.T) {
	base := LaddersConfig{Name: "base", Divisors: []int{100}, Deltas: []float64{0.01}}
	out := MergeLadders(base, LaddersConfig{Deltas: []float64{0.02}})
	assert.Equal(t, "base", out.Name)
	assert.Equal(t, []int{100}, out.Divisors)
	assert.Equal(t, []float64{0.02}, out.Deltas)
}

func TestApplyEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("API_PORT", "9999")
	t.Setenv("SUBGRAPH_BEAN_URL", "http://localhost:1234/bean")

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "warn", c.Log.Level)
	assert.Equal(t, "9999", c.API.Port)
	assert.Equal(t, "http://localhost:1234/bean", c.Subgraph.BeanURL)
	assert.Equal(t, DefaultFieldURL, c.Subgraph.FieldURL)
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("API_ENV")
	path := writeFile(t, t.TempDir(), ".env", "API_ENV=staging\n")
	LoadEnvFile(filepath.Join(t.TempDir(), "missing.env"), path)
	t.Cleanup(func() { os.Unsetenv("API_ENV") })

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "staging", c.API.Env)
}
