package config

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadEnvFile loads the first .env found in the given paths (or ".env").
// Variables already set in the process win. A missing file is not an error.
func LoadEnvFile(paths ...string) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

// ApplyEnv overlays environment variables onto c.
func ApplyEnv(c *Config) {
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)
	c.API.Port = getEnv("API_PORT", c.API.Port)
	c.API.Env = getEnv("API_ENV", c.API.Env)
	c.API.ScenarioDir = getEnv("SCENARIO_DIR", c.API.ScenarioDir)
	c.Subgraph.BeanURL = getEnv("SUBGRAPH_BEAN_URL", c.Subgraph.BeanURL)
	c.Subgraph.FieldURL = getEnv("SUBGRAPH_FIELD_URL", c.Subgraph.FieldURL)
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
