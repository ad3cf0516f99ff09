package cli

import (
	"github.com/caarlos0/env/v11"
)

// Config holds CLI configuration
type Config struct {
	ServerURL string `env:"TILEGAME_SERVER" envDefault:"http://localhost:8080"`
	Player    string `env:"TILEGAME_PLAYER"`
	Output    string `env:"TILEGAME_OUTPUT" envDefault:"text"`
}

// DefaultConfig returns a Config read from the environment
func DefaultConfig() *Config {
	cfg := &Config{ServerURL: "http://localhost:8080", Output: "text"}
	// Flags override anything unparseable
	_ = env.Parse(cfg)
	return cfg
}
