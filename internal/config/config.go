package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
	StorageTypeSQLite = "sqlite"
)

// Config holds server settings read from the environment
type Config struct {
	Host            string        `env:"HOST"`
	Port            int           `env:"PORT" envDefault:"8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"` // json or text

	StorageType  string        `env:"STORAGE_TYPE" envDefault:"memory"`
	RedisURL     string        `env:"REDIS_URL" envDefault:"redis://localhost:6379"`
	RedisGameTTL time.Duration `env:"REDIS_GAME_TTL" envDefault:"168h"`
	SQLitePath   string        `env:"SQLITE_PATH" envDefault:"tilegame.db"`

	// Dictionaries are read from <DICTIONARY_DIR>/<name>.txt on first use
	DictionaryDir     string `env:"DICTIONARY_DIR" envDefault:"data/dictionaries"`
	DefaultEdition    string `env:"DEFAULT_EDITION" envDefault:"English_Scrabble"`
	DefaultDictionary string `env:"DEFAULT_DICTIONARY"`
}

// Load reads a .env file if one exists, then parses the environment
func Load(files ...string) (Config, error) {
	// A missing .env file is not an error
	_ = godotenv.Load(files...)

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.Validate()
}

// Parse builds a Config from an explicit environment, ignoring the process environment
func Parse(environment map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environment}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks the settings are usable
func (c Config) Validate() error {
	var errs []error
	switch c.StorageType {
	case StorageTypeMemory, StorageTypeRedis, StorageTypeSQLite:
	default:
		errs = append(errs, fmt.Errorf("invalid STORAGE_TYPE %q: must be memory, redis or sqlite", c.StorageType))
	}
	if c.StorageType == StorageTypeRedis && c.RedisURL == "" {
		errs = append(errs, errors.New("REDIS_URL required when STORAGE_TYPE=redis"))
	}
	if c.StorageType == StorageTypeSQLite && c.SQLitePath == "" {
		errs = append(errs, errors.New("SQLITE_PATH required when STORAGE_TYPE=sqlite"))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid PORT %d", c.Port))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		errs = append(errs, fmt.Errorf("invalid LOG_FORMAT %q: must be json or text", c.LogFormat))
	}
	return errors.Join(errs...)
}

// Level returns the configured log level
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q", c.LogLevel)
	}
	return level, nil
}
