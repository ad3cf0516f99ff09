package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/tilegame/internal/config"
	"github.com/mcoot/tilegame/internal/dependencies/clock"
	"github.com/mcoot/tilegame/internal/dependencies/random"
	"github.com/mcoot/tilegame/internal/services/board"
	"github.com/mcoot/tilegame/internal/services/dictionary"
	"github.com/mcoot/tilegame/internal/services/game"
	"github.com/mcoot/tilegame/internal/services/runner"
	"github.com/mcoot/tilegame/internal/services/scoring"
	"github.com/mcoot/tilegame/internal/sse"
	"github.com/mcoot/tilegame/internal/storage"
	"github.com/mcoot/tilegame/internal/storage/memory"
	redisstorage "github.com/mcoot/tilegame/internal/storage/redis"
	sqlitestorage "github.com/mcoot/tilegame/internal/storage/sqlite"
)

var _ game.Notifier = (*sse.Broadcaster)(nil)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	DictionaryService *dictionary.Service
	BoardService      *board.Service
	ScoringService    *scoring.Service
	GameController    *game.Controller
	Runners           *runner.Manager
	HubManager        *sse.HubManager
	Broadcaster       *sse.Broadcaster
}

// Config holds configuration for the application factory
type Config struct {
	// DictionaryDir holds <name>.txt word lists loaded on first use (optional)
	DictionaryDir string
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "sqlite")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SQLitePath is the database file (required if StorageType is "sqlite")
	SQLitePath string
}

// FromConfig builds a factory Config from server settings
func FromConfig(cfg config.Config, logger *slog.Logger) Config {
	redisCfg := redisstorage.DefaultConfig()
	redisCfg.URL = cfg.RedisURL
	redisCfg.GameTTL = cfg.RedisGameTTL

	return Config{
		DictionaryDir: cfg.DictionaryDir,
		Logger:        logger,
		StorageType:   cfg.StorageType,
		RedisConfig:   &redisCfg,
		SQLitePath:    cfg.SQLitePath,
	}
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store, err := openStorage(cfg)
	if err != nil {
		return nil, err
	}

	return newWithDependencies(store, clock.New(), random.New(), cfg.DictionaryDir, logger), nil
}

func openStorage(cfg Config) (storage.Storage, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = config.StorageTypeMemory
	}

	switch storageType {
	case config.StorageTypeMemory:
		return memory.New(), nil
	case config.StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		store, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, fmt.Errorf("open redis storage: %w", err)
		}
		return store, nil
	case config.StorageTypeSQLite:
		store, err := sqlitestorage.Open(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite storage: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be 'memory', 'redis' or 'sqlite'", storageType)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, dictionaryDir string, logger *slog.Logger) *App {
	dictService := dictionary.New(store, dictionaryDir, logger)
	boardService := board.New(logger)
	scoringService := scoring.New()
	hubManager := sse.NewHubManager(logger)
	broadcaster := sse.NewBroadcaster(hubManager, logger)
	gameController := game.NewController(
		store,
		boardService,
		scoringService,
		dictService,
		broadcaster,
		game.DefaultPlayers(),
		clk,
		rnd,
		logger,
	)
	runners := runner.NewManager(gameController, logger)

	return &App{
		Storage:           store,
		Clock:             clk,
		Random:            rnd,
		DictionaryService: dictService,
		BoardService:      boardService,
		ScoringService:    scoringService,
		GameController:    gameController,
		Runners:           runners,
		HubManager:        hubManager,
		Broadcaster:       broadcaster,
	}
}

// Sweep stops the runners of finished games and drops event hubs nobody
// is watching
func (a *App) Sweep(ctx context.Context) {
	a.Runners.ReleaseEnded(ctx)
	a.HubManager.CleanupEmptyHubs()
}

// Close stops every game runner and event stream, then closes storage
func (a *App) Close() error {
	a.Runners.Close()
	a.HubManager.Close()
	if closer, ok := a.Storage.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
