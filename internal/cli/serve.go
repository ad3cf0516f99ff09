package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcoot/tilegame/internal/api"
	"github.com/mcoot/tilegame/internal/config"
	"github.com/mcoot/tilegame/internal/factory"
	"github.com/mcoot/tilegame/internal/model"
)

// How often finished games and idle event hubs are released
const sweepInterval = 5 * time.Minute

func newServeCmd() *cobra.Command {
	var envFiles []string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the game server",
		Long: `Run the game server. Settings are read from the environment, after
loading any .env files given with --env-file (default .env).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			serverCfg, err := config.Load(envFiles...)
			if err != nil {
				return err
			}

			logger := NewLogger(serverCfg)
			slog.SetDefault(logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return Serve(ctx, serverCfg, logger)
		},
	}

	cmd.Flags().StringArrayVar(&envFiles, "env-file", nil, "Environment file to load (repeatable)")

	return cmd
}

// Serve runs the HTTP server until ctx is done
func Serve(ctx context.Context, serverCfg config.Config, logger *slog.Logger) error {
	app, err := factory.New(factory.FromConfig(serverCfg, logger))
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("error closing application", slog.String("error", err.Error()))
		}
	}()

	defaults := model.DefaultGameConfig()
	defaults.Edition = serverCfg.DefaultEdition
	defaults.Dictionary = serverCfg.DefaultDictionary

	router := api.NewRouter(api.RouterConfig{
		Logger:        logger,
		Runners:       app.Runners,
		HubManager:    app.HubManager,
		DefaultConfig: defaults,
	})

	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = serverCfg.Host
	serverConfig.Port = serverCfg.Port
	serverConfig.ShutdownTimeout = serverCfg.ShutdownTimeout
	server := api.NewServer(router, serverConfig, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	sweeper := time.NewTicker(sweepInterval)
	defer sweeper.Stop()

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("storage", serverCfg.StorageType),
	)

	for {
		select {
		case err := <-errCh:
			return err
		case <-sweeper.C:
			app.Sweep(ctx)
		case <-ctx.Done():
			logger.Info("shutdown signal received")
			return server.Shutdown(context.Background())
		}
	}
}

// NewLogger builds the server logger from its settings
func NewLogger(serverCfg config.Config) *slog.Logger {
	level, _ := serverCfg.Level()
	opts := &slog.HandlerOptions{Level: level}
	if serverCfg.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
