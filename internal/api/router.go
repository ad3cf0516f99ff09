package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/tilegame/internal/api/handler"
	"github.com/mcoot/tilegame/internal/api/middleware"
	"github.com/mcoot/tilegame/internal/api/response"
	"github.com/mcoot/tilegame/internal/model"
	"github.com/mcoot/tilegame/internal/services/runner"
	"github.com/mcoot/tilegame/internal/sse"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger        *slog.Logger
	Runners       *runner.Manager
	HubManager    *sse.HubManager
	DefaultConfig model.GameConfig
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	gameHandler := handler.NewGameHandler(cfg.Runners, cfg.HubManager, cfg.DefaultConfig, cfg.Logger)

	playerMiddleware := middleware.Player()
	optionalPlayerMiddleware := middleware.OptionalPlayer()
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(loggingMiddleware)
	api.Use(recoveryMiddleware)

	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	api.HandleFunc("/editions", gameHandler.Editions).Methods(http.MethodGet)

	// Anyone may create, view or watch a game; only a player's own view shows their rack
	games := api.PathPrefix("/games").Subrouter()
	games.Use(optionalPlayerMiddleware)
	games.HandleFunc("", gameHandler.List).Methods(http.MethodGet)
	games.HandleFunc("", gameHandler.Create).Methods(http.MethodPost)
	games.HandleFunc("/{key}", gameHandler.Get).Methods(http.MethodGet)
	games.HandleFunc("/{key}", gameHandler.Delete).Methods(http.MethodDelete)
	games.HandleFunc("/{key}/start", gameHandler.Start).Methods(http.MethodPost)
	games.HandleFunc("/{key}/events", gameHandler.Events).Methods(http.MethodGet)

	// Routes that act as a player
	games.Handle("/{key}/players", playerMiddleware(http.HandlerFunc(gameHandler.Join))).Methods(http.MethodPost)
	games.Handle("/{key}/commands", playerMiddleware(http.HandlerFunc(gameHandler.Command))).Methods(http.MethodPost)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{Status: "ok"})
}
