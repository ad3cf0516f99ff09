package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/tilegame/internal/api/middleware"
	"github.com/mcoot/tilegame/internal/api/request"
	"github.com/mcoot/tilegame/internal/api/response"
	"github.com/mcoot/tilegame/internal/edition"
	"github.com/mcoot/tilegame/internal/model"
	"github.com/mcoot/tilegame/internal/services/runner"
	"github.com/mcoot/tilegame/internal/sse"
)

// GameHandler handles game-related endpoints
type GameHandler struct {
	runners    *runner.Manager
	hubManager *sse.HubManager
	defaults   model.GameConfig
	logger     *slog.Logger
}

// NewGameHandler creates a new game handler. New games start from defaults.
func NewGameHandler(
	runners *runner.Manager,
	hubManager *sse.HubManager,
	defaults model.GameConfig,
	logger *slog.Logger,
) *GameHandler {
	return &GameHandler{
		runners:    runners,
		hubManager: hubManager,
		defaults:   defaults,
		logger:     logger.With(slog.String("component", "game-handler")),
	}
}

// Create handles POST /api/v1/games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	cfg, err := req.Config.Apply(h.defaults)
	if err != nil {
		WriteError(w, NewInvalidRequestError(err.Error()))
		return
	}

	roster := make([]model.PlayerSpec, len(req.Players))
	for i, p := range req.Players {
		if p.Key == "" {
			WriteError(w, NewInvalidRequestError("every player needs a key"))
			return
		}
		roster[i] = p.ToModel()
	}

	g, err := h.runners.Create(r.Context(), cfg, roster)
	if err != nil {
		WriteError(w, err)
		return
	}

	if req.Start {
		if err := h.runners.Start(r.Context(), g.Key); err != nil {
			WriteError(w, err)
			return
		}
		if g, err = h.runners.View(r.Context(), g.Key); err != nil {
			WriteError(w, err)
			return
		}
	}

	response.JSON(w, http.StatusCreated, response.GameFromModel(g, middleware.GetPlayer(r.Context())))
}

// Get handles GET /api/v1/games/{key}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	key := model.GameKey(mux.Vars(r)["key"])

	g, err := h.runners.View(r.Context(), key)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(g, middleware.GetPlayer(r.Context())))
}

// Join handles POST /api/v1/games/{key}/players
func (h *GameHandler) Join(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	key := model.GameKey(mux.Vars(r)["key"])

	var req request.JoinRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, NewInvalidRequestError("invalid request body"))
			return
		}
	}

	spec := model.PlayerSpec{Key: player, Name: req.Name, Kind: model.PlayerKind(req.Kind)}
	if err := h.runners.Join(r.Context(), key, spec); err != nil {
		WriteError(w, err)
		return
	}

	h.respondWithGame(w, r, key, http.StatusOK)
}

// Start handles POST /api/v1/games/{key}/start
func (h *GameHandler) Start(w http.ResponseWriter, r *http.Request) {
	key := model.GameKey(mux.Vars(r)["key"])

	if err := h.runners.Start(r.Context(), key); err != nil {
		WriteError(w, err)
		return
	}

	h.respondWithGame(w, r, key, http.StatusOK)
}

// Command handles POST /api/v1/games/{key}/commands
func (h *GameHandler) Command(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	key := model.GameKey(mux.Vars(r)["key"])

	var req request.CommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Command == "" {
		WriteError(w, NewInvalidRequestError("command is required"))
		return
	}

	args, err := req.Args()
	if err != nil {
		WriteError(w, NewInvalidRequestError(err.Error()))
		return
	}

	cmd := model.Command(req.Command)
	if err := h.runners.Submit(r.Context(), key, cmd, player, args); err != nil {
		h.logger.Info("command refused",
			slog.String("game_key", string(key)),
			slog.String("player", string(player)),
			slog.String("command", req.Command),
			slog.String("error", err.Error()),
		)
		WriteError(w, err)
		return
	}

	g, err := h.runners.View(r.Context(), key)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.CommandResponse{
		Command: req.Command,
		Game:    response.GameFromModel(g, player),
	})
}

// Events handles GET /api/v1/games/{key}/events
func (h *GameHandler) Events(w http.ResponseWriter, r *http.Request) {
	key := model.GameKey(mux.Vars(r)["key"])

	// The game must exist before anyone can watch it
	if _, err := h.runners.Get(r.Context(), key); err != nil {
		WriteError(w, err)
		return
	}

	hub := h.hubManager.GetOrCreateHub(key)
	sse.ServeSSE(w, r, hub, middleware.GetPlayer(r.Context()))
}

// List handles GET /api/v1/games
func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	keys, err := h.runners.List(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	games := make([]string, len(keys))
	for i, k := range keys {
		games[i] = string(k)
	}
	response.JSON(w, http.StatusOK, map[string][]string{"games": games})
}

// Delete handles DELETE /api/v1/games/{key}
func (h *GameHandler) Delete(w http.ResponseWriter, r *http.Request) {
	key := model.GameKey(mux.Vars(r)["key"])

	if err := h.runners.Delete(r.Context(), key); err != nil {
		WriteError(w, err)
		return
	}
	h.hubManager.RemoveHub(key)

	response.NoContent(w)
}

// Editions handles GET /api/v1/editions
func (h *GameHandler) Editions(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string][]string{"editions": edition.Names()})
}

func (h *GameHandler) respondWithGame(w http.ResponseWriter, r *http.Request, key model.GameKey, status int) {
	g, err := h.runners.View(r.Context(), key)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, status, response.GameFromModel(g, middleware.GetPlayer(r.Context())))
}
