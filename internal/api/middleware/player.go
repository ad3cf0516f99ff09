package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mcoot/tilegame/internal/api/apierr"
	"github.com/mcoot/tilegame/internal/model"
)

type contextKey string

const playerContextKey contextKey = "player"

// PlayerHeader carries the key of the player making a request
const PlayerHeader = "X-Player-Key"

// Player creates middleware that requires the caller to name a player
func Player() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := extractPlayer(r)
			if key == "" {
				apierr.WriteError(w, apierr.NewUnidentifiedError())
				return
			}
			ctx := context.WithValue(r.Context(), playerContextKey, key)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalPlayer records the caller's player key if one is given
func OptionalPlayer() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key := extractPlayer(r); key != "" {
				r = r.WithContext(context.WithValue(r.Context(), playerContextKey, key))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// extractPlayer reads the player key from the header, falling back to the
// query string for event streams opened by browsers
func extractPlayer(r *http.Request) model.PlayerKey {
	if key := strings.TrimSpace(r.Header.Get(PlayerHeader)); key != "" {
		return model.PlayerKey(key)
	}
	return model.PlayerKey(strings.TrimSpace(r.URL.Query().Get("player")))
}

// GetPlayer returns the caller's player key, or empty if none was given
func GetPlayer(ctx context.Context) model.PlayerKey {
	key, _ := ctx.Value(playerContextKey).(model.PlayerKey)
	return key
}

// MustGetPlayer returns the caller's player key or panics
func MustGetPlayer(ctx context.Context) model.PlayerKey {
	key := GetPlayer(ctx)
	if key == "" {
		panic("no player in context - player middleware not applied?")
	}
	return key
}
