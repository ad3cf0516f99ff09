package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/tilegame/internal/model"
	"github.com/mcoot/tilegame/internal/services/runner"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeUnidentified        = "UNIDENTIFIED"
	CodeUnknownCommand      = "UNKNOWN_COMMAND"
	CodeGameNotFound        = "GAME_NOT_FOUND"
	CodeNotYourTurn         = "NOT_YOUR_TURN"
	CodeNotInGame           = "NOT_IN_GAME"
	CodeNotPlaying          = "NOT_PLAYING"
	CodeGameStarted         = "GAME_STARTED"
	CodeInsufficientPlayers = "INSUFFICIENT_PLAYERS"
	CodeTooManyPlayers      = "TOO_MANY_PLAYERS"
	CodeEditionNotFound     = "EDITION_NOT_FOUND"
	CodeDictionaryMissing   = "DICTIONARY_UNAVAILABLE"
	CodePrecondition        = "PRECONDITION_FAILED"
	CodeUnavailable         = "UNAVAILABLE"
	CodeInternalError       = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError. Specific sentinels are
// matched before the error kind they wrap.
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, model.ErrGameNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeGameNotFound, "Game not found"}}
	case errors.Is(err, model.ErrEditionNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeEditionNotFound, err.Error()}}
	case errors.Is(err, model.ErrDictionaryNotLoaded):
		return &httpError{http.StatusNotFound, APIError{CodeDictionaryMissing, err.Error()}}

	case errors.Is(err, model.ErrUnknownCommand):
		return &httpError{http.StatusBadRequest, APIError{CodeUnknownCommand, err.Error()}}
	case errors.Is(err, model.ErrProtocol):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, err.Error()}}

	case errors.Is(err, model.ErrNotPlayerTurn):
		return &httpError{http.StatusConflict, APIError{CodeNotYourTurn, "Not your turn"}}
	case errors.Is(err, model.ErrUnknownPlayer):
		return &httpError{http.StatusForbidden, APIError{CodeNotInGame, "Player is not in this game"}}
	case errors.Is(err, model.ErrNotPlaying):
		return &httpError{http.StatusConflict, APIError{CodeNotPlaying, "Game is not in play"}}
	case errors.Is(err, model.ErrGameStarted):
		return &httpError{http.StatusConflict, APIError{CodeGameStarted, "Game has already started"}}
	case errors.Is(err, model.ErrInsufficientPlayers):
		return &httpError{http.StatusConflict, APIError{CodeInsufficientPlayers, "Not enough players to start"}}
	case errors.Is(err, model.ErrTooManyPlayers):
		return &httpError{http.StatusConflict, APIError{CodeTooManyPlayers, "Game is full"}}
	case errors.Is(err, model.ErrPrecondition):
		return &httpError{http.StatusConflict, APIError{CodePrecondition, err.Error()}}

	case errors.Is(err, runner.ErrClosed):
		return &httpError{http.StatusServiceUnavailable, APIError{CodeUnavailable, "Server is shutting down"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnidentifiedError is returned when a request does not name its player
func NewUnidentifiedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnidentified, "Player key required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
