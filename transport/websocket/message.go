package websocket

import (
	"encoding/json"
	"errors"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const (
	actionConnect = "connect"
	actionNew     = "game:new"
	actionJoin    = "game:join"
	actionStart   = "game:start"
	actionTurn    = "game:turn"
	actionWatch   = "game:watch"
	actionUpdate  = "game:update"
	actionUnknown = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type Payload struct {
	PlayerID   string       `json:"playerId,omitempty"`
	GameID     string       `json:"gameId,omitempty"`
	Cell       *int         `json:"cell,omitempty"`
	Game       *entity.Game `json:"game,omitempty"`
	StatusText string       `json:"statusText,omitempty"`
	Error      string       `json:"error,omitempty"`
}

func gamePayload(game entity.Game, viewerID string) Payload {
	return Payload{
		PlayerID:   viewerID,
		Game:       &game,
		StatusText: game.StatusText(viewerID),
	}
}

// errorText - maps a rejection to the text shown to the player.
func errorText(err error) string {
	switch {
	case errors.Is(err, apperror.ErrNotStarted):
		return "Game not started"
	case errors.Is(err, apperror.ErrNotYourTurn):
		return "Not your turn"
	case errors.Is(err, apperror.ErrInvalidMove):
		return "Invalid move"
	case errors.Is(err, apperror.ErrGameFull):
		return "Game is full"
	case errors.Is(err, apperror.ErrAlreadyStarted):
		return "Game already started"
	case errors.Is(err, apperror.ErrInvalidPlayer):
		return "Invalid player"
	case errors.Is(err, apperror.ErrGameNotFound):
		return "Game not found"
	case errors.Is(err, apperror.ErrVersionConflict):
		return "Game was updated, try again"
	default:
		return "Something went wrong"
	}
}
