// Package broadcast distributes game snapshots to every participant of a game.
package broadcast

import (
	"context"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const subscriberBuffer = 16

// Channel publishes snapshots and streams them to subscribers of the same game.
// A subscription ends, and its channel is closed, when ctx is done.
type Channel interface {
	Publish(ctx context.Context, game entity.Game) error
	Subscribe(ctx context.Context, gameID string) (<-chan entity.Game, error)
}

func updatesChannel(gameID string) string {
	return "game:" + gameID + ":updates"
}
