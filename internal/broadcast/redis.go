package broadcast

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

// Redis is a Channel over Redis Pub/Sub, so participants connected to
// different server instances converge on the same snapshots.
type Redis struct {
	logger *slog.Logger
	client *redis.Client
}

func NewRedis(logger *slog.Logger, client *redis.Client) *Redis {
	return &Redis{
		logger: logger.With("component", "broadcast.redis"),
		client: client,
	}
}

func (that *Redis) Publish(ctx context.Context, game entity.Game) error {
	gameJSON, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	if err = that.client.Publish(ctx, updatesChannel(game.ID), gameJSON).Err(); err != nil {
		return fmt.Errorf("failed to publish game: %w", err)
	}

	return nil
}

func (that *Redis) Subscribe(ctx context.Context, gameID string) (<-chan entity.Game, error) {
	log := that.logger.With("method", "Subscribe", "gameID", gameID)

	pubsub := that.client.Subscribe(ctx, updatesChannel(gameID))

	// wait for the subscription to be confirmed so no publish after return is missed
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	out := make(chan entity.Game, subscriberBuffer)

	go func() {
		defer close(out)
		defer pubsub.Close()

		messages := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}

				var game entity.Game
				if err := json.Unmarshal([]byte(msg.Payload), &game); err != nil {
					log.Error("failed to unmarshal snapshot", "error", err)
					continue
				}

				select {
				case out <- game:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
