package broadcast

import (
	"context"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

type subscriber struct {
	send chan entity.Game
}

// Memory is an in-process Channel. Slow subscribers miss snapshots instead of
// blocking the publisher; each snapshot carries the full state, so the next
// one brings them up to date.
type Memory struct {
	logger *slog.Logger

	mu    sync.RWMutex
	games map[string]map[*subscriber]struct{}
}

func NewMemory(logger *slog.Logger) *Memory {
	return &Memory{
		logger: logger.With("component", "broadcast.memory"),
		games:  make(map[string]map[*subscriber]struct{}),
	}
}

func (that *Memory) Publish(_ context.Context, game entity.Game) error {
	that.mu.RLock()
	defer that.mu.RUnlock()

	for sub := range that.games[game.ID] {
		select {
		case sub.send <- game:
		default:
			that.logger.Warn("subscriber is too slow, snapshot dropped", "gameID", game.ID, "version", game.Version)
		}
	}

	return nil
}

func (that *Memory) Subscribe(ctx context.Context, gameID string) (<-chan entity.Game, error) {
	sub := &subscriber{send: make(chan entity.Game, subscriberBuffer)}

	that.mu.Lock()
	if _, ok := that.games[gameID]; !ok {
		that.games[gameID] = make(map[*subscriber]struct{})
	}
	that.games[gameID][sub] = struct{}{}
	that.mu.Unlock()

	go func() {
		<-ctx.Done()
		that.remove(gameID, sub)
	}()

	return sub.send, nil
}

func (that *Memory) remove(gameID string, sub *subscriber) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if subs, ok := that.games[gameID]; ok {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(that.games, gameID)
		}
	}

	close(sub.send)
}
