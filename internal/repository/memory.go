package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

type memoryEntry struct {
	game      entity.Game
	expiresAt time.Time
}

type memoryGame struct {
	mu    sync.Mutex
	games map[string]memoryEntry

	ttl time.Duration
	now func() time.Time
}

// NewMemoryGameRepository - keeps snapshots in process, for single-node setups and tests.
// Like the Redis store, every write renews the ttl and a zero ttl keeps snapshots forever.
func NewMemoryGameRepository(ttl time.Duration) GameRepository {
	return &memoryGame{
		games: make(map[string]memoryEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (that *memoryGame) Create(_ context.Context, game entity.Game) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.evictExpired()

	if _, ok := that.games[game.ID]; ok {
		return fmt.Errorf("%w: %s", apperror.ErrGameAlreadyExists, game.ID)
	}

	that.store(game)

	return nil
}

func (that *memoryGame) GetByID(_ context.Context, id string) (entity.Game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	entry, ok := that.lookup(id)
	if !ok {
		return entity.Game{}, apperror.ErrGameNotFound
	}

	return entry.game, nil
}

func (that *memoryGame) CompareAndSwap(_ context.Context, game entity.Game, expectedVersion int64) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	entry, ok := that.lookup(game.ID)
	if !ok {
		return apperror.ErrGameNotFound
	}

	if entry.game.Version != expectedVersion {
		return fmt.Errorf("%w: stored version %d, expected %d", apperror.ErrVersionConflict, entry.game.Version, expectedVersion)
	}

	that.store(game)

	return nil
}

func (that *memoryGame) store(game entity.Game) {
	entry := memoryEntry{game: game}
	if that.ttl > 0 {
		entry.expiresAt = that.now().Add(that.ttl)
	}

	that.games[game.ID] = entry
}

// lookup - caller holds mu.
func (that *memoryGame) lookup(id string) (memoryEntry, bool) {
	entry, ok := that.games[id]
	if !ok {
		return memoryEntry{}, false
	}

	if that.expired(entry) {
		delete(that.games, id)
		return memoryEntry{}, false
	}

	return entry, true
}

// evictExpired - caller holds mu.
func (that *memoryGame) evictExpired() {
	if that.ttl <= 0 {
		return
	}

	for id, entry := range that.games {
		if that.expired(entry) {
			delete(that.games, id)
		}
	}
}

func (that *memoryGame) expired(entry memoryEntry) bool {
	return !entry.expiresAt.IsZero() && !that.now().Before(entry.expiresAt)
}
