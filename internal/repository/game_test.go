package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/testing/suite"
)

func newGame(id string) entity.Game {
	return entity.Game{
		ID:      id,
		Players: [2]string{"p1", ""},
		Status:  entity.StatusCreated,
		Version: 1,
	}
}

func TestGameRepository_Create(t *testing.T) {
	t.Run("Create_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, time.Hour)

		// Given: a new game
		game := newGame("123")

		// When: Create is called
		err := gameRepo.Create(ctx, game)

		// Then: no error should be returned, and the snapshot is stored with a ttl
		require.NoError(t, err)

		ttl, err := st.Storage.TTL(ctx, "game:123").Result()
		require.NoError(t, err)
		assert.Positive(t, ttl)
	})

	t.Run("Create_AlreadyExists", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, 0)

		// Given: a stored game
		require.NoError(t, gameRepo.Create(ctx, newGame("123")))

		// When: the same id is created again
		err := gameRepo.Create(ctx, newGame("123"))

		// Then: ErrGameAlreadyExists is returned
		require.ErrorIs(t, err, apperror.ErrGameAlreadyExists)
	})
}

func TestGameRepository_GetByID(t *testing.T) {
	t.Run("GetByID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, 0)

		// Given: a stored game
		game := newGame("123")
		game.Board[4] = entity.PlayerX
		require.NoError(t, gameRepo.Create(ctx, game))

		// When: GetByID is called with existing ID
		retrievedGame, err := gameRepo.GetByID(ctx, game.ID)

		// Then: the retrieved game should match the saved game
		require.NoError(t, err)
		require.Equal(t, game, retrievedGame)
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, 0)

		// When: GetByID is called with non-existent ID
		retrievedGame, err := gameRepo.GetByID(ctx, "9999999")

		// Then: an ErrGameNotFound error should be returned
		require.ErrorIs(t, err, apperror.ErrGameNotFound)
		assert.Empty(t, retrievedGame.ID)
	})
}

func TestGameRepository_CompareAndSwap(t *testing.T) {
	t.Run("CompareAndSwap_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, 0)

		// Given: a stored game at version 1
		game := newGame("123")
		require.NoError(t, gameRepo.Create(ctx, game))

		// When: a version 2 snapshot is swapped in
		next := game
		next.Status = entity.StatusJoined
		next.Players[1] = "p2"
		next.Version = 2

		err := gameRepo.CompareAndSwap(ctx, next, 1)

		// Then: the new snapshot is stored
		require.NoError(t, err)

		stored, err := gameRepo.GetByID(ctx, "123")
		require.NoError(t, err)
		assert.Equal(t, next, stored)
	})

	t.Run("CompareAndSwap_StaleVersion", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, 0)

		// Given: a stored game at version 1
		game := newGame("123")
		require.NoError(t, gameRepo.Create(ctx, game))

		// When: a writer based on a stale version swaps
		next := game
		next.Version = 8

		err := gameRepo.CompareAndSwap(ctx, next, 7)

		// Then: ErrVersionConflict is returned and nothing changes
		require.ErrorIs(t, err, apperror.ErrVersionConflict)

		stored, err := gameRepo.GetByID(ctx, "123")
		require.NoError(t, err)
		assert.Equal(t, game, stored)
	})

	t.Run("CompareAndSwap_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, 0)

		err := gameRepo.CompareAndSwap(ctx, newGame("404"), 1)

		require.ErrorIs(t, err, apperror.ErrGameNotFound)
	})
}
