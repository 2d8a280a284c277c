package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/broadcast"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository"
	mockedUseCase "github.com/rocketscienceinc/tictactoe-engine/mocks/usecase"
	"github.com/rocketscienceinc/tictactoe-engine/testing/suite"
)

var (
	errRedisDown  = errors.New("redis down")
	errPubSubDown = errors.New("pubsub down")
	errDiskFull   = errors.New("disk full")
)

type mocks struct {
	gameRepo   *mockedUseCase.MockgameRepoDep
	channel    *mockedUseCase.MockchannelDep
	resultRepo *mockedUseCase.MockresultRepoDep
}

func newMockedUseCase(t *testing.T, maxRetries int) (*gameUseCase, mocks) {
	t.Helper()

	m := mocks{
		gameRepo:   mockedUseCase.NewMockgameRepoDep(t),
		channel:    mockedUseCase.NewMockchannelDep(t),
		resultRepo: mockedUseCase.NewMockresultRepoDep(t),
	}

	useCase := NewGameUseCase(suite.NewLogger(), m.gameRepo, m.channel, m.resultRepo, maxRetries).(*gameUseCase)

	return useCase, m
}

func startedGame() entity.Game {
	return entity.Game{
		ID:            "g1",
		Players:       [2]string{"p1", "p2"},
		CurrentPlayer: entity.PlayerX,
		Status:        entity.StatusInProgress,
		Version:       3,
	}
}

func TestGameUseCase_MakeTurn(t *testing.T) {
	ctx := context.Background()

	t.Run("Stores and publishes the next snapshot", func(t *testing.T) {
		// Given: a started game, X to move
		useCase, m := newMockedUseCase(t, 3)
		current := startedGame()

		m.gameRepo.EXPECT().GetByID(ctx, "g1").Return(current, nil).Once()
		m.gameRepo.EXPECT().
			CompareAndSwap(ctx, mock.MatchedBy(func(g entity.Game) bool {
				return g.Board[0] == entity.PlayerX && g.Version == 4
			}), int64(3)).
			Return(nil).
			Once()
		m.channel.EXPECT().Publish(ctx, mock.AnythingOfType("entity.Game")).Return(nil).Once()

		// When: p1 marks cell 0
		game, err := useCase.MakeTurn(ctx, "g1", "p1", 0)

		// Then: the next snapshot is returned
		require.NoError(t, err)
		assert.Equal(t, entity.PlayerX, game.Board[0])
		assert.Equal(t, entity.PlayerO, game.CurrentPlayer)
	})

	t.Run("Rejected move stores nothing", func(t *testing.T) {
		// Given: a started game, X to move
		useCase, m := newMockedUseCase(t, 3)
		current := startedGame()

		m.gameRepo.EXPECT().GetByID(ctx, "g1").Return(current, nil).Once()

		// When: p2 tries to move
		game, err := useCase.MakeTurn(ctx, "g1", "p2", 0)

		// Then: ErrNotYourTurn is returned with the unchanged snapshot
		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
		assert.Equal(t, current, game)
	})

	t.Run("Stranger cannot act as a mark", func(t *testing.T) {
		useCase, m := newMockedUseCase(t, 3)

		m.gameRepo.EXPECT().GetByID(ctx, "g1").Return(startedGame(), nil).Once()

		_, err := useCase.MakeTurn(ctx, "g1", entity.PlayerX, 0)

		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
	})

	t.Run("Error if game not found", func(t *testing.T) {
		useCase, m := newMockedUseCase(t, 3)

		m.gameRepo.EXPECT().GetByID(ctx, "g404").Return(entity.Game{}, apperror.ErrGameNotFound).Once()

		_, err := useCase.MakeTurn(ctx, "g404", "p1", 0)

		require.ErrorIs(t, err, apperror.ErrGameNotFound)
	})

	t.Run("Retries from a fresh snapshot on conflict", func(t *testing.T) {
		// Given: another writer bumps the version between read and write
		useCase, m := newMockedUseCase(t, 3)
		stale := startedGame()
		fresh := startedGame()
		fresh.Version = 4

		m.gameRepo.EXPECT().GetByID(ctx, "g1").Return(stale, nil).Once()
		m.gameRepo.EXPECT().
			CompareAndSwap(ctx, mock.AnythingOfType("entity.Game"), int64(3)).
			Return(apperror.ErrVersionConflict).
			Once()
		m.gameRepo.EXPECT().GetByID(ctx, "g1").Return(fresh, nil).Once()
		m.gameRepo.EXPECT().
			CompareAndSwap(ctx, mock.AnythingOfType("entity.Game"), int64(4)).
			Return(nil).
			Once()
		m.channel.EXPECT().Publish(ctx, mock.AnythingOfType("entity.Game")).Return(nil).Once()

		// When: p1 marks cell 4
		game, err := useCase.MakeTurn(ctx, "g1", "p1", 4)

		// Then: the move lands on the fresh snapshot
		require.NoError(t, err)
		assert.Equal(t, int64(5), game.Version)
	})

	t.Run("Gives up after max retries", func(t *testing.T) {
		useCase, m := newMockedUseCase(t, 1)

		m.gameRepo.EXPECT().GetByID(ctx, "g1").Return(startedGame(), nil).Times(2)
		m.gameRepo.EXPECT().
			CompareAndSwap(ctx, mock.AnythingOfType("entity.Game"), int64(3)).
			Return(apperror.ErrVersionConflict).
			Times(2)

		_, err := useCase.MakeTurn(ctx, "g1", "p1", 4)

		require.ErrorIs(t, err, apperror.ErrVersionConflict)
	})

	t.Run("Storage error is returned", func(t *testing.T) {
		useCase, m := newMockedUseCase(t, 3)

		m.gameRepo.EXPECT().GetByID(ctx, "g1").Return(startedGame(), nil).Once()
		m.gameRepo.EXPECT().
			CompareAndSwap(ctx, mock.AnythingOfType("entity.Game"), int64(3)).
			Return(errRedisDown).
			Once()

		_, err := useCase.MakeTurn(ctx, "g1", "p1", 4)

		require.ErrorIs(t, err, errRedisDown)
	})

	t.Run("Publish failure does not fail the stored move", func(t *testing.T) {
		useCase, m := newMockedUseCase(t, 3)

		m.gameRepo.EXPECT().GetByID(ctx, "g1").Return(startedGame(), nil).Once()
		m.gameRepo.EXPECT().
			CompareAndSwap(ctx, mock.AnythingOfType("entity.Game"), int64(3)).
			Return(nil).
			Once()
		m.channel.EXPECT().Publish(ctx, mock.AnythingOfType("entity.Game")).Return(errPubSubDown).Once()

		game, err := useCase.MakeTurn(ctx, "g1", "p1", 4)

		require.NoError(t, err)
		assert.Equal(t, entity.PlayerX, game.Board[4])
	})

	t.Run("Finishing move is archived", func(t *testing.T) {
		// Given: X about to complete the top row
		useCase, m := newMockedUseCase(t, 3)
		finishedAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		useCase.now = func() time.Time { return finishedAt }

		current := startedGame()
		current.Board = [9]string{entity.PlayerX, entity.PlayerX, "", entity.PlayerO, entity.PlayerO, "", "", "", ""}

		m.gameRepo.EXPECT().GetByID(ctx, "g1").Return(current, nil).Once()
		m.gameRepo.EXPECT().
			CompareAndSwap(ctx, mock.AnythingOfType("entity.Game"), int64(3)).
			Return(nil).
			Once()
		m.channel.EXPECT().Publish(ctx, mock.AnythingOfType("entity.Game")).Return(nil).Once()
		m.resultRepo.EXPECT().
			Save(ctx, mock.MatchedBy(func(g entity.Game) bool {
				return g.IsFinished() && g.Winner == entity.PlayerX
			}), finishedAt).
			Return(errDiskFull).
			Once()

		// When: p1 marks cell 2
		game, err := useCase.MakeTurn(ctx, "g1", "p1", 2)

		// Then: X wins even though the archive failed
		require.NoError(t, err)
		assert.Equal(t, entity.Result{Finished: true, Winner: entity.PlayerX}, game.Result())
	})
}

func TestGameUseCase_CreateGame(t *testing.T) {
	ctx := context.Background()

	t.Run("Retries on id collision", func(t *testing.T) {
		useCase, m := newMockedUseCase(t, 3)

		m.gameRepo.EXPECT().Create(ctx, mock.AnythingOfType("entity.Game")).Return(apperror.ErrGameAlreadyExists).Once()
		m.gameRepo.EXPECT().Create(ctx, mock.AnythingOfType("entity.Game")).Return(nil).Once()
		m.channel.EXPECT().Publish(ctx, mock.AnythingOfType("entity.Game")).Return(nil).Once()

		game, err := useCase.CreateGame(ctx, "p1")

		require.NoError(t, err)
		assert.NotEmpty(t, game.ID)
		assert.Equal(t, entity.StatusCreated, game.Status)
		assert.Equal(t, entity.PlayerX, game.MarkOf("p1"))
	})

	t.Run("Error on empty creator", func(t *testing.T) {
		useCase, _ := newMockedUseCase(t, 3)

		_, err := useCase.CreateGame(ctx, "")

		require.ErrorIs(t, err, apperror.ErrInvalidPlayer)
	})

	t.Run("Storage error is returned", func(t *testing.T) {
		useCase, m := newMockedUseCase(t, 3)

		m.gameRepo.EXPECT().Create(ctx, mock.AnythingOfType("entity.Game")).Return(errRedisDown).Once()

		_, err := useCase.CreateGame(ctx, "p1")

		require.ErrorIs(t, err, errRedisDown)
	})
}

func TestGameUseCase_JoinAndStart(t *testing.T) {
	ctx := context.Background()

	t.Run("Rejoining is a no-op", func(t *testing.T) {
		useCase, m := newMockedUseCase(t, 3)
		joined := entity.Game{ID: "g1", Players: [2]string{"p1", "p2"}, Status: entity.StatusJoined, Version: 2}

		m.gameRepo.EXPECT().GetByID(ctx, "g1").Return(joined, nil).Once()

		game, err := useCase.JoinGame(ctx, "g1", "p2")

		require.NoError(t, err)
		assert.Equal(t, joined, game)
	})

	t.Run("Third player cannot join", func(t *testing.T) {
		useCase, m := newMockedUseCase(t, 3)
		joined := entity.Game{ID: "g1", Players: [2]string{"p1", "p2"}, Status: entity.StatusJoined, Version: 2}

		m.gameRepo.EXPECT().GetByID(ctx, "g1").Return(joined, nil).Once()

		_, err := useCase.JoinGame(ctx, "g1", "p3")

		require.ErrorIs(t, err, apperror.ErrGameFull)
	})

	t.Run("Stranger cannot start", func(t *testing.T) {
		useCase, m := newMockedUseCase(t, 3)

		m.gameRepo.EXPECT().
			GetByID(ctx, "g1").
			Return(entity.Game{ID: "g1", Players: [2]string{"p1", ""}, Status: entity.StatusCreated, Version: 1}, nil).
			Once()

		_, err := useCase.StartGame(ctx, "g1", "p3")

		require.ErrorIs(t, err, apperror.ErrInvalidPlayer)
	})
}

func TestGameUseCase_History(t *testing.T) {
	ctx := context.Background()

	t.Run("Without archive", func(t *testing.T) {
		useCase := NewGameUseCase(suite.NewLogger(), repository.NewMemoryGameRepository(0), broadcast.NewMemory(suite.NewLogger()), nil, 3)

		results, err := useCase.History(ctx, "p1")

		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("Archive error is returned", func(t *testing.T) {
		useCase, m := newMockedUseCase(t, 3)

		m.resultRepo.EXPECT().ListByPlayer(ctx, "p1").Return(nil, errDiskFull).Once()

		_, err := useCase.History(ctx, "p1")

		require.ErrorIs(t, err, errDiskFull)
	})
}

func TestGameUseCase_FullGame(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := suite.NewLogger()
	useCase := NewGameUseCase(
		logger,
		repository.NewMemoryGameRepository(0),
		broadcast.NewMemory(logger),
		repository.NewResultRepository(suite.NewSQLite(t).Connection),
		3,
	)

	// Given: p1 created a game and p2 watches it
	game, err := useCase.CreateGame(ctx, "p1")
	require.NoError(t, err)

	updates, err := useCase.Subscribe(ctx, game.ID)
	require.NoError(t, err)

	// When: the game is played to a win for X
	_, err = useCase.JoinGame(ctx, game.ID, "p2")
	require.NoError(t, err)
	_, err = useCase.StartGame(ctx, game.ID, "p2")
	require.NoError(t, err)

	moves := []struct {
		player string
		cell   int
	}{
		{"p1", 0}, {"p2", 4}, {"p1", 1}, {"p2", 5}, {"p1", 2},
	}
	for _, move := range moves {
		game, err = useCase.MakeTurn(ctx, game.ID, move.player, move.cell)
		require.NoError(t, err)
	}

	// Then: X won and further moves are rejected
	assert.Equal(t, entity.StatusFinished, game.Status)
	assert.Equal(t, entity.PlayerX, game.Winner)

	_, err = useCase.MakeTurn(ctx, game.ID, "p2", 8)
	require.ErrorIs(t, err, apperror.ErrNotStarted)

	// Then: the watcher saw every snapshot in order
	var last entity.Game
	for want := 2; want <= 8; want++ {
		select {
		case last = <-updates:
			require.Equal(t, int64(want), last.Version)
		case <-time.After(time.Second):
			t.Fatalf("snapshot %d not received", want)
		}
	}
	assert.Equal(t, game, last)

	// Then: the result is in both players' history
	for _, player := range []string{"p1", "p2"} {
		results, err := useCase.History(ctx, player)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, entity.PlayerX, results[0].Winner)
	}

	stored, err := useCase.GetGame(ctx, game.ID)
	require.NoError(t, err)
	assert.Equal(t, game, stored)
}

func TestGameUseCase_Subscribe(t *testing.T) {
	useCase, m := newMockedUseCase(t, 3)
	ctx := context.Background()

	m.gameRepo.EXPECT().GetByID(ctx, "g404").Return(entity.Game{}, apperror.ErrGameNotFound).Once()

	_, err := useCase.Subscribe(ctx, "g404")

	require.ErrorIs(t, err, apperror.ErrGameNotFound)
}
