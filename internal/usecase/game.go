package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/engine"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository"
)

const maxGameIDAttempts = 5

type GameUseCase interface {
	CreateGame(ctx context.Context, creatorID string) (entity.Game, error)
	JoinGame(ctx context.Context, gameID, joinerID string) (entity.Game, error)
	StartGame(ctx context.Context, gameID, playerID string) (entity.Game, error)
	MakeTurn(ctx context.Context, gameID, playerID string, cell int) (entity.Game, error)

	GetGame(ctx context.Context, gameID string) (entity.Game, error)
	Subscribe(ctx context.Context, gameID string) (<-chan entity.Game, error)
	History(ctx context.Context, playerID string) ([]repository.GameResult, error)
}

type gameRepoDep interface {
	Create(ctx context.Context, game entity.Game) error
	GetByID(ctx context.Context, id string) (entity.Game, error)
	CompareAndSwap(ctx context.Context, game entity.Game, expectedVersion int64) error
}

type channelDep interface {
	Publish(ctx context.Context, game entity.Game) error
	Subscribe(ctx context.Context, gameID string) (<-chan entity.Game, error)
}

type resultRepoDep interface {
	Save(ctx context.Context, game entity.Game, finishedAt time.Time) error
	ListByPlayer(ctx context.Context, playerID string) ([]repository.GameResult, error)
}

// transition is one engine operation applied to the latest stored snapshot.
type transition func(game entity.Game) (entity.Game, error)

type gameUseCase struct {
	logger *slog.Logger

	gameRepo   gameRepoDep
	channel    channelDep
	resultRepo resultRepoDep

	maxRetries int
	now        func() time.Time
}

// NewGameUseCase - resultRepo may be nil to run without a results archive.
func NewGameUseCase(logger *slog.Logger, gameRepo gameRepoDep, channel channelDep, resultRepo resultRepoDep, maxRetries int) GameUseCase {
	return &gameUseCase{
		logger: logger.With("component", "usecase.game"),

		gameRepo:   gameRepo,
		channel:    channel,
		resultRepo: resultRepo,

		maxRetries: maxRetries,
		now:        time.Now,
	}
}

func (that *gameUseCase) CreateGame(ctx context.Context, creatorID string) (entity.Game, error) {
	for attempt := 0; attempt < maxGameIDAttempts; attempt++ {
		gameID, err := pkg.GenerateGameID()
		if err != nil {
			return entity.Game{}, fmt.Errorf("error generating game ID: %w", err)
		}

		game, err := engine.Create(gameID, creatorID)
		if err != nil {
			return entity.Game{}, fmt.Errorf("failed to create game: %w", err)
		}

		err = that.gameRepo.Create(ctx, game)
		if errors.Is(err, apperror.ErrGameAlreadyExists) {
			continue
		}

		if err != nil {
			return entity.Game{}, fmt.Errorf("failed to store game: %w", err)
		}

		that.logger.Info("game created", "gameID", game.ID, "creatorID", creatorID)
		that.publish(ctx, game)

		return game, nil
	}

	return entity.Game{}, fmt.Errorf("%w: no free game id after %d attempts", apperror.ErrGameAlreadyExists, maxGameIDAttempts)
}

func (that *gameUseCase) JoinGame(ctx context.Context, gameID, joinerID string) (entity.Game, error) {
	game, err := that.apply(ctx, gameID, func(game entity.Game) (entity.Game, error) {
		if game.HasPlayer(joinerID) {
			return game, nil
		}

		return engine.Join(game, joinerID)
	})
	if err != nil {
		return game, fmt.Errorf("failed to join game: %w", err)
	}

	return game, nil
}

func (that *gameUseCase) StartGame(ctx context.Context, gameID, playerID string) (entity.Game, error) {
	game, err := that.apply(ctx, gameID, func(game entity.Game) (entity.Game, error) {
		if !game.HasPlayer(playerID) {
			return game, apperror.ErrInvalidPlayer
		}

		return engine.Start(game)
	})
	if err != nil {
		return game, fmt.Errorf("failed to start game: %w", err)
	}

	return game, nil
}

func (that *gameUseCase) MakeTurn(ctx context.Context, gameID, playerID string, cell int) (entity.Game, error) {
	game, err := that.apply(ctx, gameID, func(game entity.Game) (entity.Game, error) {
		// the engine also accepts a bare mark, but remote callers must act as a participant
		if !game.HasPlayer(playerID) {
			return game, apperror.ErrNotYourTurn
		}

		return engine.Mark(game, playerID, cell)
	})
	if err != nil {
		return game, fmt.Errorf("failed to make turn: %w", err)
	}

	return game, nil
}

func (that *gameUseCase) GetGame(ctx context.Context, gameID string) (entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return entity.Game{}, fmt.Errorf("failed to get game by id: %w", err)
	}

	return game, nil
}

func (that *gameUseCase) Subscribe(ctx context.Context, gameID string) (<-chan entity.Game, error) {
	if _, err := that.GetGame(ctx, gameID); err != nil {
		return nil, err
	}

	updates, err := that.channel.Subscribe(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to game: %w", err)
	}

	return updates, nil
}

func (that *gameUseCase) History(ctx context.Context, playerID string) ([]repository.GameResult, error) {
	if that.resultRepo == nil {
		return []repository.GameResult{}, nil
	}

	results, err := that.resultRepo.ListByPlayer(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}

	return results, nil
}

// apply - loads the latest snapshot, runs the transition and stores the result
// with compare-and-swap, retrying from a fresh snapshot when another writer won.
// A rejected transition stores nothing and returns the snapshot it was given.
func (that *gameUseCase) apply(ctx context.Context, gameID string, op transition) (entity.Game, error) {
	log := that.logger.With("method", "apply", "gameID", gameID)

	for attempt := 0; ; attempt++ {
		current, err := that.gameRepo.GetByID(ctx, gameID)
		if err != nil {
			return entity.Game{}, fmt.Errorf("failed to get game by id: %w", err)
		}

		next, err := op(current)
		if err != nil {
			return current, err
		}

		if next.Version == current.Version {
			return current, nil
		}

		err = that.gameRepo.CompareAndSwap(ctx, next, current.Version)
		if errors.Is(err, apperror.ErrVersionConflict) && attempt < that.maxRetries {
			log.Debug("concurrent update, retrying", "attempt", attempt+1)
			continue
		}

		if err != nil {
			return current, fmt.Errorf("failed to update game: %w", err)
		}

		that.publish(ctx, next)
		that.archive(ctx, next)

		return next, nil
	}
}

// publish - the snapshot is already stored, so a failed broadcast is only logged;
// observers catch up with the next snapshot or by reading the game.
func (that *gameUseCase) publish(ctx context.Context, game entity.Game) {
	if err := that.channel.Publish(ctx, game); err != nil {
		that.logger.Error("failed to publish game", "gameID", game.ID, "version", game.Version, "error", err)
	}
}

func (that *gameUseCase) archive(ctx context.Context, game entity.Game) {
	if !game.IsFinished() || that.resultRepo == nil {
		return
	}

	if err := that.resultRepo.Save(ctx, game, that.now()); err != nil {
		that.logger.Error("failed to archive result", "gameID", game.ID, "error", err)
		return
	}

	that.logger.Info("game finished", "gameID", game.ID, "winner", game.Winner)
}
