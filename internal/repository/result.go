package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

// GameResult is one archived finished game. Winner is empty for a draw.
type GameResult struct {
	GameID     string    `json:"gameId"`
	PlayerX    string    `json:"playerX"`
	PlayerO    string    `json:"playerO"`
	Winner     string    `json:"winner"`
	FinishedAt time.Time `json:"finishedAt"`
}

type ResultRepository interface {
	Save(ctx context.Context, game entity.Game, finishedAt time.Time) error
	ListByPlayer(ctx context.Context, playerID string) ([]GameResult, error)
}

type resultRepository struct {
	conn *sql.DB
}

func NewResultRepository(conn *sql.DB) ResultRepository {
	return &resultRepository{
		conn: conn,
	}
}

func (that *resultRepository) Save(ctx context.Context, game entity.Game, finishedAt time.Time) error {
	query := `INSERT INTO game_results (game_id, player_x, player_o, winner, finished_at) VALUES (?, ?, ?, ?, ?)`

	_, err := that.conn.ExecContext(ctx, query,
		game.ID, game.Players[0], game.Players[1], game.Winner, finishedAt.UTC().Unix())
	if err != nil {
		return fmt.Errorf("can't save result: %w", err)
	}

	return nil
}

func (that *resultRepository) ListByPlayer(ctx context.Context, playerID string) ([]GameResult, error) {
	query := `SELECT game_id, player_x, player_o, winner, finished_at FROM game_results
		WHERE player_x = ? OR player_o = ? ORDER BY finished_at DESC, id DESC`

	rows, err := that.conn.QueryContext(ctx, query, playerID, playerID)
	if err != nil {
		return nil, fmt.Errorf("can't list results: %w", err)
	}
	defer rows.Close()

	results := make([]GameResult, 0)
	for rows.Next() {
		var (
			result     GameResult
			finishedAt int64
		)

		if err = rows.Scan(&result.GameID, &result.PlayerX, &result.PlayerO, &result.Winner, &finishedAt); err != nil {
			return nil, fmt.Errorf("can't scan result: %w", err)
		}

		result.FinishedAt = time.Unix(finishedAt, 0).UTC()
		results = append(results, result)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("can't iterate results: %w", err)
	}

	return results, nil
}
