// Package engine holds the tic-tac-toe rules. Every function takes a game
// snapshot by value and returns the next snapshot; a non-nil error rejects the
// command and the returned snapshot is the unchanged input.
package engine

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

// WinCombos lists the triples checked for three in a row, in search order.
var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Create - starts a new match with the creator playing X.
func Create(gameID, creatorID string) (entity.Game, error) {
	if gameID == "" || creatorID == "" {
		return entity.Game{}, apperror.ErrInvalidPlayer
	}

	return entity.Game{
		ID:      gameID,
		Players: [2]string{creatorID, ""},
		Status:  entity.StatusCreated,
		Version: 1,
	}, nil
}

// Join - seats the joiner as O.
func Join(game entity.Game, joinerID string) (entity.Game, error) {
	if !game.IsCreated() {
		return game, fmt.Errorf("%w: status %s", apperror.ErrGameFull, game.Status)
	}

	if joinerID == "" || joinerID == game.Players[0] {
		return game, apperror.ErrInvalidPlayer
	}

	next := game
	next.Players[1] = joinerID
	next.Status = entity.StatusJoined
	next.Version++

	return next, nil
}

// Start - moves a created or joined game into play, X to move.
func Start(game entity.Game) (entity.Game, error) {
	if !game.IsCreated() && !game.IsJoined() {
		return game, fmt.Errorf("%w: status %s", apperror.ErrAlreadyStarted, game.Status)
	}

	next := game
	next.Status = entity.StatusInProgress
	next.CurrentPlayer = entity.PlayerX
	next.Version++

	return next, nil
}

// Mark - places the actor's mark, flips the turn and evaluates the board.
func Mark(game entity.Game, actorID string, cell int) (entity.Game, error) {
	if !game.IsInProgress() {
		return game, apperror.ErrNotStarted
	}

	mark := game.MarkOf(actorID)
	if err := validateMove(game, mark, cell); err != nil {
		return game, err
	}

	next := game
	next.Board[cell] = mark
	next.CurrentPlayer = toggleMark(mark)
	next.Version++

	updateGameStatus(&next)

	return next, nil
}

// validateMove - checks if the move is valid.
func validateMove(game entity.Game, mark string, cell int) error {
	if game.CurrentPlayer != mark {
		return apperror.ErrNotYourTurn
	}

	if cell < 0 || cell >= len(game.Board) {
		return fmt.Errorf("%w: cell %d out of range", apperror.ErrInvalidMove, cell)
	}

	if game.Board[cell] != entity.EmptyCell {
		return fmt.Errorf("%w: cell %d is occupied", apperror.ErrInvalidMove, cell)
	}

	return nil
}

// updateGameStatus - finishes the game on a win or a full board.
func updateGameStatus(game *entity.Game) {
	if winner := CheckWinner(game.Board); winner != "" {
		game.Status = entity.StatusFinished
		game.Winner = winner
		return
	}

	if IsBoardFull(game.Board) {
		game.Status = entity.StatusFinished
	}
}

func toggleMark(currentMark string) string {
	if currentMark == entity.PlayerX {
		return entity.PlayerO
	}
	return entity.PlayerX
}

// CheckWinner returns the mark filling the first complete triple, or "".
// Cells only ever hold X or O, so equality of three non-empty cells is a win.
func CheckWinner(board [entity.BoardSize]string) string {
	for _, combo := range WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != entity.EmptyCell && a == b && b == c {
			return a
		}
	}

	return ""
}

func IsBoardFull(board [entity.BoardSize]string) bool {
	for _, cell := range board {
		if cell == entity.EmptyCell {
			return false
		}
	}

	return true
}
