package entity

import "fmt"

// StatusText renders the status line a participant sees for this snapshot.
func (that Game) StatusText(viewerID string) string {
	viewerMark := that.MarkOf(viewerID)

	switch that.Status {
	case StatusCreated:
		return fmt.Sprintf("Game ID: %s", that.ID)
	case StatusJoined:
		return "Click on start game"
	case StatusInProgress:
		if viewerMark == that.CurrentPlayer {
			return "Your turn"
		}
		return fmt.Sprintf("%s's turn", that.CurrentPlayer)
	case StatusFinished:
		if that.Winner == "" {
			return "It's a draw!"
		}
		if viewerMark == that.Winner {
			return "You won!"
		}
		return fmt.Sprintf("%s won!", that.Winner)
	default:
		return ""
	}
}
