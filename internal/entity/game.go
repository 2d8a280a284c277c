package entity

const (
	StatusCreated    = "CREATED"
	StatusJoined     = "JOINED"
	StatusInProgress = "INPROGRESS"
	StatusFinished   = "FINISHED"

	PlayerX = "X"
	PlayerO = "O"

	EmptyCell = ""

	BoardSize = 9
)

// Game is one immutable snapshot of a match. Board and Players are arrays,
// so assigning a Game copies the whole state.
type Game struct {
	ID            string            `json:"gameId"`
	Players       [2]string         `json:"players"`
	Board         [BoardSize]string `json:"filledPos"`
	CurrentPlayer string            `json:"currentPlayer"`
	Status        string            `json:"gameStatus"`
	Winner        string            `json:"winner"`
	Version       int64             `json:"version"`
}

// Result is the terminal outcome of a finished game.
type Result struct {
	Finished bool
	Winner   string
}

func (that Game) IsCreated() bool {
	return that.Status == StatusCreated
}

func (that Game) IsJoined() bool {
	return that.Status == StatusJoined
}

func (that Game) IsInProgress() bool {
	return that.Status == StatusInProgress
}

func (that Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that Game) IsDraw() bool {
	return that.IsFinished() && that.Winner == ""
}

func (that Game) Result() Result {
	return Result{
		Finished: that.IsFinished(),
		Winner:   that.Winner,
	}
}

// MarkOf resolves a participant id to the mark it plays. Ids that are not
// participants are returned unchanged, so a caller may also act by mark.
func (that Game) MarkOf(playerID string) string {
	switch {
	case playerID == "":
		return ""
	case playerID == that.Players[0]:
		return PlayerX
	case playerID == that.Players[1]:
		return PlayerO
	default:
		return playerID
	}
}

// PlayerOf returns the participant id playing the given mark.
func (that Game) PlayerOf(mark string) string {
	switch mark {
	case PlayerX:
		return that.Players[0]
	case PlayerO:
		return that.Players[1]
	default:
		return ""
	}
}

func (that Game) HasPlayer(playerID string) bool {
	return playerID != "" && (that.Players[0] == playerID || that.Players[1] == playerID)
}
