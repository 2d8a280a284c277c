package pkg

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

const (
	gameIDAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	gameIDLength   = 6
)

// GenerateGameID - generates a short code players can read out to each other.
func GenerateGameID() (string, error) {
	id := make([]byte, gameIDLength)
	limit := big.NewInt(int64(len(gameIDAlphabet)))

	for i := range id {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("failed to generate game id: %w", err)
		}
		id[i] = gameIDAlphabet[n.Int64()]
	}

	return string(id), nil
}

// GenerateNewSessionID - generates a new unique player id.
func GenerateNewSessionID() string {
	return uuid.NewString()
}
