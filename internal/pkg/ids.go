package pkg

import (
	"crypto/rand"
	"encoding/hex"
)

const (
	gameIDBytes    = 16
	sessionIDBytes = 16
)

// GenerateGameID - id of a game; it is the redis key suffix, so it must not collide.
func GenerateGameID() string {
	return randomHex(gameIDBytes)
}

// GenerateNewSessionID - id of a player session.
func GenerateNewSessionID() string {
	return randomHex(sessionIDBytes)
}

func randomHex(n int) string {
	buf := make([]byte, n)
	// crypto/rand.Read never returns an error on supported platforms
	_, _ = rand.Read(buf)

	return hex.EncodeToString(buf)
}
