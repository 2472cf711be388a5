package crypto

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateSeed returns 32 bytes of OS randomness, hex encoded.
func GenerateSeed() string {
	bytes := make([]byte, 32)
	// crypto/rand.Read never returns an error; it aborts the process if the OS source fails
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
