package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// newSessionToken returns 256 bits of randomness, hex-encoded. The token is
// the only thing the cookie carries, so it has to be unguessable.
func newSessionToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}

	return hex.EncodeToString(buf), nil
}
