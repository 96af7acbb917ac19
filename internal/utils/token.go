package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// GenerateRandomToken returns a high-entropy opaque token: n random bytes
// read from crypto/rand, hex-encoded. Used for email-verification and
// password-reset tokens.
func GenerateRandomToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("error generating random token: %w", err)
	}

	return hex.EncodeToString(buf), nil
}

// HashToken returns the SHA-256 hex digest of a raw token string.
//
// Reset-password tokens are persisted only in this irreversible form; the
// raw token travels to the user's email and is re-hashed on the way back in
// for lookup.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
