package invitation

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// NewToken generates a cryptographically random invitation token.
// 32 random bytes, hex encoded to 64 characters.
func NewToken() (string, error) {
	buf := make([]byte, TokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate invitation token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
