package security

import (
	"crypto/hmac"
	"crypto/rand"
	"encoding/hex"
	"io"
)

// TokenManager generates the random tokens used for session cookies and
// CSRF synchronizer tokens. Both are stored server-side on the session.
type TokenManager struct {
	source io.Reader
}

func NewTokenManager() *TokenManager {
	return &TokenManager{source: rand.Reader}
}

// Generate returns 32 random bytes as a 64-character hex string.
func (tm *TokenManager) Generate() (string, error) {
	randomBytes := make([]byte, 32)
	if _, err := io.ReadFull(tm.source, randomBytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(randomBytes), nil
}

// Equal compares a stored token with a submitted one in constant time.
// An empty stored token never matches.
func Equal(stored, submitted string) bool {
	if stored == "" {
		return false
	}
	return hmac.Equal([]byte(stored), []byte(submitted))
}
