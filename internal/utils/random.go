package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateRandomString returns length hex characters from crypto/rand.
// Used for username collision suffixes and ad-hoc secrets.
func GenerateRandomString(length int) string {
	b := make([]byte, (length+1)/2)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)[:length]
}

// RandomToken returns a 64-char refresh token. Only its sha256 hash is
// ever stored server-side.
func RandomToken() string {
	return GenerateRandomString(64)
}
