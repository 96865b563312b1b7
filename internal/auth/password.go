package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
)

// MinPasswordLength is the shortest password Register accepts
const MinPasswordLength = 6

// HashPassword returns the hex encoded SHA-256 digest of password
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// VerifyPassword reports whether password hashes to hash
func VerifyPassword(hash, password string) bool {
	return subtle.ConstantTimeCompare([]byte(hash), []byte(HashPassword(password))) == 1
}

// EncodePhoto reads an uploaded image and returns it as base64 text for storage
func EncodePhoto(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read photo: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
