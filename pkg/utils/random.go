package utils

import (
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"
)

const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateShortCode generates a random string of fixed length. Safe for
// concurrent use.
func GenerateShortCode(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rand.IntN(len(charset))]
	}
	return string(b)
}

// GenerateSlug generates a lower-case page slug of fixed length
func GenerateSlug(length int) string {
	return strings.ToLower(GenerateShortCode(length))
}

// GenerateAPIKey generates a UUID string to be used as an API keys
func GenerateAPIKey() string {
	return uuid.NewString()
}
