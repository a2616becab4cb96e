package utils

import (
	"crypto/rand"
	"math/big"
	"os"
	"strings"
)

// EnvOrDefault returns the env value or a fallback default.
func EnvOrDefault(key, def string) string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

// GenerateStudentID produces a random 6-digit student id (100000-999999).
func GenerateStudentID() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return big.NewInt(0).Add(n, big.NewInt(100000)).String(), nil
}
