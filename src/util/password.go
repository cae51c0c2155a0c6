package util

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Security answers are compared case-insensitively, so they are hashed lower-cased.
func HashAnswer(answer string) (string, error) {
	return HashPassword(strings.ToLower(answer))
}

func CheckAnswer(hash, answer string) bool {
	return CheckPassword(hash, strings.ToLower(answer))
}
