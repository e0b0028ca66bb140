package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost trades hash strength against login latency on small VPS
// instances.
const bcryptCost = 8

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
