package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost matches bcrypt.DefaultCost.
const bcryptCost = 10

// MinPasswordLength applies to every password set through the API.
const MinPasswordLength = 8

// HashPassword generates a bcrypt hash of the password
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword checks if the provided password matches the hash
func VerifyPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}
