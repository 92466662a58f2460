package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt work factor used for every stored password.
const PasswordCost = 10

var ErrPasswordMismatch = errors.New("password does not match")

func HashPassword(password string) (string, error) {
	const op = "auth.HashPassword"

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return string(bytes), nil
}

// CheckPassword returns ErrPasswordMismatch when password does not match hash,
// or a wrapped bcrypt error when hash itself is unusable.
func CheckPassword(hash, password string) error {
	const op = "auth.CheckPassword"

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrPasswordMismatch
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
