// Package auth handles user accounts, password verification and the JWT
// session tokens the API hands out.
package auth

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("user not found")

	// ErrInvalidCredentials covers both a missing user and a wrong password,
	// so login responses never reveal which one it was.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrInvalidToken = errors.New("invalid token")
)

type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
