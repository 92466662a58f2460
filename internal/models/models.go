package models

import (
	"time"

	"github.com/gofrs/uuid"
)

type Account struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"` // bcrypt hash, never the plaintext
	CreatedAt    time.Time `json:"created_at"`
}
