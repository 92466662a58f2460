package storage

import (
	"context"
	"errors"

	"account_service/internal/models"
)

var (
	// ErrAccountExists reports a violation of the unique email constraint.
	ErrAccountExists   = errors.New("account with this email already exists")
	ErrAccountNotFound = errors.New("account not found")
)

// Storage persists accounts keyed by unique email.
//
// CreateAccount returns nil, ErrAccountExists, or any other error;
// GetAccountByEmail returns ErrAccountNotFound when no account matches.
type Storage interface {
	CreateAccount(ctx context.Context, account models.Account) error
	GetAccountByEmail(ctx context.Context, email string) (models.Account, error)

	Close() error
}
