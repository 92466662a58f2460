package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"

	"account_service/internal/auth"
	"account_service/internal/clock"
	"account_service/internal/models"
	"account_service/internal/storage"
)

// Public outcomes. Each returned error wraps exactly one of these plus,
// where there is one, the underlying cause, so callers can log the cause
// while responding with the outcome only.
var (
	ErrRegistrationFailed = errors.New("registration failed")
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrLoginFailed        = errors.New("login failed")
)

type Service interface {
	Register(ctx context.Context, username, email, password string) error
	Login(ctx context.Context, email, password string) (string, error)
}

type tokenIssuer interface {
	Issue(userID uuid.UUID) (string, error)
}

type service struct {
	storage storage.Storage
	tokens  tokenIssuer
	clock   clock.Clock
}

func NewService(st storage.Storage, tokens tokenIssuer, clk clock.Clock) *service {
	return &service{
		storage: st,
		tokens:  tokens,
		clock:   clk,
	}
}

func (s *service) Register(ctx context.Context, username, email, password string) error {
	const op = "service.Register"

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrRegistrationFailed, err)
	}

	id, err := uuid.NewV4()
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrRegistrationFailed, err)
	}

	account := models.Account{
		ID:           id,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    s.clock.Now().UTC(),
	}

	// Duplicate emails and other store failures surface identically;
	// storage.ErrAccountExists stays in the chain for logging.
	if err := s.storage.CreateAccount(ctx, account); err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrRegistrationFailed, err)
	}

	return nil
}

func (s *service) Login(ctx context.Context, email, password string) (string, error) {
	const op = "service.Login"

	account, err := s.storage.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrAccountNotFound) {
			return "", fmt.Errorf("%s: %w", op, ErrAccountNotFound)
		}
		return "", fmt.Errorf("%s: %w: %w", op, ErrLoginFailed, err)
	}

	if err := auth.CheckPassword(account.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		return "", fmt.Errorf("%s: %w: %w", op, ErrLoginFailed, err)
	}

	token, err := s.tokens.Issue(account.ID)
	if err != nil {
		return "", fmt.Errorf("%s: %w: %w", op, ErrLoginFailed, err)
	}

	return token, nil
}
