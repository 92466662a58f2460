package memory

import (
	"context"
	"sync"

	"account_service/internal/models"
	"account_service/internal/storage"
)

type Storage struct {
	mu       sync.RWMutex
	accounts map[string]models.Account
}

var _ storage.Storage = (*Storage)(nil)

func New() *Storage {
	return &Storage{
		accounts: make(map[string]models.Account),
	}
}

func (s *Storage) CreateAccount(_ context.Context, account models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[account.Email]; ok {
		return storage.ErrAccountExists
	}
	s.accounts[account.Email] = account

	return nil
}

func (s *Storage) GetAccountByEmail(_ context.Context, email string) (models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[email]
	if !ok {
		return models.Account{}, storage.ErrAccountNotFound
	}

	return account, nil
}

// Count returns the number of stored accounts.
func (s *Storage) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.accounts)
}

func (s *Storage) Close() error {
	return nil
}
