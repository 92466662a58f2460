package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"account_service/internal/models"
	"account_service/internal/storage"
)

const pingTimeout = 5 * time.Second

// Storage keeps one JSON document per account under its email key.
// SETNX on that key is the uniqueness constraint.
type Storage struct {
	client *redis.Client
}

var _ storage.Storage = (*Storage)(nil)

func New(ctx context.Context, url string) (*Storage, error) {
	const op = "storage.redis.New"

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return NewWithClient(client), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *redis.Client) *Storage {
	return &Storage{client: client}
}

func accountKey(email string) string {
	return "account:email:" + email
}

func (s *Storage) CreateAccount(ctx context.Context, account models.Account) error {
	const op = "storage.redis.CreateAccount"

	data, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	created, err := s.client.SetNX(ctx, accountKey(account.Email), data, 0).Result()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !created {
		return fmt.Errorf("%s: %w", op, storage.ErrAccountExists)
	}

	return nil
}

func (s *Storage) GetAccountByEmail(ctx context.Context, email string) (models.Account, error) {
	const op = "storage.redis.GetAccountByEmail"

	data, err := s.client.Get(ctx, accountKey(email)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.Account{}, fmt.Errorf("%s: %w", op, storage.ErrAccountNotFound)
		}
		return models.Account{}, fmt.Errorf("%s: %w", op, err)
	}

	var account models.Account
	if err := json.Unmarshal(data, &account); err != nil {
		return models.Account{}, fmt.Errorf("%s: %w", op, err)
	}

	return account, nil
}

func (s *Storage) Close() error {
	return s.client.Close()
}
