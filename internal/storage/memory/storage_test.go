package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"account_service/internal/models"
	"account_service/internal/storage"
)

func newAccount(email string) models.Account {
	return models.Account{
		ID:           uuid.Must(uuid.NewV4()),
		Username:     "alice",
		Email:        email,
		PasswordHash: "hash",
	}
}

func TestCreateAndGet(t *testing.T) {
	s := New()
	ctx := context.Background()
	account := newAccount("a@x.com")

	require.NoError(t, s.CreateAccount(ctx, account))

	got, err := s.GetAccountByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, account, got)
}

func TestGetNotFound(t *testing.T) {
	_, err := New().GetAccountByEmail(context.Background(), "nobody@x.com")
	assert.ErrorIs(t, err, storage.ErrAccountNotFound)
}

func TestCreateDuplicateKeepsFirst(t *testing.T) {
	s := New()
	ctx := context.Background()
	first := newAccount("a@x.com")

	require.NoError(t, s.CreateAccount(ctx, first))
	assert.ErrorIs(t, s.CreateAccount(ctx, newAccount("a@x.com")), storage.ErrAccountExists)

	got, err := s.GetAccountByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, 1, s.Count())
}

func TestConcurrentCreateSameEmail(t *testing.T) {
	s := New()
	ctx := context.Background()

	const workers = 16
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.CreateAccount(ctx, newAccount("race@x.com")); err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, accepted)
	assert.Equal(t, 1, s.Count())
}

func TestDistinctEmails(t *testing.T) {
	s := New()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, s.CreateAccount(ctx, newAccount(fmt.Sprintf("u%d@x.com", i))))
	}
	assert.Equal(t, 3, s.Count())
}
