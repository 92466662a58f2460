package postgres

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"account_service/internal/models"
	"account_service/internal/storage"
)

type fakeRow struct {
	values []interface{}
	err    error
}

func (r fakeRow) Scan(dest ...interface{}) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.values) {
		return errors.New("scan: column count mismatch")
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *uuid.UUID:
			*p = r.values[i].(uuid.UUID)
		case *string:
			*p = r.values[i].(string)
		case *time.Time:
			*p = r.values[i].(time.Time)
		default:
			return errors.New("scan: unsupported destination")
		}
	}
	return nil
}

type fakeDB struct {
	execSQL  string
	execArgs []interface{}
	execErr  error

	querySQL  string
	queryArgs []interface{}
	row       fakeRow
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	f.execSQL, f.execArgs = sql, args
	if f.execErr != nil {
		return nil, f.execErr
	}
	return pgconn.CommandTag("INSERT 0 1"), nil
}

func (f *fakeDB) QueryRow(_ context.Context, sql string, args ...interface{}) pgx.Row {
	f.querySQL, f.queryArgs = sql, args
	return f.row
}

func testAccount() models.Account {
	return models.Account{
		ID:           uuid.Must(uuid.NewV4()),
		Username:     "alice",
		Email:        "a@x.com",
		PasswordHash: "$2a$10$hash",
		CreatedAt:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateAccount_Success(t *testing.T) {
	db := &fakeDB{}
	p := &PostgresStorage{db: db}
	account := testAccount()

	require.NoError(t, p.CreateAccount(context.Background(), account))

	assert.True(t, strings.HasPrefix(db.execSQL, "INSERT INTO users(id, username, email, password_hash, created_at)"))
	assert.Equal(t, []interface{}{account.ID, "alice", "a@x.com", "$2a$10$hash", account.CreatedAt}, db.execArgs)
}

func TestCreateAccount_UniqueViolation(t *testing.T) {
	db := &fakeDB{execErr: &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}}
	p := &PostgresStorage{db: db}

	err := p.CreateAccount(context.Background(), testAccount())
	assert.ErrorIs(t, err, storage.ErrAccountExists)
}

func TestCreateAccount_OtherError(t *testing.T) {
	boom := errors.New("connection reset")
	p := &PostgresStorage{db: &fakeDB{execErr: boom}}

	err := p.CreateAccount(context.Background(), testAccount())
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, storage.ErrAccountExists)
	assert.ErrorContains(t, err, "storage.postgres.CreateAccount")
}

func TestCreateAccount_OtherPgError(t *testing.T) {
	p := &PostgresStorage{db: &fakeDB{execErr: &pgconn.PgError{Code: "23502"}}}

	err := p.CreateAccount(context.Background(), testAccount())
	require.Error(t, err)
	assert.NotErrorIs(t, err, storage.ErrAccountExists)
}

func TestGetAccountByEmail_Found(t *testing.T) {
	want := testAccount()
	db := &fakeDB{row: fakeRow{values: []interface{}{want.ID, want.Username, want.Email, want.PasswordHash, want.CreatedAt}}}
	p := &PostgresStorage{db: db}

	got, err := p.GetAccountByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Contains(t, db.querySQL, "FROM users WHERE email=$1")
	assert.Equal(t, []interface{}{"a@x.com"}, db.queryArgs)
}

func TestGetAccountByEmail_NotFound(t *testing.T) {
	p := &PostgresStorage{db: &fakeDB{row: fakeRow{err: pgx.ErrNoRows}}}

	_, err := p.GetAccountByEmail(context.Background(), "ghost@x.com")
	assert.ErrorIs(t, err, storage.ErrAccountNotFound)
}

func TestGetAccountByEmail_DBError(t *testing.T) {
	boom := errors.New("timeout")
	p := &PostgresStorage{db: &fakeDB{row: fakeRow{err: boom}}}

	_, err := p.GetAccountByEmail(context.Background(), "a@x.com")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, storage.ErrAccountNotFound)
}

func TestClose_WithoutPool(t *testing.T) {
	p := &PostgresStorage{db: &fakeDB{}}
	assert.NoError(t, p.Close())
}
