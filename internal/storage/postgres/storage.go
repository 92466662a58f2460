package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"account_service/internal/models"
	"account_service/internal/storage"
)

const (
	usersTable = "users"

	uniqueViolation = "23505"
)

type querier interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

type PostgresStorage struct {
	db   querier
	pool *pgxpool.Pool
}

var _ storage.Storage = (*PostgresStorage)(nil)

func NewPostgresStorage(ctx context.Context, dbURL string) (*PostgresStorage, error) {
	const op = "storage.postgres.NewPostgresStorage"

	pool, err := pgxpool.Connect(ctx, dbURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &PostgresStorage{
		db:   pool,
		pool: pool,
	}, nil
}

func (p *PostgresStorage) CreateAccount(ctx context.Context, account models.Account) error {
	const op = "storage.postgres.CreateAccount"

	query := fmt.Sprintf(
		"INSERT INTO %s(id, username, email, password_hash, created_at) VALUES ($1, $2, $3, $4, $5);",
		usersTable,
	)

	_, err := p.db.Exec(ctx, query, account.ID, account.Username, account.Email, account.PasswordHash, account.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%s: %w", op, storage.ErrAccountExists)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (p *PostgresStorage) GetAccountByEmail(ctx context.Context, email string) (models.Account, error) {
	const op = "storage.postgres.GetAccountByEmail"

	var account models.Account
	query := fmt.Sprintf("SELECT id, username, email, password_hash, created_at FROM %s WHERE email=$1;", usersTable)

	err := p.db.QueryRow(ctx, query, email).Scan(
		&account.ID,
		&account.Username,
		&account.Email,
		&account.PasswordHash,
		&account.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Account{}, fmt.Errorf("%s: %w", op, storage.ErrAccountNotFound)
		}
		return models.Account{}, fmt.Errorf("%s: %w", op, err)
	}

	return account, nil
}

func (p *PostgresStorage) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}
