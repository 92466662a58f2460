package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/pressly/goose/v3"

	"account_service/internal/storage/postgres/migrations"
)

// gooseUp is replaced in tests.
var gooseUp = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// Migrate applies the embedded schema migrations to the database at dbURL.
func Migrate(ctx context.Context, dbURL string) error {
	const op = "storage.postgres.Migrate"

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := gooseUp(ctx, db, "."); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
