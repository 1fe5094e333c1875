package database

import (
	"context"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/spotlesscleaning/site-server-go/internal/migrations"
)

// Migrate applies all pending schema migrations embedded in the binary.
func (db *DB) Migrate(ctx context.Context) error {
	goose.SetBaseFS(migrations.FS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set migration dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db.DB.DB, "."); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}
