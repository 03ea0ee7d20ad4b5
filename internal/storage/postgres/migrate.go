package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"club_service/internal/config"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// RunMigrations applies the embedded schema migrations. Goose wants a
// database/sql handle, so this opens its own short-lived connection via the
// pgx stdlib driver instead of reusing the pool.
func RunMigrations(ctx context.Context, cfg *config.Config) error {
	const op = "storage.postgres.RunMigrations"

	db, err := sql.Open("pgx", dsn(cfg))
	if err != nil {
		return fmt.Errorf("%s: failed to open database: %w", op, err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("%s: failed to set dialect: %w", op, err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("%s: failed to apply migrations: %w", op, err)
	}

	return nil
}
