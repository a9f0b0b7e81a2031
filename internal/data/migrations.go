package data

import (
	"context"
	"database/sql"

	"github.com/adgate-io/adgate/internal/migrate"
)

// RunMigrations sets up the audit schema by delegating to the migrate package.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	return migrate.Run(ctx, db)
}
