package repositories

import (
	"context"
	"database/sql"
	"fmt"
)

// execOne runs a write that is expected to touch exactly one row.
//
// Returns notFound when no rows were affected.
func execOne(ctx context.Context, db *sql.DB, notFound error, query string, args ...any) error {
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return notFound
	}
	return nil
}
