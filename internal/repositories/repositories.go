// package repositories provides persistence layer implementations for all model types.
package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/desertthunder/recon/internal/shared"
)

// Querier is the subset of [sqlx.DB] and [sqlx.Tx] the repositories need, so the same repository
// can run against a bare connection or inside a transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

// persistenceError tags err as a storage failure.
func persistenceError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", shared.ErrPersistence, op, err)
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
