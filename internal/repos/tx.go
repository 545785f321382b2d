package repos

import (
	"context"

	"github.com/jmoiron/sqlx"
	perrors "github.com/pkg/errors"
)

// InTx runs fn inside a transaction, committing only when fn returns nil.
func InTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return perrors.Wrap(err, "begin tx")
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	return perrors.Wrap(tx.Commit(), "commit tx")
}
