package database

import (
	"context"
	"database/sql"
	"fmt"
)

// WithTx runs fn inside a transaction. The transaction is committed when fn
// returns nil and rolled back on any error or panic, so callers cannot leave
// partial writes behind by forgetting a rollback path. The booking flow relies
// on this guarantee: seat claims, the availability counter and the ledger row
// must change together or not at all.
func WithTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()
	err = fn(tx)
	return err
}

// Runner abstracts WithTx so services can be exercised in tests without a
// live database. *sql.DB trivially satisfies it through TxRunner.
type Runner interface {
	RunInTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}

// TxRunner adapts a *sql.DB to the Runner interface.
type TxRunner struct {
	DB *sql.DB
}

// RunInTx delegates to WithTx on the wrapped database handle.
func (r TxRunner) RunInTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	return WithTx(ctx, r.DB, fn)
}
