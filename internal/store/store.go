// Package store implements SQLite persistence for groups, notes, sticky
// window states, settings, and push subscriptions. Stores are constructed
// over a DBTX so the same code runs against the raw handle for reads and
// inside a transaction for mutating service calls.
package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// DBTX is the subset of database/sql shared by *sql.DB and *sql.Tx.
type DBTX interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// WithTx runs fn inside a single transaction, committing on success and
// rolling back on error. Each public service operation opens exactly one.
func WithTx(db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// idList expands a uuid set into an IN-clause placeholder string and its args.
func idList(ids []uuid.UUID) (string, []any) {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id.String()
	}
	return strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", "), args
}
