// Package sqlite implements the local store: a single-writer SQLite
// database holding all domain entities and the outbox queue. All ledger
// operations run through Store.RunInTx, so multi-entity mutations commit
// or roll back as one unit and are serialized against each other.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/tnvirji/pharmapos/internal/core/ports/repositories"
)

// Store owns the SQLite connection and transaction discipline.
type Store struct {
	db *sqlx.DB
	mu sync.Mutex
}

// Open connects to the SQLite database at dsn and applies the schema.
// Use ":memory:" for tests.
func Open(dsn string) (*Store, error) {
	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}
	// The local store is a single-writer database; one connection keeps
	// SQLite's locking out of the picture entirely.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		`PRAGMA foreign_keys = ON;`,
		`PRAGMA journal_mode = WAL;`,
		`PRAGMA busy_timeout = 5000;`,
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

var _ repositories.TransactionManager = (*Store)(nil)

// RunInTx executes fn inside one serialized transaction. fn returning an
// error rolls back every write it made; the caller sees the error and a
// store in its pre-transaction state.
func (s *Store) RunInTx(ctx context.Context, fn func(q sqlx.ExtContext) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rerr := tx.Rollback(); rerr != nil && !errors.Is(rerr, sql.ErrTxDone) {
			_ = rerr // nothing useful to do after a failed rollback
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Reader returns the non-transactional executor for reads.
func (s *Store) Reader() sqlx.ExtContext {
	return s.db
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}
