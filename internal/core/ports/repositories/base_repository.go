package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// TransactionManager serializes multi-entity writes against the local
// store. RunInTx gives fn a transaction-scoped executor; every write in
// fn commits or none do. Repositories accept sqlx.ExtContext so the same
// method runs inside a transaction or against the plain connection.
type TransactionManager interface {
	// RunInTx executes fn inside a single serialized local transaction.
	RunInTx(ctx context.Context, fn func(q sqlx.ExtContext) error) error

	// Reader returns a non-transactional executor for point and range reads.
	Reader() sqlx.ExtContext
}
