package pgsql

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	portsrepo "github.com/tnvirji/pharmapos/internal/core/ports/repositories"
)

const (
	codeForeignKeyViolation   = "23503"
	codeInsufficientPrivilege = "42501"
	codeInvalidAuthorization  = "28000"
)

// classifyError maps a remote write failure onto the sync engine's
// taxonomy. Anything that is not clearly a dependency or permission
// problem stays a plain wrapped error: generic and retryable. A response
// we cannot parse must never be treated as success.
func classifyError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeForeignKeyViolation:
			return &portsrepo.DependencyError{
				Constraint: pgErr.ConstraintName,
				Table:      pgErr.TableName,
			}
		case codeInsufficientPrivilege, codeInvalidAuthorization:
			return &portsrepo.PermissionError{Detail: pgErr.Message}
		}
		// Row-level security rejections carry a fixed message; treat them
		// as permission failures regardless of the reported code.
		if strings.Contains(pgErr.Message, "row-level security") {
			return &portsrepo.PermissionError{Detail: pgErr.Message}
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
