package sqlite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/tnvirji/pharmapos/internal/core/domain"
	portsrepo "github.com/tnvirji/pharmapos/internal/core/ports/repositories"
)

// SequenceRepository allocates document numbers from a per-period counter
// row. The counter is bumped inside the caller's transaction, so the
// number is consumed or released together with the document that uses it:
// strictly increasing, gap-free, and collision-free even with multiple
// writer processes on the same file.
type SequenceRepository struct{}

// NewSequenceRepository creates the sequence repository.
func NewSequenceRepository() portsrepo.SequenceRepository {
	return &SequenceRepository{}
}

func (r *SequenceRepository) NextNumber(ctx context.Context, q sqlx.ExtContext, series domain.Series, period string) (int64, error) {
	var next int64
	err := q.QueryRowxContext(ctx, `
		INSERT INTO document_sequences (series, period, next_n)
		VALUES (?, ?, 1)
		ON CONFLICT (series, period) DO UPDATE SET next_n = next_n + 1
		RETURNING next_n;
	`, series, period).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate number for series %s period %s: %w", series, period, err)
	}
	return next, nil
}
