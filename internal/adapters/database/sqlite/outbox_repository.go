package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/tnvirji/pharmapos/internal/apperrors"
	"github.com/tnvirji/pharmapos/internal/core/domain"
	portsrepo "github.com/tnvirji/pharmapos/internal/core/ports/repositories"
)

// OutboxRepository is the durable replication log. Entries are appended
// by ledger transactions and only ever mutated by the sync engine.
type OutboxRepository struct{}

// NewOutboxRepository creates the outbox repository.
func NewOutboxRepository() portsrepo.OutboxRepository {
	return &OutboxRepository{}
}

func (r *OutboxRepository) Append(ctx context.Context, q sqlx.ExtContext, entry *domain.OutboxEntry) error {
	var id int64
	err := q.QueryRowxContext(ctx, `
		INSERT INTO outbox_entries (idempotency_key, action_type, payload, status, retries, error_log, created_at)
		VALUES (?, ?, ?, ?, 0, '', ?)
		RETURNING entry_id;
	`, entry.IdempotencyKey, entry.Action, []byte(entry.Payload), domain.OutboxPending, entry.CreatedAt).Scan(&id)
	if err != nil {
		return fmt.Errorf("failed to append outbox entry (%s): %w", entry.Action, err)
	}
	entry.EntryID = id
	entry.Status = domain.OutboxPending
	return nil
}

func (r *OutboxRepository) ListPending(ctx context.Context, q sqlx.ExtContext, limit int) ([]domain.OutboxEntry, error) {
	entries := []domain.OutboxEntry{}
	err := sqlx.SelectContext(ctx, q, &entries, `
		SELECT * FROM outbox_entries
		WHERE status = ?
		ORDER BY entry_id
		LIMIT ?;
	`, domain.OutboxPending, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending outbox entries: %w", err)
	}
	return entries, nil
}

func (r *OutboxRepository) FindByID(ctx context.Context, q sqlx.ExtContext, entryID int64) (*domain.OutboxEntry, error) {
	var entry domain.OutboxEntry
	err := sqlx.GetContext(ctx, q, &entry, `SELECT * FROM outbox_entries WHERE entry_id = ?;`, entryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find outbox entry %d: %w", entryID, err)
	}
	return &entry, nil
}

func (r *OutboxRepository) MarkSynced(ctx context.Context, q sqlx.ExtContext, entryID int64) error {
	if _, err := q.ExecContext(ctx, `
		UPDATE outbox_entries SET status = ?, error_log = '' WHERE entry_id = ?;
	`, domain.OutboxSynced, entryID); err != nil {
		return fmt.Errorf("failed to mark outbox entry %d synced: %w", entryID, err)
	}
	return nil
}

// MarkRetry increments the counter and dead-letters the entry once it
// exceeds the ceiling. Retried and dead-lettered states are decided in
// one statement so a crash between them cannot lose either.
func (r *OutboxRepository) MarkRetry(ctx context.Context, q sqlx.ExtContext, entryID int64, errMsg string) error {
	if _, err := q.ExecContext(ctx, `
		UPDATE outbox_entries
		SET retries = retries + 1,
		    error_log = ?,
		    status = CASE WHEN retries + 1 > ? THEN ? ELSE ? END
		WHERE entry_id = ? AND status = ?;
	`, errMsg, domain.MaxSyncRetries, domain.OutboxFailed, domain.OutboxPending, entryID, domain.OutboxPending); err != nil {
		return fmt.Errorf("failed to mark outbox entry %d for retry: %w", entryID, err)
	}
	return nil
}

func (r *OutboxRepository) MarkFailed(ctx context.Context, q sqlx.ExtContext, entryID int64, errMsg string) error {
	if _, err := q.ExecContext(ctx, `
		UPDATE outbox_entries SET status = ?, error_log = ? WHERE entry_id = ?;
	`, domain.OutboxFailed, errMsg, entryID); err != nil {
		return fmt.Errorf("failed to mark outbox entry %d failed: %w", entryID, err)
	}
	return nil
}

func (r *OutboxRepository) Requeue(ctx context.Context, q sqlx.ExtContext, entryID int64) error {
	res, err := q.ExecContext(ctx, `
		UPDATE outbox_entries SET status = ?, retries = 0, error_log = ''
		WHERE entry_id = ? AND status = ?;
	`, domain.OutboxPending, entryID, domain.OutboxFailed)
	if err != nil {
		return fmt.Errorf("failed to requeue outbox entry %d: %w", entryID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to requeue outbox entry %d: %w", entryID, err)
	}
	if affected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *OutboxRepository) Depth(ctx context.Context, q sqlx.ExtContext) (domain.QueueDepth, error) {
	var depth domain.QueueDepth
	err := sqlx.GetContext(ctx, q, &depth.Pending,
		`SELECT COUNT(*) FROM outbox_entries WHERE status = ?;`, domain.OutboxPending)
	if err != nil {
		return depth, fmt.Errorf("failed to count pending outbox entries: %w", err)
	}
	err = sqlx.GetContext(ctx, q, &depth.Failed,
		`SELECT COUNT(*) FROM outbox_entries WHERE status = ?;`, domain.OutboxFailed)
	if err != nil {
		return depth, fmt.Errorf("failed to count failed outbox entries: %w", err)
	}
	return depth, nil
}
