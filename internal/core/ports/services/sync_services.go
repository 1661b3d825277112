package services

import (
	"context"

	"github.com/tnvirji/pharmapos/internal/core/domain"
)

// SyncSvcFacade drains the outbox against the remote store.
type SyncSvcFacade interface {
	// Run blocks, draining on a timer and on TriggerSync, until ctx ends.
	Run(ctx context.Context)

	// TriggerSync requests a pass. It is idempotent and coalesces with an
	// in-flight pass rather than stacking a second one.
	TriggerSync()

	// SyncPass drains one bounded batch now; no-op without a valid session.
	SyncPass(ctx context.Context) error

	// QueueDepth reports pending and failed entry counts for the
	// safe-to-close gate and the operator health view.
	QueueDepth(ctx context.Context) (domain.QueueDepth, error)

	// RequeueFailed resets a dead-lettered entry to PENDING.
	RequeueFailed(ctx context.Context, entryID int64) error
}

// SessionSource supplies the authenticated remote session. It replaces
// any ambient current-user state; callers receive nil-session errors
// explicitly instead of reading globals.
type SessionSource interface {
	Session(ctx context.Context) (*domain.Session, error)
}
