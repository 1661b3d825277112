package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tnvirji/pharmapos/internal/adapters/database/sqlite"
	"github.com/tnvirji/pharmapos/internal/core/domain"
)

func openStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRunInTx_RollsBackOnError(t *testing.T) {
	store := openStore(t)
	repo := sqlite.NewCatalogRepository()
	ctx := context.Background()

	product := domain.Product{ProductID: uuid.NewString(), Code: "P1", Name: "One"}
	product.Touch(time.Now().UTC())

	failure := errors.New("boom")
	err := store.RunInTx(ctx, func(q sqlx.ExtContext) error {
		if err := repo.SaveProduct(ctx, q, product); err != nil {
			return err
		}
		return failure
	})
	require.ErrorIs(t, err, failure)

	_, err = repo.FindProductByID(ctx, store.Reader(), product.ProductID)
	assert.Error(t, err, "the write must not survive the rollback")
}

func TestSequence_MonotonicPerSeriesAndPeriod(t *testing.T) {
	store := openStore(t)
	repo := sqlite.NewSequenceRepository()
	ctx := context.Background()

	alloc := func(series domain.Series, period string) int64 {
		var n int64
		require.NoError(t, store.RunInTx(ctx, func(q sqlx.ExtContext) error {
			var err error
			n, err = repo.NextNumber(ctx, q, series, period)
			return err
		}))
		return n
	}

	assert.EqualValues(t, 1, alloc(domain.SeriesSale, "2501"))
	assert.EqualValues(t, 2, alloc(domain.SeriesSale, "2501"))
	assert.EqualValues(t, 3, alloc(domain.SeriesSale, "2501"))

	// Other series and other periods count independently.
	assert.EqualValues(t, 1, alloc(domain.SeriesSaleReturn, "2501"))
	assert.EqualValues(t, 1, alloc(domain.SeriesSale, "2502"))
	assert.EqualValues(t, 4, alloc(domain.SeriesSale, "2501"))
}

func TestSequence_AbortedTxReleasesNumber(t *testing.T) {
	store := openStore(t)
	repo := sqlite.NewSequenceRepository()
	ctx := context.Background()

	failure := errors.New("abort")
	err := store.RunInTx(ctx, func(q sqlx.ExtContext) error {
		n, err := repo.NextNumber(ctx, q, domain.SeriesSale, "2501")
		require.NoError(t, err)
		require.EqualValues(t, 1, n)
		return failure
	})
	require.ErrorIs(t, err, failure)

	// The rolled-back allocation leaves no gap.
	require.NoError(t, store.RunInTx(ctx, func(q sqlx.ExtContext) error {
		n, err := repo.NextNumber(ctx, q, domain.SeriesSale, "2501")
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)
		return nil
	}))
}

func TestOutbox_ListPendingIsFIFO(t *testing.T) {
	store := openStore(t)
	repo := sqlite.NewOutboxRepository()
	ctx := context.Background()

	var ids []int64
	for _, action := range []domain.ActionType{
		domain.ActionUpsertProduct, domain.ActionUpsertBatch, domain.ActionUpsertInvoice,
	} {
		entry := &domain.OutboxEntry{
			IdempotencyKey: uuid.NewString(),
			Action:         action,
			Payload:        []byte(`{}`),
			CreatedAt:      time.Now().UTC(),
		}
		require.NoError(t, store.RunInTx(ctx, func(q sqlx.ExtContext) error {
			return repo.Append(ctx, q, entry)
		}))
		ids = append(ids, entry.EntryID)
	}

	entries, err := repo.ListPending(ctx, store.Reader(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for i, entry := range entries {
		assert.Equal(t, ids[i], entry.EntryID, "append order must be drain order")
	}
}

func TestOutbox_DuplicateIdempotencyKeyRejected(t *testing.T) {
	store := openStore(t)
	repo := sqlite.NewOutboxRepository()
	ctx := context.Background()

	key := uuid.NewString()
	makeEntry := func() *domain.OutboxEntry {
		return &domain.OutboxEntry{
			IdempotencyKey: key,
			Action:         domain.ActionUpsertProduct,
			Payload:        []byte(`{}`),
			CreatedAt:      time.Now().UTC(),
		}
	}
	require.NoError(t, store.RunInTx(ctx, func(q sqlx.ExtContext) error {
		return repo.Append(ctx, q, makeEntry())
	}))
	err := store.RunInTx(ctx, func(q sqlx.ExtContext) error {
		return repo.Append(ctx, q, makeEntry())
	})
	assert.Error(t, err)
}

func TestOutbox_MarkRetryCeiling(t *testing.T) {
	store := openStore(t)
	repo := sqlite.NewOutboxRepository()
	ctx := context.Background()

	entry := &domain.OutboxEntry{
		IdempotencyKey: uuid.NewString(),
		Action:         domain.ActionUpsertProduct,
		Payload:        []byte(`{}`),
		CreatedAt:      time.Now().UTC(),
	}
	require.NoError(t, store.RunInTx(ctx, func(q sqlx.ExtContext) error {
		return repo.Append(ctx, q, entry)
	}))

	for i := 1; i <= domain.MaxSyncRetries; i++ {
		require.NoError(t, repo.MarkRetry(ctx, store.Reader(), entry.EntryID, "unreachable"))
		got, err := repo.FindByID(ctx, store.Reader(), entry.EntryID)
		require.NoError(t, err)
		assert.Equal(t, domain.OutboxPending, got.Status)
		assert.Equal(t, i, got.Retries)
	}

	require.NoError(t, repo.MarkRetry(ctx, store.Reader(), entry.EntryID, "unreachable"))
	got, err := repo.FindByID(ctx, store.Reader(), entry.EntryID)
	require.NoError(t, err)
	assert.Equal(t, domain.OutboxFailed, got.Status)

	// Requeue resets the counter and the entry drains again.
	require.NoError(t, repo.Requeue(ctx, store.Reader(), entry.EntryID))
	got, err = repo.FindByID(ctx, store.Reader(), entry.EntryID)
	require.NoError(t, err)
	assert.Equal(t, domain.OutboxPending, got.Status)
	assert.Zero(t, got.Retries)
}

func TestOutbox_RequeueOnlyTouchesFailed(t *testing.T) {
	store := openStore(t)
	repo := sqlite.NewOutboxRepository()
	ctx := context.Background()

	entry := &domain.OutboxEntry{
		IdempotencyKey: uuid.NewString(),
		Action:         domain.ActionUpsertProduct,
		Payload:        []byte(`{}`),
		CreatedAt:      time.Now().UTC(),
	}
	require.NoError(t, store.RunInTx(ctx, func(q sqlx.ExtContext) error {
		return repo.Append(ctx, q, entry)
	}))

	err := repo.Requeue(ctx, store.Reader(), entry.EntryID)
	assert.Error(t, err, "a PENDING entry is not requeueable")
}
