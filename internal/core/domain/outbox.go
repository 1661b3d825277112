package domain

import (
	"encoding/json"
	"time"
)

// ActionType is the closed set of replicable operations. The sync engine
// switches over every member; adding one without a handler is a bug the
// dispatcher reports loudly rather than skipping.
type ActionType string

const (
	ActionUpsertProduct   ActionType = "UPSERT_PRODUCT"
	ActionUpsertBatch     ActionType = "UPSERT_BATCH"
	ActionUpsertCustomer  ActionType = "UPSERT_CUSTOMER"
	ActionUpsertSupplier  ActionType = "UPSERT_SUPPLIER"
	ActionUpsertWarehouse ActionType = "UPSERT_WAREHOUSE"
	ActionUpsertInvoice   ActionType = "UPSERT_INVOICE"
	ActionUpsertPurchase  ActionType = "UPSERT_PURCHASE"
	ActionUpsertCash      ActionType = "UPSERT_CASH_TRANSACTION"
	ActionUpsertDeal      ActionType = "UPSERT_DEAL"
	ActionInsertActivity  ActionType = "INSERT_ACTIVITY"
	ActionUpsertSetting   ActionType = "UPSERT_SETTING"
)

// OutboxStatus is the replication state of one outbox entry.
type OutboxStatus string

const (
	OutboxPending OutboxStatus = "PENDING"
	OutboxSynced  OutboxStatus = "SYNCED"
	OutboxFailed  OutboxStatus = "FAILED"
)

// MaxSyncRetries is the dead-letter ceiling: an entry whose retry counter
// would exceed it goes FAILED and waits for manual requeue.
const MaxSyncRetries = 5

// OutboxEntry is one not-yet-replicated operation. It is appended in the
// same local transaction as the entity mutation it describes and is only
// ever mutated by the sync engine afterwards.
type OutboxEntry struct {
	EntryID        int64           `db:"entry_id" json:"entryID"` // auto increment, FIFO order
	IdempotencyKey string          `db:"idempotency_key" json:"idempotencyKey"`
	Action         ActionType      `db:"action_type" json:"action"`
	Payload        json.RawMessage `db:"payload" json:"payload"` // entity snapshot at commit time
	Status         OutboxStatus    `db:"status" json:"status"`
	Retries        int             `db:"retries" json:"retries"`
	ErrorLog       string          `db:"error_log" json:"errorLog"`
	CreatedAt      time.Time       `db:"created_at" json:"createdAt"`
}

// QueueDepth is the operator-visible health of the outbox.
type QueueDepth struct {
	Pending int64 `json:"pending"`
	Failed  int64 `json:"failed"`
}
