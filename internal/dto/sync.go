package dto

// SyncStatusResponse is the operator health view of the outbox. A zero
// Pending count means it is safe to shut the client down without losing
// unreplicated writes.
type SyncStatusResponse struct {
	Pending int64 `json:"pending"`
	Failed  int64 `json:"failed"`
}

// RequeueRequest resets one dead-lettered outbox entry to PENDING.
type RequeueRequest struct {
	EntryID int64 `json:"entryID" binding:"required"`
}
