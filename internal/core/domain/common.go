package domain

import "time"

// AuditFields holds standard audit information for domain entities.
// Timestamps are set by the ledger at commit time, never by callers.
type AuditFields struct {
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Touch refreshes UpdatedAt, setting CreatedAt on first write.
func (a *AuditFields) Touch(now time.Time) {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
}
