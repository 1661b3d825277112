package domain

import "time"

// ActivityLog records one ledger action for the audit trail. Entries are
// written in the same transaction as the action and replicated like any
// other entity.
type ActivityLog struct {
	ActivityID string    `db:"activity_id" json:"activityID"`
	Action     string    `db:"action" json:"action"`
	Entity     string    `db:"entity" json:"entity"`
	EntityID   string    `db:"entity_id" json:"entityID"`
	Detail     string    `db:"detail" json:"detail"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// Setting is one key/value of replicated company configuration.
type Setting struct {
	Key       string    `db:"setting_key" json:"key"`
	Value     string    `db:"setting_value" json:"value"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
