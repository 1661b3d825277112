package domain

import "time"

// Session identifies an authenticated remote identity. It is passed
// explicitly into ledger and sync calls; nothing reads it from globals.
type Session struct {
	UserID    string    `json:"userID"`
	TenantID  string    `json:"tenantID"` // company scope injected into every remote row
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Valid reports whether the session can still authenticate remote calls.
func (s *Session) Valid(now time.Time) bool {
	return s != nil && s.TenantID != "" && now.Before(s.ExpiresAt)
}
