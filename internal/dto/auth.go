package dto

import "time"

// LoginRequest establishes the remote session the sync engine uses.
type LoginRequest struct {
	UserID   string `json:"userID" binding:"required"`
	TenantID string `json:"tenantID" binding:"required"`
}

// LoginResponse returns the signed session token.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
