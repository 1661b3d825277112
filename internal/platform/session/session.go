package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tnvirji/pharmapos/internal/apperrors"
	"github.com/tnvirji/pharmapos/internal/core/domain"
	portssvc "github.com/tnvirji/pharmapos/internal/core/ports/services"
)

// Claims carries the tenant scope alongside the registered JWT claims.
type Claims struct {
	TenantID string `json:"tenant_id"`
	jwt.RegisteredClaims
}

// ParseToken validates a signed token and maps it to a session. The
// subject is the user, the tenant claim scopes every remote row.
func ParseToken(tokenString, jwtSecret string) (*domain.Session, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid || claims.Subject == "" || claims.TenantID == "" {
		return nil, fmt.Errorf("token missing subject or tenant claim: %w", apperrors.ErrUnauthorized)
	}

	session := &domain.Session{
		UserID:   claims.Subject,
		TenantID: claims.TenantID,
		Token:    tokenString,
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session, nil
}

// IssueToken signs a session token; used by the sign-in endpoint.
func IssueToken(userID, tenantID, jwtSecret string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(ttl)
	claims := &Claims{
		TenantID: tenantID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(jwtSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Holder is the process-wide session slot the sync engine reads from.
// Sign-in stores a session, sign-out clears it; without one every sync
// pass is a no-op.
type Holder struct {
	mu      sync.RWMutex
	current *domain.Session
}

var _ portssvc.SessionSource = (*Holder)(nil)

// NewHolder creates an empty session holder.
func NewHolder() *Holder {
	return &Holder{}
}

// Set stores the active session; nil clears it.
func (h *Holder) Set(session *domain.Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.current = session
}

// Session returns the active session or ErrUnauthorized when signed out.
func (h *Holder) Session(_ context.Context) (*domain.Session, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.current == nil {
		return nil, apperrors.ErrUnauthorized
	}
	return h.current, nil
}
