package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/tnvirji/pharmapos/internal/core/domain"
)

const sessionCtxKey = contextKey("session")

// GetSessionFromContext retrieves the authenticated session placed in the
// request context by AuthMiddleware.
func GetSessionFromContext(c *gin.Context) (*domain.Session, bool) {
	session, ok := c.Request.Context().Value(sessionCtxKey).(*domain.Session)
	return session, ok
}
