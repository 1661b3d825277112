package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tnvirji/pharmapos/internal/core/domain"
	"github.com/tnvirji/pharmapos/internal/dto"
	"github.com/tnvirji/pharmapos/internal/middleware"
	"github.com/tnvirji/pharmapos/internal/platform/config"
	"github.com/tnvirji/pharmapos/internal/platform/session"
)

// authHandler issues session tokens and maintains the process-wide
// session slot the sync engine drains under.
type authHandler struct {
	cfg    *config.Config
	holder *session.Holder
}

func registerAuthRoutes(r *gin.Engine, cfg *config.Config, holder *session.Holder) {
	h := &authHandler{cfg: cfg, holder: holder}

	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/login", h.login)
		auth.POST("/logout", h.logout)
	}
}

func (h *authHandler) login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Login", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	token, expiresAt, err := session.IssueToken(req.UserID, req.TenantID, h.cfg.JWTSecret, h.cfg.JWTExpiryDuration)
	if err != nil {
		logger.Error("Failed to issue token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	h.holder.Set(&domain.Session{
		UserID:    req.UserID,
		TenantID:  req.TenantID,
		Token:     token,
		ExpiresAt: expiresAt,
	})

	logger.Info("Session established", slog.String("user_id", req.UserID), slog.String("tenant_id", req.TenantID))
	c.JSON(http.StatusOK, dto.LoginResponse{Token: token, ExpiresAt: expiresAt})
}

func (h *authHandler) logout(c *gin.Context) {
	h.holder.Set(nil)
	c.Status(http.StatusNoContent)
}
