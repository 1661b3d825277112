package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/tnvirji/pharmapos/internal/core/ports/services"
	"github.com/tnvirji/pharmapos/internal/dto"
)

// syncHandler exposes the outbox health view and manual controls.
type syncHandler struct {
	syncService portssvc.SyncSvcFacade
}

func newSyncHandler(ss portssvc.SyncSvcFacade) *syncHandler {
	return &syncHandler{syncService: ss}
}

func registerSyncRoutes(rg *gin.RouterGroup, syncService portssvc.SyncSvcFacade) {
	h := newSyncHandler(syncService)

	sync := rg.Group("/sync")
	{
		sync.GET("/status", h.status)
		sync.POST("/trigger", h.trigger)
		sync.POST("/requeue", h.requeue)
	}
}

func (h *syncHandler) status(c *gin.Context) {
	depth, err := h.syncService.QueueDepth(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to read outbox depth")
		return
	}
	c.JSON(http.StatusOK, dto.SyncStatusResponse{Pending: depth.Pending, Failed: depth.Failed})
}

func (h *syncHandler) trigger(c *gin.Context) {
	h.syncService.TriggerSync()
	c.Status(http.StatusAccepted)
}

func (h *syncHandler) requeue(c *gin.Context) {
	var req dto.RequeueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	if err := h.syncService.RequeueFailed(c.Request.Context(), req.EntryID); err != nil {
		respondError(c, err, "Failed to requeue entry")
		return
	}
	h.syncService.TriggerSync()
	c.Status(http.StatusNoContent)
}
