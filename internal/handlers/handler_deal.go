package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/tnvirji/pharmapos/internal/core/ports/services"
	"github.com/tnvirji/pharmapos/internal/dto"
	"github.com/tnvirji/pharmapos/internal/middleware"
)

// dealHandler handles the commission deal lifecycle.
type dealHandler struct {
	dealService portssvc.DealSvcFacade
}

func newDealHandler(ds portssvc.DealSvcFacade) *dealHandler {
	return &dealHandler{dealService: ds}
}

func registerDealRoutes(rg *gin.RouterGroup, dealService portssvc.DealSvcFacade) {
	h := newDealHandler(dealService)

	deals := rg.Group("/deals")
	{
		deals.POST("", h.addDeal)
		deals.GET("", h.listDeals)
		deals.GET("/:id", h.getDeal)
		deals.PUT("/:id", h.updateDeal)
		deals.POST("/:id/renew", h.renewDeal)
	}
}

func (h *dealHandler) addDeal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.AddDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AddDeal", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	deal, err := h.dealService.AddDeal(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to create deal")
		return
	}
	logger.Info("Deal created", slog.String("deal_id", deal.DealID))
	c.JSON(http.StatusCreated, deal)
}

func (h *dealHandler) renewDeal(c *gin.Context) {
	var req dto.RenewDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	deal, err := h.dealService.RenewDeal(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to renew deal")
		return
	}
	c.JSON(http.StatusOK, deal)
}

func (h *dealHandler) updateDeal(c *gin.Context) {
	var req dto.UpdateDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	deal, err := h.dealService.UpdateDeal(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to update deal")
		return
	}
	c.JSON(http.StatusOK, deal)
}

func (h *dealHandler) getDeal(c *gin.Context) {
	deal, err := h.dealService.GetDeal(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve deal")
		return
	}
	c.JSON(http.StatusOK, deal)
}

func (h *dealHandler) listDeals(c *gin.Context) {
	limit, offset := pagination(c)
	deals, err := h.dealService.ListDeals(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err, "Failed to list deals")
		return
	}
	c.JSON(http.StatusOK, deals)
}
