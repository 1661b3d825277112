package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/tnvirji/pharmapos/internal/core/ports/services"
	"github.com/tnvirji/pharmapos/internal/dto"
	"github.com/tnvirji/pharmapos/internal/middleware"
)

// ledgerHandler handles the atomic business operations. Every successful
// write nudges the sync engine so new outbox entries drain promptly.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
	syncService   portssvc.SyncSvcFacade
}

func newLedgerHandler(ls portssvc.LedgerSvcFacade, ss portssvc.SyncSvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerService: ls, syncService: ss}
}

// registerLedgerRoutes registers routes for invoices, purchases, stock
// movements and cash.
func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade, syncService portssvc.SyncSvcFacade) {
	h := newLedgerHandler(ledgerService, syncService)

	invoices := rg.Group("/invoices")
	{
		invoices.POST("", h.sell)
		invoices.GET("", h.listInvoices)
		invoices.GET("/:id", h.getInvoice)
	}

	purchases := rg.Group("/purchases")
	{
		purchases.POST("", h.purchase)
		purchases.GET("", h.listPurchases)
		purchases.GET("/:id", h.getPurchase)
	}

	stock := rg.Group("/stock")
	{
		stock.POST("/adjust", h.adjustStock)
		stock.POST("/transfer", h.transferStock)
	}

	cash := rg.Group("/cash")
	{
		cash.POST("", h.addCash)
		cash.GET("", h.listCash)
	}
}

func (h *ledgerHandler) sell(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Sell", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	invoice, err := h.ledgerService.Sell(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to create invoice")
		return
	}
	h.syncService.TriggerSync()

	logger.Info("Invoice created", slog.String("invoice_number", invoice.InvoiceNumber))
	c.JSON(http.StatusCreated, dto.SellResponse{
		InvoiceID:     invoice.InvoiceID,
		InvoiceNumber: invoice.InvoiceNumber,
		NetTotal:      invoice.NetTotal,
		FinalBalance:  invoice.FinalBalance,
		PaymentStatus: invoice.PaymentStatus,
		Items:         invoice.Items,
	})
}

func (h *ledgerHandler) getInvoice(c *gin.Context) {
	invoice, err := h.ledgerService.GetInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve invoice")
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func (h *ledgerHandler) listInvoices(c *gin.Context) {
	limit, offset := pagination(c)
	invoices, err := h.ledgerService.ListInvoices(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err, "Failed to list invoices")
		return
	}
	c.JSON(http.StatusOK, invoices)
}

func (h *ledgerHandler) purchase(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Purchase", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	purchase, err := h.ledgerService.Purchase(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to create purchase")
		return
	}
	h.syncService.TriggerSync()

	logger.Info("Purchase created", slog.String("invoice_number", purchase.InvoiceNumber))
	c.JSON(http.StatusCreated, purchase)
}

func (h *ledgerHandler) getPurchase(c *gin.Context) {
	purchase, err := h.ledgerService.GetPurchase(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve purchase")
		return
	}
	c.JSON(http.StatusOK, purchase)
}

func (h *ledgerHandler) listPurchases(c *gin.Context) {
	limit, offset := pagination(c)
	purchases, err := h.ledgerService.ListPurchases(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err, "Failed to list purchases")
		return
	}
	c.JSON(http.StatusOK, purchases)
}

func (h *ledgerHandler) adjustStock(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AdjustStock", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	batch, err := h.ledgerService.AdjustStock(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to adjust stock")
		return
	}
	h.syncService.TriggerSync()
	c.JSON(http.StatusOK, batch)
}

func (h *ledgerHandler) transferStock(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.TransferStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for TransferStock", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	if err := h.ledgerService.TransferStock(c.Request.Context(), req); err != nil {
		respondError(c, err, "Failed to transfer stock")
		return
	}
	h.syncService.TriggerSync()
	c.Status(http.StatusNoContent)
}

func (h *ledgerHandler) addCash(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CashRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AddCash", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	txn, err := h.ledgerService.AddCashTransaction(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to record cash transaction")
		return
	}
	h.syncService.TriggerSync()

	logger.Info("Cash transaction recorded", slog.String("voucher_number", txn.VoucherNumber))
	c.JSON(http.StatusCreated, txn)
}

func (h *ledgerHandler) listCash(c *gin.Context) {
	limit, offset := pagination(c)
	txns, err := h.ledgerService.ListCashTransactions(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err, "Failed to list cash transactions")
		return
	}
	c.JSON(http.StatusOK, txns)
}
