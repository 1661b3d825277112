package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/tnvirji/pharmapos/internal/core/ports/services"
	"github.com/tnvirji/pharmapos/internal/dto"
	"github.com/tnvirji/pharmapos/internal/middleware"
)

// catalogHandler handles products, batches, parties, warehouses,
// settings and the activity feed.
type catalogHandler struct {
	catalogService portssvc.CatalogSvcFacade
}

func newCatalogHandler(cs portssvc.CatalogSvcFacade) *catalogHandler {
	return &catalogHandler{catalogService: cs}
}

func registerCatalogRoutes(rg *gin.RouterGroup, catalogService portssvc.CatalogSvcFacade) {
	h := newCatalogHandler(catalogService)

	products := rg.Group("/products")
	{
		products.POST("", h.createProduct)
		products.GET("", h.listProducts)
		products.GET("/:id", h.getProduct)
	}

	rg.GET("/batches", h.listBatches)

	customers := rg.Group("/customers")
	{
		customers.POST("", h.createCustomer)
		customers.GET("", h.listCustomers)
	}

	suppliers := rg.Group("/suppliers")
	{
		suppliers.POST("", h.createSupplier)
		suppliers.GET("", h.listSuppliers)
	}

	rg.POST("/warehouses", h.createWarehouse)
	rg.PUT("/settings", h.updateSetting)
	rg.GET("/activities", h.listActivities)
}

func (h *catalogHandler) createProduct(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateProduct", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	product, err := h.catalogService.CreateProduct(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to create product")
		return
	}
	logger.Info("Product created", slog.String("product_code", product.Code))
	c.JSON(http.StatusCreated, product)
}

func (h *catalogHandler) getProduct(c *gin.Context) {
	product, err := h.catalogService.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve product")
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *catalogHandler) listProducts(c *gin.Context) {
	limit, offset := pagination(c)
	products, err := h.catalogService.ListProducts(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err, "Failed to list products")
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *catalogHandler) listBatches(c *gin.Context) {
	batches, err := h.catalogService.ListBatches(c.Request.Context(), c.Query("productID"), c.Query("warehouseID"))
	if err != nil {
		respondError(c, err, "Failed to list batches")
		return
	}
	c.JSON(http.StatusOK, batches)
}

func (h *catalogHandler) createCustomer(c *gin.Context) {
	var req dto.CreatePartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	customer, err := h.catalogService.CreateCustomer(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to create customer")
		return
	}
	c.JSON(http.StatusCreated, customer)
}

func (h *catalogHandler) listCustomers(c *gin.Context) {
	limit, offset := pagination(c)
	customers, err := h.catalogService.ListCustomers(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err, "Failed to list customers")
		return
	}
	c.JSON(http.StatusOK, customers)
}

func (h *catalogHandler) createSupplier(c *gin.Context) {
	var req dto.CreatePartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	supplier, err := h.catalogService.CreateSupplier(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to create supplier")
		return
	}
	c.JSON(http.StatusCreated, supplier)
}

func (h *catalogHandler) listSuppliers(c *gin.Context) {
	limit, offset := pagination(c)
	suppliers, err := h.catalogService.ListSuppliers(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err, "Failed to list suppliers")
		return
	}
	c.JSON(http.StatusOK, suppliers)
}

func (h *catalogHandler) createWarehouse(c *gin.Context) {
	var req dto.CreateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	warehouse, err := h.catalogService.CreateWarehouse(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to create warehouse")
		return
	}
	c.JSON(http.StatusCreated, warehouse)
}

func (h *catalogHandler) updateSetting(c *gin.Context) {
	var req dto.UpdateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	if err := h.catalogService.UpdateSetting(c.Request.Context(), req); err != nil {
		respondError(c, err, "Failed to update setting")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *catalogHandler) listActivities(c *gin.Context) {
	limit, offset := pagination(c)
	activities, err := h.catalogService.ListActivities(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err, "Failed to list activities")
		return
	}
	c.JSON(http.StatusOK, activities)
}
