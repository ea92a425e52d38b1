package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stockkeep/backend/internal/domain"
	"github.com/stockkeep/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	service *usecase.InventoryService
	logger  *slog.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(service *usecase.InventoryService, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{service: service, logger: logger}
}

// ProductResponse is the JSON view of a product
type ProductResponse struct {
	Type       domain.Kind `json:"type"`
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Price      float64     `json:"price"`
	Quantity   int         `json:"quantity"`
	TotalValue float64     `json:"total_value"`

	Brand         *string `json:"brand,omitempty"`
	WarrantyYears *int    `json:"warranty_years,omitempty"`

	ExpiryDate *string `json:"expiry_date,omitempty"`
	Expired    *bool   `json:"expired,omitempty"`

	Size     *string `json:"size,omitempty"`
	Material *string `json:"material,omitempty"`
}

type quantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

type snapshotRequest struct {
	Name string `json:"name" binding:"required"`
}

func toProductResponse(p domain.Product, now time.Time) ProductResponse {
	resp := ProductResponse{
		Type:       p.Kind,
		ID:         p.ID,
		Name:       p.Name,
		Price:      p.Price,
		Quantity:   p.Quantity,
		TotalValue: p.TotalValue(),
	}
	switch {
	case p.Electronics != nil:
		resp.Brand = &p.Electronics.Brand
		resp.WarrantyYears = &p.Electronics.WarrantyYears
	case p.Grocery != nil:
		expiry := p.Grocery.ExpiryDate.Format(domain.DateLayout)
		expired := p.IsExpired(now)
		resp.ExpiryDate = &expiry
		resp.Expired = &expired
	case p.Clothing != nil:
		resp.Size = &p.Clothing.Size
		resp.Material = &p.Clothing.Material
	}
	return resp
}

func (h *Handler) toResponses(products []domain.Product) []ProductResponse {
	now := h.service.Now()
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p, now))
	}
	return out
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "stockkeep-backend",
		"version": "1.0.0",
	})
}

// ListProducts handles GET /api/v1/products, optionally filtered by ?name= or ?type=
func (h *Handler) ListProducts(c *gin.Context) {
	ctx := c.Request.Context()

	var products []domain.Product
	switch {
	case c.Query("name") != "":
		products = h.service.SearchByName(ctx, c.Query("name"))
	case c.Query("type") != "":
		products = h.service.SearchByType(ctx, c.Query("type"))
	default:
		products = h.service.ListProducts(ctx)
	}

	c.JSON(http.StatusOK, h.toResponses(products))
}

// GetProduct handles GET /api/v1/products/:id
func (h *Handler) GetProduct(c *gin.Context) {
	product, err := h.service.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(product, h.service.Now()))
}

// CreateProduct handles POST /api/v1/products
func (h *Handler) CreateProduct(c *gin.Context) {
	var input usecase.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	product, err := h.service.AddProduct(c.Request.Context(), input)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toProductResponse(product, h.service.Now()))
}

// DeleteProduct handles DELETE /api/v1/products/:id. Deleting an unknown ID succeeds.
func (h *Handler) DeleteProduct(c *gin.Context) {
	h.service.RemoveProduct(c.Request.Context(), c.Param("id"))
	c.Status(http.StatusNoContent)
}

// SellProduct handles POST /api/v1/products/:id/sell
func (h *Handler) SellProduct(c *gin.Context) {
	h.adjustStock(c, h.service.Sell)
}

// RestockProduct handles POST /api/v1/products/:id/restock
func (h *Handler) RestockProduct(c *gin.Context) {
	h.adjustStock(c, h.service.Restock)
}

// TotalValue handles GET /api/v1/inventory/value
func (h *Handler) TotalValue(c *gin.Context) {
	ctx := c.Request.Context()
	c.JSON(http.StatusOK, gin.H{
		"total_value": h.service.TotalValue(ctx),
	})
}

// SweepExpired handles POST /api/v1/inventory/sweep
func (h *Handler) SweepExpired(c *gin.Context) {
	removed := h.service.SweepExpired(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

// SaveInventory handles POST /api/v1/inventory/save
func (h *Handler) SaveInventory(c *gin.Context) {
	var req snapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "snapshot name is required"})
		return
	}

	count, err := h.service.Save(c.Request.Context(), req.Name)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"name": req.Name, "count": count})
}

// LoadInventory handles POST /api/v1/inventory/load
func (h *Handler) LoadInventory(c *gin.Context) {
	var req snapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "snapshot name is required"})
		return
	}

	count, err := h.service.Load(c.Request.Context(), req.Name)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"name": req.Name, "count": count})
}

func (h *Handler) adjustStock(c *gin.Context, apply func(ctx context.Context, id string, quantity int) (domain.Product, error)) {
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity is required"})
		return
	}

	product, err := apply(c.Request.Context(), c.Param("id"), *req.Quantity)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(product, h.service.Now()))
}

// writeError maps domain errors to HTTP status codes
func (h *Handler) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidProduct), errors.Is(err, domain.ErrInvalidQuantity):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrSnapshotNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateID), errors.Is(err, domain.ErrOutOfStock):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrInvalidData):
		status = http.StatusUnprocessableEntity
	}

	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
