package handler

import (
	"github.com/gin-gonic/gin"
	stockapp "github.com/wms/backend/internal/application/stock"
)

// StockHandler serves derived stock views. Nothing here is stored;
// every row is computed from the ledger.
type StockHandler struct {
	BaseHandler
	stock *stockapp.Service
}

// NewStockHandler creates a stock handler
func NewStockHandler(stock *stockapp.Service) *StockHandler {
	return &StockHandler{stock: stock}
}

// RegisterRoutes registers stock routes
func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/stock", h.Stock)
	rg.GET("/stock/summary", h.Summary)
	rg.GET("/stock/by-barcode/:code", h.ByBarcode)
	rg.GET("/hu-stock", h.HuStock)
}

// Stock handles GET /api/stock
func (h *StockHandler) Stock(c *gin.Context) {
	rows, err := h.stock.Stock(c.Request.Context(), c.Query("search"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}

// Summary handles GET /api/stock/summary
func (h *StockHandler) Summary(c *gin.Context) {
	rows, err := h.stock.Stock(c.Request.Context(), "")
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}

// ByBarcode handles GET /api/stock/by-barcode/:code
func (h *StockHandler) ByBarcode(c *gin.Context) {
	item, err := h.stock.ByBarcode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// HuStock handles GET /api/hu-stock
func (h *StockHandler) HuStock(c *gin.Context) {
	rows, err := h.stock.HuStock(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}
