package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	orderapp "github.com/wms/backend/internal/application/order"
	"github.com/wms/backend/internal/interfaces/http/dto"
)

// OrderHandler serves order reads.
type OrderHandler struct {
	BaseHandler
	orders *orderapp.Service
}

// NewOrderHandler creates an order handler
func NewOrderHandler(orders *orderapp.Service) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// RegisterRoutes registers order routes
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.GET("", h.List)
		orders.GET("/:id", h.Get)
		orders.GET("/:id/lines", h.Lines)
	}
}

// List handles GET /api/orders
func (h *OrderHandler) List(c *gin.Context) {
	take, _ := strconv.Atoi(c.DefaultQuery("take", "0"))
	orders, err := h.orders.List(c.Request.Context(), c.Query("type"), take)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, orders)
}

// Get handles GET /api/orders/:id, returning the order with line
// progress and its linked documents.
func (h *OrderHandler) Get(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.BadRequest(c, dto.ErrCodeInvalidRequest)
		return
	}

	order, progress, docs, err := h.orders.Get(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"order": order, "lines": progress, "docs": docs})
}

// Lines handles GET /api/orders/:id/lines
func (h *OrderHandler) Lines(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.BadRequest(c, dto.ErrCodeInvalidRequest)
		return
	}

	_, progress, _, err := h.orders.Get(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, progress)
}
