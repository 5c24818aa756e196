package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/wms/backend/internal/application/catalog"
	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/shared"
)

// CatalogHandler serves catalog reads for terminals and back office.
type CatalogHandler struct {
	BaseHandler
	catalog *catalogapp.Service
}

// NewCatalogHandler creates a catalog handler
func NewCatalogHandler(catalog *catalogapp.Service) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// RegisterRoutes registers catalog routes
func (h *CatalogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/items", h.Items)
	rg.GET("/items/by-barcode/:code", h.ItemByBarcode)
	rg.GET("/locations", h.Locations)
	rg.GET("/partners", h.Partners)
}

// Items handles GET /api/items
func (h *CatalogHandler) Items(c *gin.Context) {
	items, err := h.catalog.ListItems(c.Request.Context(), c.Query("search"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// ItemByBarcode handles GET /api/items/by-barcode/:code
func (h *CatalogHandler) ItemByBarcode(c *gin.Context) {
	item, err := h.findByBarcode(c)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			h.NotFound(c, "UNKNOWN_BARCODE")
			return
		}
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

func (h *CatalogHandler) findByBarcode(c *gin.Context) (*catalog.Item, error) {
	return h.catalog.FindItemByBarcode(c.Request.Context(), c.Param("code"))
}

// Locations handles GET /api/locations
func (h *CatalogHandler) Locations(c *gin.Context) {
	locations, err := h.catalog.ListLocations(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, locations)
}

// Partners handles GET /api/partners
func (h *CatalogHandler) Partners(c *gin.Context) {
	partners, err := h.catalog.ListPartners(c.Request.Context(), c.Query("role"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, partners)
}
