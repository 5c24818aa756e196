package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	huapp "github.com/wms/backend/internal/application/handling"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/interfaces/http/dto"
)

// HuHandler serves the handling unit registry.
type HuHandler struct {
	BaseHandler
	hus *huapp.Service
}

// NewHuHandler creates a handling unit handler
func NewHuHandler(hus *huapp.Service) *HuHandler {
	return &HuHandler{hus: hus}
}

// RegisterRoutes registers handling unit routes
func (h *HuHandler) RegisterRoutes(rg *gin.RouterGroup) {
	hus := rg.Group("/hus")
	{
		hus.GET("", h.List)
		hus.POST("/generate", h.Generate)
		hus.GET("/:code", h.Get)
		hus.GET("/:code/ledger", h.Ledger)
		hus.POST("/:code/close", h.Close)
	}
}

// List handles GET /api/hus
func (h *HuHandler) List(c *gin.Context) {
	take, _ := strconv.Atoi(c.DefaultQuery("take", "0"))
	hus, err := h.hus.List(c.Request.Context(), c.Query("search"), take)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, hus)
}

// Generate handles POST /api/hus/generate
func (h *HuHandler) Generate(c *gin.Context) {
	var req dto.GenerateHusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, dto.ErrCodeInvalidRequest)
		return
	}

	codes, err := h.hus.Generate(c.Request.Context(), req.Count, req.CreatedBy)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.HusResponse{Ok: true, Hus: codes})
}

// Get handles GET /api/hus/:code
func (h *HuHandler) Get(c *gin.Context) {
	hu, contents, err := h.hus.Get(c.Request.Context(), c.Param("code"))
	if err != nil {
		if shared.IsCode(err, "UNKNOWN_HU") {
			h.NotFound(c, "UNKNOWN_HU")
			return
		}
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"hu": hu, "contents": contents})
}

// Ledger handles GET /api/hus/:code/ledger
func (h *HuHandler) Ledger(c *gin.Context) {
	_, contents, err := h.hus.Get(c.Request.Context(), c.Param("code"))
	if err != nil {
		if shared.IsCode(err, "UNKNOWN_HU") {
			h.NotFound(c, "UNKNOWN_HU")
			return
		}
		h.HandleError(c, err)
		return
	}
	h.Success(c, contents)
}

// Close handles POST /api/hus/:code/close
func (h *HuHandler) Close(c *gin.Context) {
	var req dto.CloseHuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, dto.ErrCodeInvalidRequest)
		return
	}

	hu, err := h.hus.Close(c.Request.Context(), c.Param("code"), req.ClosedBy, req.Note)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"ok": true, "hu": hu})
}
