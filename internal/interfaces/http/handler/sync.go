package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	syncapp "github.com/wms/backend/internal/application/sync"
	"github.com/wms/backend/internal/interfaces/http/dto"
)

// SyncHandler serves the idempotent scanner endpoints. Every mutation
// carries a client event ID; replays acknowledge without re-applying.
type SyncHandler struct {
	BaseHandler
	sync *syncapp.Service
}

// NewSyncHandler creates a sync handler
func NewSyncHandler(sync *syncapp.Service) *SyncHandler {
	return &SyncHandler{sync: sync}
}

// RegisterRoutes registers sync routes
func (h *SyncHandler) RegisterRoutes(rg *gin.RouterGroup) {
	docs := rg.Group("/docs")
	{
		docs.POST("", h.CreateDoc)
		docs.POST("/:doc_uid/lines", h.AddLine)
		docs.POST("/:doc_uid/close", h.CloseDoc)
	}
	rg.POST("/ops", h.ProcessOp)
}

// CreateDoc handles POST /api/docs
func (h *SyncHandler) CreateDoc(c *gin.Context) {
	var req dto.CreateDocRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, dto.ErrCodeInvalidRequest)
		return
	}

	info, err := h.sync.CreateDoc(c.Request.Context(), syncapp.CreateDocInput{
		DocUID:         req.DocUID,
		EventID:        req.EventID,
		DeviceID:       req.DeviceID,
		Type:           req.Type,
		DocRef:         req.DocRef,
		Comment:        req.Comment,
		PartnerID:      req.PartnerID,
		FromLocationID: req.FromLocationID,
		ToLocationID:   req.ToLocationID,
		FromHu:         req.FromHu,
		ToHu:           req.ToHu,
		DraftOnly:      req.DraftOnly,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	// A nil info is a replay acknowledged without document context
	if info == nil {
		h.Success(c, dto.OkResponse{Ok: true})
		return
	}
	h.Success(c, dto.DocResponse{Ok: true, Doc: info})
}

// AddLine handles POST /api/docs/:doc_uid/lines
func (h *SyncHandler) AddLine(c *gin.Context) {
	var req dto.AddLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, dto.ErrCodeInvalidRequest)
		return
	}

	line, err := h.sync.AddLine(c.Request.Context(), c.Param("doc_uid"), syncapp.AddLineInput{
		EventID:  req.EventID,
		DeviceID: req.DeviceID,
		ItemID:   req.ItemID,
		Barcode:  req.Barcode,
		Qty:      req.Qty,
		UomCode:  req.UomCode,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if line == nil {
		h.Success(c, dto.OkResponse{Ok: true})
		return
	}
	h.Success(c, dto.LineResponse{Ok: true, Line: line})
}

// CloseDoc handles POST /api/docs/:doc_uid/close
func (h *SyncHandler) CloseDoc(c *gin.Context) {
	var req dto.CloseDocRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, dto.ErrCodeInvalidRequest)
		return
	}

	info, err := h.sync.CloseDoc(c.Request.Context(), c.Param("doc_uid"), req.EventID, req.DeviceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.CloseResponse{
		Ok:       info.Closed,
		Closed:   info.Closed,
		DocRef:   info.DocRef,
		Warnings: info.Warnings,
		Errors:   info.Errors,
	})
}

// ProcessOp handles POST /api/ops, a single-shot scan operation that
// adds one line and closes the document immediately.
func (h *SyncHandler) ProcessOp(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.BadRequest(c, dto.ErrCodeInvalidRequest)
		return
	}

	if err := h.sync.ProcessOp(c.Request.Context(), raw); err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OkResponse{Ok: true})
}
