package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	docapp "github.com/wms/backend/internal/application/document"
	"github.com/wms/backend/internal/domain/document"
	"github.com/wms/backend/internal/interfaces/http/dto"
)

// DocHandler serves back-office document reads.
type DocHandler struct {
	BaseHandler
	docs *docapp.Service
}

// NewDocHandler creates a document read handler
func NewDocHandler(docs *docapp.Service) *DocHandler {
	return &DocHandler{docs: docs}
}

// RegisterRoutes registers document read routes
func (h *DocHandler) RegisterRoutes(rg *gin.RouterGroup) {
	docs := rg.Group("/docs")
	{
		docs.GET("", h.List)
		docs.GET("/next-ref", h.NextRef)
		docs.GET("/:doc_uid", h.Get)
		docs.GET("/:doc_uid/lines", h.Lines)
	}
}

// List handles GET /api/docs
func (h *DocHandler) List(c *gin.Context) {
	var docType document.DocType
	if t := c.Query("type"); t != "" {
		parsed, ok := document.ParseDocType(t)
		if !ok {
			h.BadRequest(c, "INVALID_TYPE")
			return
		}
		docType = parsed
	}

	take, _ := strconv.Atoi(c.DefaultQuery("take", "100"))
	docs, err := h.docs.ListDocs(c.Request.Context(), docType, take)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, docs)
}

// NextRef handles GET /api/docs/next-ref
func (h *DocHandler) NextRef(c *gin.Context) {
	docType, ok := document.ParseDocType(c.Query("type"))
	if !ok {
		h.BadRequest(c, "INVALID_TYPE")
		return
	}

	ref, err := h.docs.NextRef(c.Request.Context(), docType)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"doc_ref": ref})
}

// Get handles GET /api/docs/:doc_uid (numeric document id)
func (h *DocHandler) Get(c *gin.Context) {
	docID, err := strconv.ParseInt(c.Param("doc_uid"), 10, 64)
	if err != nil {
		h.BadRequest(c, dto.ErrCodeInvalidRequest)
		return
	}

	doc, lines, err := h.docs.GetDoc(c.Request.Context(), docID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"doc": doc, "lines": lines})
}

// Lines handles GET /api/docs/:doc_uid/lines
func (h *DocHandler) Lines(c *gin.Context) {
	docID, err := strconv.ParseInt(c.Param("doc_uid"), 10, 64)
	if err != nil {
		h.BadRequest(c, dto.ErrCodeInvalidRequest)
		return
	}

	_, lines, err := h.docs.GetDoc(c.Request.Context(), docID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, lines)
}
