package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	syncapp "github.com/wms/backend/internal/application/sync"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/interfaces/http/dto"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a 200 response with the given body
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// BadRequest sends a coded 400 rejection
func (h *BaseHandler) BadRequest(c *gin.Context, code string) {
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(code))
}

// NotFound sends a coded 404 rejection
func (h *BaseHandler) NotFound(c *gin.Context, code string) {
	c.JSON(http.StatusNotFound, dto.NewErrorResponse(code))
}

// HandleError maps service errors to wire rejections. Sync protocol
// errors keep their detail fields; soft rejections answer 200 with
// ok=false. Domain errors map by code; anything else is a 500.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	var syncErr *syncapp.Error
	if errors.As(err, &syncErr) {
		status := dto.StatusForCode(syncErr.Code)
		if syncErr.Soft {
			status = http.StatusOK
		}
		resp := dto.ErrorResponse{
			Ok:          false,
			Error:       syncErr.Error(),
			Missing:     syncErr.Missing,
			SampleCodes: syncErr.SampleCodes,
		}
		if len(syncErr.Matches) > 0 {
			resp.Matches = syncErr.Matches
		}
		c.JSON(status, resp)
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		c.JSON(dto.StatusForCode(domainErr.Code), dto.NewErrorResponse(domainErr.Code))
		return
	}

	c.Error(err)
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(dto.ErrCodeInternal))
}
