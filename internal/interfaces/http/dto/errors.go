package dto

import "net/http"

// Error codes shared between the sync services and the HTTP layer.
const (
	ErrCodeDocNotFound    = "DOC_NOT_FOUND"
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeInvalidRequest = "INVALID_REQUEST"
	ErrCodeInternal       = "INTERNAL_ERROR"
)

// statusByCode maps error codes that deviate from the default 400.
var statusByCode = map[string]int{
	ErrCodeDocNotFound: http.StatusNotFound,
	ErrCodeNotFound:    http.StatusNotFound,
	ErrCodeInternal:    http.StatusInternalServerError,
}

// StatusForCode returns the HTTP status an error code answers with.
// Unknown codes are client errors.
func StatusForCode(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusBadRequest
}

// NewErrorResponse builds the wire rejection shape for a plain code
func NewErrorResponse(code string) ErrorResponse {
	return ErrorResponse{Ok: false, Error: code}
}
