package shared

import "errors"

// DomainError represents a domain-level error with a stable machine code.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *DomainError) Error() string { return e.Message }

func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// Common domain errors
var (
	ErrNotFound          = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists     = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput      = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrDocNotFound       = NewDomainError("DOC_NOT_FOUND", "Document not found")
	ErrDocNotDraft       = NewDomainError("DOC_NOT_DRAFT", "Document is not in draft status")
	ErrDocAlreadyClosed  = NewDomainError("DOC_ALREADY_CLOSED", "Document is already closed")
	ErrDocRefExists      = NewDomainError("DOC_REF_EXISTS", "Document reference is already in use")
	ErrInsufficientStock = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrHuNotUsable       = NewDomainError("HU_NOT_USABLE", "Handling unit is not usable")
)

// IsCode reports whether err carries a DomainError with the given code
// anywhere in its chain.
func IsCode(err error, code string) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Code == code
}
