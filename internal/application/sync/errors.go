package sync

// LocationMatch describes one candidate when a scanned location code
// resolves ambiguously.
type LocationMatch struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name,omitempty"`
}

// Error is a sync protocol rejection. Code is the stable wire code;
// the optional fields carry the details terminals display to pickers.
type Error struct {
	Code string

	// Missing names the handling unit fields that failed lookup.
	Missing []string

	// Matches and SampleCodes accompany location resolution failures.
	Matches     []LocationMatch
	SampleCodes []string

	// Message overrides Code in the wire error field when set.
	Message string

	// Soft rejections answer HTTP 200 with ok=false: the request was
	// understood and processed, the operation itself was refused.
	Soft bool
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}

// NewError creates a plain coded rejection.
func NewError(code string) *Error {
	return &Error{Code: code}
}

// NotFound reports whether the rejection maps to HTTP 404.
func (e *Error) NotFound() bool {
	return e.Code == "DOC_NOT_FOUND"
}
