package models

import "fmt"

// Error codes used in API responses and internal error handling.
const (
	ErrCodeTimeout       = "EXTRACT_TIMEOUT"
	ErrCodeNavigation    = "NAVIGATION_FAILED"
	ErrCodeBotBlocked    = "BOT_BLOCKED"
	ErrCodeNotFound      = "PAGE_NOT_FOUND"
	ErrCodePriceNotFound = "PRICE_NOT_FOUND"
	ErrCodeBrowserCrash  = "BROWSER_CRASH"
	ErrCodeInvalidInput  = "INVALID_INPUT"
	ErrCodeRateLimited   = "RATE_LIMITED"
	ErrCodeInternal      = "INTERNAL_ERROR"
)

// ExtractError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type ExtractError struct {
	Code    string
	Message string
	Err     error // wrapped original error
}

func (e *ExtractError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ExtractError) Unwrap() error {
	return e.Err
}

// NewExtractError creates a new ExtractError.
func NewExtractError(code, message string, err error) *ExtractError {
	return &ExtractError{Code: code, Message: message, Err: err}
}

// Terminal reports whether the error category must never be retried:
// 404 pages, invalid input, and a bot block that survived every backend.
func (e *ExtractError) Terminal() bool {
	switch e.Code {
	case ErrCodeNotFound, ErrCodeInvalidInput, ErrCodeBotBlocked:
		return true
	}
	return false
}

// AsExtractError coerces any error into an ExtractError, wrapping unknown
// errors under ErrCodeInternal.
func AsExtractError(err error) *ExtractError {
	if ee, ok := err.(*ExtractError); ok {
		return ee
	}
	return NewExtractError(ErrCodeInternal, err.Error(), err)
}
