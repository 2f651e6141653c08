package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON         = "INVALID_JSON"
	ErrCodeInvalidParameter    = "INVALID_PARAMETER"
	ErrCodeMenuNotFound        = "MENU_NOT_FOUND"
	ErrCodeCheckoutNotFound    = "CHECKOUT_NOT_FOUND"
	ErrCodeJournalDisabled     = "JOURNAL_DISABLED"
	ErrCodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
	ErrCodeUpstreamRejected    = "UPSTREAM_REJECTED"
	ErrCodeUnauthorised        = "UNAUTHORIZED"
	ErrCodeSessionNotFound     = "SESSION_NOT_FOUND"
	ErrCodeRateLimited         = "RATE_LIMITED"
	ErrCodeInternalError       = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrMenuNotFound        = NewDomainError(ErrCodeMenuNotFound, "Menu item not found in catalogue")
	ErrCheckoutNotFound    = NewDomainError(ErrCodeCheckoutNotFound, "Checkout not found")
	ErrJournalDisabled     = NewDomainError(ErrCodeJournalDisabled, "Checkout journal is disabled")
	ErrUpstreamUnavailable = NewDomainError(ErrCodeUpstreamUnavailable, "Order service is unavailable")
	ErrSessionNotFound     = NewDomainError(ErrCodeSessionNotFound, "Session not found")
)
