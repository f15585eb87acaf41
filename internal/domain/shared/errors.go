package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
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

// Error codes used across the order-entry core
const (
	CodeInvalidPrice       = "INVALID_PRICE"
	CodeValidationFailure  = "VALIDATION_FAILURE"
	CodeSubmissionFailure  = "SUBMISSION_FAILURE"
	CodeIdentityResolution = "IDENTITY_RESOLUTION_FAILURE"
	CodeNotFound           = "NOT_FOUND"
	CodeInvalidInput       = "INVALID_INPUT"
	CodeInvalidState       = "INVALID_STATE"
	CodeSubmissionInFlight = "SUBMISSION_IN_FLIGHT"
)

// Common domain errors
var (
	ErrNotFound           = NewDomainError(CodeNotFound, "Resource not found")
	ErrInvalidInput       = NewDomainError(CodeInvalidInput, "Invalid input provided")
	ErrInvalidState       = NewDomainError(CodeInvalidState, "Operation not allowed in current state")
	ErrSubmissionInFlight = NewDomainError(CodeSubmissionInFlight, "A submission is already in progress for this cart")
)

// NewInvalidPriceError reports a product that cannot be sold at its current price.
func NewInvalidPriceError(productName string) *DomainError {
	return NewDomainError(CodeInvalidPrice, "Product \""+productName+"\" has no valid sale price")
}

// NewValidationError reports a failed checkout precondition.
func NewValidationError(message string) *DomainError {
	return NewDomainError(CodeValidationFailure, message)
}

// NewSubmissionError reports a rejected or failed invoice submission.
func NewSubmissionError(message string) *DomainError {
	if message == "" {
		message = "Invoice submission failed"
	}
	return NewDomainError(CodeSubmissionFailure, message)
}
