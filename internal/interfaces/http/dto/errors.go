package dto

import (
	"net/http"

	"github.com/pos/backend/internal/domain/shared"
)

// ErrCodeBadRequest is the code for malformed requests rejected before
// reaching the domain
const ErrCodeBadRequest = "BAD_REQUEST"

// ErrorCodeHTTPStatus maps domain error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	shared.CodeNotFound:     http.StatusNotFound,
	shared.CodeInvalidInput: http.StatusBadRequest,
	ErrCodeBadRequest:       http.StatusBadRequest,

	// Business rule errors -> 422 Unprocessable Entity
	shared.CodeInvalidPrice:      http.StatusUnprocessableEntity,
	shared.CodeValidationFailure: http.StatusUnprocessableEntity,
	shared.CodeInvalidState:      http.StatusUnprocessableEntity,

	// A pending submission rejects the duplicate attempt
	shared.CodeSubmissionInFlight: http.StatusConflict,

	// The gateway said no; the cart survives for retry
	shared.CodeSubmissionFailure: http.StatusBadGateway,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not found.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
