package dto

import (
	"net/http"

	"github.com/flockbooks/backend/internal/domain/accounting"
)

// Transport error codes. Domain errors keep the code of their
// shared.DomainError; these cover failures raised before a service runs.
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
	// ErrCodeValidation is used when request binding fails validation
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
	// ErrCodeRouteNotFound is used for unknown routes
	ErrCodeRouteNotFound = "ERR_ROUTE_NOT_FOUND"
)

// Shared domain codes.
const (
	CodeNotFound            = "NOT_FOUND"
	CodeAlreadyExists       = "ALREADY_EXISTS"
	CodeInvalidInput        = "INVALID_INPUT"
	CodeInvalidState        = "INVALID_STATE"
	CodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:      http.StatusInternalServerError,
	ErrCodeValidation:    http.StatusBadRequest,
	ErrCodeBadRequest:    http.StatusBadRequest,
	ErrCodeInvalidJSON:   http.StatusBadRequest,
	ErrCodeRouteNotFound: http.StatusNotFound,

	// Lookups -> 404
	CodeNotFound:                 http.StatusNotFound,
	accounting.CodeGroupNotFound: http.StatusNotFound,

	// Conflicting writes -> 409
	CodeAlreadyExists:       http.StatusConflict,
	CodeConcurrencyConflict: http.StatusConflict,

	// Malformed input -> 400
	CodeInvalidInput:                  http.StatusBadRequest,
	accounting.CodeInvalidBalanceType: http.StatusBadRequest,
	accounting.CodeInvalidAmount:      http.StatusBadRequest,
	accounting.CodeInvalidAccountKind: http.StatusBadRequest,
	accounting.CodeInvalidGroupType:   http.StatusBadRequest,
	accounting.CodeInvalidName:        http.StatusBadRequest,

	// Rule violations on valid input -> 422
	CodeInvalidState:                 http.StatusUnprocessableEntity,
	accounting.CodeGroupInactive:     http.StatusUnprocessableEntity,
	accounting.CodeInvalidParent:     http.StatusUnprocessableEntity,
	accounting.CodeCircularReference: http.StatusUnprocessableEntity,
	accounting.CodePredefinedGroup:   http.StatusUnprocessableEntity,
	accounting.CodeGroupNotEmpty:     http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
