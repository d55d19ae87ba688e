package dto

import (
	"net/http"
	"strings"
)

// Error codes returned in the response envelope.
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation covers request binding and allocation key mismatches
	ErrCodeValidation         = "ERR_VALIDATION"
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	ErrCodeValidationFormat   = "ERR_VALIDATION_FORMAT"
	ErrCodeValidationRange    = "ERR_VALIDATION_RANGE"
)

// Authentication error codes
const (
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
)

// Resource error codes
const (
	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Business rule error codes
const (
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeAllocationIncomplete is returned when an order enters processing
	// with allocated quantities that do not match the required ones
	ErrCodeAllocationIncomplete = "ERR_ALLOCATION_INCOMPLETE"
	ErrCodeInsufficientStock    = "ERR_INSUFFICIENT_STOCK"
)

// Input error codes
const (
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"
)

// Rate limiting error codes
const (
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationFormat:   http.StatusBadRequest,
	ErrCodeValidationRange:    http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	ErrCodeInvalidState:         http.StatusUnprocessableEntity,
	ErrCodeAllocationIncomplete: http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock:    http.StatusUnprocessableEntity,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,

	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Domain codes of the INVALID_<FIELD> family map to 400; anything else
// unknown is a 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// LegacyErrorCodeMapping maps domain error codes to API error codes
var LegacyErrorCodeMapping = map[string]string{
	"NOT_FOUND":             ErrCodeNotFound,
	"ALREADY_EXISTS":        ErrCodeAlreadyExists,
	"INVALID_INPUT":         ErrCodeInvalidInput,
	"INVALID_STATE":         ErrCodeInvalidState,
	"UNAUTHORIZED":          ErrCodeUnauthorized,
	"CONCURRENCY_CONFLICT":  ErrCodeConcurrencyConflict,
	"INSUFFICIENT_STOCK":    ErrCodeInsufficientStock,
	"VALIDATION_FAILED":     ErrCodeValidation,
	"ALLOCATION_INCOMPLETE": ErrCodeAllocationIncomplete,
	"RATE_LIMITED":          ErrCodeRateLimited,
	"BAD_REQUEST":           ErrCodeBadRequest,
	"INTERNAL_ERROR":        ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the API code.
// Field-level INVALID_* codes pass through unchanged so clients can tell
// which field was rejected.
func NormalizeErrorCode(code string) string {
	if newCode, ok := LegacyErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
