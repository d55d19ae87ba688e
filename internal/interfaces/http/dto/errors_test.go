package dto

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeUnknown, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeTokenExpired, http.StatusUnauthorized},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeConcurrencyConflict, http.StatusConflict},
		{ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{ErrCodeAllocationIncomplete, http.StatusUnprocessableEntity},
		{ErrCodeInsufficientStock, http.StatusUnprocessableEntity},
		{ErrCodeInvalidJSON, http.StatusBadRequest},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		// field-level domain codes
		{"INVALID_QUANTITY", http.StatusBadRequest},
		{"INVALID_ITEM_KEY", http.StatusBadRequest},
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"NOT_FOUND", ErrCodeNotFound},
		{"ALREADY_EXISTS", ErrCodeAlreadyExists},
		{"INVALID_STATE", ErrCodeInvalidState},
		{"VALIDATION_FAILED", ErrCodeValidation},
		{"ALLOCATION_INCOMPLETE", ErrCodeAllocationIncomplete},
		{"CONCURRENCY_CONFLICT", ErrCodeConcurrencyConflict},
		{"RATE_LIMITED", ErrCodeRateLimited},
		{"INVALID_BATCH", "INVALID_BATCH"},
		{ErrCodeNotFound, ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.input))
		})
	}
}

func TestErrorCodeFormat(t *testing.T) {
	for code := range ErrorCodeHTTPStatus {
		assert.True(t, strings.HasPrefix(code, "ERR_"), "code %s should start with ERR_", code)
		assert.Equal(t, strings.ToUpper(code), code)
	}
	for legacy, code := range LegacyErrorCodeMapping {
		_, ok := ErrorCodeHTTPStatus[code]
		assert.True(t, ok, "mapping for %s targets unknown code %s", legacy, code)
	}
}

func TestNewErrorResponse(t *testing.T) {
	resp := NewErrorResponse(ErrCodeNotFound, "order not found")

	assert.False(t, resp.Success)
	assert.Equal(t, "order not found", resp.Message)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "order not found", resp.Error.Message)
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeInternal, "boom", "req-1")
	require.NotNil(t, resp.Error)
	assert.Equal(t, "req-1", resp.Error.RequestID)
}

func TestNewValidationErrorResponse(t *testing.T) {
	details := []ValidationDetail{{Field: "allocations", Message: "allocations is required", Tag: "required"}}
	resp := NewValidationErrorResponse("Validation failed", "req-2", details)

	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, details, resp.Error.Details)
}

func TestErrorResponseJSON(t *testing.T) {
	raw, err := json.Marshal(NewErrorResponse("INVALID_QUANTITY", "quantity must be positive"))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, false, decoded["success"])
	assert.Equal(t, "quantity must be positive", decoded["message"])
	assert.NotContains(t, decoded, "data")
	errObj := decoded["error"].(map[string]any)
	assert.Equal(t, "INVALID_QUANTITY", errObj["code"])
	assert.NotContains(t, errObj, "details")
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	tests := []struct {
		total    int64
		pageSize int
		pages    int
	}{
		{0, 20, 0},
		{20, 20, 1},
		{21, 20, 2},
		{5, 0, 0},
	}
	for _, tt := range tests {
		resp := NewSuccessResponseWithMeta([]string{}, tt.total, 1, tt.pageSize)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, tt.pages, resp.Meta.TotalPages)
		assert.True(t, resp.Success)
	}
}
