package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Envelope mirrors the API response envelope with a typed data field
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Message string `json:"message"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Meta *struct {
		Total      int64 `json:"total"`
		Page       int   `json:"page"`
		PageSize   int   `json:"page_size"`
		TotalPages int   `json:"total_pages"`
	} `json:"meta"`
}

// DoJSON sends body (marshalled unless it is already a string) to handler
func DoJSON(t *testing.T, handler http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err, "Failed to marshal request body")
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

// Decode parses the response envelope
func Decode[T any](t *testing.T, w *httptest.ResponseRecorder) Envelope[T] {
	t.Helper()

	var env Envelope[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "Failed to parse JSON response: %s", w.Body.String())
	return env
}

// RequireSuccess asserts status and a successful envelope, returning its data
func RequireSuccess[T any](t *testing.T, w *httptest.ResponseRecorder, status int) T {
	t.Helper()

	require.Equal(t, status, w.Code, "Unexpected status code: %s", w.Body.String())
	env := Decode[T](t, w)
	require.True(t, env.Success, "Expected success to be true")
	assert.Nil(t, env.Error, "Expected no error")
	return env.Data
}

// AssertErrorResponse asserts status, a failed envelope and the error code,
// returning the error message.
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, status int, code string) string {
	t.Helper()

	assert.Equal(t, status, w.Code, "Unexpected status code: %s", w.Body.String())
	env := Decode[json.RawMessage](t, w)
	assert.False(t, env.Success, "Expected success to be false")
	require.NotNil(t, env.Error, "Expected error object in response")
	assert.Equal(t, code, env.Error.Code, "Unexpected error code")
	assert.Equal(t, env.Error.Message, env.Message, "Top-level message should repeat the error message")
	return env.Error.Message
}
