package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// apiStub answers every request with status and counts requests
func apiStub(t *testing.T, status int) *atomic.Int32 {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)

	t.Chdir(t.TempDir())
	t.Setenv("MASALA_CLIENT_BASE_URL", srv.URL)
	return &hits
}

func TestRun_UnknownCommandMakesNoRequests(t *testing.T) {
	hits := apiStub(t, http.StatusOK)
	var out bytes.Buffer

	err := run(context.Background(), "allocate", []string{"-order", uuid.NewString()}, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown command "allocate"`)
	assert.Contains(t, out.String(), "Usage:")
	assert.Zero(t, hits.Load())
}

func TestRun_ApplyWithoutPlanMakesNoRequests(t *testing.T) {
	hits := apiStub(t, http.StatusOK)

	err := run(context.Background(), "apply", []string{"-order", uuid.NewString()}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "-plan is required")
	assert.Zero(t, hits.Load())
}

func TestRun_OrderFetchFailureIsReportedAsWarning(t *testing.T) {
	hits := apiStub(t, http.StatusNotFound)
	var out bytes.Buffer

	err := run(context.Background(), "show", []string{"-order", uuid.NewString()}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Could not load order details")
	assert.NotZero(t, hits.Load())
}
