package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/masala/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name     string
		pingErr  error
		status   int
		success  bool
		database string
	}{
		{"database up", nil, http.StatusOK, true, "up"},
		{"database down", errors.New("connection refused"), http.StatusServiceUnavailable, false, "down"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(pingerFunc(func(ctx context.Context) error {
				_, hasDeadline := ctx.Deadline()
				assert.True(t, hasDeadline)
				return tt.pingErr
			}))
			r := gin.New()
			r.GET("/health", h.Health)

			w := testutil.DoJSON(t, r, http.MethodGet, "/health", nil, nil)
			assert.Equal(t, tt.status, w.Code)
			env := testutil.Decode[HealthResponse](t, w)
			assert.Equal(t, tt.success, env.Success)
			assert.Equal(t, tt.database, env.Data.Database)
			assert.NotEmpty(t, env.Data.Version)
		})
	}
}
