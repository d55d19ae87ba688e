package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func ok(c *gin.Context) { c.String(http.StatusOK, c.FullPath()) }

func TestRouter_Prefix(t *testing.T) {
	assert.Equal(t, "/api", NewRouter(gin.New()).Prefix())
	assert.Equal(t, "/api/v2", NewRouter(gin.New(), WithAPIVersion("v2")).Prefix())
}

func TestRouter_SetupMountsGroups(t *testing.T) {
	engine := gin.New()
	var seen []string
	r := NewRouter(engine).Use(func(c *gin.Context) {
		seen = append(seen, "api")
		c.Next()
	})

	orders := NewDomainGroup("orders", "/orders").
		GET("", ok).
		POST("/:id/allocations", ok).
		PUT("/:id/status", ok)
	orders.Group("notes", "/:id/notes").
		Use(func(c *gin.Context) {
			seen = append(seen, "notes")
			c.Next()
		}).
		GET("", ok)
	r.Register(orders).Setup()

	assert.Equal(t, "orders", orders.Name())
	assert.Equal(t, "/orders", orders.Prefix())

	tests := []struct {
		method string
		path   string
		want   string
	}{
		{http.MethodGet, "/api/orders", "/api/orders"},
		{http.MethodPost, "/api/orders/1/allocations", "/api/orders/:id/allocations"},
		{http.MethodPut, "/api/orders/1/status", "/api/orders/:id/status"},
		{http.MethodGet, "/api/orders/1/notes", "/api/orders/:id/notes"},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
		assert.Equal(t, http.StatusOK, w.Code, tt.path)
		assert.Equal(t, tt.want, w.Body.String())
	}
	assert.Equal(t, []string{"api", "api", "api", "api", "notes"}, seen)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
