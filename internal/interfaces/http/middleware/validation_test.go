package middleware

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/masala/backend/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testLine struct {
	Batch    string          `json:"batch" binding:"required"`
	Quantity decimal.Decimal `json:"quantity" binding:"gt=0"`
}

type testRequest struct {
	Lines []testLine `json:"lines" binding:"required,min=1,dive"`
}

func TestValidation_ReportsJSONFieldPaths(t *testing.T) {
	SetupValidator()
	r := gin.New()
	r.Use(RequestID())
	r.POST("/x", func(c *gin.Context) {
		var req testRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})

	w := perform(r, http.MethodPost, "/x", `{"lines":[{"batch":"","quantity":"0"}]}`, nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"lines[0].batch"`)
	assert.Contains(t, w.Body.String(), `"field":"lines[0].quantity"`)
	assert.Contains(t, w.Body.String(), dto.ErrCodeValidation)

	w = perform(r, http.MethodPost, "/x", `{"lines":[{"batch":"B1","quantity":"1.5"}]}`, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestFormatValidationErrors_MalformedJSON(t *testing.T) {
	resp := FormatValidationErrors(errors.New("unexpected EOF"), "req-9")

	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeInvalidJSON, resp.Error.Code)
	assert.Equal(t, "req-9", resp.Error.RequestID)
}
