package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lineReq struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

type cartReq struct {
	Email string    `json:"email" binding:"required,email"`
	Items []lineReq `json:"items" binding:"required,min=1,dive"`
}

func TestValidationDetails(t *testing.T) {
	SetupValidator()

	var bindErr error
	r := gin.New()
	r.POST("/x", func(c *gin.Context) {
		var req cartReq
		bindErr = c.ShouldBindJSON(&req)
		c.Status(http.StatusNoContent)
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/x",
		strings.NewReader(`{"email":"nope","items":[{"quantity":0}]}`)))

	details := ValidationDetails(bindErr)
	require.Len(t, details, 2)
	assert.Equal(t, "email", details[0].Field)
	assert.Equal(t, "Invalid email format", details[0].Message)
	assert.Equal(t, "items[0].quantity", details[1].Field)
	assert.Equal(t, "This field is required", details[1].Message)

	assert.Nil(t, ValidationDetails(errors.New("unexpected EOF")))
}
