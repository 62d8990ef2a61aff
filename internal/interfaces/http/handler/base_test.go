package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/integration"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newContext(method, body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.RequestIDKey, "req-1")
	return c, w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) *dto.ErrorInfo {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	return resp.Error
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{
			name:       "domain error",
			err:        catalog.ErrInvalidMarkup,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_MARKUP",
		},
		{
			name:       "detailed domain error keeps its message",
			err:        shared.ErrNotFound.Withf("Product %s not found", "abc"),
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
			wantMsg:    "Product abc not found",
		},
		{
			name:       "missing supplier mapping names the products",
			err:        integration.NewMissingSupplierMappingError([]string{"Whey", "Creatine"}),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "MISSING_SUPPLIER_MAPPING",
			wantMsg:    "Missing supplier IDs for: Whey, Creatine",
		},
		{
			name:       "wrapped supplier auth failure",
			err:        fmt.Errorf("%w: %w", integration.ErrSupplierAuthFailed, integration.ErrRemoteTimeout),
			wantStatus: http.StatusBadGateway,
			wantCode:   "SUPPLIER_AUTH_FAILED",
		},
		{
			name:       "sync in progress",
			err:        integration.ErrSyncInProgress,
			wantStatus: http.StatusConflict,
			wantCode:   "SYNC_IN_PROGRESS",
		},
		{
			name:       "supplier transport failure",
			err:        fmt.Errorf("%w: connection refused", integration.ErrSupplierUnavailable),
			wantStatus: http.StatusBadGateway,
			wantCode:   dto.ErrCodeUnavailable,
		},
		{
			name:       "unknown error hides details",
			err:        errors.New("pq: connection reset"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   dto.ErrCodeInternal,
			wantMsg:    "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newContext(http.MethodGet, "")
			h := &BaseHandler{}
			h.HandleError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			info := decodeError(t, w)
			assert.Equal(t, tt.wantCode, info.Code)
			assert.Equal(t, "req-1", info.RequestID)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, info.Message)
			}
		})
	}
}

func TestBindJSON(t *testing.T) {
	middleware.SetupValidator()
	type body struct {
		Name  string `json:"name" binding:"required"`
		Count int    `json:"count" binding:"min=1"`
	}
	h := &BaseHandler{}

	t.Run("valid", func(t *testing.T) {
		c, _ := newContext(http.MethodPost, `{"name":"x","count":2}`)
		var b body
		assert.True(t, h.BindJSON(c, &b))
		assert.Equal(t, "x", b.Name)
	})

	t.Run("validation details", func(t *testing.T) {
		c, w := newContext(http.MethodPost, `{"count":0}`)
		var b body
		assert.False(t, h.BindJSON(c, &b))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		info := decodeError(t, w)
		assert.Equal(t, dto.ErrCodeValidation, info.Code)
		require.Len(t, info.Details, 2)
		assert.Equal(t, "name", info.Details[0].Field)
	})

	t.Run("malformed json", func(t *testing.T) {
		c, w := newContext(http.MethodPost, `{"name":`)
		var b body
		assert.False(t, h.BindJSON(c, &b))
		assert.Equal(t, dto.ErrCodeBadRequest, decodeError(t, w).Code)
	})
}

func TestParamUUID(t *testing.T) {
	h := &BaseHandler{}
	c, w := newContext(http.MethodGet, "")
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}
	_, ok := h.ParamUUID(c, "id")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPageFilter(t *testing.T) {
	f := pageFilter(0, 0)
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 50, f.PageSize)

	f = pageFilter(3, 9999)
	assert.Equal(t, 3, f.Page)
	assert.Equal(t, 500, f.PageSize)
	assert.Equal(t, 1000, f.Offset())
}

type stubPinger struct{ err error }

func (p stubPinger) Ping() error { return p.err }

func TestSystemHandler_Health(t *testing.T) {
	c, w := newContext(http.MethodGet, "")
	NewSystemHandler("1.0.0", stubPinger{}).Health(c)
	assert.Equal(t, http.StatusOK, w.Code)

	c, w = newContext(http.MethodGet, "")
	NewSystemHandler("1.0.0", stubPinger{err: errors.New("down")}).Health(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "unreachable")
}
