package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{"INVALID_MARKUP", http.StatusBadRequest},
		{"MISSING_SUPPLIER_MAPPING", http.StatusUnprocessableEntity},
		{"SUPPLIER_AUTH_FAILED", http.StatusBadGateway},
		{"SYNC_IN_PROGRESS", http.StatusConflict},
		{"ORDER_NOT_FOUND", http.StatusNotFound},
		{"NOT_FOUND", http.StatusNotFound},
		{"UNKNOWN_SETTING", http.StatusBadRequest},
		{"EMAIL_TAKEN", http.StatusConflict},
		{"ACCOUNT_PENDING_APPROVAL", http.StatusForbidden},
		{ErrCodeTokenRevoked, http.StatusUnauthorized},
		{"SOMETHING_NEW", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestValidationErrorResponse_JSON(t *testing.T) {
	resp := NewValidationErrorResponse("Request validation failed", "req-1", []ValidationDetail{
		{Field: "email", Message: "Invalid email format"},
	})

	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, false, decoded["success"])
	errObj := decoded["error"].(map[string]any)
	assert.Equal(t, ErrCodeValidation, errObj["code"])
	assert.Equal(t, "req-1", errObj["request_id"])
	assert.Len(t, errObj["details"], 1)
	assert.NotContains(t, decoded, "data")
}

func TestSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]int{1, 2}, 2, 50, 2)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Nil(t, resp.Error)
}
