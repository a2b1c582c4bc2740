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
		code   string
		status int
	}{
		{"INVALID_EMAIL", http.StatusBadRequest},
		{"CART_EMPTY", http.StatusBadRequest},
		{"INVALID_SIGNATURE", http.StatusBadRequest},
		{"INVALID_STATUS_TRANSITION", http.StatusUnprocessableEntity},
		{"INVALID_STATE", http.StatusConflict},
		{"PRODUCT_NOT_FOUND", http.StatusNotFound},
		{"INVALID_CREDENTIALS", http.StatusUnauthorized},
		{"FORBIDDEN", http.StatusForbidden},
		{"USER_EXISTS", http.StatusConflict},
		{"CART_CONFLICT", http.StatusConflict},
		{"PAYMENT_GATEWAY_ERROR", http.StatusBadGateway},
		{"EMAIL_DELIVERY_FAILED", http.StatusBadGateway},
		{"RATE_LIMIT_EXCEEDED", http.StatusTooManyRequests},
		{"REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge},
		{"INTERNAL_ERROR", http.StatusInternalServerError},
		{"SOMETHING_NEW", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.status, GetHTTPStatus(tt.code))
		})
	}
}

func TestNewSuccessResponse_JSON(t *testing.T) {
	data, err := json.Marshal(NewSuccessResponse(map[string]int{"count": 2}))
	require.NoError(t, err)

	assert.JSONEq(t, `{"success":true,"data":{"count":2}}`, string(data))
}

func TestNewErrorResponseWithRequestID_JSON(t *testing.T) {
	data, err := json.Marshal(NewErrorResponseWithRequestID("USER_EXISTS", "User already exists", "req-1"))
	require.NoError(t, err)

	assert.JSONEq(t, `{"success":false,"error":{"code":"USER_EXISTS","message":"User already exists","request_id":"req-1"}}`, string(data))
}

func TestNewValidationErrorResponse(t *testing.T) {
	resp := NewValidationErrorResponse("Request validation failed", "req-2", []ValidationDetail{
		{Field: "email", Message: "must be a valid email address"},
	})

	assert.False(t, resp.Success)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-2", resp.Error.RequestID)
	require.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "email", resp.Error.Details[0].Field)
}
