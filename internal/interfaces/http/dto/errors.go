package dto

import "net/http"

// Error codes produced by the HTTP layer itself. Domain errors keep the code
// they were raised with.
const (
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeInvalidInput    = "INVALID_INPUT"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeTokenExpired    = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid    = "TOKEN_INVALID"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeRateLimited     = "RATE_LIMIT_EXCEEDED"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	ErrCodeUnavailable     = "SERVICE_UNAVAILABLE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP statuses
var ErrorCodeHTTPStatus = map[string]int{
	// validation
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	"INVALID_EMAIL":     http.StatusBadRequest,
	"WEAK_PASSWORD":     http.StatusBadRequest,
	"INVALID_SIZE":      http.StatusBadRequest,
	"CART_EMPTY":        http.StatusBadRequest,
	"INVALID_STATUS":    http.StatusBadRequest,
	"INVALID_SIGNATURE": http.StatusBadRequest,

	// state
	"INVALID_STATUS_TRANSITION": http.StatusUnprocessableEntity,
	"INVALID_STATE":             http.StatusConflict,

	// not found
	ErrCodeNotFound:          http.StatusNotFound,
	"USER_NOT_FOUND":         http.StatusNotFound,
	"PRODUCT_NOT_FOUND":      http.StatusNotFound,
	"ORDER_NOT_FOUND":        http.StatusNotFound,
	"OUTBOX_ENTRY_NOT_FOUND": http.StatusNotFound,

	// auth
	ErrCodeUnauthorized:   http.StatusUnauthorized,
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	ErrCodeTokenExpired:   http.StatusUnauthorized,
	ErrCodeTokenInvalid:   http.StatusUnauthorized,
	ErrCodeForbidden:      http.StatusForbidden,

	// conflict
	"USER_EXISTS":          http.StatusConflict,
	"ALREADY_EXISTS":       http.StatusConflict,
	"CART_CONFLICT":        http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,
	"DUPLICATE_REQUEST":    http.StatusConflict,

	// upstream
	"PAYMENT_GATEWAY_ERROR": http.StatusBadGateway,
	"EMAIL_DELIVERY_FAILED": http.StatusBadGateway,
	"STORAGE_ERROR":         http.StatusBadGateway,

	// throttling and limits
	ErrCodeRateLimited:     http.StatusTooManyRequests,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeUnavailable:     http.StatusServiceUnavailable,

	ErrCodeInternal: http.StatusInternalServerError,
}

// GetHTTPStatus returns the status for code, or 500 for unknown codes
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
