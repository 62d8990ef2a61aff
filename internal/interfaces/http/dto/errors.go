package dto

import "net/http"

// Transport level error codes. Domain errors keep their own codes.
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeTokenExpired = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "INVALID_TOKEN"
	ErrCodeTokenRevoked = "TOKEN_REVOKED"
	ErrCodeUnavailable  = "SUPPLIER_UNAVAILABLE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeNotFound:     http.StatusNotFound,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,
	ErrCodeTokenRevoked: http.StatusUnauthorized,
	ErrCodeUnavailable:  http.StatusBadGateway,

	"ALREADY_EXISTS":       http.StatusConflict,
	"INVALID_INPUT":        http.StatusBadRequest,
	"CONCURRENCY_CONFLICT": http.StatusConflict,
	"INVALID_STATE":        http.StatusUnprocessableEntity,

	// pricing and catalog
	"INVALID_MARKUP":         http.StatusBadRequest,
	"INVALID_PRICE_OVERRIDE": http.StatusBadRequest,
	"INVALID_BASE_PRICE":     http.StatusBadRequest,
	"INVALID_PRODUCT_NAME":   http.StatusBadRequest,
	"UNKNOWN_SETTING":        http.StatusBadRequest,

	// orders
	"ORDER_NOT_FOUND":         http.StatusNotFound,
	"ORDER_ITEM_NOT_FOUND":    http.StatusNotFound,
	"INVALID_ORDER_STATUS":    http.StatusBadRequest,
	"INVALID_SYNC_STATUS":     http.StatusBadRequest,
	"INVALID_SHIPPING_METHOD": http.StatusBadRequest,
	"INVALID_QUANTITY":        http.StatusBadRequest,
	"INVALID_PRICE":           http.StatusBadRequest,
	"MISSING_CUSTOMER_NAME":   http.StatusBadRequest,
	"EMPTY_ORDER":             http.StatusBadRequest,
	"BELOW_MINIMUM_ORDER":     http.StatusUnprocessableEntity,
	"PRODUCT_SOLD_OUT":        http.StatusUnprocessableEntity,
	"PRODUCT_UNAVAILABLE":     http.StatusUnprocessableEntity,
	"ORDER_REF_CONFLICT":      http.StatusConflict,

	// supplier sync
	"MISSING_SUPPLIER_MAPPING": http.StatusUnprocessableEntity,
	"ORDER_HAS_NO_ITEMS":       http.StatusUnprocessableEntity,
	"SUPPLIER_AUTH_FAILED":     http.StatusBadGateway,
	"SYNC_IN_PROGRESS":         http.StatusConflict,

	// members
	"USER_NOT_FOUND":           http.StatusNotFound,
	"EMAIL_TAKEN":              http.StatusConflict,
	"INVALID_CREDENTIALS":      http.StatusUnauthorized,
	"ACCOUNT_PENDING_APPROVAL": http.StatusForbidden,
	"REFERRAL_REQUIRED":        http.StatusBadRequest,
	"CANNOT_REMOVE_ADMIN":      http.StatusBadRequest,
	"INVALID_EMAIL":            http.StatusBadRequest,
	"INVALID_NAME":             http.StatusBadRequest,
	"INVALID_PASSWORD":         http.StatusBadRequest,
}

// GetHTTPStatus returns the status for code, 500 when unknown
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
