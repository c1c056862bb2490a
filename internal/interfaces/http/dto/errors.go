package dto

import "net/http"

// Error codes not produced by the domain layer
const (
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// errorCodeHTTPStatus maps domain error codes to HTTP status codes. Codes
// not listed fall through to 500 so new domain errors fail loudly instead of
// leaking as false 4xx.
var errorCodeHTTPStatus = map[string]int{
	// Missing resources
	"NOT_FOUND":         http.StatusNotFound,
	"ORDER_NOT_FOUND":   http.StatusNotFound,
	"CART_NOT_FOUND":    http.StatusNotFound,
	"PRODUCT_NOT_FOUND": http.StatusNotFound,

	// Business rule violations
	"CART_EMPTY":             http.StatusUnprocessableEntity,
	"CART_ALREADY_PROCESSED": http.StatusUnprocessableEntity,
	"INSUFFICIENT_STOCK":     http.StatusUnprocessableEntity,
	"INVALID_TRANSITION":     http.StatusUnprocessableEntity,
	"INVALID_STATE":          http.StatusUnprocessableEntity,
	"GATEWAY_NOT_CONFIGURED": http.StatusUnprocessableEntity,

	// Bad input
	"INVALID_INPUT":             http.StatusBadRequest,
	"INVALID_PAYMENT_MODE":      http.StatusBadRequest,
	"INVALID_PAYMENT_SIGNATURE": http.StatusBadRequest,
	"INVALID_SHIPPING_COST":     http.StatusBadRequest,
	ErrCodeBadRequest:           http.StatusBadRequest,

	// Auth
	ErrCodeUnauthorized: http.StatusUnauthorized,

	// Upstream
	"GATEWAY_UNAVAILABLE": http.StatusBadGateway,

	ErrCodeInternal: http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status for a domain error code, defaulting
// to 500 for unknown codes
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
