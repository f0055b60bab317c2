package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is the application error type. Code maps directly onto the HTTP
// status the API boundary reports.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ValidationAppError creates a 400 error for malformed input
func ValidationAppError(message string, err error) *AppError {
	return NewAppError(http.StatusBadRequest, message, err)
}

// NotFoundAppError creates a 404 Not Found error
func NotFoundAppError(message string, err error) *AppError {
	return NewAppError(http.StatusNotFound, message, err)
}

// ForbiddenAppError creates a 403 Forbidden error
func ForbiddenAppError(message string, err error) *AppError {
	return NewAppError(http.StatusForbidden, message, err)
}

// ConflictAppError creates a 409 Conflict error, used for illegal state
// transitions, exhausted stock and exhausted coupons.
func ConflictAppError(message string, err error) *AppError {
	return NewAppError(http.StatusConflict, message, err)
}

// IntegrityAppError creates a 409 for integrity guards (webhook amount
// mismatch). Kept distinct from ConflictAppError at call sites so the
// condition is always logged before responding.
func IntegrityAppError(message string, err error) *AppError {
	return NewAppError(http.StatusConflict, message, err)
}

// ExternalServiceAppError creates a 502 for unreachable or timed-out
// collaborators; the caller may retry.
func ExternalServiceAppError(message string, err error) *AppError {
	return NewAppError(http.StatusBadGateway, message, err)
}

// GetAppError returns the AppError if the error is (or wraps) one.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Sentinel errors for the order/payment/refund core. Controllers match on
// these with errors.Is and translate via the embedded code.
var (
	ErrEmptyCart             = ValidationAppError("Cart is empty", nil)
	ErrOutOfStock            = ConflictAppError("Insufficient stock", nil)
	ErrInvalidShippingOption = ValidationAppError("Invalid shipping option", nil)
	ErrCouponNotFound        = NotFoundAppError("Coupon not found", nil)
	ErrCouponExpired         = ConflictAppError("Coupon has expired", nil)
	ErrCouponExhausted       = ConflictAppError("Coupon usage limit reached", nil)
	ErrAddressNotFound       = NotFoundAppError("Address not found", nil)
	ErrOrderNotFound         = NotFoundAppError("Order not found", nil)
	ErrIllegalTransition     = ConflictAppError("Illegal order status transition", nil)
	ErrAmountMismatch        = IntegrityAppError("Payment amount does not match order total", nil)
	ErrInvalidOrderState     = ConflictAppError("Order is not in a state that allows this operation", nil)
	ErrInvalidRefundQty      = ValidationAppError("Requested refund quantity exceeds ordered quantity", nil)
	ErrTotalOutOfRange       = ValidationAppError("Order total is outside the accepted range", nil)
	ErrForbidden             = ForbiddenAppError("You do not have access to this resource", nil)
)
