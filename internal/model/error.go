package model

import (
	"errors"
	"fmt"
)

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Standard error codes shared by the service layer and API responses.
const (
	ErrCodeOrderNotFound     = "ORDER_NOT_FOUND"
	ErrCodeMenuItemNotFound  = "MENU_ITEM_NOT_FOUND"
	ErrCodeInventoryNotFound = "INVENTORY_NOT_FOUND"
	ErrCodeInvalidArgument   = "INVALID_ARGUMENT"
	ErrCodeInsufficientStock = "INSUFFICIENT_STOCK"
	ErrCodeNotModifiable     = "NOT_MODIFIABLE"
	ErrCodeInvalidTransition = "INVALID_TRANSITION"
	ErrCodeItemNotInOrder    = "ITEM_NOT_IN_ORDER"
	ErrCodeEmptyOrder        = "EMPTY_ORDER"
	ErrCodeBusy              = "BUSY"
	ErrCodeConflict          = "CONFLICT"
	ErrCodeUnauthorised      = "UNAUTHORIZED"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// DomainError is a business-logic failure identified by a stable code.
// Two domain errors match under errors.Is when their codes are equal, so
// callers can compare against the sentinels below regardless of message.
type DomainError struct {
	Code    string
	Message string
	cause   error
}

func (e *DomainError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, if any.
func (e *DomainError) Unwrap() error {
	return e.cause
}

// Is reports whether target is a domain error with the same code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapDomainError creates a domain error that keeps cause in the chain.
func WrapDomainError(code string, cause error, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Errorf creates a domain error with a formatted message.
func Errorf(code, format string, args ...any) *DomainError {
	return NewDomainError(code, fmt.Sprintf(format, args...))
}

// Common domain errors
var (
	ErrOrderNotFound     = NewDomainError(ErrCodeOrderNotFound, "order not found")
	ErrMenuItemNotFound  = NewDomainError(ErrCodeMenuItemNotFound, "menu item not found")
	ErrInventoryNotFound = NewDomainError(ErrCodeInventoryNotFound, "inventory record not found")
	ErrInvalidArgument   = NewDomainError(ErrCodeInvalidArgument, "invalid argument")
	ErrInvalidQuantity   = NewDomainError(ErrCodeInvalidArgument, "quantity must be between 1 and 2147483647")
	ErrInsufficientStock = NewDomainError(ErrCodeInsufficientStock, "insufficient stock")
	ErrNotModifiable     = NewDomainError(ErrCodeNotModifiable, "order can no longer be modified")
	ErrInvalidTransition = NewDomainError(ErrCodeInvalidTransition, "order status transition not allowed")
	ErrItemNotInOrder    = NewDomainError(ErrCodeItemNotInOrder, "item not found in order")
	ErrEmptyOrder        = NewDomainError(ErrCodeEmptyOrder, "order has no items")
	ErrBusy              = NewDomainError(ErrCodeBusy, "resource busy, try again")
	ErrConflict          = NewDomainError(ErrCodeConflict, "concurrent modification detected")
)

// CodeOf returns the domain code carried by err, or ErrCodeInternalError.
func CodeOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ErrCodeInternalError
}
