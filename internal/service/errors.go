package service

import "fmt"

// InvalidInputError covers malformed carts and user details: empty cart,
// missing name/email, bad email format, non-positive quantity. Surfaced
// verbatim to the caller with a 400.
type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string {
	return e.Message
}

func invalidInput(format string, args ...interface{}) *InvalidInputError {
	return &InvalidInputError{Message: fmt.Sprintf(format, args...)}
}

// InsufficientStockError rejects a cart line asking for more units than the
// resolved snapshot had available.
type InsufficientStockError struct {
	ProductName string
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock for %s. Available: %d", e.ProductName, e.Available)
}
