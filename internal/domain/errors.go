package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateName  = errors.New("name already exists")
	ErrOrderDelivered = errors.New("Cannot cancel delivered orders")
	ErrInvalidInput   = errors.New("invalid input")
)

// ValidationError carries a caller-facing message for a 400 response.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

// ErrInsufficientStock names the product so the message can be surfaced
// verbatim to the shopper.
type ErrInsufficientStock struct{ ProductName string }

func (e ErrInsufficientStock) Error() string {
	return fmt.Sprintf("Insufficient stock for %s", e.ProductName)
}

// ErrProductMissing is returned during order placement when a line item
// references an unknown product.
type ErrProductMissing struct{ ProductID string }

func (e ErrProductMissing) Error() string {
	return fmt.Sprintf("Product not found with ID: %s", e.ProductID)
}

// ErrCategoryInUse blocks category deletion while products reference it.
type ErrCategoryInUse struct{ Count int64 }

func (e ErrCategoryInUse) Error() string {
	return fmt.Sprintf("Cannot delete category. There are %d products associated with it.", e.Count)
}

// ErrInvalidTransition reports a status change the order state machine rejects.
type ErrInvalidTransition struct{ From, To OrderStatus }

func (e ErrInvalidTransition) Error() string {
	return fmt.Sprintf("Cannot change order status from %s to %s", e.From, e.To)
}
