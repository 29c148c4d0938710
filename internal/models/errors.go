package models

import "errors"

// Sentinel errors shared across repositories and services. Callers match
// them with errors.Is.
var (
	ErrInvalidID       = errors.New("invalid id")
	ErrInvalidInput    = errors.New("invalid input")
	ErrUserNotFound    = errors.New("user not found")
	ErrProductNotFound = errors.New("product not found")
	ErrCartNotFound    = errors.New("cart not found")
	ErrTicketNotFound  = errors.New("ticket not found")

	// ErrCartNotOwned is returned when a user operates on a cart assigned
	// to someone else
	ErrCartNotOwned = errors.New("cart is not owned by this user")

	// ErrEmptyCart is returned when a checkout is attempted on a cart with
	// no line items
	ErrEmptyCart = errors.New("cart has no items")

	// ErrInsufficientStock is returned when a conditional stock decrement
	// cannot be satisfied
	ErrInsufficientStock = errors.New("insufficient stock")

	ErrDuplicateEntry = errors.New("duplicate entry")
	ErrUnauthorized   = errors.New("unauthorized")
)
