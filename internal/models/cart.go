package models

import (
	"errors"
	"time"
)

// Cart represents a shopping cart
type Cart struct {
	ID        int        `json:"id" db:"id"`
	Items     []CartItem `json:"items"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

// CartItem represents a line item in a shopping cart.
// Product is the resolved product record; it is nil when the referenced
// product no longer exists.
type CartItem struct {
	ProductID int      `json:"product_id" db:"product_id"`
	Quantity  int      `json:"quantity" db:"quantity"`
	Product   *Product `json:"product,omitempty"`
}

// CartItemRef is a line item as stored: a product reference and a quantity.
// Used when rewriting a cart's contents.
type CartItemRef struct {
	ProductID int `json:"product"`
	Quantity  int `json:"quantity"`
}

// Validate validates a stored line item reference
func (r *CartItemRef) Validate() error {
	if r.ProductID <= 0 {
		return errors.New("line item requires a product reference")
	}

	if r.Quantity < 0 {
		return errors.New("line item quantity cannot be negative")
	}

	return nil
}

// IsEmpty returns true if the cart has no line items
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// TotalItems returns the total quantity across all line items
func (c *Cart) TotalItems() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// Refs returns the cart's line items as stored references, preserving order
func (c *Cart) Refs() []CartItemRef {
	refs := make([]CartItemRef, 0, len(c.Items))
	for _, item := range c.Items {
		refs = append(refs, CartItemRef{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return refs
}
