package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TicketStatus represents the status of a purchase ticket
type TicketStatus string

const (
	TicketCompleted TicketStatus = "completed"
	TicketPartial   TicketStatus = "partial"
	TicketCancelled TicketStatus = "cancelled"
)

// Ticket represents the immutable record of a completed or partial purchase
type Ticket struct {
	ID           int          `json:"id" db:"id"`
	Code         string       `json:"code" db:"code"`
	UserID       int          `json:"user_id" db:"user_id"`
	Items        []TicketItem `json:"products"`
	Total        int          `json:"total" db:"total"` // Total in cents
	Status       TicketStatus `json:"status" db:"status"`
	PurchaseDate time.Time    `json:"purchase_date" db:"purchase_date"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
}

// TicketItem represents a purchased line item. UnitPrice is the product
// price at the moment of checkout; it is never revalidated later.
type TicketItem struct {
	ProductID int    `json:"product_id" db:"product_id"`
	Title     string `json:"title" db:"title"`
	Quantity  int    `json:"quantity" db:"quantity"`
	UnitPrice int    `json:"unit_price" db:"unit_price"` // in cents
}

// TicketCreateRequest represents the data needed to record a purchase
type TicketCreateRequest struct {
	UserID int
	Items  []TicketItem
	Total  int
	Status TicketStatus
}

// Validate validates ticket creation data
func (req *TicketCreateRequest) Validate() error {
	if req.UserID <= 0 {
		return errors.New("ticket requires an owning user")
	}

	if len(req.Items) == 0 {
		return errors.New("ticket requires at least one purchased item")
	}

	for _, item := range req.Items {
		if item.ProductID <= 0 {
			return errors.New("ticket item requires a product reference")
		}
		if item.Quantity < 1 {
			return errors.New("ticket item quantity must be at least 1")
		}
	}

	if req.Total < 0 {
		return errors.New("ticket total cannot be negative")
	}

	switch req.Status {
	case TicketCompleted, TicketPartial, TicketCancelled:
		return nil
	default:
		return errors.New("invalid ticket status")
	}
}

// GenerateTicketCode generates a unique human-readable ticket code
func GenerateTicketCode() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return "TICKET-" + raw[:16]
}

// ItemCount returns the total purchased quantity across all items
func (t *Ticket) ItemCount() int {
	count := 0
	for _, item := range t.Items {
		count += item.Quantity
	}
	return count
}

// Subtotal returns the line subtotal in cents
func (i TicketItem) Subtotal() int {
	return i.UnitPrice * i.Quantity
}

// TotalInCurrency returns the total in the main currency as a float
func (t *Ticket) TotalInCurrency() float64 {
	return float64(t.Total) / 100.0
}

// IsCompleted returns true if every requested item was purchased
func (t *Ticket) IsCompleted() bool {
	return t.Status == TicketCompleted
}
