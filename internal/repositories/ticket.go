package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"kingtires/internal/models"
)

// TicketRepository handles purchase ticket persistence. Tickets are
// append-only: they are created once at checkout and never rewritten.
type TicketRepository struct {
	db *sql.DB
}

// NewTicketRepository creates a new ticket repository
func NewTicketRepository(db *sql.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

// Create records a purchase ticket and its items in one transaction
func (r *TicketRepository) Create(req *models.TicketCreateRequest) (*models.Ticket, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Ensure the generated code is unique (retry on collision)
	code := models.GenerateTicketCode()
	for i := 0; i < 5; i++ {
		var exists bool
		if err := tx.QueryRow("SELECT EXISTS(SELECT 1 FROM tickets WHERE code = $1)", code).Scan(&exists); err != nil {
			return nil, fmt.Errorf("failed to check ticket code uniqueness: %w", err)
		}
		if !exists {
			break
		}
		code = models.GenerateTicketCode()
	}

	now := time.Now()
	ticket := &models.Ticket{}

	err = tx.QueryRow(`
		INSERT INTO tickets (code, user_id, total, status, purchase_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING id, code, user_id, total, status, purchase_date, created_at`,
		code, req.UserID, req.Total, req.Status, now,
	).Scan(
		&ticket.ID,
		&ticket.Code,
		&ticket.UserID,
		&ticket.Total,
		&ticket.Status,
		&ticket.PurchaseDate,
		&ticket.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}

	for i, item := range req.Items {
		_, err := tx.Exec(`
			INSERT INTO ticket_items (ticket_id, product_id, title, quantity, unit_price, position)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			ticket.ID, item.ProductID, item.Title, item.Quantity, item.UnitPrice, i,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create ticket item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit ticket creation: %w", err)
	}

	ticket.Items = append([]models.TicketItem(nil), req.Items...)
	return ticket, nil
}

// GetByCode retrieves a ticket with its items by its unique code
func (r *TicketRepository) GetByCode(code string) (*models.Ticket, error) {
	ticket := &models.Ticket{}

	err := r.db.QueryRow(`
		SELECT id, code, user_id, total, status, purchase_date, created_at
		FROM tickets WHERE code = $1`, code,
	).Scan(
		&ticket.ID,
		&ticket.Code,
		&ticket.UserID,
		&ticket.Total,
		&ticket.Status,
		&ticket.PurchaseDate,
		&ticket.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}

	items, err := r.itemsFor(ticket.ID)
	if err != nil {
		return nil, err
	}
	ticket.Items = items

	return ticket, nil
}

// GetByUser retrieves a user's tickets, newest first
func (r *TicketRepository) GetByUser(userID int) ([]*models.Ticket, error) {
	rows, err := r.db.Query(`
		SELECT id, code, user_id, total, status, purchase_date, created_at
		FROM tickets
		WHERE user_id = $1
		ORDER BY purchase_date DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user tickets: %w", err)
	}
	defer rows.Close()

	var tickets []*models.Ticket
	for rows.Next() {
		ticket := &models.Ticket{}
		err := rows.Scan(
			&ticket.ID,
			&ticket.Code,
			&ticket.UserID,
			&ticket.Total,
			&ticket.Status,
			&ticket.PurchaseDate,
			&ticket.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, ticket := range tickets {
		items, err := r.itemsFor(ticket.ID)
		if err != nil {
			return nil, err
		}
		ticket.Items = items
	}

	return tickets, nil
}

func (r *TicketRepository) itemsFor(ticketID int) ([]models.TicketItem, error) {
	rows, err := r.db.Query(`
		SELECT product_id, title, quantity, unit_price
		FROM ticket_items
		WHERE ticket_id = $1
		ORDER BY position`, ticketID)
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket items: %w", err)
	}
	defer rows.Close()

	var items []models.TicketItem
	for rows.Next() {
		var item models.TicketItem
		if err := rows.Scan(&item.ProductID, &item.Title, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, fmt.Errorf("failed to scan ticket item: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}
