package services

import (
	"kingtires/internal/models"
)

// TicketService handles purchase ticket queries. Tickets are created only
// by the checkout service.
type TicketService struct {
	ticketRepo TicketRepository
}

// NewTicketService creates a new ticket service
func NewTicketService(ticketRepo TicketRepository) *TicketService {
	return &TicketService{ticketRepo: ticketRepo}
}

// GetTicketByCode retrieves a ticket by its code. A ticket is exclusively
// owned by the user who purchased it; only the owner or an admin may view
// it.
func (s *TicketService) GetTicketByCode(code string, requestingUser *models.User) (*models.Ticket, error) {
	if code == "" {
		return nil, models.ErrInvalidID
	}

	ticket, err := s.ticketRepo.GetByCode(code)
	if err != nil {
		return nil, err
	}

	if requestingUser == nil || (ticket.UserID != requestingUser.ID && !requestingUser.IsAdmin()) {
		return nil, models.ErrUnauthorized
	}

	return ticket, nil
}

// GetUserTickets retrieves the purchase history for a user
func (s *TicketService) GetUserTickets(userID int) ([]*models.Ticket, error) {
	if userID <= 0 {
		return nil, models.ErrInvalidID
	}
	return s.ticketRepo.GetByUser(userID)
}
