package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"kingtires/internal/middleware"
	"kingtires/internal/models"
)

// TicketService is the ticket functionality the handler needs
type TicketService interface {
	GetTicketByCode(code string, requestingUser *models.User) (*models.Ticket, error)
	GetUserTickets(userID int) ([]*models.Ticket, error)
}

// TicketHandler handles purchase ticket requests
type TicketHandler struct {
	ticketService TicketService
}

// NewTicketHandler creates a new ticket handler
func NewTicketHandler(ticketService TicketService) *TicketHandler {
	return &TicketHandler{ticketService: ticketService}
}

// GetByCode returns a ticket by its code. Only the owner or an admin may
// view it.
func (h *TicketHandler) GetByCode(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	code := chi.URLParam(r, "code")

	ticket, err := h.ticketService.GetTicketByCode(code, user)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, ticket)
}

// MyTickets returns the purchase history of the authenticated user
func (h *TicketHandler) MyTickets(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "Access denied. You must log in first.")
		return
	}

	tickets, err := h.ticketService.GetUserTickets(user.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, tickets)
}
