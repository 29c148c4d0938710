package services

import (
	"errors"
	"fmt"
	"log"

	"kingtires/internal/metrics"
	"kingtires/internal/models"
)

// CheckoutService converts a cart's line items into a purchase ticket,
// enforcing per-item stock availability. Items the current stock cannot
// satisfy stay in the cart for a later retry.
type CheckoutService struct {
	userRepo    UserRepository
	cartRepo    CartRepository
	productRepo ProductRepository
	ticketRepo  TicketRepository
	notifier    StockNotifier
	metrics     *metrics.CheckoutMetrics
}

// NewCheckoutService creates a new checkout service. notifier and m may be
// nil.
func NewCheckoutService(
	userRepo UserRepository,
	cartRepo CartRepository,
	productRepo ProductRepository,
	ticketRepo TicketRepository,
	notifier StockNotifier,
	m *metrics.CheckoutMetrics,
) *CheckoutService {
	return &CheckoutService{
		userRepo:    userRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		ticketRepo:  ticketRepo,
		notifier:    notifier,
		metrics:     m,
	}
}

// tentativeItem is a line item that passed the evaluation pass: its product
// resolved and the stock read at evaluation time covered the requested
// quantity. The conditional decrement can still fail it later.
type tentativeItem struct {
	product  *models.Product
	quantity int
}

// Checkout purchases as many of the cart's line items as current stock
// allows. It returns a typed outcome on success (possibly with no ticket
// when nothing was processable) and a sentinel error for every precondition
// failure. No store is mutated before the commit phase begins.
func (s *CheckoutService) Checkout(cartID, userID int) (*models.CheckoutOutcome, error) {
	if cartID <= 0 || userID <= 0 {
		return nil, models.ErrInvalidID
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load user %d: %w", userID, err)
	}

	// The caller may only check out a cart it owns
	if !user.OwnsCart(cartID) {
		return nil, models.ErrCartNotOwned
	}

	cart, err := s.cartRepo.GetByIDWithProducts(cartID)
	if err != nil {
		if errors.Is(err, models.ErrCartNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load cart %d: %w", cartID, err)
	}

	if cart.IsEmpty() {
		return nil, models.ErrEmptyCart
	}

	// Evaluation pass: partition line items by the stock read at load time,
	// preserving cart order. Unresolved products fail with availability 0.
	// Zero-quantity items are a no-op purchase: removed from the cart, never
	// decremented, never on the ticket.
	var tentative []tentativeItem
	evalFailed := make(map[int]models.FailedItem)
	var unresolved []models.FailedItem
	zeroQty := make(map[int]bool)

	for _, item := range cart.Items {
		if item.Product == nil {
			unresolved = append(unresolved, models.FailedItem{
				ProductID:    nil,
				RequestedQty: item.Quantity,
				AvailableQty: 0,
			})
			continue
		}

		if item.Quantity == 0 {
			zeroQty[item.ProductID] = true
			continue
		}

		if item.Product.Stock >= item.Quantity {
			tentative = append(tentative, tentativeItem{product: item.Product, quantity: item.Quantity})
		} else {
			evalFailed[item.ProductID] = models.FailedItem{
				ProductID:    intPtr(item.ProductID),
				Title:        item.Product.Title,
				RequestedQty: item.Quantity,
				AvailableQty: item.Product.Stock,
			}
		}
	}

	if len(tentative) == 0 {
		outcome := &models.CheckoutOutcome{
			Ticket:  nil,
			Failed:  s.collectFailed(cart, evalFailed, nil, unresolved),
			Status:  "failed",
			Message: "No cart item could be purchased",
		}
		s.record(outcome)
		return outcome, nil
	}

	// Commit phase: one atomic conditional decrement per product, in cart
	// order. A failed conditional decrement is a late-discovered stock
	// failure for that item, not an error for the whole checkout.
	var purchased []tentativeItem
	var updatedStocks []*models.Product
	lateFailed := make(map[int]models.FailedItem)

	for _, t := range tentative {
		updated, err := s.productRepo.DecrementStock(t.product.ID, t.quantity)
		if err != nil {
			if errors.Is(err, models.ErrInsufficientStock) || errors.Is(err, models.ErrProductNotFound) {
				if s.metrics != nil {
					s.metrics.StockConflicts.Inc()
				}
				lateFailed[t.product.ID] = models.FailedItem{
					ProductID:    intPtr(t.product.ID),
					Title:        t.product.Title,
					RequestedQty: t.quantity,
					AvailableQty: s.availableStock(t.product.ID),
				}
				continue
			}

			s.compensate(purchased)
			return nil, fmt.Errorf("failed to decrement stock for product %d: %w", t.product.ID, err)
		}

		purchased = append(purchased, t)
		updatedStocks = append(updatedStocks, updated)
	}

	if len(purchased) == 0 {
		// Every tentative item lost its stock to a concurrent checkout;
		// nothing was decremented, so nothing needs compensating.
		outcome := &models.CheckoutOutcome{
			Ticket:  nil,
			Failed:  s.collectFailed(cart, evalFailed, lateFailed, unresolved),
			Status:  "failed",
			Message: "No cart item could be purchased",
		}
		s.record(outcome)
		return outcome, nil
	}

	failed := s.collectFailed(cart, evalFailed, lateFailed, unresolved)

	// Total uses the price read at evaluation time; later price changes do
	// not affect this ticket.
	total := 0
	items := make([]models.TicketItem, 0, len(purchased))
	completed := make([]models.CompletedItem, 0, len(purchased))
	for _, p := range purchased {
		subtotal := p.product.Price * p.quantity
		total += subtotal
		items = append(items, models.TicketItem{
			ProductID: p.product.ID,
			Title:     p.product.Title,
			Quantity:  p.quantity,
			UnitPrice: p.product.Price,
		})
		completed = append(completed, models.CompletedItem{
			Title:     p.product.Title,
			Quantity:  p.quantity,
			UnitPrice: p.product.Price,
			Subtotal:  subtotal,
		})
	}

	status := models.TicketCompleted
	if len(failed) > 0 {
		status = models.TicketPartial
	}

	ticket, err := s.ticketRepo.Create(&models.TicketCreateRequest{
		UserID: userID,
		Items:  items,
		Total:  total,
		Status: status,
	})
	if err != nil {
		s.compensate(purchased)
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}

	// Rewrite the cart to keep only the items that were not purchased,
	// with their original quantities and order
	remaining := s.remainingRefs(cart, purchased, zeroQty)
	if _, err := s.cartRepo.ReplaceItems(cartID, remaining); err != nil {
		// The ticket and the stock decrements stand; surface the failure so
		// the caller knows the cart may still hold purchased items.
		return nil, fmt.Errorf("ticket %s created but failed to rewrite cart %d: %w", ticket.Code, cartID, err)
	}

	message := "Purchase completed successfully"
	if len(failed) > 0 {
		message = fmt.Sprintf("Partial purchase. %d item(s) could not be processed.", len(failed))
	}

	outcome := &models.CheckoutOutcome{
		Ticket:    ticket,
		Completed: completed,
		Failed:    failed,
		Status:    string(status),
		Message:   message,
	}

	s.record(outcome)
	s.publish(ticket, updatedStocks)

	return outcome, nil
}

// collectFailed assembles the failed items in original cart order,
// unresolved references included
func (s *CheckoutService) collectFailed(
	cart *models.Cart,
	evalFailed map[int]models.FailedItem,
	lateFailed map[int]models.FailedItem,
	unresolved []models.FailedItem,
) []models.FailedItem {
	var failed []models.FailedItem
	u := 0

	for _, item := range cart.Items {
		if item.Product == nil {
			if u < len(unresolved) {
				failed = append(failed, unresolved[u])
				u++
			}
			continue
		}
		if f, ok := evalFailed[item.ProductID]; ok {
			failed = append(failed, f)
			continue
		}
		if f, ok := lateFailed[item.ProductID]; ok {
			failed = append(failed, f)
		}
	}

	return failed
}

// remainingRefs returns the cart's line items minus everything purchased or
// zero-quantity, preserving order and original quantities
func (s *CheckoutService) remainingRefs(cart *models.Cart, purchased []tentativeItem, zeroQty map[int]bool) []models.CartItemRef {
	purchasedIDs := make(map[int]bool, len(purchased))
	for _, p := range purchased {
		purchasedIDs[p.product.ID] = true
	}

	remaining := []models.CartItemRef{}
	for _, item := range cart.Items {
		if item.Product != nil && (purchasedIDs[item.ProductID] || zeroQty[item.ProductID]) {
			continue
		}
		remaining = append(remaining, models.CartItemRef{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	return remaining
}

// compensate re-increments stock for already-decremented items after a
// persistence failure aborts the commit phase
func (s *CheckoutService) compensate(purchased []tentativeItem) {
	for _, p := range purchased {
		if _, err := s.productRepo.IncrementStock(p.product.ID, p.quantity); err != nil {
			log.Printf("Warning: failed to compensate stock for product %d (+%d): %v", p.product.ID, p.quantity, err)
		}
	}
}

func (s *CheckoutService) availableStock(productID int) int {
	stock, err := s.productRepo.GetStock(productID)
	if err != nil {
		return 0
	}
	return stock
}

func (s *CheckoutService) record(outcome *models.CheckoutOutcome) {
	if s.metrics == nil {
		return
	}

	s.metrics.Checkouts.WithLabelValues(outcome.Status).Inc()
	s.metrics.ItemsProcessed.Add(float64(len(outcome.Completed)))
	s.metrics.ItemsFailed.Add(float64(len(outcome.Failed)))
}

func (s *CheckoutService) publish(ticket *models.Ticket, updatedStocks []*models.Product) {
	if s.notifier == nil {
		return
	}

	if err := s.notifier.PublishTicketCreated(ticket); err != nil {
		log.Printf("Warning: failed to publish ticket %s: %v", ticket.Code, err)
	}
	for _, product := range updatedStocks {
		if err := s.notifier.PublishStockChanged(product.ID, product.Stock); err != nil {
			log.Printf("Warning: failed to publish stock change for product %d: %v", product.ID, err)
		}
	}
}

func intPtr(v int) *int {
	return &v
}
