package services

import (
	"errors"
	"fmt"

	"kingtires/internal/models"
)

// CartService handles cart-related business logic
type CartService struct {
	cartRepo CartRepository
	userRepo UserRepository
}

// NewCartService creates a new cart service
func NewCartService(cartRepo CartRepository, userRepo UserRepository) *CartService {
	return &CartService{
		cartRepo: cartRepo,
		userRepo: userRepo,
	}
}

// CreateCart creates a new empty cart
func (s *CartService) CreateCart() (*models.Cart, error) {
	return s.cartRepo.Create()
}

// GetCart retrieves a cart with resolved products
func (s *CartService) GetCart(cartID int) (*models.Cart, error) {
	if cartID <= 0 {
		return nil, models.ErrInvalidID
	}
	return s.cartRepo.GetByIDWithProducts(cartID)
}

// EnsureUserCart returns the cart owned by the user, creating and attaching
// one when the user has none yet. Every request resolves its own cart this
// way; there is no process-wide current cart.
func (s *CartService) EnsureUserCart(userID int) (*models.Cart, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	if user.CartID != nil {
		return s.cartRepo.GetByIDWithProducts(*user.CartID)
	}

	cart, err := s.cartRepo.Create()
	if err != nil {
		return nil, fmt.Errorf("failed to create cart for user %d: %w", userID, err)
	}

	if err := s.userRepo.AttachCart(userID, cart.ID); err != nil {
		// Lost a race against another request for the same user; use the
		// cart that request attached.
		if errors.Is(err, models.ErrCartNotOwned) {
			current, userErr := s.userRepo.GetByID(userID)
			if userErr == nil && current.CartID != nil {
				return s.cartRepo.GetByIDWithProducts(*current.CartID)
			}
		}
		return nil, fmt.Errorf("failed to attach cart %d to user %d: %w", cart.ID, userID, err)
	}

	return cart, nil
}

// AddProduct adds a product to a cart, merging quantities on repeat adds
func (s *CartService) AddProduct(cartID, productID, quantity int) (*models.Cart, error) {
	if cartID <= 0 || productID <= 0 {
		return nil, models.ErrInvalidID
	}
	return s.cartRepo.AddProduct(cartID, productID, quantity)
}

// UpdateQuantity sets the quantity of a product in a cart; a quantity of
// zero or less removes the line item
func (s *CartService) UpdateQuantity(cartID, productID, quantity int) (*models.Cart, error) {
	if cartID <= 0 || productID <= 0 {
		return nil, models.ErrInvalidID
	}
	return s.cartRepo.UpdateQuantity(cartID, productID, quantity)
}

// RemoveProduct removes a product from a cart
func (s *CartService) RemoveProduct(cartID, productID int) (*models.Cart, error) {
	if cartID <= 0 || productID <= 0 {
		return nil, models.ErrInvalidID
	}
	return s.cartRepo.RemoveProduct(cartID, productID)
}

// ReplaceItems replaces all of a cart's line items
func (s *CartService) ReplaceItems(cartID int, items []models.CartItemRef) (*models.Cart, error) {
	if cartID <= 0 {
		return nil, models.ErrInvalidID
	}
	return s.cartRepo.ReplaceItems(cartID, items)
}

// ClearCart removes every line item from a cart
func (s *CartService) ClearCart(cartID int) (*models.Cart, error) {
	if cartID <= 0 {
		return nil, models.ErrInvalidID
	}
	return s.cartRepo.Clear(cartID)
}
