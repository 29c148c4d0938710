package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"kingtires/internal/middleware"
	"kingtires/internal/models"
)

const (
	sessionName    = "session"
	sessionCartKey = "cart_id"
)

// CartService is the cart functionality the handler needs
type CartService interface {
	CreateCart() (*models.Cart, error)
	GetCart(cartID int) (*models.Cart, error)
	EnsureUserCart(userID int) (*models.Cart, error)
	AddProduct(cartID, productID, quantity int) (*models.Cart, error)
	UpdateQuantity(cartID, productID, quantity int) (*models.Cart, error)
	RemoveProduct(cartID, productID int) (*models.Cart, error)
	ReplaceItems(cartID int, items []models.CartItemRef) (*models.Cart, error)
	ClearCart(cartID int) (*models.Cart, error)
}

// CheckoutService is the checkout functionality the handler needs
type CheckoutService interface {
	Checkout(cartID, userID int) (*models.CheckoutOutcome, error)
}

// CartHandler handles cart and checkout requests
type CartHandler struct {
	cartService     CartService
	checkoutService CheckoutService
	store           sessions.Store
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService CartService, checkoutService CheckoutService, store sessions.Store) *CartHandler {
	return &CartHandler{
		cartService:     cartService,
		checkoutService: checkoutService,
		store:           store,
	}
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

// CreateCart creates a new empty cart
func (h *CartHandler) CreateCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.cartService.CreateCart()
	if err != nil {
		respondServiceError(w, err)
		return
	}

	h.rememberCart(w, r, cart.ID)
	respondJSON(w, http.StatusCreated, cart)
}

// GetCart returns a cart with resolved products
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	cartID, ok := h.cartIDParam(w, r)
	if !ok {
		return
	}

	cart, err := h.cartService.GetCart(cartID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cart)
}

// GetCurrentCart resolves the requester's own cart: the authenticated
// user's cart, or the cart remembered in the session for guests
func (h *CartHandler) GetCurrentCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.resolveCart(w, r)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cart)
}

// AddProduct adds a product to a cart
func (h *CartHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	cartID, ok := h.cartIDParam(w, r)
	if !ok {
		return
	}
	productID, ok := h.productIDParam(w, r)
	if !ok {
		return
	}

	quantity := 1
	var req quantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil && req.Quantity > 0 {
		quantity = req.Quantity
	}

	cart, err := h.cartService.AddProduct(cartID, productID, quantity)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cart)
}

// AddProductToCurrentCart adds a product to the requester's own cart,
// creating the cart on demand
func (h *CartHandler) AddProductToCurrentCart(w http.ResponseWriter, r *http.Request) {
	productID, ok := h.productIDParam(w, r)
	if !ok {
		return
	}

	cart, err := h.resolveCart(w, r)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	quantity := 1
	var req quantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil && req.Quantity > 0 {
		quantity = req.Quantity
	}

	cart, err = h.cartService.AddProduct(cart.ID, productID, quantity)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cart)
}

// UpdateQuantity sets the quantity of a product in a cart. A quantity of
// zero or less removes the line item.
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	cartID, ok := h.cartIDParam(w, r)
	if !ok {
		return
	}
	productID, ok := h.productIDParam(w, r)
	if !ok {
		return
	}

	var req quantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid quantity")
		return
	}

	cart, err := h.cartService.UpdateQuantity(cartID, productID, req.Quantity)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cart)
}

// RemoveProduct removes a product from a cart
func (h *CartHandler) RemoveProduct(w http.ResponseWriter, r *http.Request) {
	cartID, ok := h.cartIDParam(w, r)
	if !ok {
		return
	}
	productID, ok := h.productIDParam(w, r)
	if !ok {
		return
	}

	cart, err := h.cartService.RemoveProduct(cartID, productID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cart)
}

// ReplaceItems replaces all line items of a cart
func (h *CartHandler) ReplaceItems(w http.ResponseWriter, r *http.Request) {
	cartID, ok := h.cartIDParam(w, r)
	if !ok {
		return
	}

	var items []models.CartItemRef
	if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid line items")
		return
	}

	cart, err := h.cartService.ReplaceItems(cartID, items)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cart)
}

// ClearCart removes every line item from a cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	cartID, ok := h.cartIDParam(w, r)
	if !ok {
		return
	}

	cart, err := h.cartService.ClearCart(cartID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cart)
}

// Purchase checks out a cart for the authenticated user. The response body
// follows the checkout contract regardless of partial or total failure.
func (h *CartHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "Access denied. You must log in first.")
		return
	}

	cartID, ok := h.cartIDParam(w, r)
	if !ok {
		return
	}

	outcome, err := h.checkoutService.Checkout(cartID, user.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondRaw(w, http.StatusOK, outcome.Response())
}

func (h *CartHandler) cartIDParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "cid"))
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "Invalid cart id")
		return 0, false
	}
	return id, true
}

func (h *CartHandler) productIDParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "pid"))
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "Invalid product id")
		return 0, false
	}
	return id, true
}

// resolveCart finds the cart for this request. Authenticated users get
// their own cart; guests get the cart remembered in their session, created
// on demand.
func (h *CartHandler) resolveCart(w http.ResponseWriter, r *http.Request) (*models.Cart, error) {
	if user := middleware.GetUserFromContext(r.Context()); user != nil {
		return h.cartService.EnsureUserCart(user.ID)
	}

	session, _ := h.store.Get(r, sessionName)
	if cartID, ok := session.Values[sessionCartKey].(int); ok && cartID > 0 {
		cart, err := h.cartService.GetCart(cartID)
		if err == nil {
			return cart, nil
		}
	}

	cart, err := h.cartService.CreateCart()
	if err != nil {
		return nil, err
	}

	h.rememberCart(w, r, cart.ID)
	return cart, nil
}

func (h *CartHandler) rememberCart(w http.ResponseWriter, r *http.Request, cartID int) {
	session, _ := h.store.Get(r, sessionName)
	session.Values[sessionCartKey] = cartID
	session.Save(r, w)
}
