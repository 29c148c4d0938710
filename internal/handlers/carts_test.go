package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kingtires/internal/middleware"
	"kingtires/internal/models"
)

// stubAuthService resolves a fixed set of tokens to users
type stubAuthService struct {
	users map[string]*models.User
}

func (s *stubAuthService) ValidateToken(token string) (int, error) {
	if user, ok := s.users[token]; ok {
		return user.ID, nil
	}
	return 0, models.ErrUnauthorized
}

func (s *stubAuthService) GetCurrentUser(userID int) (*models.User, error) {
	for _, user := range s.users {
		if user.ID == userID {
			return user, nil
		}
	}
	return nil, models.ErrUserNotFound
}

// stubCartService returns canned carts and records calls
type stubCartService struct {
	cart         *models.Cart
	err          error
	replaceItems []models.CartItemRef
}

func (s *stubCartService) CreateCart() (*models.Cart, error)          { return s.cart, s.err }
func (s *stubCartService) GetCart(cartID int) (*models.Cart, error)   { return s.cart, s.err }
func (s *stubCartService) EnsureUserCart(userID int) (*models.Cart, error) {
	return s.cart, s.err
}
func (s *stubCartService) AddProduct(cartID, productID, quantity int) (*models.Cart, error) {
	return s.cart, s.err
}
func (s *stubCartService) UpdateQuantity(cartID, productID, quantity int) (*models.Cart, error) {
	return s.cart, s.err
}
func (s *stubCartService) RemoveProduct(cartID, productID int) (*models.Cart, error) {
	return s.cart, s.err
}
func (s *stubCartService) ReplaceItems(cartID int, items []models.CartItemRef) (*models.Cart, error) {
	s.replaceItems = items
	return s.cart, s.err
}
func (s *stubCartService) ClearCart(cartID int) (*models.Cart, error) { return s.cart, s.err }

// stubCheckoutService returns a canned outcome
type stubCheckoutService struct {
	outcome *models.CheckoutOutcome
	err     error

	gotCartID int
	gotUserID int
}

func (s *stubCheckoutService) Checkout(cartID, userID int) (*models.CheckoutOutcome, error) {
	s.gotCartID = cartID
	s.gotUserID = userID
	return s.outcome, s.err
}

func newCookieStore() sessions.Store {
	return sessions.NewCookieStore([]byte("test-secret"))
}

// newStubAuth builds an auth middleware that resolves "user-token" and
// "admin-token" bearer tokens
func newStubAuth() *middleware.AuthMiddleware {
	return middleware.NewAuthMiddleware(&stubAuthService{users: map[string]*models.User{
		"user-token":  {ID: 1, Email: "ada@example.com", Role: models.RoleUser},
		"admin-token": {ID: 2, Email: "root@example.com", Role: models.RoleAdmin},
	}})
}

func newTestRouter(carts CartService, checkout CheckoutService) http.Handler {
	router := &Router{
		Products: NewProductHandler(&stubProductService{}),
		Carts:    NewCartHandler(carts, checkout, newCookieStore()),
		Sessions: NewSessionHandler(&stubSessionAuth{}, 0, false),
		Tickets:  NewTicketHandler(&stubTicketService{}),
		Auth:     newStubAuth(),
	}
	return router.Handler()
}

func TestPurchase_ResponseContract(t *testing.T) {
	productID := 9
	checkout := &stubCheckoutService{outcome: &models.CheckoutOutcome{
		Ticket: &models.Ticket{Code: "TICKET-ABCDEF0123456789", Total: 3000},
		Completed: []models.CompletedItem{
			{Title: "Product A", Quantity: 3, UnitPrice: 1000, Subtotal: 3000},
		},
		Failed: []models.FailedItem{
			{ProductID: &productID, Title: "Product B", RequestedQty: 10, AvailableQty: 4},
		},
		Status:  "partial",
		Message: "Partial purchase. 1 item(s) could not be processed.",
	}}
	handler := newTestRouter(&stubCartService{}, checkout)

	req := httptest.NewRequest(http.MethodPost, "/api/carts/5/purchase", nil)
	req.Header.Set("Authorization", "Bearer user-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, checkout.gotCartID)
	assert.Equal(t, 1, checkout.gotUserID)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, false, body["success"])
	assert.Equal(t, "partial", body["status"])

	ticket := body["ticket"].(map[string]interface{})
	assert.Equal(t, "TICKET-ABCDEF0123456789", ticket["code"])
	assert.Equal(t, float64(3000), ticket["total"])
	assert.Equal(t, float64(1), ticket["itemsProcessed"])
	assert.Equal(t, float64(1), ticket["itemsFailed"])

	products := body["products"].(map[string]interface{})
	require.Len(t, products["completed"], 1)
	require.Len(t, products["failed"], 1)
	failed := products["failed"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, float64(9), failed["productId"])
}

func TestPurchase_RequiresAuth(t *testing.T) {
	checkout := &stubCheckoutService{}
	handler := newTestRouter(&stubCartService{}, checkout)

	req := httptest.NewRequest(http.MethodPost, "/api/carts/5/purchase", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, checkout.gotCartID)
}

func TestPurchase_CartNotOwned(t *testing.T) {
	checkout := &stubCheckoutService{err: models.ErrCartNotOwned}
	handler := newTestRouter(&stubCartService{}, checkout)

	req := httptest.NewRequest(http.MethodPost, "/api/carts/5/purchase", nil)
	req.Header.Set("Authorization", "Bearer user-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPurchase_EmptyCart(t *testing.T) {
	checkout := &stubCheckoutService{err: models.ErrEmptyCart}
	handler := newTestRouter(&stubCartService{}, checkout)

	req := httptest.NewRequest(http.MethodPost, "/api/carts/5/purchase", nil)
	req.Header.Set("Authorization", "Bearer user-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "The cart is empty")
}

func TestPurchase_InvalidCartID(t *testing.T) {
	handler := newTestRouter(&stubCartService{}, &stubCheckoutService{})

	req := httptest.NewRequest(http.MethodPost, "/api/carts/nope/purchase", nil)
	req.Header.Set("Authorization", "Bearer user-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateCart(t *testing.T) {
	carts := &stubCartService{cart: &models.Cart{ID: 3, Items: []models.CartItem{}}}
	handler := newTestRouter(carts, &stubCheckoutService{})

	req := httptest.NewRequest(http.MethodPost, "/api/carts/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":3`)

	// The new cart is remembered in the session cookie
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
}

func TestAddProductWithQuantity(t *testing.T) {
	carts := &stubCartService{cart: &models.Cart{ID: 3}}
	handler := newTestRouter(carts, &stubCheckoutService{})

	req := httptest.NewRequest(http.MethodPost, "/api/carts/3/products/7", strings.NewReader(`{"quantity":4}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetCart_NotFound(t *testing.T) {
	carts := &stubCartService{err: models.ErrCartNotFound}
	handler := newTestRouter(carts, &stubCheckoutService{})

	req := httptest.NewRequest(http.MethodGet, "/api/carts/99", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReplaceItems(t *testing.T) {
	carts := &stubCartService{cart: &models.Cart{ID: 3}}
	handler := newTestRouter(carts, &stubCheckoutService{})

	req := httptest.NewRequest(http.MethodPut, "/api/carts/3", strings.NewReader(`[{"product":7,"quantity":2}]`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, carts.replaceItems, 1)
	assert.Equal(t, 7, carts.replaceItems[0].ProductID)
	assert.Equal(t, 2, carts.replaceItems[0].Quantity)
}
