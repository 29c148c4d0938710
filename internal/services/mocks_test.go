package services

import (
	"errors"
	"fmt"
	"time"

	"kingtires/internal/models"
)

// mockUserRepo is an in-memory UserRepository
type mockUserRepo struct {
	users  map[int]*models.User
	nextID int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[int]*models.User), nextID: 1}
}

func (m *mockUserRepo) Create(req *models.UserRegisterRequest, passwordHash string, role models.UserRole) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == req.Email {
			return nil, models.ErrDuplicateEntry
		}
	}

	user := &models.User{
		ID:           m.nextID,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Age:          req.Age,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	m.users[user.ID] = user
	m.nextID++
	return user, nil
}

func (m *mockUserRepo) GetByID(id int) (*models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *mockUserRepo) GetByEmail(email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, models.ErrUserNotFound
}

func (m *mockUserRepo) AttachCart(userID, cartID int) error {
	user, ok := m.users[userID]
	if !ok {
		return models.ErrUserNotFound
	}
	if user.CartID != nil {
		return models.ErrCartNotOwned
	}
	user.CartID = &cartID
	return nil
}

// mockProductRepo is an in-memory ProductRepository with conditional
// decrements. beforeDecrement, when set, runs before each decrement and can
// shrink stock to simulate a concurrent checkout.
type mockProductRepo struct {
	products        map[int]*models.Product
	nextID          int
	beforeDecrement func(productID int)
	decrementErr    error
	decrements      int
	increments      int
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{products: make(map[int]*models.Product), nextID: 1}
}

func (m *mockProductRepo) add(title string, price, stock int) *models.Product {
	product := &models.Product{
		ID:        m.nextID,
		Title:     title,
		Code:      fmt.Sprintf("P-%04d", m.nextID),
		Price:     price,
		Status:    true,
		Stock:     stock,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	m.products[product.ID] = product
	m.nextID++
	return product
}

func (m *mockProductRepo) Create(req *models.ProductCreateRequest) (*models.Product, error) {
	return m.add(req.Title, req.Price, req.Stock), nil
}

func (m *mockProductRepo) GetByID(id int) (*models.Product, error) {
	product, ok := m.products[id]
	if !ok {
		return nil, models.ErrProductNotFound
	}
	copied := *product
	return &copied, nil
}

func (m *mockProductRepo) List(limit, offset int) ([]*models.Product, int, error) {
	var out []*models.Product
	for _, p := range m.products {
		copied := *p
		out = append(out, &copied)
	}
	return out, len(m.products), nil
}

func (m *mockProductRepo) Update(id int, req *models.ProductUpdateRequest) (*models.Product, error) {
	product, ok := m.products[id]
	if !ok {
		return nil, models.ErrProductNotFound
	}
	product.Title = req.Title
	product.Price = req.Price
	product.Stock = req.Stock
	product.Status = req.Status
	copied := *product
	return &copied, nil
}

func (m *mockProductRepo) Delete(id int) error {
	if _, ok := m.products[id]; !ok {
		return models.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *mockProductRepo) GetStock(id int) (int, error) {
	product, ok := m.products[id]
	if !ok {
		return 0, models.ErrProductNotFound
	}
	return product.Stock, nil
}

func (m *mockProductRepo) DecrementStock(id, amount int) (*models.Product, error) {
	if m.decrementErr != nil {
		return nil, m.decrementErr
	}
	if m.beforeDecrement != nil {
		m.beforeDecrement(id)
	}

	product, ok := m.products[id]
	if !ok {
		return nil, models.ErrProductNotFound
	}
	if product.Stock < amount {
		return nil, models.ErrInsufficientStock
	}

	product.Stock -= amount
	m.decrements++
	copied := *product
	return &copied, nil
}

func (m *mockProductRepo) IncrementStock(id, amount int) (*models.Product, error) {
	product, ok := m.products[id]
	if !ok {
		return nil, models.ErrProductNotFound
	}
	product.Stock += amount
	m.increments++
	copied := *product
	return &copied, nil
}

// mockCartRepo is an in-memory CartRepository. Line items resolve against
// the linked product repo, keeping cart reads consistent with stock writes.
type mockCartRepo struct {
	carts       map[int][]models.CartItemRef
	nextID      int
	products    *mockProductRepo
	replaceErr  error
	replaced    int
	createErr   error
}

func newMockCartRepo(products *mockProductRepo) *mockCartRepo {
	return &mockCartRepo{carts: make(map[int][]models.CartItemRef), nextID: 1, products: products}
}

func (m *mockCartRepo) Create() (*models.Cart, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	id := m.nextID
	m.nextID++
	m.carts[id] = []models.CartItemRef{}
	return &models.Cart{ID: id, Items: []models.CartItem{}}, nil
}

func (m *mockCartRepo) GetByIDWithProducts(id int) (*models.Cart, error) {
	refs, ok := m.carts[id]
	if !ok {
		return nil, models.ErrCartNotFound
	}

	cart := &models.Cart{ID: id}
	for _, ref := range refs {
		item := models.CartItem{ProductID: ref.ProductID, Quantity: ref.Quantity}
		if product, err := m.products.GetByID(ref.ProductID); err == nil {
			item.Product = product
		}
		cart.Items = append(cart.Items, item)
	}
	return cart, nil
}

func (m *mockCartRepo) AddProduct(cartID, productID, quantity int) (*models.Cart, error) {
	refs, ok := m.carts[cartID]
	if !ok {
		return nil, models.ErrCartNotFound
	}

	merged := false
	for i := range refs {
		if refs[i].ProductID == productID {
			refs[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		refs = append(refs, models.CartItemRef{ProductID: productID, Quantity: quantity})
	}
	m.carts[cartID] = refs
	return m.GetByIDWithProducts(cartID)
}

func (m *mockCartRepo) UpdateQuantity(cartID, productID, quantity int) (*models.Cart, error) {
	if quantity <= 0 {
		return m.RemoveProduct(cartID, productID)
	}

	refs, ok := m.carts[cartID]
	if !ok {
		return nil, models.ErrCartNotFound
	}
	for i := range refs {
		if refs[i].ProductID == productID {
			refs[i].Quantity = quantity
			return m.GetByIDWithProducts(cartID)
		}
	}
	return nil, models.ErrProductNotFound
}

func (m *mockCartRepo) RemoveProduct(cartID, productID int) (*models.Cart, error) {
	refs, ok := m.carts[cartID]
	if !ok {
		return nil, models.ErrCartNotFound
	}

	kept := refs[:0]
	for _, ref := range refs {
		if ref.ProductID != productID {
			kept = append(kept, ref)
		}
	}
	m.carts[cartID] = kept
	return m.GetByIDWithProducts(cartID)
}

func (m *mockCartRepo) ReplaceItems(cartID int, items []models.CartItemRef) (*models.Cart, error) {
	if m.replaceErr != nil {
		return nil, m.replaceErr
	}
	if _, ok := m.carts[cartID]; !ok {
		return nil, models.ErrCartNotFound
	}

	m.carts[cartID] = append([]models.CartItemRef{}, items...)
	m.replaced++
	return m.GetByIDWithProducts(cartID)
}

func (m *mockCartRepo) Clear(cartID int) (*models.Cart, error) {
	if _, ok := m.carts[cartID]; !ok {
		return nil, models.ErrCartNotFound
	}
	m.carts[cartID] = []models.CartItemRef{}
	return m.GetByIDWithProducts(cartID)
}

// mockTicketRepo is an in-memory TicketRepository
type mockTicketRepo struct {
	tickets   []*models.Ticket
	nextID    int
	createErr error
}

func newMockTicketRepo() *mockTicketRepo {
	return &mockTicketRepo{nextID: 1}
}

func (m *mockTicketRepo) Create(req *models.TicketCreateRequest) (*models.Ticket, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ticket := &models.Ticket{
		ID:           m.nextID,
		Code:         models.GenerateTicketCode(),
		UserID:       req.UserID,
		Items:        append([]models.TicketItem{}, req.Items...),
		Total:        req.Total,
		Status:       req.Status,
		PurchaseDate: time.Now(),
		CreatedAt:    time.Now(),
	}
	m.tickets = append(m.tickets, ticket)
	m.nextID++
	return ticket, nil
}

func (m *mockTicketRepo) GetByCode(code string) (*models.Ticket, error) {
	for _, t := range m.tickets {
		if t.Code == code {
			return t, nil
		}
	}
	return nil, models.ErrTicketNotFound
}

func (m *mockTicketRepo) GetByUser(userID int) ([]*models.Ticket, error) {
	var out []*models.Ticket
	for i := len(m.tickets) - 1; i >= 0; i-- {
		if m.tickets[i].UserID == userID {
			out = append(out, m.tickets[i])
		}
	}
	return out, nil
}

// mockNotifier records published events
type mockNotifier struct {
	stockEvents  []int
	ticketEvents []string
	err          error
}

func (m *mockNotifier) PublishStockChanged(productID, stock int) error {
	if m.err != nil {
		return m.err
	}
	m.stockEvents = append(m.stockEvents, productID)
	return nil
}

func (m *mockNotifier) PublishTicketCreated(ticket *models.Ticket) error {
	if m.err != nil {
		return m.err
	}
	m.ticketEvents = append(m.ticketEvents, ticket.Code)
	return nil
}

var errRepoDown = errors.New("repository unavailable")
