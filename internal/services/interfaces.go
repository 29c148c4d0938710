package services

import (
	"kingtires/internal/models"
)

// UserRepository interface for user data operations
type UserRepository interface {
	Create(req *models.UserRegisterRequest, passwordHash string, role models.UserRole) (*models.User, error)
	GetByID(id int) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	AttachCart(userID, cartID int) error
}

// ProductRepository interface for product data operations, including the
// stock ledger
type ProductRepository interface {
	Create(req *models.ProductCreateRequest) (*models.Product, error)
	GetByID(id int) (*models.Product, error)
	List(limit, offset int) ([]*models.Product, int, error)
	Update(id int, req *models.ProductUpdateRequest) (*models.Product, error)
	Delete(id int) error
	GetStock(id int) (int, error)
	DecrementStock(id, amount int) (*models.Product, error)
	IncrementStock(id, amount int) (*models.Product, error)
}

// CartRepository interface for cart data operations
type CartRepository interface {
	Create() (*models.Cart, error)
	GetByIDWithProducts(id int) (*models.Cart, error)
	AddProduct(cartID, productID, quantity int) (*models.Cart, error)
	UpdateQuantity(cartID, productID, quantity int) (*models.Cart, error)
	RemoveProduct(cartID, productID int) (*models.Cart, error)
	ReplaceItems(cartID int, items []models.CartItemRef) (*models.Cart, error)
	Clear(cartID int) (*models.Cart, error)
}

// TicketRepository interface for purchase ticket persistence
type TicketRepository interface {
	Create(req *models.TicketCreateRequest) (*models.Ticket, error)
	GetByCode(code string) (*models.Ticket, error)
	GetByUser(userID int) ([]*models.Ticket, error)
}

// StockNotifier publishes store events after a checkout. Implementations
// must be safe for concurrent use; publish failures are logged, never fatal.
type StockNotifier interface {
	PublishStockChanged(productID, stock int) error
	PublishTicketCreated(ticket *models.Ticket) error
}
