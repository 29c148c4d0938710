package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"kingtires/internal/models"
)

// ProductRepository handles product data operations, including the stock
// ledger used by checkout.
type ProductRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

const productColumns = "id, title, description, code, price, status, stock, category, thumbnails, created_at, updated_at"

func scanProduct(row interface{ Scan(...interface{}) error }) (*models.Product, error) {
	product := &models.Product{}
	err := row.Scan(
		&product.ID,
		&product.Title,
		&product.Description,
		&product.Code,
		&product.Price,
		&product.Status,
		&product.Stock,
		&product.Category,
		pq.Array(&product.Thumbnails),
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return product, nil
}

// Create creates a new product
func (r *ProductRepository) Create(req *models.ProductCreateRequest) (*models.Product, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO products (title, description, code, price, status, stock, category, thumbnails, created_at, updated_at)
		VALUES ($1, $2, $3, $4, TRUE, $5, $6, $7, $8, $8)
		RETURNING ` + productColumns

	now := time.Now()
	product, err := scanProduct(r.db.QueryRow(
		query,
		req.Title,
		req.Description,
		req.Code,
		req.Price,
		req.Stock,
		req.Category,
		pq.Array(req.Thumbnails),
		now,
	))

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, models.ErrDuplicateEntry
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

// GetByID retrieves a product by ID
func (r *ProductRepository) GetByID(id int) (*models.Product, error) {
	query := "SELECT " + productColumns + " FROM products WHERE id = $1"

	product, err := scanProduct(r.db.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return product, nil
}

// GetByCode retrieves a product by its unique code
func (r *ProductRepository) GetByCode(code string) (*models.Product, error) {
	query := "SELECT " + productColumns + " FROM products WHERE code = $1"

	product, err := scanProduct(r.db.QueryRow(query, code))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product by code: %w", err)
	}

	return product, nil
}

// List retrieves products with pagination, newest first
func (r *ProductRepository) List(limit, offset int) ([]*models.Product, int, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	var total int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM products").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	query := "SELECT " + productColumns + " FROM products ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2"
	rows, err := r.db.Query(query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	return products, total, rows.Err()
}

// Update updates a product
func (r *ProductRepository) Update(id int, req *models.ProductUpdateRequest) (*models.Product, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	query := `
		UPDATE products
		SET title = $2, description = $3, price = $4, status = $5, stock = $6, category = $7, thumbnails = $8, updated_at = $9
		WHERE id = $1
		RETURNING ` + productColumns

	product, err := scanProduct(r.db.QueryRow(
		query,
		id,
		req.Title,
		req.Description,
		req.Price,
		req.Status,
		req.Stock,
		req.Category,
		pq.Array(req.Thumbnails),
		time.Now(),
	))

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return product, nil
}

// Delete deletes a product
func (r *ProductRepository) Delete(id int) error {
	result, err := r.db.Exec("DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if affected == 0 {
		return models.ErrProductNotFound
	}

	return nil
}

// GetStock returns the current available stock for a product
func (r *ProductRepository) GetStock(id int) (int, error) {
	var stock int
	err := r.db.QueryRow("SELECT stock FROM products WHERE id = $1", id).Scan(&stock)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, models.ErrProductNotFound
		}
		return 0, fmt.Errorf("failed to read stock: %w", err)
	}
	return stock, nil
}

// DecrementStock atomically decrements a product's stock by amount, but
// only when at least that much is available. Returns ErrInsufficientStock
// when the conditional update matches no row for an existing product, so
// a concurrent purchase can never drive stock negative.
func (r *ProductRepository) DecrementStock(id, amount int) (*models.Product, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("decrement amount must be positive, got %d", amount)
	}

	query := `
		UPDATE products
		SET stock = stock - $2, updated_at = $3
		WHERE id = $1 AND stock >= $2
		RETURNING ` + productColumns

	product, err := scanProduct(r.db.QueryRow(query, id, amount, time.Now()))
	if err == nil {
		return product, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to decrement stock: %w", err)
	}

	// No row matched: either the product is gone or stock ran out.
	if _, stockErr := r.GetStock(id); stockErr != nil {
		return nil, stockErr
	}
	return nil, models.ErrInsufficientStock
}

// IncrementStock adds amount back to a product's stock. Used to compensate
// a partially committed checkout.
func (r *ProductRepository) IncrementStock(id, amount int) (*models.Product, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("increment amount must be positive, got %d", amount)
	}

	query := `
		UPDATE products
		SET stock = stock + $2, updated_at = $3
		WHERE id = $1
		RETURNING ` + productColumns

	product, err := scanProduct(r.db.QueryRow(query, id, amount, time.Now()))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to increment stock: %w", err)
	}

	return product, nil
}
