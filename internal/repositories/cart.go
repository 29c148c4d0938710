package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"kingtires/internal/models"
)

// CartRepository handles cart data operations
type CartRepository struct {
	db *sql.DB
}

// NewCartRepository creates a new cart repository
func NewCartRepository(db *sql.DB) *CartRepository {
	return &CartRepository{db: db}
}

// Create creates a new empty cart
func (r *CartRepository) Create() (*models.Cart, error) {
	cart := &models.Cart{Items: []models.CartItem{}}

	now := time.Now()
	err := r.db.QueryRow(
		"INSERT INTO carts (created_at, updated_at) VALUES ($1, $1) RETURNING id, created_at, updated_at",
		now,
	).Scan(&cart.ID, &cart.CreatedAt, &cart.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}

	return cart, nil
}

// GetByIDWithProducts retrieves a cart with every line item's product
// reference resolved to the live product record. Line items whose product
// no longer exists are kept, with a nil Product.
func (r *CartRepository) GetByIDWithProducts(id int) (*models.Cart, error) {
	cart := &models.Cart{Items: []models.CartItem{}}

	err := r.db.QueryRow("SELECT id, created_at, updated_at FROM carts WHERE id = $1", id).
		Scan(&cart.ID, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	query := `
		SELECT ci.product_id, ci.quantity,
		       p.id, p.title, p.description, p.code, p.price, p.status, p.stock, p.category, p.thumbnails, p.created_at, p.updated_at
		FROM cart_items ci
		LEFT JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.position`

	rows, err := r.db.Query(query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.CartItem
		var (
			pID          sql.NullInt64
			pTitle       sql.NullString
			pDescription sql.NullString
			pCode        sql.NullString
			pPrice       sql.NullInt64
			pStatus      sql.NullBool
			pStock       sql.NullInt64
			pCategory    sql.NullString
			pThumbnails  []string
			pCreatedAt   sql.NullTime
			pUpdatedAt   sql.NullTime
		)

		err := rows.Scan(
			&item.ProductID,
			&item.Quantity,
			&pID,
			&pTitle,
			&pDescription,
			&pCode,
			&pPrice,
			&pStatus,
			&pStock,
			&pCategory,
			pq.Array(&pThumbnails),
			&pCreatedAt,
			&pUpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}

		if pID.Valid {
			item.Product = &models.Product{
				ID:          int(pID.Int64),
				Title:       pTitle.String,
				Description: pDescription.String,
				Code:        pCode.String,
				Price:       int(pPrice.Int64),
				Status:      pStatus.Bool,
				Stock:       int(pStock.Int64),
				Category:    pCategory.String,
				Thumbnails:  pThumbnails,
				CreatedAt:   pCreatedAt.Time,
				UpdatedAt:   pUpdatedAt.Time,
			}
		}

		cart.Items = append(cart.Items, item)
	}

	return cart, rows.Err()
}

// AddProduct adds a product to a cart, merging quantities when the product
// is already present
func (r *CartRepository) AddProduct(cartID, productID, quantity int) (*models.Cart, error) {
	if quantity <= 0 {
		quantity = 1
	}

	if _, err := r.GetByIDWithProducts(cartID); err != nil {
		return nil, err
	}

	var exists bool
	err := r.db.QueryRow("SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)", productID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check product: %w", err)
	}
	if !exists {
		return nil, models.ErrProductNotFound
	}

	query := `
		INSERT INTO cart_items (cart_id, product_id, quantity, position)
		VALUES ($1, $2, $3, (SELECT COALESCE(MAX(position) + 1, 0) FROM cart_items WHERE cart_id = $1))
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity`

	if _, err := r.db.Exec(query, cartID, productID, quantity); err != nil {
		return nil, fmt.Errorf("failed to add product to cart: %w", err)
	}

	if err := r.touch(cartID); err != nil {
		return nil, err
	}

	return r.GetByIDWithProducts(cartID)
}

// UpdateQuantity sets the quantity of a product in a cart. A quantity of
// zero or less removes the line item.
func (r *CartRepository) UpdateQuantity(cartID, productID, quantity int) (*models.Cart, error) {
	if quantity <= 0 {
		return r.RemoveProduct(cartID, productID)
	}

	result, err := r.db.Exec(
		"UPDATE cart_items SET quantity = $3 WHERE cart_id = $1 AND product_id = $2",
		cartID, productID, quantity,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update quantity: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check updated rows: %w", err)
	}
	if affected == 0 {
		return nil, models.ErrCartNotFound
	}

	if err := r.touch(cartID); err != nil {
		return nil, err
	}

	return r.GetByIDWithProducts(cartID)
}

// RemoveProduct removes a product from a cart
func (r *CartRepository) RemoveProduct(cartID, productID int) (*models.Cart, error) {
	if _, err := r.GetByIDWithProducts(cartID); err != nil {
		return nil, err
	}

	_, err := r.db.Exec("DELETE FROM cart_items WHERE cart_id = $1 AND product_id = $2", cartID, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to remove product from cart: %w", err)
	}

	if err := r.touch(cartID); err != nil {
		return nil, err
	}

	return r.GetByIDWithProducts(cartID)
}

// ReplaceItems rewrites a cart's line items in one transaction, preserving
// the order of the given references
func (r *CartRepository) ReplaceItems(cartID int, items []models.CartItemRef) (*models.Cart, error) {
	for i := range items {
		if err := items[i].Validate(); err != nil {
			return nil, fmt.Errorf("validation failed: %w", err)
		}
	}

	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRow("SELECT EXISTS(SELECT 1 FROM carts WHERE id = $1)", cartID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check cart: %w", err)
	}
	if !exists {
		return nil, models.ErrCartNotFound
	}

	if _, err := tx.Exec("DELETE FROM cart_items WHERE cart_id = $1", cartID); err != nil {
		return nil, fmt.Errorf("failed to clear cart items: %w", err)
	}

	for i, item := range items {
		_, err := tx.Exec(
			"INSERT INTO cart_items (cart_id, product_id, quantity, position) VALUES ($1, $2, $3, $4)",
			cartID, item.ProductID, item.Quantity, i,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert cart item: %w", err)
		}
	}

	if _, err := tx.Exec("UPDATE carts SET updated_at = $2 WHERE id = $1", cartID, time.Now()); err != nil {
		return nil, fmt.Errorf("failed to touch cart: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit cart rewrite: %w", err)
	}

	return r.GetByIDWithProducts(cartID)
}

// Clear removes every line item from a cart
func (r *CartRepository) Clear(cartID int) (*models.Cart, error) {
	return r.ReplaceItems(cartID, []models.CartItemRef{})
}

func (r *CartRepository) touch(cartID int) error {
	if _, err := r.db.Exec("UPDATE carts SET updated_at = $2 WHERE id = $1", cartID, time.Now()); err != nil {
		return fmt.Errorf("failed to touch cart: %w", err)
	}
	return nil
}
