package models

import (
	"errors"
	"strings"
	"time"
)

// Product represents a catalog product
type Product struct {
	ID          int       `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Code        string    `json:"code" db:"code"`
	Price       int       `json:"price" db:"price"` // Price in cents
	Status      bool      `json:"status" db:"status"`
	Stock       int       `json:"stock" db:"stock"`
	Category    string    `json:"category" db:"category"`
	Thumbnails  []string  `json:"thumbnails" db:"thumbnails"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// ProductCreateRequest represents product creation data
type ProductCreateRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Code        string   `json:"code"`
	Price       int      `json:"price"`
	Stock       int      `json:"stock"`
	Category    string   `json:"category"`
	Thumbnails  []string `json:"thumbnails"`
}

// ProductUpdateRequest represents product update data
type ProductUpdateRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       int      `json:"price"`
	Stock       int      `json:"stock"`
	Status      bool     `json:"status"`
	Category    string   `json:"category"`
	Thumbnails  []string `json:"thumbnails"`
}

// Validate validates the product data
func (p *Product) Validate() error {
	if err := validateProductTitle(p.Title); err != nil {
		return err
	}

	if err := validateProductCode(p.Code); err != nil {
		return err
	}

	if err := validateProductPrice(p.Price); err != nil {
		return err
	}

	if err := validateProductStock(p.Stock); err != nil {
		return err
	}

	return validateProductCategory(p.Category)
}

// Validate validates product creation data
func (req *ProductCreateRequest) Validate() error {
	if err := validateProductTitle(req.Title); err != nil {
		return err
	}

	if err := validateProductCode(req.Code); err != nil {
		return err
	}

	if err := validateProductPrice(req.Price); err != nil {
		return err
	}

	if err := validateProductStock(req.Stock); err != nil {
		return err
	}

	return validateProductCategory(req.Category)
}

// Validate validates product update data
func (req *ProductUpdateRequest) Validate() error {
	if err := validateProductTitle(req.Title); err != nil {
		return err
	}

	if err := validateProductPrice(req.Price); err != nil {
		return err
	}

	if err := validateProductStock(req.Stock); err != nil {
		return err
	}

	return validateProductCategory(req.Category)
}

// validateProductTitle validates a product title
func validateProductTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return errors.New("product title is required")
	}

	if len(title) > 200 {
		return errors.New("product title must be less than 200 characters")
	}

	return nil
}

// validateProductCode validates a product code
func validateProductCode(code string) error {
	if strings.TrimSpace(code) == "" {
		return errors.New("product code is required")
	}

	if len(code) > 50 {
		return errors.New("product code must be less than 50 characters")
	}

	return nil
}

// validateProductPrice validates a product price
func validateProductPrice(price int) error {
	if price < 0 {
		return errors.New("product price cannot be negative")
	}

	return nil
}

// validateProductStock validates a product stock quantity
func validateProductStock(stock int) error {
	if stock < 0 {
		return errors.New("product stock cannot be negative")
	}

	return nil
}

// validateProductCategory validates a product category
func validateProductCategory(category string) error {
	if strings.TrimSpace(category) == "" {
		return errors.New("product category is required")
	}

	return nil
}

// IsActive returns true if the product is available for sale
func (p *Product) IsActive() bool {
	return p.Status
}

// IsInStock returns true if at least the requested quantity is available
func (p *Product) IsInStock(quantity int) bool {
	return p.Stock >= quantity
}

// PriceInCurrency returns the price in the main currency as a float
func (p *Product) PriceInCurrency() float64 {
	return float64(p.Price) / 100.0
}
