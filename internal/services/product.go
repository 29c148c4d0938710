package services

import (
	"log"

	"kingtires/internal/models"
)

// ProductService handles product-related business logic
type ProductService struct {
	productRepo ProductRepository
	notifier    StockNotifier
}

// NewProductService creates a new product service. notifier may be nil.
func NewProductService(productRepo ProductRepository, notifier StockNotifier) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		notifier:    notifier,
	}
}

// CreateProduct creates a new product
func (s *ProductService) CreateProduct(req *models.ProductCreateRequest) (*models.Product, error) {
	return s.productRepo.Create(req)
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(id int) (*models.Product, error) {
	if id <= 0 {
		return nil, models.ErrInvalidID
	}
	return s.productRepo.GetByID(id)
}

// ListProducts retrieves products with pagination
func (s *ProductService) ListProducts(limit, offset int) ([]*models.Product, int, error) {
	return s.productRepo.List(limit, offset)
}

// UpdateProduct updates a product
func (s *ProductService) UpdateProduct(id int, req *models.ProductUpdateRequest) (*models.Product, error) {
	if id <= 0 {
		return nil, models.ErrInvalidID
	}

	product, err := s.productRepo.Update(id, req)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.PublishStockChanged(product.ID, product.Stock); err != nil {
			log.Printf("Warning: failed to publish stock change for product %d: %v", product.ID, err)
		}
	}

	return product, nil
}

// DeleteProduct deletes a product
func (s *ProductService) DeleteProduct(id int) error {
	if id <= 0 {
		return models.ErrInvalidID
	}
	return s.productRepo.Delete(id)
}
