package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductCreateRequest_Validate(t *testing.T) {
	valid := func() *ProductCreateRequest {
		return &ProductCreateRequest{
			Title:       "All-Season Tire",
			Description: "A tire for every season",
			Code:        "TIRE-001",
			Price:       8000,
			Stock:       10,
			Category:    "tires",
		}
	}

	require.NoError(t, valid().Validate())

	req := valid()
	req.Title = ""
	assert.Error(t, req.Validate())

	req = valid()
	req.Price = -1
	assert.Error(t, req.Validate())

	req = valid()
	req.Stock = -5
	assert.Error(t, req.Validate())

	req = valid()
	req.Code = ""
	assert.Error(t, req.Validate())
}

func TestProductHelpers(t *testing.T) {
	product := &Product{Price: 12999, Status: true, Stock: 3}

	assert.True(t, product.IsActive())
	assert.True(t, product.IsInStock(3))
	assert.False(t, product.IsInStock(4))
	assert.Equal(t, 129.99, product.PriceInCurrency())

	product.Status = false
	assert.False(t, product.IsActive())
}

func TestUserRegisterRequest_Validate(t *testing.T) {
	valid := func() *UserRegisterRequest {
		return &UserRegisterRequest{
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     "ada@example.com",
			Age:       28,
			Password:  "secret123",
		}
	}

	require.NoError(t, valid().Validate())

	req := valid()
	req.FirstName = ""
	assert.Error(t, req.Validate())

	req = valid()
	req.Email = "nonsense"
	assert.Error(t, req.Validate())

	req = valid()
	req.Password = "short"
	assert.Error(t, req.Validate())

	req = valid()
	req.Age = 12
	assert.Error(t, req.Validate())

	// Age is optional
	req = valid()
	req.Age = 0
	assert.NoError(t, req.Validate())
}

func TestUserOwnsCart(t *testing.T) {
	cartID := 5
	withCart := &User{ID: 1, CartID: &cartID}
	assert.True(t, withCart.OwnsCart(5))
	assert.False(t, withCart.OwnsCart(6))

	withoutCart := &User{ID: 2}
	assert.True(t, withoutCart.OwnsCart(5))
}
