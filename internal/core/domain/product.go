package domain

import "errors"

// Product is a catalog entry owned by the products service.
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description,omitempty"`
}

var (
	ErrProductNotFound = errors.New("product not found")
	ErrProductExists   = errors.New("product name already exists")
	ErrProductsDown    = errors.New("products service unavailable")
)
