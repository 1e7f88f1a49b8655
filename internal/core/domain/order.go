package domain

import "errors"

// Order is a purchase recorded by the orders service. Product data is
// denormalized at creation time; later catalog changes do not touch it.
type Order struct {
	ID       int64   `json:"id"`
	Product  string  `json:"product"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Total    float64 `json:"total"`
}

var ErrOrderNotFound = errors.New("order not found")
