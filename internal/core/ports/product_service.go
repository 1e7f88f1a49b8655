package ports

import (
	"context"

	"github.com/mercadito/marketplace-system/internal/core/domain"
)

type CreateProductInput struct {
	Name        string
	Price       float64
	Description string
}

// UpdateProductInput carries optional fields; nil means "leave unchanged".
type UpdateProductInput struct {
	Name        *string
	Price       *float64
	Description *string
}

type ProductService interface {
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, in CreateProductInput) (*domain.Product, error)
	Update(ctx context.Context, id int64, in UpdateProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
}

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	FindByName(ctx context.Context, name string) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id int64) error
}
