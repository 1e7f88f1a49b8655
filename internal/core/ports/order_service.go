package ports

import (
	"context"

	"github.com/mercadito/marketplace-system/internal/core/domain"
)

// CreateOrderInput references a product by id; the bearer token of the
// requesting client is forwarded unchanged to the products service.
type CreateOrderInput struct {
	ProductID int64
	Quantity  int
	Bearer    string
}

type OrderService interface {
	List(ctx context.Context) ([]domain.Order, error)
	Get(ctx context.Context, id int64) (*domain.Order, error)
	Create(ctx context.Context, in CreateOrderInput) (*domain.Order, error)
}

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	FindByID(ctx context.Context, id int64) (*domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
}
