package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/mercadito/marketplace-system/internal/core/domain"
	"github.com/mercadito/marketplace-system/internal/core/ports"
)

// ProductFetcher resolves a product from the products service, forwarding the
// caller's bearer token unchanged.
type ProductFetcher interface {
	Fetch(ctx context.Context, productID int64, bearer string) (*domain.Product, error)
}

type orderService struct {
	repo     ports.OrderRepository
	products ProductFetcher
	log      zerolog.Logger
}

func NewOrderService(repo ports.OrderRepository, products ProductFetcher, log zerolog.Logger) ports.OrderService {
	return &orderService{repo: repo, products: products, log: log}
}

func (s *orderService) List(ctx context.Context) ([]domain.Order, error) {
	return s.repo.List(ctx)
}

func (s *orderService) Get(ctx context.Context, id int64) (*domain.Order, error) {
	return s.repo.FindByID(ctx, id)
}

// Create resolves the product, prices the order, and persists a denormalized
// row. Product lookup failures surface unchanged (not found, products down).
func (s *orderService) Create(ctx context.Context, in ports.CreateOrderInput) (*domain.Order, error) {
	product, err := s.products.Fetch(ctx, in.ProductID, in.Bearer)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		Product:  product.Name,
		Price:    product.Price,
		Quantity: in.Quantity,
		Total:    product.Price * float64(in.Quantity),
	}

	created, err := s.repo.Create(ctx, order)
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("id", created.ID).Str("product", created.Product).Float64("total", created.Total).Msg("order created")
	return created, nil
}
