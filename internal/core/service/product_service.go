package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mercadito/marketplace-system/internal/core/domain"
	"github.com/mercadito/marketplace-system/internal/core/ports"
)

type productService struct {
	repo ports.ProductRepository
	log  zerolog.Logger
}

func NewProductService(repo ports.ProductRepository, log zerolog.Logger) ports.ProductService {
	return &productService{repo: repo, log: log}
}

func (s *productService) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}

func (s *productService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *productService) Create(ctx context.Context, in ports.CreateProductInput) (*domain.Product, error) {
	name := strings.TrimSpace(in.Name)
	if err := s.ensureNameFree(ctx, name, 0); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &domain.Product{
		Name:        name,
		Price:       in.Price,
		Description: in.Description,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("id", created.ID).Str("name", created.Name).Msg("product created")
	return created, nil
}

func (s *productService) Update(ctx context.Context, id int64, in ports.UpdateProductInput) (*domain.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name != "" && name != product.Name {
			if err := s.ensureNameFree(ctx, name, id); err != nil {
				return nil, err
			}
			product.Name = name
		}
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if in.Description != nil && *in.Description != "" {
		product.Description = *in.Description
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// ensureNameFree enforces catalog-wide name uniqueness. selfID exempts the
// product being updated from the check.
func (s *productService) ensureNameFree(ctx context.Context, name string, selfID int64) error {
	existing, err := s.repo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return domain.ErrProductExists
	}
	return nil
}
