package ports

import (
	"context"

	"github.com/mercadito/marketplace-system/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, email, password, role string) (*domain.PublicIdentity, error)
	Login(ctx context.Context, email, password string) (string, error)
	// Verify resolves a raw bearer token to the identity it was issued for.
	Verify(ctx context.Context, rawToken string) (*domain.PublicIdentity, error)
}
