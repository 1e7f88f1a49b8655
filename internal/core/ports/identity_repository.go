package ports

import (
	"context"

	"github.com/mercadito/marketplace-system/internal/core/domain"
)

// IdentityRepository is the auth service's credential store. No other service
// gets a handle to it.
type IdentityRepository interface {
	Create(ctx context.Context, identity *domain.Identity) (*domain.Identity, error)
	FindByEmail(ctx context.Context, email string) (*domain.Identity, error)
}

// ReplicaRepository is the users service's local store of replicated
// identities. Rows carry no credentials.
type ReplicaRepository interface {
	// Create inserts a replica row keeping the caller-supplied id.
	Create(ctx context.Context, identity *domain.PublicIdentity) error
	FindByID(ctx context.Context, id int64) (*domain.PublicIdentity, error)
	FindByEmail(ctx context.Context, email string) (*domain.PublicIdentity, error)
	List(ctx context.Context) ([]domain.PublicIdentity, error)
	Update(ctx context.Context, identity *domain.PublicIdentity) error
	Delete(ctx context.Context, id int64) error
}
