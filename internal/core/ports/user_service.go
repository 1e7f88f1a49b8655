package ports

import (
	"context"

	"github.com/mercadito/marketplace-system/internal/core/domain"
)

// SyncInput is the replication payload pushed by the auth service. The id is
// assigned by auth and trusted as-is.
type SyncInput struct {
	ID    int64
	Email string
	Role  string
}

// UpdateUserInput carries the mutable fields of a replica row. Empty fields
// are left unchanged.
type UpdateUserInput struct {
	Email string
	Role  string
}

type UserService interface {
	List(ctx context.Context) ([]domain.PublicIdentity, error)
	Get(ctx context.Context, id int64) (*domain.PublicIdentity, error)
	Update(ctx context.Context, id int64, in UpdateUserInput) (*domain.PublicIdentity, error)
	Delete(ctx context.Context, id int64) error
	// Sync performs the idempotent replica upsert. alreadySynced is true when
	// a row with the same email existed before the call.
	Sync(ctx context.Context, in SyncInput) (alreadySynced bool, err error)
}
