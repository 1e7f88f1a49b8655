package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mercadito/marketplace-system/internal/api/metrics"
	"github.com/mercadito/marketplace-system/internal/core/domain"
	"github.com/mercadito/marketplace-system/internal/core/ports"
)

// SyncMarker is a fast-path idempotency marker for replication pushes
// (Redis). The replica store remains authoritative; marker failures only cost
// an extra store lookup.
type SyncMarker interface {
	IsSynced(ctx context.Context, email string) (bool, error)
	Mark(ctx context.Context, email string) error
}

type userService struct {
	repo   ports.ReplicaRepository
	marker SyncMarker
	log    zerolog.Logger
}

// NewUserService returns a UserService over the local replica store.
func NewUserService(repo ports.ReplicaRepository, marker SyncMarker, log zerolog.Logger) ports.UserService {
	return &userService{repo: repo, marker: marker, log: log}
}

func (s *userService) List(ctx context.Context) ([]domain.PublicIdentity, error) {
	return s.repo.List(ctx)
}

func (s *userService) Get(ctx context.Context, id int64) (*domain.PublicIdentity, error) {
	return s.repo.FindByID(ctx, id)
}

// Update mutates the local replica only; the change is not propagated back to
// the auth service, which keeps issuing tokens from its own record.
func (s *userService) Update(ctx context.Context, id int64, in ports.UpdateUserInput) (*domain.PublicIdentity, error) {
	identity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Email != "" && in.Email != identity.Email {
		existing, err := s.repo.FindByEmail(ctx, in.Email)
		if err != nil && !errors.Is(err, domain.ErrIdentityNotFound) {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, domain.ErrEmailTaken
		}
		identity.Email = in.Email
	}
	if in.Role != "" {
		if !domain.ValidRole(in.Role) {
			return nil, fmt.Errorf("update user: unknown role %q", in.Role)
		}
		identity.Role = in.Role
	}

	if err := s.repo.Update(ctx, identity); err != nil {
		return nil, err
	}
	return identity, nil
}

func (s *userService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Sync performs the idempotent replica upsert for a replication push.
// The marker is consulted first to short-circuit repeats; the store check is
// what actually guarantees one row per email.
func (s *userService) Sync(ctx context.Context, in ports.SyncInput) (bool, error) {
	if s.marker != nil {
		synced, err := s.marker.IsSynced(ctx, in.Email)
		if err != nil {
			s.log.Warn().Err(err).Str("email", in.Email).Msg("sync marker check failed, falling back to store")
		} else if synced {
			metrics.SyncRequestsTotal.WithLabelValues("duplicate").Inc()
			return true, nil
		}
	}

	existing, err := s.repo.FindByEmail(ctx, in.Email)
	if err != nil && !errors.Is(err, domain.ErrIdentityNotFound) {
		return false, fmt.Errorf("sync identity: %w", err)
	}
	if existing != nil {
		s.markSynced(ctx, in.Email)
		metrics.SyncRequestsTotal.WithLabelValues("duplicate").Inc()
		return true, nil
	}

	if err := s.repo.Create(ctx, &domain.PublicIdentity{ID: in.ID, Email: in.Email, Role: in.Role}); err != nil {
		return false, fmt.Errorf("sync identity: %w", err)
	}
	s.markSynced(ctx, in.Email)

	metrics.SyncRequestsTotal.WithLabelValues("created").Inc()
	s.log.Info().Int64("id", in.ID).Str("email", in.Email).Msg("identity replica created")
	return false, nil
}

func (s *userService) markSynced(ctx context.Context, email string) {
	if s.marker == nil {
		return
	}
	if err := s.marker.Mark(ctx, email); err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("failed to set sync marker")
	}
}
