package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/mercadito/marketplace-system/internal/api/metrics"
	"github.com/mercadito/marketplace-system/internal/core/domain"
	"github.com/mercadito/marketplace-system/internal/core/ports"
	"github.com/mercadito/marketplace-system/internal/token"
)

// ReplicaPusher pushes a newly created identity to the users service.
// Best-effort: the caller never blocks on it and never sees its failures.
type ReplicaPusher interface {
	Push(ctx context.Context, identity *domain.PublicIdentity) error
}

// AuthService implements registration, login, and token verification. It is
// the only component holding the signing secret and the credential store.
type AuthService struct {
	repo   ports.IdentityRepository
	codec  *token.Codec
	pusher ReplicaPusher
	log    zerolog.Logger
}

func NewAuthService(repo ports.IdentityRepository, codec *token.Codec, pusher ReplicaPusher, log zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, codec: codec, pusher: pusher, log: log}
}

// Register creates an identity and dispatches the one-shot replication push.
// The push runs detached from the request: registration succeeds or fails on
// the credential store write alone.
func (s *AuthService) Register(ctx context.Context, email, password, role string) (*domain.PublicIdentity, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if role == "" {
		role = domain.RoleClient
	}
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &domain.Identity{
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("id", created.ID).Str("role", created.Role).Msg("identity created")

	public := created.Public()
	if s.pusher != nil {
		// Detached from the request context: the response must not wait for
		// the push, and the request context dies when the handler returns.
		go func(id domain.PublicIdentity) {
			if err := s.pusher.Push(context.Background(), &id); err != nil {
				s.log.Warn().Err(err).Int64("id", id.ID).Msg("identity replication push failed")
			}
		}(*public)
	}

	return public, nil
}

// Login checks the credentials and issues a bearer token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", domain.ErrInvalidCredentials
	}

	identity, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrIdentityNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(password)) != nil {
		return "", domain.ErrInvalidCredentials
	}

	signed, err := s.codec.Issue(identity.Public())
	if err != nil {
		return "", err
	}

	metrics.TokensIssuedTotal.WithLabelValues(identity.Role).Inc()
	return signed, nil
}

// Verify decodes a raw bearer token and resolves its subject against the
// credential store. Codec failures report ErrInvalidToken with no further
// detail; a valid token whose subject no longer exists reports
// ErrIdentityNotFound.
func (s *AuthService) Verify(ctx context.Context, rawToken string) (*domain.PublicIdentity, error) {
	claims, err := s.codec.Verify(rawToken)
	if err != nil {
		metrics.TokenVerificationsTotal.WithLabelValues("invalid_token").Inc()
		return nil, domain.ErrInvalidToken
	}

	identity, err := s.repo.FindByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrIdentityNotFound) {
			metrics.TokenVerificationsTotal.WithLabelValues("unknown_subject").Inc()
		}
		return nil, err
	}

	metrics.TokenVerificationsTotal.WithLabelValues("ok").Inc()
	return identity.Public(), nil
}
