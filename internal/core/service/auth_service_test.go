package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/mercadito/marketplace-system/internal/core/domain"
	"github.com/mercadito/marketplace-system/internal/token"
)

type stubIdentityRepo struct {
	identities map[string]*domain.Identity
	nextID     int64
}

func newStubIdentityRepo() *stubIdentityRepo {
	return &stubIdentityRepo{identities: make(map[string]*domain.Identity)}
}

func cloneIdentity(i *domain.Identity) *domain.Identity {
	if i == nil {
		return nil
	}
	clone := *i
	return &clone
}

func (r *stubIdentityRepo) Create(_ context.Context, identity *domain.Identity) (*domain.Identity, error) {
	if _, exists := r.identities[identity.Email]; exists {
		return nil, domain.ErrIdentityExists
	}
	r.nextID++
	copy := cloneIdentity(identity)
	copy.ID = r.nextID
	r.identities[copy.Email] = cloneIdentity(copy)
	return copy, nil
}

func (r *stubIdentityRepo) FindByEmail(_ context.Context, email string) (*domain.Identity, error) {
	identity, ok := r.identities[email]
	if !ok {
		return nil, domain.ErrIdentityNotFound
	}
	return cloneIdentity(identity), nil
}

type stubPusher struct {
	pushed chan domain.PublicIdentity
	err    error
}

func newStubPusher() *stubPusher {
	return &stubPusher{pushed: make(chan domain.PublicIdentity, 1)}
}

func (p *stubPusher) Push(_ context.Context, identity *domain.PublicIdentity) error {
	p.pushed <- *identity
	return p.err
}

func newTestAuthService(repo *stubIdentityRepo, pusher ReplicaPusher) (*AuthService, *token.Codec) {
	codec := token.NewCodec("secret", time.Hour)
	return NewAuthService(repo, codec, pusher, zerolog.Nop()), codec
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubIdentityRepo()
	svc, _ := newTestAuthService(repo, nil)

	identity, err := svc.Register(context.Background(), "a@x.com", "pass123", domain.RoleClient)
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if identity.ID == 0 {
		t.Fatalf("expected assigned id")
	}
	if identity.Role != domain.RoleClient {
		t.Fatalf("unexpected role: %s", identity.Role)
	}

	stored := repo.identities["a@x.com"]
	if stored.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestAuthService_Register_DefaultsRoleToClient(t *testing.T) {
	repo := newStubIdentityRepo()
	svc, _ := newTestAuthService(repo, nil)

	identity, err := svc.Register(context.Background(), "a@x.com", "pass", "")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if identity.Role != domain.RoleClient {
		t.Fatalf("expected default role cliente, got %s", identity.Role)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	repo := newStubIdentityRepo()
	svc, _ := newTestAuthService(repo, nil)

	if _, err := svc.Register(context.Background(), "", "pass", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "a@x.com", "", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "a@x.com", "pass", "superuser"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown role, got %v", err)
	}
}

func TestAuthService_Register_DuplicateEmailKeepsSingleRecord(t *testing.T) {
	repo := newStubIdentityRepo()
	svc, _ := newTestAuthService(repo, nil)

	if _, err := svc.Register(context.Background(), "a@x.com", "pass", domain.RoleClient); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(context.Background(), "a@x.com", "other", domain.RoleAdmin); !errors.Is(err, domain.ErrIdentityExists) {
		t.Fatalf("expected ErrIdentityExists, got %v", err)
	}
	if len(repo.identities) != 1 {
		t.Fatalf("expected exactly one record, got %d", len(repo.identities))
	}
}

func TestAuthService_Register_TriggersReplicationPush(t *testing.T) {
	repo := newStubIdentityRepo()
	pusher := newStubPusher()
	svc, _ := newTestAuthService(repo, pusher)

	identity, err := svc.Register(context.Background(), "a@x.com", "pass", domain.RoleClient)
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	select {
	case pushed := <-pusher.pushed:
		if pushed.ID != identity.ID || pushed.Email != "a@x.com" || pushed.Role != domain.RoleClient {
			t.Fatalf("unexpected push payload: %+v", pushed)
		}
	case <-time.After(time.Second):
		t.Fatalf("replication push never dispatched")
	}
}

func TestAuthService_Register_SucceedsWhenPushFails(t *testing.T) {
	repo := newStubIdentityRepo()
	pusher := newStubPusher()
	pusher.err = errors.New("users service down")
	svc, _ := newTestAuthService(repo, pusher)

	identity, err := svc.Register(context.Background(), "a@x.com", "pass", domain.RoleClient)
	if err != nil {
		t.Fatalf("registration must not depend on replication, got %v", err)
	}
	if identity == nil {
		t.Fatalf("expected identity")
	}
	<-pusher.pushed
}

func TestAuthService_Login_IssuesVerifiableToken(t *testing.T) {
	repo := newStubIdentityRepo()
	svc, codec := newTestAuthService(repo, nil)

	if _, err := svc.Register(context.Background(), "a@x.com", "pass123", domain.RoleAdmin); err != nil {
		t.Fatalf("register: %v", err)
	}

	signed, err := svc.Login(context.Background(), "a@x.com", "pass123")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	claims, err := codec.Verify(signed)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.Subject != "a@x.com" || claims.Role != domain.RoleAdmin {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestAuthService_Login_BadCredentials(t *testing.T) {
	repo := newStubIdentityRepo()
	svc, _ := newTestAuthService(repo, nil)

	if _, err := svc.Register(context.Background(), "a@x.com", "pass123", domain.RoleClient); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Login(context.Background(), "a@x.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	// Unknown email reports the same error as a wrong password.
	if _, err := svc.Login(context.Background(), "ghost@x.com", "pass123"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Verify_ReturnsIdentityWithoutHash(t *testing.T) {
	repo := newStubIdentityRepo()
	svc, _ := newTestAuthService(repo, nil)

	if _, err := svc.Register(context.Background(), "a@x.com", "pass123", domain.RoleClient); err != nil {
		t.Fatalf("register: %v", err)
	}
	signed, err := svc.Login(context.Background(), "a@x.com", "pass123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	identity, err := svc.Verify(context.Background(), signed)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if identity.Email != "a@x.com" || identity.Role != domain.RoleClient {
		t.Fatalf("unexpected identity: %+v", identity)
	}
}

func TestAuthService_Verify_InvalidToken(t *testing.T) {
	repo := newStubIdentityRepo()
	svc, _ := newTestAuthService(repo, nil)

	if _, err := svc.Verify(context.Background(), "garbage"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthService_Verify_WrongSigningKey(t *testing.T) {
	repo := newStubIdentityRepo()
	svc, _ := newTestAuthService(repo, nil)

	other := token.NewCodec("other-secret", time.Hour)
	signed, err := other.Issue(&domain.PublicIdentity{ID: 1, Email: "a@x.com", Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// Well-formed but signed with the wrong key: rejected before any lookup.
	if _, err := svc.Verify(context.Background(), signed); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthService_Verify_UnknownSubject(t *testing.T) {
	repo := newStubIdentityRepo()
	svc, codec := newTestAuthService(repo, nil)

	signed, err := codec.Issue(&domain.PublicIdentity{ID: 9, Email: "gone@x.com", Role: domain.RoleClient})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := svc.Verify(context.Background(), signed); !errors.Is(err, domain.ErrIdentityNotFound) {
		t.Fatalf("expected ErrIdentityNotFound, got %v", err)
	}
}
