package domain

import "errors"

const (
	RoleAdmin  = "admin"
	RoleClient = "cliente"
)

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleClient
}

// Identity is an account as stored by the auth service. PasswordHash never
// leaves the auth service boundary.
type Identity struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
}

// PublicIdentity is the projection of an Identity that crosses service
// boundaries: verification responses, replication pushes, replica rows.
type PublicIdentity struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Public strips the credential fields from an Identity.
func (i *Identity) Public() *PublicIdentity {
	return &PublicIdentity{ID: i.ID, Email: i.Email, Role: i.Role}
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrIdentityExists     = errors.New("identity already exists")
	ErrIdentityNotFound   = errors.New("identity not found")
	ErrEmailTaken         = errors.New("email already in use")
	ErrForbidden          = errors.New("access forbidden")
	ErrAuthUnavailable    = errors.New("authentication service unavailable")
)
