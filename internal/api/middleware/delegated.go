package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mercadito/marketplace-system/internal/api/metrics"
	"github.com/mercadito/marketplace-system/internal/core/domain"
)

// IdentityKey is the echo context key the authenticated identity is stored
// under once DelegatedAuth succeeds.
const IdentityKey = "identity"

// IdentityVerifier asks the auth service whether a bearer token is valid
// right now. The token is forwarded verbatim; downstream services never hold
// the signing secret and never decode tokens themselves.
type IdentityVerifier interface {
	Verify(ctx context.Context, bearer string) (*domain.PublicIdentity, error)
}

// DelegatedAuth authenticates requests by delegating token verification to
// the auth service. A missing or malformed Authorization header is rejected
// before any network call. When the auth service cannot be reached the
// request is denied with 503: fail closed, never open.
func DelegatedAuth(verifier IdentityVerifier, serviceName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				metrics.AuthDecisionsTotal.WithLabelValues(serviceName, "unauthenticated").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				metrics.AuthDecisionsTotal.WithLabelValues(serviceName, "unauthenticated").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			identity, err := verifier.Verify(c.Request().Context(), parts[1])
			if err != nil {
				if errors.Is(err, domain.ErrAuthUnavailable) {
					metrics.AuthDecisionsTotal.WithLabelValues(serviceName, "auth_unavailable").Inc()
					return echo.NewHTTPError(http.StatusServiceUnavailable, "authentication service unavailable")
				}
				metrics.AuthDecisionsTotal.WithLabelValues(serviceName, "unauthenticated").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			metrics.AuthDecisionsTotal.WithLabelValues(serviceName, "allowed").Inc()
			c.Set(IdentityKey, identity)
			c.Set("role", identity.Role)

			return next(c)
		}
	}
}

// RequireRole enforces the per-route role predicate on an identity attached
// by DelegatedAuth.
func RequireRole(serviceName string, allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if _, ok := allowed[role]; !ok {
				metrics.AuthDecisionsTotal.WithLabelValues(serviceName, "forbidden").Inc()
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
