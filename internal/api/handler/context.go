package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mercadito/marketplace-system/internal/api/middleware"
	"github.com/mercadito/marketplace-system/internal/core/domain"
)

// ctxIdentity extracts the identity injected by the DelegatedAuth middleware
// and fast-fails before any service call when it is absent (presence proves
// the middleware ran on this route).
func ctxIdentity(c echo.Context) (*domain.PublicIdentity, error) {
	identity, _ := c.Get(middleware.IdentityKey).(*domain.PublicIdentity)
	if identity == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return identity, nil
}
