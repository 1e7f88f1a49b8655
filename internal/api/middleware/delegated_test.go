package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/mercadito/marketplace-system/internal/core/domain"
)

type stubVerifier struct {
	identity *domain.PublicIdentity
	err      error
	calls    int
	lastTok  string
}

func (s *stubVerifier) Verify(_ context.Context, bearer string) (*domain.PublicIdentity, error) {
	s.calls++
	s.lastTok = bearer
	if s.err != nil {
		return nil, s.err
	}
	return s.identity, nil
}

func TestDelegatedAuth_ValidToken(t *testing.T) {
	e := echo.New()
	verifier := &stubVerifier{identity: &domain.PublicIdentity{ID: 3, Email: "a@x.com", Role: domain.RoleClient}}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer tok123")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	mw := DelegatedAuth(verifier, "orders")
	handler := mw(func(c echo.Context) error {
		called = true
		identity, _ := c.Get(IdentityKey).(*domain.PublicIdentity)
		if identity == nil || identity.Email != "a@x.com" {
			t.Fatalf("identity not attached: %+v", identity)
		}
		if c.Get("role") != domain.RoleClient {
			t.Fatalf("role not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if verifier.lastTok != "tok123" {
		t.Fatalf("token not forwarded verbatim, got %q", verifier.lastTok)
	}
}

func TestDelegatedAuth_MissingHeaderSkipsNetworkCall(t *testing.T) {
	e := echo.New()
	verifier := &stubVerifier{}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := DelegatedAuth(verifier, "orders")
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if verifier.calls != 0 {
		t.Fatalf("expected no verification call, got %d", verifier.calls)
	}
}

func TestDelegatedAuth_InvalidHeaderFormat(t *testing.T) {
	e := echo.New()
	verifier := &stubVerifier{}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := DelegatedAuth(verifier, "orders")
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if verifier.calls != 0 {
		t.Fatalf("expected no verification call, got %d", verifier.calls)
	}
}

func TestDelegatedAuth_RejectedToken(t *testing.T) {
	e := echo.New()
	verifier := &stubVerifier{err: domain.ErrInvalidToken}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bad")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := DelegatedAuth(verifier, "orders")
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestDelegatedAuth_AuthServiceDownFailsClosed(t *testing.T) {
	e := echo.New()
	verifier := &stubVerifier{err: domain.ErrAuthUnavailable}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := DelegatedAuth(verifier, "orders")
	handler := mw(func(c echo.Context) error {
		t.Fatalf("must not admit the request when auth is down")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestRequireRole_Allows(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("role", domain.RoleAdmin)

	called := false
	mw := RequireRole("orders", domain.RoleAdmin, domain.RoleClient)
	handler := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequireRole_Forbids(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("role", domain.RoleClient)

	mw := RequireRole("users", domain.RoleAdmin)
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	_ = handler(c)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}
