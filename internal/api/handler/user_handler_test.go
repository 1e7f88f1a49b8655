package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/mercadito/marketplace-system/internal/core/domain"
	"github.com/mercadito/marketplace-system/internal/core/ports"
)

type stubUserService struct {
	syncFn   func(ctx context.Context, in ports.SyncInput) (bool, error)
	listFn   func(ctx context.Context) ([]domain.PublicIdentity, error)
	getFn    func(ctx context.Context, id int64) (*domain.PublicIdentity, error)
	updateFn func(ctx context.Context, id int64, in ports.UpdateUserInput) (*domain.PublicIdentity, error)
	deleteFn func(ctx context.Context, id int64) error
}

func (s *stubUserService) Sync(ctx context.Context, in ports.SyncInput) (bool, error) {
	return s.syncFn(ctx, in)
}

func (s *stubUserService) List(ctx context.Context) ([]domain.PublicIdentity, error) {
	return s.listFn(ctx)
}

func (s *stubUserService) Get(ctx context.Context, id int64) (*domain.PublicIdentity, error) {
	return s.getFn(ctx, id)
}

func (s *stubUserService) Update(ctx context.Context, id int64, in ports.UpdateUserInput) (*domain.PublicIdentity, error) {
	return s.updateFn(ctx, id, in)
}

func (s *stubUserService) Delete(ctx context.Context, id int64) error {
	return s.deleteFn(ctx, id)
}

func TestUserHandler_Sync_FirstDelivery(t *testing.T) {
	stub := &stubUserService{
		syncFn: func(ctx context.Context, in ports.SyncInput) (bool, error) {
			if in.ID != 7 || in.Email != "a@x.com" || in.Role != domain.RoleClient {
				t.Fatalf("unexpected input: %+v", in)
			}
			return false, nil
		},
	}
	handler := NewUserHandler(stub)

	c, rec := newAuthTestContext(t, http.MethodPost, "/sync_user",
		`{"id":7,"email":"a@x.com","role":"cliente"}`)

	if err := handler.Sync(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["message"] != "user a@x.com synced" {
		t.Fatalf("unexpected message: %q", resp["message"])
	}
}

func TestUserHandler_Sync_Repeat(t *testing.T) {
	stub := &stubUserService{
		syncFn: func(ctx context.Context, in ports.SyncInput) (bool, error) {
			return true, nil
		},
	}
	handler := NewUserHandler(stub)

	c, rec := newAuthTestContext(t, http.MethodPost, "/sync_user",
		`{"id":7,"email":"a@x.com","role":"cliente"}`)

	if err := handler.Sync(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["message"] != "user already synced" {
		t.Fatalf("unexpected message: %q", resp["message"])
	}
}

func TestUserHandler_Sync_InvalidPayload(t *testing.T) {
	stub := &stubUserService{
		syncFn: func(ctx context.Context, in ports.SyncInput) (bool, error) {
			t.Fatalf("should not be called")
			return false, nil
		},
	}
	handler := NewUserHandler(stub)

	cases := []struct {
		name string
		body string
		code int
	}{
		{"missing id", `{"email":"a@x.com","role":"cliente"}`, http.StatusUnprocessableEntity},
		{"bad email", `{"id":7,"email":"nope","role":"cliente"}`, http.StatusUnprocessableEntity},
		{"unknown role", `{"id":7,"email":"a@x.com","role":"root"}`, http.StatusUnprocessableEntity},
		{"not json", `{{`, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newAuthTestContext(t, http.MethodPost, "/sync_user", tc.body)

			err := handler.Sync(c)
			var httpErr *echo.HTTPError
			if !errors.As(err, &httpErr) {
				t.Fatalf("expected *echo.HTTPError, got %v", err)
			}
			if httpErr.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, httpErr.Code)
			}
		})
	}
}

func TestUserHandler_Get_NotFound(t *testing.T) {
	stub := &stubUserService{
		getFn: func(ctx context.Context, id int64) (*domain.PublicIdentity, error) {
			return nil, domain.ErrIdentityNotFound
		},
	}
	handler := NewUserHandler(stub)

	c, rec := newAuthTestContext(t, http.MethodGet, "/users/9", "")
	c.SetParamNames("id")
	c.SetParamValues("9")

	_ = handler.Get(c)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestUserHandler_Get_InvalidID(t *testing.T) {
	handler := NewUserHandler(&stubUserService{
		getFn: func(ctx context.Context, id int64) (*domain.PublicIdentity, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	})

	c, _ := newAuthTestContext(t, http.MethodGet, "/users/abc", "")
	c.SetParamNames("id")
	c.SetParamValues("abc")

	err := handler.Get(c)
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	if httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", httpErr.Code)
	}
}

func TestUserHandler_List_EmptyIsArray(t *testing.T) {
	stub := &stubUserService{
		listFn: func(ctx context.Context) ([]domain.PublicIdentity, error) {
			return nil, nil
		},
	}
	handler := NewUserHandler(stub)

	c, rec := newAuthTestContext(t, http.MethodGet, "/users", "")

	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got := rec.Body.String(); got != "[]\n" {
		t.Fatalf("expected empty array body, got %q", got)
	}
}

func TestUserHandler_Update_EmailTaken(t *testing.T) {
	stub := &stubUserService{
		updateFn: func(ctx context.Context, id int64, in ports.UpdateUserInput) (*domain.PublicIdentity, error) {
			return nil, domain.ErrEmailTaken
		},
	}
	handler := NewUserHandler(stub)

	c, rec := newAuthTestContext(t, http.MethodPut, "/users/1", `{"email":"taken@x.com"}`)
	c.SetParamNames("id")
	c.SetParamValues("1")

	_ = handler.Update(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUserHandler_Delete_Success(t *testing.T) {
	deleted := int64(0)
	stub := &stubUserService{
		deleteFn: func(ctx context.Context, id int64) error {
			deleted = id
			return nil
		},
	}
	handler := NewUserHandler(stub)

	c, rec := newAuthTestContext(t, http.MethodDelete, "/users/3", "")
	c.SetParamNames("id")
	c.SetParamValues("3")

	if err := handler.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if deleted != 3 {
		t.Fatalf("expected delete of id 3, got %d", deleted)
	}
}
