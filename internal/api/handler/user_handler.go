package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/mercadito/marketplace-system/internal/core/domain"
	"github.com/mercadito/marketplace-system/internal/core/ports"
)

// UserHandler exposes the replicated identity store: admin CRUD plus the
// replication receiver.
type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type syncRequest struct {
	ID    int64  `json:"id" validate:"required,gt=0"`
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required,oneof=admin cliente"`
}

type updateUserRequest struct {
	Email string `json:"email" validate:"omitempty,email"`
	Role  string `json:"role" validate:"omitempty,oneof=admin cliente"`
}

// Sync is the replication receiver: an idempotent upsert keyed by email,
// keeping the id assigned by the auth service. Repeats acknowledge without
// writing.
//
// @Summary      Receive a replicated identity from the auth service
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      syncRequest  true  "Replicated identity"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /sync_user [post]
func (h *UserHandler) Sync(c echo.Context) error {
	var req syncRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	alreadySynced, err := h.userService.Sync(c.Request().Context(), ports.SyncInput{
		ID:    req.ID,
		Email: req.Email,
		Role:  req.Role,
	})
	if err != nil {
		return err
	}

	if alreadySynced {
		return c.JSON(http.StatusOK, map[string]string{"message": "user already synced"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": fmt.Sprintf("user %s synced", req.Email)})
}

// List handles GET /users (admin only).
//
// @Summary      List replicated identities
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.PublicIdentity
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.userService.List(c.Request().Context())
	if err != nil {
		return err
	}
	if users == nil {
		users = []domain.PublicIdentity{}
	}
	return c.JSON(http.StatusOK, users)
}

// Get handles GET /users/:id (admin only).
//
// @Summary      Get a replicated identity by id
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User id"
// @Success      200  {object}  domain.PublicIdentity
// @Failure      404  {object}  map[string]string
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	user, err := h.userService.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrIdentityNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "user not found"})
		}
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Update handles PUT /users/:id (admin only). The change applies to the
// local replica only and is never propagated back to the auth service.
//
// @Summary      Update a replicated identity
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                true  "User id"
// @Param        body  body      updateUserRequest  true  "Fields to update"
// @Success      200   {object}  domain.PublicIdentity
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userService.Update(c.Request().Context(), id, ports.UpdateUserInput{
		Email: req.Email,
		Role:  req.Role,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrIdentityNotFound):
			return c.JSON(http.StatusNotFound, map[string]string{"error": "user not found"})
		case errors.Is(err, domain.ErrEmailTaken):
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "email already in use"})
		}
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Delete handles DELETE /users/:id (admin only).
//
// @Summary      Delete a replicated identity
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User id"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.userService.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, domain.ErrIdentityNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "user not found"})
		}
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "user deleted"})
}

// pathID parses the numeric :id path parameter.
func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}
