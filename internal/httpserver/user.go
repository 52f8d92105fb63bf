package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/kstrelkov/webshop/internal/middleware/auth"
	"github.com/kstrelkov/webshop/internal/service"
	"github.com/kstrelkov/webshop/pkg/logging"
)

type UserHTTP struct {
	Svc *service.UserService
}

func (h *UserHTTP) AuthUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.self")

	userID, err := authmw.CurrentUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, "Unauthorized")
	}

	user, err := h.Svc.Get(ctx, userID)
	if err != nil {
		return respondServiceError(c, l, err, "Failed to fetch user")
	}
	return respondOK(c, http.StatusOK, "", user)
}

func (h *UserHTTP) GetUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.get")

	id, err := pathID(c)
	if err != nil {
		return respondError(c, http.StatusNotFound, "Not found")
	}

	user, err := h.Svc.Get(ctx, id)
	if err != nil {
		return respondServiceError(c, l, err, "Failed to fetch user")
	}
	return respondOK(c, http.StatusOK, "", user)
}

func (h *UserHTTP) GetUsers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.list")

	users, err := h.Svc.List(ctx)
	if err != nil {
		return respondServiceError(c, l, err, "Failed to fetch users")
	}
	return respondOK(c, http.StatusOK, "", users)
}

type userRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (h *UserHTTP) AddUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.add")

	var req userRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid body")
	}

	user, err := h.Svc.Add(ctx, service.UserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return respondServiceError(c, l, err, "Failed to add user")
	}

	l.Info("user_added", "user_id", user.ID)
	return respondOK(c, http.StatusCreated, "User added successfully", user)
}

func (h *UserHTTP) EditUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.edit")

	id, err := pathID(c)
	if err != nil {
		return respondError(c, http.StatusNotFound, "Not found")
	}

	var req userRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid body")
	}

	user, err := h.Svc.Edit(ctx, id, service.UserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return respondServiceError(c, l, err, "Failed to edit user")
	}
	return respondOK(c, http.StatusOK, "User updated successfully", user)
}

func (h *UserHTTP) DeleteUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.delete")

	id, err := pathID(c)
	if err != nil {
		return respondError(c, http.StatusNotFound, "Not found")
	}

	if err := h.Svc.Delete(ctx, id); err != nil {
		return respondServiceError(c, l, err, "Failed to delete user")
	}

	l.Info("user_deleted", "user_id", id)
	return respondOK(c, http.StatusOK, "User deleted successfully", nil)
}
