package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/kstrelkov/webshop/internal/middleware/auth"
	"github.com/kstrelkov/webshop/internal/service"
	"github.com/kstrelkov/webshop/pkg/logging"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

type credentialsRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func loginPayload(res *service.LoginResult) map[string]any {
	return map[string]any{
		"user":          res.User,
		"token":         res.AccessToken,
		"refresh_token": res.RefreshToken,
		"token_type":    "Bearer",
		"expires_at":    res.AccessExp,
		"role":          res.User.Role,
		"id":            res.User.ID,
	}
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid body")
	}

	res, err := h.Svc.Register(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		return respondServiceError(c, l, err, "Failed to register user")
	}

	l.Info("user_registered", "user_id", res.User.ID)
	return respondOK(c, http.StatusCreated, "User registered successfully", loginPayload(res))
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid body")
	}
	if req.Email == "" || req.Password == "" {
		return respondError(c, http.StatusUnprocessableEntity, "email and password are required")
	}

	res, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return respondServiceError(c, l, err, "Failed to log in")
	}

	l.Info("user_logged_in", "user_id", res.User.ID)
	return respondOK(c, http.StatusOK, "Login successful", loginPayload(res))
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.refresh")

	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid body")
	}

	res, err := h.Svc.Refresh(ctx, req.RefreshToken)
	if err != nil {
		return respondServiceError(c, l, err, "Failed to refresh token")
	}
	return respondOK(c, http.StatusOK, "Token refreshed", loginPayload(res))
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	userID, err := authmw.CurrentUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, "Unauthorized")
	}

	if err := h.Svc.Logout(ctx, userID); err != nil {
		return respondServiceError(c, l, err, "Failed to log out")
	}

	l.Info("user_logged_out", "user_id", userID)
	return respondOK(c, http.StatusOK, "Successfully logged out", nil)
}
