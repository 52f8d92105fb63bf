package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	authmw "github.com/kstrelkov/webshop/internal/middleware/auth"
	"github.com/kstrelkov/webshop/internal/service"
	"github.com/kstrelkov/webshop/pkg/logging"
)

type CartHTTP struct {
	Svc *service.CartService
}

func pathID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// Cart bodies are a couple of numbers; a bind failure means a malformed or
// negative value, which callers should see as a validation failure.
func respondInvalidFields(c echo.Context, fields ...string) error {
	errs := make(map[string][]string, len(fields))
	for _, f := range fields {
		errs[f] = []string{"must be a non-negative integer"}
	}
	return c.JSON(http.StatusUnprocessableEntity, Envelope{
		Success: false,
		Message: "Validation failed",
		Errors:  errs,
	})
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	userID, err := authmw.CurrentUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, "Unauthorized")
	}

	items, summary, err := h.Svc.List(ctx, userID)
	if err != nil {
		return respondServiceError(c, l, err, "Failed to fetch cart items")
	}

	return respondOK(c, http.StatusOK, "", map[string]any{
		"items":   items,
		"summary": summary,
	})
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	userID, err := authmw.CurrentUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, "Unauthorized")
	}

	var req struct {
		ProductID uint `json:"product_id"`
		Quantity  uint `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("bind_failed", "status", 422, "error", err)
		return respondInvalidFields(c, "product_id", "quantity")
	}

	item, _, err := h.Svc.Add(ctx, userID, req.ProductID, req.Quantity)
	if err != nil {
		return respondServiceError(c, l, err, "Failed to add item to cart")
	}

	items, summary, err := h.Svc.List(ctx, userID)
	if err != nil {
		return respondServiceError(c, l, err, "Failed to fetch cart items")
	}

	l.Info("cart_item_added", "user_id", userID, "product_id", req.ProductID)
	return respondOK(c, http.StatusCreated, "Item added to cart successfully", map[string]any{
		"item":    item,
		"items":   items,
		"summary": summary,
	})
}

func (h *CartHTTP) UpdateCartItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update")

	userID, err := authmw.CurrentUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, "Unauthorized")
	}

	lineID, err := pathID(c)
	if err != nil {
		return respondError(c, http.StatusNotFound, "Not found")
	}

	var req struct {
		Quantity uint `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("bind_failed", "status", 422, "error", err)
		return respondInvalidFields(c, "quantity")
	}

	item, _, err := h.Svc.Update(ctx, userID, lineID, req.Quantity)
	if err != nil {
		return respondServiceError(c, l, err, "Failed to update cart item")
	}

	items, summary, err := h.Svc.List(ctx, userID)
	if err != nil {
		return respondServiceError(c, l, err, "Failed to fetch cart items")
	}

	return respondOK(c, http.StatusOK, "Cart item updated successfully", map[string]any{
		"item":    item,
		"items":   items,
		"summary": summary,
	})
}

func (h *CartHTTP) RemoveCartItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove")

	userID, err := authmw.CurrentUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, "Unauthorized")
	}

	lineID, err := pathID(c)
	if err != nil {
		return respondError(c, http.StatusNotFound, "Not found")
	}

	if _, err := h.Svc.Remove(ctx, userID, lineID); err != nil {
		return respondServiceError(c, l, err, "Failed to remove item from cart")
	}

	items, summary, err := h.Svc.List(ctx, userID)
	if err != nil {
		return respondServiceError(c, l, err, "Failed to fetch cart items")
	}

	return respondOK(c, http.StatusOK, "Item removed from cart successfully", map[string]any{
		"items":   items,
		"summary": summary,
	})
}

func (h *CartHTTP) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear")

	userID, err := authmw.CurrentUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, "Unauthorized")
	}

	summary, err := h.Svc.Clear(ctx, userID)
	if err != nil {
		return respondServiceError(c, l, err, "Failed to clear cart")
	}

	l.Info("cart_cleared", "user_id", userID)
	return respondOK(c, http.StatusOK, "Cart cleared successfully", map[string]any{
		"summary": summary,
	})
}

func (h *CartHTTP) CartCount(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.count")

	userID, err := authmw.CurrentUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, "Unauthorized")
	}

	count, err := h.Svc.Count(ctx, userID)
	if err != nil {
		return respondServiceError(c, l, err, "Failed to get cart count")
	}

	return respondOK(c, http.StatusOK, "", map[string]any{"count": count})
}
