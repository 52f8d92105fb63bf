package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/kstrelkov/webshop/internal/middleware/auth"
	"github.com/kstrelkov/webshop/internal/service"
	"github.com/kstrelkov/webshop/pkg/logging"
)

type RatingHTTP struct {
	Svc *service.RatingService
}

func (h *RatingHTTP) GetProductRatings(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "rating.list")

	productID, err := pathID(c)
	if err != nil {
		return respondError(c, http.StatusNotFound, "Product not found")
	}

	ratings, err := h.Svc.ForProduct(ctx, productID)
	if err != nil {
		return respondServiceError(c, l, err, "Failed to fetch ratings")
	}
	return respondOK(c, http.StatusOK, "", ratings)
}

func (h *RatingHTTP) GetProductRatingStats(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "rating.stats")

	productID, err := pathID(c)
	if err != nil {
		return respondError(c, http.StatusNotFound, "Product not found")
	}

	stats, err := h.Svc.Stats(ctx, productID)
	if err != nil {
		return respondServiceError(c, l, err, "Failed to fetch rating stats")
	}
	return respondOK(c, http.StatusOK, "", stats)
}

func (h *RatingHTTP) Store(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "rating.store")

	userID, err := authmw.CurrentUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, "Unauthorized")
	}

	var req struct {
		ProductID uint   `json:"product_id"`
		Rating    int    `json:"rating"`
		Review    string `json:"review"`
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid body")
	}

	rating, created, err := h.Svc.Upsert(ctx, userID, req.ProductID, req.Rating, req.Review)
	if err != nil {
		return respondServiceError(c, l, err, "Failed to save rating")
	}

	message := "Rating updated successfully"
	if created {
		message = "Rating created successfully"
	}
	return respondOK(c, http.StatusOK, message, rating)
}

func (h *RatingHTTP) GetUserRating(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "rating.user")

	userID, err := authmw.CurrentUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, "Unauthorized")
	}

	productID, err := pathID(c)
	if err != nil {
		return respondError(c, http.StatusNotFound, "Product not found")
	}

	rating, err := h.Svc.ForUser(ctx, userID, productID)
	if err != nil {
		return respondServiceError(c, l, err, "Failed to get user rating")
	}
	return respondOK(c, http.StatusOK, "", rating)
}

func (h *RatingHTTP) Destroy(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "rating.destroy")

	userID, err := authmw.CurrentUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, "Unauthorized")
	}

	id, err := pathID(c)
	if err != nil {
		return respondError(c, http.StatusNotFound, "Not found")
	}

	if err := h.Svc.Delete(ctx, userID, id); err != nil {
		return respondServiceError(c, l, err, "Failed to delete rating")
	}
	return respondOK(c, http.StatusOK, "Rating deleted successfully", nil)
}
