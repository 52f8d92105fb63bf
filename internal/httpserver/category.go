package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kstrelkov/webshop/internal/service"
	"github.com/kstrelkov/webshop/pkg/logging"
)

type CategoryHTTP struct {
	Svc *service.CategoryService
}

func (h *CategoryHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.list")

	categories, err := h.Svc.List(ctx)
	if err != nil {
		return respondServiceError(c, l, err, "Failed to fetch categories")
	}
	return respondOK(c, http.StatusOK, "", categories)
}

func (h *CategoryHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.get")

	id, err := pathID(c)
	if err != nil {
		return respondError(c, http.StatusNotFound, "Not found")
	}

	category, err := h.Svc.Get(ctx, id)
	if err != nil {
		return respondServiceError(c, l, err, "Failed to fetch category")
	}
	return respondOK(c, http.StatusOK, "", category)
}

func (h *CategoryHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.create")

	var req struct {
		Name string `json:"name" form:"name"`
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid body")
	}

	category, err := h.Svc.Create(ctx, req.Name)
	if err != nil {
		return respondServiceError(c, l, err, "Failed to create category")
	}

	l.Info("category_created", "category_id", category.ID)
	return respondOK(c, http.StatusOK, "Category created successfully", category)
}

func (h *CategoryHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.update")

	id, err := pathID(c)
	if err != nil {
		return respondError(c, http.StatusNotFound, "Not found")
	}

	var req struct {
		Name string `json:"name" form:"name"`
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid body")
	}

	category, err := h.Svc.Update(ctx, id, req.Name)
	if err != nil {
		return respondServiceError(c, l, err, "Failed to update category")
	}
	return respondOK(c, http.StatusOK, "Category updated successfully", category)
}

func (h *CategoryHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.delete")

	id, err := pathID(c)
	if err != nil {
		return respondError(c, http.StatusNotFound, "Not found")
	}

	if err := h.Svc.Delete(ctx, id); err != nil {
		return respondServiceError(c, l, err, "Failed to delete category")
	}
	return respondOK(c, http.StatusOK, "Category deleted successfully", nil)
}
