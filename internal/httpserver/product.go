package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/kstrelkov/webshop/internal/service"
	"github.com/kstrelkov/webshop/internal/util"
	"github.com/kstrelkov/webshop/pkg/logging"
)

type ProductHTTP struct {
	Svc    *service.CatalogService
	Images *ImageStore
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

// GetProducts answers the paginated listing when a limit is given and the
// full published set otherwise.
func (h *ProductHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.list")

	limit := parseIntDefault(c.QueryParam("limit"), 0)
	page := parseIntDefault(c.QueryParam("page"), 1)

	if limit <= 0 {
		products, _, err := h.Svc.List(ctx, true, 0, 0)
		if err != nil {
			return respondServiceError(c, l, err, "Failed to fetch products")
		}
		return respondOK(c, http.StatusOK, "", products)
	}

	offset, limit := util.Calculate(page, limit)
	products, total, err := h.Svc.List(ctx, true, offset, limit)
	if err != nil {
		return respondServiceError(c, l, err, "Failed to fetch products")
	}

	return respondOK(c, http.StatusOK, "", map[string]any{
		"products": products,
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	})
}

func (h *ProductHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get")

	id, err := pathID(c)
	if err != nil {
		return respondError(c, http.StatusNotFound, "Not found")
	}

	product, err := h.Svc.Get(ctx, id)
	if err != nil {
		return respondServiceError(c, l, err, "Failed to fetch product")
	}
	return respondOK(c, http.StatusOK, "", product)
}

func (h *ProductHTTP) GetLatest(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.latest")

	products, err := h.Svc.Latest(ctx, 6)
	if err != nil {
		return respondServiceError(c, l, err, "Failed to fetch products")
	}
	return respondOK(c, http.StatusOK, "", products)
}

func (h *ProductHTTP) GetLatestSale(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.latest_sale")

	products, err := h.Svc.LatestOnSale(ctx, 5)
	if err != nil {
		return respondServiceError(c, l, err, "Failed to fetch products")
	}
	return respondOK(c, http.StatusOK, "", products)
}

func (h *ProductHTTP) GetTopRated(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.top_rated")

	products, err := h.Svc.TopRated(ctx, 10)
	if err != nil {
		return respondServiceError(c, l, err, "Failed to fetch products")
	}
	return respondOK(c, http.StatusOK, "", products)
}

func (h *ProductHTTP) bindInput(c echo.Context) service.ProductInput {
	return service.ProductInput{
		CategoryID:  uint(parseIntDefault(c.FormValue("category"), 0)),
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		About:       c.FormValue("about"),
		Price:       parseFloatDefault(c.FormValue("price"), 0),
		Discount:    parseFloatDefault(c.FormValue("discount"), 0),
	}
}

func parseFloatDefault(s string, def float64) float64 {
	if s == "" {
		return def
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}
	return def
}

// CreateProduct takes a multipart form so images can come along with the
// product fields.
func (h *ProductHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	product, err := h.Svc.Create(ctx, h.bindInput(c))
	if err != nil {
		return respondServiceError(c, l, err, "Failed to create product")
	}

	uploaded, err := h.Images.SaveFromRequest(c, product.ID)
	if err != nil {
		l.Warn("image_upload_failed", "product_id", product.ID, "error", err)
	}

	l.Info("product_created", "product_id", product.ID)
	return respondOK(c, http.StatusOK, "Product created successfully", map[string]any{
		"product": product,
		"images":  uploaded,
	})
}

func (h *ProductHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update")

	id, err := pathID(c)
	if err != nil {
		return respondError(c, http.StatusNotFound, "Not found")
	}

	product, err := h.Svc.Update(ctx, id, h.bindInput(c))
	if err != nil {
		return respondServiceError(c, l, err, "Failed to update product")
	}

	uploaded, err := h.Images.SaveFromRequest(c, product.ID)
	if err != nil {
		l.Warn("image_upload_failed", "product_id", product.ID, "error", err)
	}

	return respondOK(c, http.StatusOK, "Product updated successfully", map[string]any{
		"product": product,
		"images":  uploaded,
	})
}

// DeleteProduct drops the rows and removes the image files from disk.
func (h *ProductHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete")

	id, err := pathID(c)
	if err != nil {
		return respondError(c, http.StatusNotFound, "Not found")
	}

	images, err := h.Svc.Delete(ctx, id)
	if err != nil {
		return respondServiceError(c, l, err, "Failed to delete product")
	}
	h.Images.RemoveFiles(l, images)

	l.Info("product_deleted", "product_id", id)
	return respondOK(c, http.StatusOK, "Product deleted successfully", nil)
}
