package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kstrelkov/webshop/internal/search"
	"github.com/kstrelkov/webshop/internal/util"
	"github.com/kstrelkov/webshop/pkg/logging"
)

// SearchHTTP serves the product search route. Products stays nil when the
// server runs without Elasticsearch.
type SearchHTTP struct {
	Products *search.Products
}

func (h *SearchHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "search")

	if h.Products == nil {
		l.Warn("search_unavailable", "status", 503)
		return respondError(c, http.StatusServiceUnavailable, "Search is not available")
	}

	query := c.QueryParam("q")
	if query == "" {
		return respondError(c, http.StatusUnprocessableEntity, "q is required")
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	from, limit := util.Calculate(page, size)

	total, docs, err := h.Products.Search(ctx, query, from, limit)
	if err != nil {
		l.Error("search_failed", "error", err)
		return respondError(c, http.StatusInternalServerError, "Search failed")
	}

	return respondOK(c, http.StatusOK, "", map[string]any{
		"products": docs,
		"meta": map[string]any{
			"page":  page,
			"size":  limit,
			"total": total,
		},
	})
}
