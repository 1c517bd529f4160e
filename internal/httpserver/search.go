package httpserver

import (
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/labstack/echo/v4"

	"github.com/handsnminds/platform/internal/catalog"
	"github.com/handsnminds/platform/internal/logging"
	"github.com/handsnminds/platform/internal/search"
	"github.com/handsnminds/platform/internal/util"
)

type SearchHTTP struct {
	ES    *elasticsearch.Client
	Index string
}

func NewSearchHTTP(es *elasticsearch.Client, index string) *SearchHTTP {
	return &SearchHTTP{
		ES:    es,
		Index: index,
	}
}

// SearchProducts degrades to an empty result set when the search backend
// is unavailable, matching the catalog read path.
func (h *SearchHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "search_products")

	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "q required")
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	from, limit := util.Calculate(page, size)

	if h.ES == nil {
		l.Warn("search_unavailable")
		return c.JSON(http.StatusOK, echo.Map{"total": 0, "products": []catalog.ProductView{}})
	}

	total, products, err := search.Search(ctx, h.ES, h.Index, q, from, limit)
	if err != nil {
		l.Error("search_error", "error", err)
		return c.JSON(http.StatusOK, echo.Map{"total": 0, "products": []catalog.ProductView{}})
	}

	return c.JSON(http.StatusOK, echo.Map{"total": total, "products": products})
}
