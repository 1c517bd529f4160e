package httpserver

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/handsnminds/platform/internal/catalog"
	"github.com/handsnminds/platform/internal/logging"
	"github.com/handsnminds/platform/internal/models"
	"github.com/handsnminds/platform/internal/util"
)

type CatalogHTTP struct {
	Svc *catalog.Service
}

func (h *CatalogHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get_products")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	filter := catalog.Filter{
		Kind:     c.QueryParam("kind"),
		Category: c.QueryParam("category"),
		Offset:   offset,
		Limit:    limit,
	}
	if seller := c.QueryParam("seller_id"); seller != "" {
		if id, err := uuid.Parse(seller); err == nil {
			filter.SellerID = id
		}
	}

	items := h.Svc.List(ctx, filter)

	l.Info("get_products_success", "count", len(items))
	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": map[string]any{
			"page": page,
			"size": limit,
		},
	})
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get_product")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("get_product_failed", "status", 400, "reason", "id not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id not a uuid")
	}

	product := h.Svc.Get(ctx, id)
	if product == nil {
		l.Warn("get_product_failed", "status", 404, "reason", "product with this id dont exist")
		return echo.NewHTTPError(http.StatusNotFound, "product with this id dont exist")
	}

	return c.JSON(http.StatusOK, product)
}

// GetSellerProducts lists the caller's own products, unpublished included.
func (h *CatalogHTTP) GetSellerProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get_seller_products")

	sellerID, err := getUserID(c)
	if err != nil {
		l.Error("get_seller_products_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	return c.JSON(http.StatusOK, h.Svc.ListForSeller(ctx, sellerID))
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "create_product")

	sellerID, err := getUserID(c)
	if err != nil {
		l.Error("product_create_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	var product models.Product
	if err := c.Bind(&product); err != nil {
		l.Warn("product_create_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	product.SellerID = sellerID

	if err := h.Svc.CreateProduct(ctx, &product); err != nil {
		if errors.Is(err, catalog.ErrValidation) {
			l.Warn("product_create_error", "status", 400, "reason", "invalid body", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
		}
		l.Error("product_create_error", "status", 500, "reason", "cannot add product to db", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot add product to db")
	}

	l.Info("create_product_success")
	return c.JSON(http.StatusCreated, catalog.Flatten(product))
}

func (h *CatalogHTTP) CreateReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "create_review")

	userID, err := getUserID(c)
	if err != nil {
		l.Error("create_review_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("create_review_error", "status", 400, "reason", "id not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id not a uuid")
	}

	var req struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("create_review_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	review := models.Review{
		ProductID: productID,
		UserID:    userID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if ok := h.Svc.SubmitReview(ctx, &review); !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"submitted": false})
	}

	l.Info("create_review_success")
	return c.JSON(http.StatusCreated, echo.Map{"submitted": true, "review": review})
}
