package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/handsnminds/platform/internal/cart"
	"github.com/handsnminds/platform/internal/catalog"
	"github.com/handsnminds/platform/internal/logging"
	"github.com/handsnminds/platform/internal/mykafka"
	"github.com/handsnminds/platform/internal/userstate"
)

type CartHTTP struct {
	Users    *userstate.Manager
	Catalog  *catalog.Service
	Producer *mykafka.Producer
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get_cart")

	userID, err := getUserID(c)
	if err != nil {
		l.Error("get_cart_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	store := h.Users.Cart(userID.String())
	return c.JSON(http.StatusOK, echo.Map{
		"items": store.Items(),
		"count": store.Count(),
		"total": store.Total(ctx, h.Catalog),
	})
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "add_to_cart")

	userID, err := getUserID(c)
	if err != nil {
		l.Error("add_to_cart_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	var req cart.LineItem
	if err := c.Bind(&req); err != nil {
		l.Warn("add_to_cart_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, "invalid body")
	}
	if req.ProductID == "" {
		l.Warn("add_to_cart_error", "status", 400)
		return c.JSON(http.StatusBadRequest, "product_id required")
	}

	store := h.Users.Cart(userID.String())
	store.Add(req)

	publish(c, h.Producer, "cart_events", map[string]any{
		"type":      "item_added",
		"userID":    userID.String(),
		"productID": req.ProductID,
		"quantity":  req.Quantity,
	})

	l.Info("item added successfully to cart")
	return c.JSON(http.StatusCreated, store.Items())
}

func (h *CartHTTP) UpdateQuantity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "update_cart_quantity")

	userID, err := getUserID(c)
	if err != nil {
		l.Error("update_cart_quantity_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	productID := c.Param("product_id")
	if productID == "" {
		return c.JSON(http.StatusBadRequest, "product_id required")
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("update_cart_quantity_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, "invalid body")
	}

	store := h.Users.Cart(userID.String())
	store.UpdateQuantity(productID, req.Quantity)

	publish(c, h.Producer, "cart_events", map[string]any{
		"type":      "quantity_updated",
		"userID":    userID.String(),
		"productID": productID,
		"quantity":  req.Quantity,
	})

	return c.JSON(http.StatusOK, store.Items())
}

// DeleteFromCart drops every variant of the product from the cart.
func (h *CartHTTP) DeleteFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "delete_from_cart")

	userID, err := getUserID(c)
	if err != nil {
		l.Error("delete_from_cart_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	productID := c.Param("product_id")
	if productID == "" {
		return c.JSON(http.StatusBadRequest, "product_id required")
	}

	store := h.Users.Cart(userID.String())
	store.Remove(productID)

	publish(c, h.Producer, "cart_events", map[string]any{
		"type":      "item_removed",
		"userID":    userID.String(),
		"productID": productID,
	})

	return c.JSON(http.StatusOK, store.Items())
}

func (h *CartHTTP) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "clear_cart")

	userID, err := getUserID(c)
	if err != nil {
		l.Error("clear_cart_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	h.Users.Cart(userID.String()).Clear()

	publish(c, h.Producer, "cart_events", map[string]any{
		"type":   "cart_cleared",
		"userID": userID.String(),
	})

	l.Info("cart successfully cleared")
	return c.JSON(http.StatusOK, "cart successfully cleared")
}
