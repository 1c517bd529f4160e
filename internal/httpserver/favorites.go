package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/handsnminds/platform/internal/logging"
	"github.com/handsnminds/platform/internal/mykafka"
	"github.com/handsnminds/platform/internal/userstate"
)

type FavoritesHTTP struct {
	Users    *userstate.Manager
	Producer *mykafka.Producer
}

func (h *FavoritesHTTP) GetFavorites(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get_favorites")

	userID, err := getUserID(c)
	if err != nil {
		l.Error("get_favorites_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	store := h.Users.Favorites(userID.String())
	return c.JSON(http.StatusOK, echo.Map{
		"items": store.List(),
		"count": store.Count(),
	})
}

func (h *FavoritesHTTP) AddFavorite(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "add_favorite")

	userID, err := getUserID(c)
	if err != nil {
		l.Error("add_favorite_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	productID := c.Param("product_id")
	if productID == "" {
		return c.JSON(http.StatusBadRequest, "product_id required")
	}

	store := h.Users.Favorites(userID.String())
	store.Add(productID)

	publish(c, h.Producer, "favorites_events", map[string]any{
		"type":      "favorite_added",
		"userID":    userID.String(),
		"productID": productID,
	})

	return c.JSON(http.StatusCreated, store.List())
}

func (h *FavoritesHTTP) RemoveFavorite(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "remove_favorite")

	userID, err := getUserID(c)
	if err != nil {
		l.Error("remove_favorite_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	productID := c.Param("product_id")
	if productID == "" {
		return c.JSON(http.StatusBadRequest, "product_id required")
	}

	store := h.Users.Favorites(userID.String())
	store.Remove(productID)

	publish(c, h.Producer, "favorites_events", map[string]any{
		"type":      "favorite_removed",
		"userID":    userID.String(),
		"productID": productID,
	})

	return c.JSON(http.StatusOK, store.List())
}

func (h *FavoritesHTTP) ClearFavorites(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "clear_favorites")

	userID, err := getUserID(c)
	if err != nil {
		l.Error("clear_favorites_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	h.Users.Favorites(userID.String()).Clear()

	publish(c, h.Producer, "favorites_events", map[string]any{
		"type":   "favorites_cleared",
		"userID": userID.String(),
	})

	return c.JSON(http.StatusOK, "favorites cleared")
}
