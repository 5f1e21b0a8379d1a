package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kotenkov/event_market/internal/auth"
	"github.com/kotenkov/event_market/internal/logging"
	"github.com/kotenkov/event_market/internal/service"
	"github.com/kotenkov/event_market/internal/transport"
)

type CartHandler struct {
	Svc     *service.CartService
	Timeout time.Duration
}

func (h *CartHandler) View(c echo.Context) error {
	ctx, cancel := opContext(c, h.Timeout)
	defer cancel()

	p, ok := auth.PrincipalFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "please login first")
	}

	view, err := h.Svc.View(ctx, p.UserID)
	if err != nil {
		logging.FromContext(ctx).Error("view_cart_error", "error", err)
		return mapError(err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *CartHandler) Add(c echo.Context) error {
	ctx, cancel := opContext(c, h.Timeout)
	defer cancel()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	p, ok := auth.PrincipalFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "please login first")
	}

	var req transport.AddToCartRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	item, err := h.Svc.AddItem(ctx, p.UserID, req.ProductID, req.Quantity)
	if err != nil {
		l.Warn("add_to_cart_error", "error", err)
		return mapError(err)
	}

	l.Info("add_to_cart_success", "cart_item_id", item.ID)
	return c.JSON(http.StatusOK, item)
}

func (h *CartHandler) Update(c echo.Context) error {
	ctx, cancel := opContext(c, h.Timeout)
	defer cancel()

	p, ok := auth.PrincipalFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "please login first")
	}

	var req transport.UpdateCartRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.UpdateQuantity(ctx, p.UserID, req.CartItemID, req.Quantity); err != nil {
		logging.FromContext(ctx).Warn("update_cart_error", "error", err)
		return mapError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "cart updated"})
}

func (h *CartHandler) Delete(c echo.Context) error {
	ctx, cancel := opContext(c, h.Timeout)
	defer cancel()

	p, ok := auth.PrincipalFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "please login first")
	}

	var req transport.DeleteCartRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.RemoveItem(ctx, p.UserID, req.CartItemID); err != nil {
		logging.FromContext(ctx).Warn("delete_cart_error", "error", err)
		return mapError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "item deleted"})
}
