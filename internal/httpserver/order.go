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

type OrderHandler struct {
	Svc     *service.OrderService
	Timeout time.Duration
}

func (h *OrderHandler) Place(c echo.Context) error {
	ctx, cancel := opContext(c, h.Timeout)
	defer cancel()
	l := logging.FromContext(ctx).With("handler", "order.place")

	p, ok := auth.PrincipalFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "please login first")
	}

	var req transport.PlaceOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.Place(ctx, p.UserID, req.VendorID, req.PaymentMethod)
	if err != nil {
		l.Warn("place_order_error", "error", err)
		return mapError(err)
	}

	l.Info("place_order_success", "order_number", order.OrderNumber)
	return c.JSON(http.StatusCreated, transport.PlaceOrderResponse{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
	})
}

func (h *OrderHandler) ListMine(c echo.Context) error {
	ctx, cancel := opContext(c, h.Timeout)
	defer cancel()

	p, ok := auth.PrincipalFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "please login first")
	}

	orders, err := h.Svc.ForUser(ctx, p.UserID)
	if err != nil {
		logging.FromContext(ctx).Error("list_orders_error", "error", err)
		return mapError(err)
	}
	return c.JSON(http.StatusOK, orders)
}

// Transactions lists the calling vendor's orders with buyer identity.
func (h *OrderHandler) Transactions(c echo.Context) error {
	ctx, cancel := opContext(c, h.Timeout)
	defer cancel()

	p, ok := auth.PrincipalFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "please login first")
	}

	orders, err := h.Svc.ForVendor(ctx, p.VendorID)
	if err != nil {
		logging.FromContext(ctx).Error("vendor_transactions_error", "error", err)
		return mapError(err)
	}
	return c.JSON(http.StatusOK, orders)
}
