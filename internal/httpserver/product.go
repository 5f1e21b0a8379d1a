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

// ProductHandler serves the vendor's own-catalog operations.
type ProductHandler struct {
	Svc     *service.ProductService
	Timeout time.Duration
}

func (h *ProductHandler) ListMine(c echo.Context) error {
	ctx, cancel := opContext(c, h.Timeout)
	defer cancel()

	p, ok := auth.PrincipalFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "please login first")
	}

	products, err := h.Svc.ListForVendor(ctx, p.VendorID)
	if err != nil {
		logging.FromContext(ctx).Error("list_items_error", "error", err)
		return mapError(err)
	}
	return c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) Add(c echo.Context) error {
	ctx, cancel := opContext(c, h.Timeout)
	defer cancel()
	l := logging.FromContext(ctx).With("handler", "product.add")

	p, ok := auth.PrincipalFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "please login first")
	}

	var req transport.AddProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	product, err := h.Svc.Add(ctx, p.VendorID, req.ProductName, req.Price, req.Description)
	if err != nil {
		l.Warn("add_item_error", "error", err)
		return mapError(err)
	}

	l.Info("add_item_success", "product_id", product.ID)
	return c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) Delete(c echo.Context) error {
	ctx, cancel := opContext(c, h.Timeout)
	defer cancel()

	p, ok := auth.PrincipalFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "please login first")
	}

	var req transport.DeleteProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.Delete(ctx, p.VendorID, req.ProductID); err != nil {
		logging.FromContext(ctx).Warn("delete_item_error", "error", err)
		return mapError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "product deleted"})
}

func (h *ProductHandler) UpdateStatus(c echo.Context) error {
	ctx, cancel := opContext(c, h.Timeout)
	defer cancel()

	p, ok := auth.PrincipalFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "please login first")
	}

	var req transport.UpdateProductStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.UpdateStatus(ctx, p.VendorID, req.ProductID, req.Status); err != nil {
		logging.FromContext(ctx).Warn("update_product_status_error", "error", err)
		return mapError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "product status updated"})
}
