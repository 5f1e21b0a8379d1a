package httpserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kotenkov/event_market/internal/logging"
	"github.com/kotenkov/event_market/internal/service"
)

// UserHandler serves the buyer-facing browse endpoints.
type UserHandler struct {
	Admin    *service.AdminService
	Products *service.ProductService
	Timeout  time.Duration
}

func (h *UserHandler) BrowseVendors(c echo.Context) error {
	ctx, cancel := opContext(c, h.Timeout)
	defer cancel()

	vendors, err := h.Admin.BrowseVendors(ctx, c.QueryParam("category"))
	if err != nil {
		logging.FromContext(ctx).Error("browse_vendors_error", "error", err)
		return mapError(err)
	}
	return c.JSON(http.StatusOK, vendors)
}

func (h *UserHandler) VendorProducts(c echo.Context) error {
	ctx, cancel := opContext(c, h.Timeout)
	defer cancel()

	vendorID, err := strconv.ParseUint(c.Param("vendorId"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid vendor id")
	}

	products, err := h.Products.ListAvailable(ctx, uint(vendorID))
	if err != nil {
		logging.FromContext(ctx).Warn("vendor_products_error", "error", err)
		return mapError(err)
	}
	return c.JSON(http.StatusOK, products)
}

func (h *UserHandler) SearchProducts(c echo.Context) error {
	ctx, cancel := opContext(c, h.Timeout)
	defer cancel()

	from, _ := strconv.Atoi(c.QueryParam("from"))
	size, err := strconv.Atoi(c.QueryParam("size"))
	if err != nil || size <= 0 {
		size = 20
	}

	total, products, err := h.Products.Find(ctx, c.QueryParam("q"), from, size)
	if err != nil {
		logging.FromContext(ctx).Warn("search_products_error", "error", err)
		return mapError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"total":    total,
		"products": products,
	})
}
