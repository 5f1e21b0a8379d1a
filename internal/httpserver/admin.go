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

// AdminHandler serves the back-office management and reporting endpoints.
type AdminHandler struct {
	Svc     *service.AdminService
	Timeout time.Duration
}

func (h *AdminHandler) ListUsers(c echo.Context) error {
	ctx, cancel := opContext(c, h.Timeout)
	defer cancel()

	users, err := h.Svc.ListUsers(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("list_users_error", "error", err)
		return mapError(err)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *AdminHandler) ToggleUserStatus(c echo.Context) error {
	ctx, cancel := opContext(c, h.Timeout)
	defer cancel()

	var req transport.ToggleUserStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.UserID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "all fields are required")
	}

	if err := h.Svc.ToggleUserActive(ctx, req.UserID, req.Active); err != nil {
		logging.FromContext(ctx).Warn("toggle_user_status_error", "error", err)
		return mapError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "user status updated"})
}

func (h *AdminHandler) ListVendors(c echo.Context) error {
	ctx, cancel := opContext(c, h.Timeout)
	defer cancel()

	vendors, err := h.Svc.ListVendors(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("list_vendors_error", "error", err)
		return mapError(err)
	}
	return c.JSON(http.StatusOK, vendors)
}

func (h *AdminHandler) ToggleVendorStatus(c echo.Context) error {
	ctx, cancel := opContext(c, h.Timeout)
	defer cancel()

	var req transport.ToggleVendorStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.VendorID == 0 || req.Status == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "all fields are required")
	}

	if err := h.Svc.ToggleVendorStatus(ctx, req.VendorID, req.Status); err != nil {
		logging.FromContext(ctx).Warn("toggle_vendor_status_error", "error", err)
		return mapError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "vendor status updated"})
}

// ActiveVendors feeds the membership form's vendor dropdown.
func (h *AdminHandler) ActiveVendors(c echo.Context) error {
	ctx, cancel := opContext(c, h.Timeout)
	defer cancel()

	vendors, err := h.Svc.ActiveVendors(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("active_vendors_error", "error", err)
		return mapError(err)
	}
	return c.JSON(http.StatusOK, vendors)
}

func (h *AdminHandler) Dashboard(c echo.Context) error {
	ctx, cancel := opContext(c, h.Timeout)
	defer cancel()

	stats, err := h.Svc.Dashboard(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("admin_dashboard_error", "error", err)
		return mapError(err)
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *AdminHandler) Report(c echo.Context) error {
	ctx, cancel := opContext(c, h.Timeout)
	defer cancel()

	report, err := h.Svc.Report(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("admin_report_error", "error", err)
		return mapError(err)
	}
	return c.JSON(http.StatusOK, report)
}

func (h *AdminHandler) VendorDashboard(c echo.Context) error {
	ctx, cancel := opContext(c, h.Timeout)
	defer cancel()

	p, ok := auth.PrincipalFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "please login first")
	}

	stats, err := h.Svc.VendorDashboard(ctx, p.VendorID)
	if err != nil {
		logging.FromContext(ctx).Error("vendor_dashboard_error", "error", err)
		return mapError(err)
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *AdminHandler) VendorReport(c echo.Context) error {
	ctx, cancel := opContext(c, h.Timeout)
	defer cancel()

	p, ok := auth.PrincipalFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "please login first")
	}

	report, err := h.Svc.VendorReport(ctx, p.VendorID)
	if err != nil {
		logging.FromContext(ctx).Error("vendor_report_error", "error", err)
		return mapError(err)
	}
	return c.JSON(http.StatusOK, report)
}
