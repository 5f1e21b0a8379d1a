package httpserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kotenkov/event_market/internal/auth"
	"github.com/kotenkov/event_market/internal/logging"
	"github.com/kotenkov/event_market/internal/service"
	"github.com/kotenkov/event_market/internal/transport"
)

type GuestListHandler struct {
	Svc     *service.GuestListService
	Timeout time.Duration
}

func (h *GuestListHandler) List(c echo.Context) error {
	ctx, cancel := opContext(c, h.Timeout)
	defer cancel()

	p, ok := auth.PrincipalFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "please login first")
	}

	lists, err := h.Svc.List(ctx, p.UserID)
	if err != nil {
		logging.FromContext(ctx).Error("list_guest_lists_error", "error", err)
		return mapError(err)
	}
	return c.JSON(http.StatusOK, lists)
}

func (h *GuestListHandler) Create(c echo.Context) error {
	ctx, cancel := opContext(c, h.Timeout)
	defer cancel()

	p, ok := auth.PrincipalFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "please login first")
	}

	var req transport.CreateGuestListRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	gl, err := h.Svc.Create(ctx, p.UserID, req.ListName)
	if err != nil {
		logging.FromContext(ctx).Warn("create_guest_list_error", "error", err)
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, gl)
}

func (h *GuestListHandler) AddEntry(c echo.Context) error {
	ctx, cancel := opContext(c, h.Timeout)
	defer cancel()

	p, ok := auth.PrincipalFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "please login first")
	}

	listID, err := strconv.ParseUint(c.Param("listId"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid list id")
	}

	var req transport.AddGuestEntryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	entry, err := h.Svc.AddEntry(ctx, p.UserID, uint(listID), req.GuestName, req.Phone)
	if err != nil {
		logging.FromContext(ctx).Warn("add_guest_entry_error", "error", err)
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, entry)
}
