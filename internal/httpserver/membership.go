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

type MembershipHandler struct {
	Svc     *service.MembershipService
	Timeout time.Duration
}

func (h *MembershipHandler) Add(c echo.Context) error {
	ctx, cancel := opContext(c, h.Timeout)
	defer cancel()
	l := logging.FromContext(ctx).With("handler", "membership.add")

	p, ok := auth.PrincipalFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "please login first")
	}

	var req transport.AddMembershipRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.VendorID == 0 || req.MembershipDuration == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "all fields are required")
	}

	m, err := h.Svc.Create(ctx, req.VendorID, req.MembershipDuration, p.UserID)
	if err != nil {
		l.Warn("add_membership_error", "error", err)
		return mapError(err)
	}

	l.Info("add_membership_success", "membership_no", m.MembershipNo)
	return c.JSON(http.StatusCreated, transport.AddMembershipResponse{
		MembershipNo: m.MembershipNo,
		StartDate:    m.StartDate,
		EndDate:      m.EndDate,
	})
}

// Update extends or cancels a membership depending on the requested action.
func (h *MembershipHandler) Update(c echo.Context) error {
	ctx, cancel := opContext(c, h.Timeout)
	defer cancel()
	l := logging.FromContext(ctx).With("handler", "membership.update")

	p, ok := auth.PrincipalFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "please login first")
	}

	var req transport.UpdateMembershipRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.MembershipID == 0 || req.Action == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid input")
	}

	switch req.Action {
	case "extend":
		m, err := h.Svc.Extend(ctx, req.MembershipID, req.ExtensionDuration, p.UserID)
		if err != nil {
			l.Warn("extend_membership_error", "error", err)
			return mapError(err)
		}
		l.Info("extend_membership_success", "membership_no", m.MembershipNo)
		return c.JSON(http.StatusOK, m)
	case "cancel":
		if err := h.Svc.Cancel(ctx, req.MembershipID, req.CancellationReason, p.UserID); err != nil {
			l.Warn("cancel_membership_error", "error", err)
			return mapError(err)
		}
		l.Info("cancel_membership_success", "membership_id", req.MembershipID)
		return c.JSON(http.StatusOK, map[string]string{"message": "membership cancelled successfully"})
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "invalid action")
	}
}

// History returns the audit trail for one membership.
func (h *MembershipHandler) History(c echo.Context) error {
	ctx, cancel := opContext(c, h.Timeout)
	defer cancel()

	membershipID, err := strconv.ParseUint(c.Param("membershipId"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid membership id")
	}

	updates, err := h.Svc.History(ctx, uint(membershipID))
	if err != nil {
		logging.FromContext(ctx).Warn("membership_history_error", "error", err)
		return mapError(err)
	}
	return c.JSON(http.StatusOK, updates)
}

func (h *MembershipHandler) Get(c echo.Context) error {
	ctx, cancel := opContext(c, h.Timeout)
	defer cancel()

	membershipNo := c.Param("membershipNo")
	detail, err := h.Svc.GetByNumber(ctx, membershipNo)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, detail)
}
