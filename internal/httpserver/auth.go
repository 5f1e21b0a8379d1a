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

type AuthHandler struct {
	Svc     *service.AuthService
	Tokens  *auth.TokenService
	Timeout time.Duration
}

func (h *AuthHandler) Register(c echo.Context) error {
	ctx, cancel := opContext(c, h.Timeout)
	defer cancel()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.SignupRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	result, err := h.Svc.Signup(ctx, service.SignupInput{
		Role:     req.Role,
		Name:     req.Name,
		Email:    req.Email,
		LoginID:  req.LoginID,
		Password: req.Password,
		Category: req.Category,
		Phone:    req.Phone,
	})
	if err != nil {
		l.Warn("register_error", "error", err)
		return mapError(err)
	}

	l.Info("register_success", "user_id", result.User.ID)
	return c.JSON(http.StatusCreated, result.User)
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx, cancel := opContext(c, h.Timeout)
	defer cancel()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, vendor, err := h.Svc.Login(ctx, req.LoginID, req.Role, req.Password)
	if err != nil {
		l.Warn("login_error", "error", err)
		return mapError(err)
	}

	p := auth.Principal{UserID: user.ID, Name: user.Name, Role: user.Role}
	if vendor != nil {
		p.VendorID = vendor.ID
	}

	pair, err := h.Tokens.IssuePair(p)
	if err != nil {
		l.Error("login_error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	c.SetCookie(auth.CreateCookie(auth.AccessCookie, pair.AccessToken, "/", pair.AccessExp))
	c.SetCookie(auth.CreateCookie(auth.RefreshCookie, pair.RefreshToken, "/", pair.RefreshExp))

	l.Info("login_success", "role", user.Role)
	return c.JSON(http.StatusOK, transport.LoginResponse{
		Name:     user.Name,
		Role:     user.Role,
		VendorID: p.VendorID,
	})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(auth.RefreshCookie); err == nil {
		if err := h.Tokens.Revoke(cookie.Value); err != nil {
			logging.FromContext(c.Request().Context()).Warn("logout_revoke_error", "error", err)
		}
	}

	expired := time.Now().Add(-time.Hour)
	c.SetCookie(auth.CreateCookie(auth.AccessCookie, "", "/", expired))
	c.SetCookie(auth.CreateCookie(auth.RefreshCookie, "", "/", expired))
	return c.NoContent(http.StatusNoContent)
}
