package auth

import (
	"errors"
	"net/http"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	AccessCookie  = "accessToken"
	RefreshCookie = "refreshToken"
)

func CreateCookie(name, value, path string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// RequireRole authenticates the caller from its cookies and gates the request
// by role. An unauthenticated caller gets 401, an authenticated caller outside
// the allowed set gets 403. Expired access tokens are transparently refreshed
// when a valid refresh token is presented.
func (t *TokenService) RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, pair, err := t.authenticate(c)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "please login first")
			}

			if pair != nil {
				c.SetCookie(CreateCookie(AccessCookie, pair.AccessToken, "/", pair.AccessExp))
				c.SetCookie(CreateCookie(RefreshCookie, pair.RefreshToken, "/", pair.RefreshExp))
			}

			if !slices.Contains(roles, p.Role) {
				return echo.NewHTTPError(http.StatusForbidden, "access denied")
			}

			SetPrincipal(c, p)
			return next(c)
		}
	}
}

// authenticate resolves the caller from the access cookie, falling back to
// refresh rotation when the access token is expired or absent.
func (t *TokenService) authenticate(c echo.Context) (Principal, *TokenPair, error) {
	if cookie, err := c.Cookie(AccessCookie); err == nil {
		claims, parseErr := t.ParseAccess(cookie.Value)
		if parseErr == nil {
			p, err := principalFromAccess(claims)
			if err != nil {
				return Principal{}, nil, err
			}
			return p, nil, nil
		}
		if !errors.Is(parseErr, jwt.ErrTokenExpired) {
			return Principal{}, nil, parseErr
		}
	}

	cookie, err := c.Cookie(RefreshCookie)
	if err != nil {
		return Principal{}, nil, err
	}
	return t.Rotate(cookie.Value)
}
