package auth

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

const principalKey = "principal"

// Principal is the request-scoped identity of the caller. It is re-derived
// from the presented token on every request, never cached across requests.
type Principal struct {
	UserID   uint
	Name     string
	Role     string
	VendorID uint
}

func SetPrincipal(c echo.Context, p Principal) {
	c.Set(principalKey, p)
}

func PrincipalFrom(c echo.Context) (Principal, bool) {
	p, ok := c.Get(principalKey).(Principal)
	return p, ok
}

func principalFromAccess(claims *AccessClaims) (Principal, error) {
	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return Principal{}, err
	}
	return Principal{
		UserID:   uint(userID),
		Name:     claims.Name,
		Role:     claims.Role,
		VendorID: claims.VendorID,
	}, nil
}
