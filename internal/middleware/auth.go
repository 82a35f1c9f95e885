package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/filehub-app/filehub/internal/tokens"
)

type BearerAuth struct {
	Secret   []byte
	Issuer   string
	Audience string
}

func NewBearerAuth(secret []byte, issuer, audience string) *BearerAuth {
	return &BearerAuth{Secret: secret, Issuer: issuer, Audience: audience}
}

// RequireAuth validates the Authorization bearer token and stores the caller's
// identity in the echo context under "user_id", "user_name" and "roles".
func (m *BearerAuth) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		if header == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
		}

		tokenStr, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenStr == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "malformed authorization header")
		}

		claims, err := tokens.AccessClaimsFromToken(tokenStr, m.Secret, m.Issuer, m.Audience)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		}

		c.Set("user_id", claims.Subject)
		c.Set("user_name", claims.Name)
		c.Set("roles", claims.Roles)

		return next(c)
	}
}

// UserID returns the authenticated subject set by RequireAuth.
func UserID(c echo.Context) string {
	if v, ok := c.Get("user_id").(string); ok {
		return v
	}
	return ""
}
