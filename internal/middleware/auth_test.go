package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filehub-app/filehub/internal/tokens"
)

const (
	testSecret   = "test-jwt-secret"
	testIssuer   = "filehub"
	testAudience = "filehub-clients"
)

func signAccessToken(t *testing.T, ttl time.Duration) string {
	t.Helper()

	claims := tokens.AccessClaims{
		Name:  "alice",
		Roles: []string{"User"},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			Issuer:    testIssuer,
			Audience:  jwt.ClaimStrings{testAudience},
			ID:        tokens.NewJTI(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func TestRequireAuth(t *testing.T) {
	t.Parallel()

	auth := NewBearerAuth([]byte(testSecret), testIssuer, testAudience)
	e := echo.New()

	handler := auth.RequireAuth(func(c echo.Context) error {
		return c.String(http.StatusOK, UserID(c))
	})

	newCtx := func(header string) (*httptest.ResponseRecorder, echo.Context) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set(echo.HeaderAuthorization, header)
		}
		rec := httptest.NewRecorder()
		return rec, e.NewContext(req, rec)
	}

	t.Run("valid token sets identity", func(t *testing.T) {
		rec, c := newCtx("Bearer " + signAccessToken(t, time.Hour))
		require.NoError(t, handler(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "user-1", rec.Body.String())
		assert.Equal(t, "alice", c.Get("user_name"))
		assert.Equal(t, []string{"User"}, c.Get("roles"))
	})

	rejections := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc123"},
		{"empty token", "Bearer "},
		{"garbage token", "Bearer not.a.jwt"},
	}
	for _, tc := range rejections {
		t.Run(tc.name, func(t *testing.T) {
			_, c := newCtx(tc.header)
			err := handler(c)
			he, ok := err.(*echo.HTTPError)
			require.True(t, ok, "expected HTTPError")
			assert.Equal(t, http.StatusUnauthorized, he.Code)
		})
	}

	t.Run("expired token", func(t *testing.T) {
		_, c := newCtx("Bearer " + signAccessToken(t, -time.Minute))
		err := handler(c)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok, "expected HTTPError")
		assert.Equal(t, http.StatusUnauthorized, he.Code)
	})
}
