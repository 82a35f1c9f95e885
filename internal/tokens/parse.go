package tokens

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// parse validates signature method, issuer, audience and expiry with zero
// clock-skew tolerance. Expired tokens are reported apart from everything
// else so callers can log the two cases separately.
func parse(tokenStr string, secret []byte, issuer, audience string, claims jwt.Claims) error {
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrExpiredToken
		}
		return ErrInvalidToken
	}
	if !tkn.Valid {
		return ErrInvalidToken
	}
	return nil
}

func AccessClaimsFromToken(tokenStr string, secret []byte, issuer, audience string) (*AccessClaims, error) {
	var claims AccessClaims
	if err := parse(tokenStr, secret, issuer, audience, &claims); err != nil {
		return nil, err
	}
	return &claims, nil
}

func RefreshClaimsFromToken(tokenStr string, secret []byte, issuer, audience string) (*RefreshClaims, error) {
	var claims RefreshClaims
	if err := parse(tokenStr, secret, issuer, audience, &claims); err != nil {
		return nil, err
	}
	return &claims, nil
}

func NewJTI() string { return uuid.NewString() }
