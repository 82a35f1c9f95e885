package tokens

import (
	"github.com/golang-jwt/jwt/v5"
)

type AccessClaims struct {
	Name  string   `json:"name"`
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

type RefreshClaims struct {
	jwt.RegisteredClaims
}
