package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/filehub-app/filehub/internal/logging"
	"github.com/filehub-app/filehub/internal/models"
	"github.com/filehub-app/filehub/internal/repo"
	"github.com/filehub-app/filehub/internal/tokens"
	"github.com/filehub-app/filehub/internal/transport"
)

// TokenService issues and refreshes the stateless access/refresh pair. There
// is no server-side token store: validity is signature plus expiry only, so a
// refresh token stays usable until it runs out.
type TokenService struct {
	Repo *repo.GormRepo

	Secret   []byte
	Issuer   string
	Audience string

	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func (s *TokenService) createAccessToken(user *models.User, exp time.Time) (string, error) {
	claims := tokens.AccessClaims{
		Name:  user.UserName,
		Roles: repo.RoleNames(user),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    s.Issuer,
			Audience:  jwt.ClaimStrings{s.Audience},
			ID:        tokens.NewJTI(),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.Secret)
}

func (s *TokenService) createRefreshToken(user *models.User, exp time.Time) (string, error) {
	claims := tokens.RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    s.Issuer,
			Audience:  jwt.ClaimStrings{s.Audience},
			ID:        tokens.NewJTI(),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.Secret)
}

// GenerateTokenPair mints a fresh access+refresh pair for the user.
func (s *TokenService) GenerateTokenPair(user *models.User) (*transport.TokenDTO, error) {
	now := time.Now().UTC()
	accessExp := now.Add(s.AccessTTL)
	refreshExp := now.Add(s.RefreshTTL)

	accessToken, err := s.createAccessToken(user, accessExp)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.createRefreshToken(user, refreshExp)
	if err != nil {
		return nil, err
	}

	return &transport.TokenDTO{
		Token:                  accessToken,
		Expiration:             accessExp,
		RefreshToken:           refreshToken,
		RefreshTokenExpiration: refreshExp,
	}, nil
}

// Refresh validates the refresh token, resolves its subject and rotates the
// pair. ErrExpiredToken and ErrInvalidToken are distinct failures so the two
// show up separately in logs.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (*transport.TokenDTO, error) {
	l := logging.FromContext(ctx).With("svc", "token.refresh")

	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.Secret, s.Issuer, s.Audience)
	if err != nil {
		l.Warn("refresh_rejected", "reason", err.Error())
		return nil, err
	}

	user, err := s.Repo.GetUserByID(ctx, claims.Subject)
	if err != nil {
		l.Warn("refresh_rejected", "reason", "subject does not resolve", "error", err)
		return nil, err
	}

	pair, err := s.GenerateTokenPair(user)
	if err != nil {
		l.Error("refresh_failed", "error", err)
		return nil, err
	}

	l.Info("refresh_successful", "user_id", user.ID)
	return pair, nil
}

// ParseAccess validates an access token and returns its claims.
func (s *TokenService) ParseAccess(tokenStr string) (*tokens.AccessClaims, error) {
	return tokens.AccessClaimsFromToken(tokenStr, s.Secret, s.Issuer, s.Audience)
}
