package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/filehub-app/filehub/internal/logging"
	"github.com/filehub-app/filehub/internal/middleware"
	"github.com/filehub-app/filehub/internal/service"
	"github.com/filehub-app/filehub/internal/transport"
)

type AuthHTTP struct {
	Auth   *service.AuthService
	Tokens *service.TokenService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, transport.Fail[any]("invalid body"))
	}

	user, err := h.Auth.Register(ctx, req.Email, req.UserName, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			l.Warn("register_error", "status", 400, "error", err)
			return c.JSON(http.StatusBadRequest, transport.Fail[any]("Register failed", err.Error()))
		case errors.Is(err, service.ErrDuplicateEmail):
			l.Warn("register_error", "status", 400, "reason", "duplicate email")
			return c.JSON(http.StatusBadRequest, transport.Fail[any]("Register failed", "email already registered"))
		default:
			l.Error("register_error", "status", 500, "error", err)
			return c.JSON(http.StatusInternalServerError, transport.Fail[any]("Register failed"))
		}
	}

	return c.JSON(http.StatusOK, transport.Ok("Register successfully", user))
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, transport.Fail[any]("invalid body"))
	}

	pair, err := h.Auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAccountLocked):
			l.Warn("login_failed", "status", 400, "reason", "account locked")
			return c.JSON(http.StatusBadRequest, transport.Fail[any]("Account locked due to multiple failed attempts"))
		case errors.Is(err, service.ErrInvalidCredentials):
			l.Warn("login_failed", "status", 401)
			return c.JSON(http.StatusUnauthorized, transport.Fail[any]("Invalid login attempt"))
		default:
			l.Error("login_failed", "status", 500, "error", err)
			return c.JSON(http.StatusInternalServerError, transport.Fail[any]("Login failed"))
		}
	}

	return c.JSON(http.StatusOK, transport.Ok("Login successfully", pair))
}

func (h *AuthHTTP) ExternalLogin(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_external_login")

	var req transport.ExternalLoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, transport.Fail[any]("invalid body"))
	}

	pair, err := h.Auth.ExternalLogin(ctx, req.IDToken)
	if err != nil {
		if errors.Is(err, service.ErrExternalTokenInvalid) {
			l.Warn("external_login_failed", "status", 400)
			return c.JSON(http.StatusBadRequest, transport.Fail[any]("Invalid Google token."))
		}
		l.Error("external_login_failed", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, transport.Fail[any]("External login failed"))
	}

	return c.JSON(http.StatusOK, transport.Ok("Login successfully", pair))
}

func (h *AuthHTTP) ForgotPassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_forgot_password")

	var req transport.ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, transport.Fail[any]("invalid body"))
	}

	message, err := h.Auth.ForgotPassword(ctx, req.Email)
	if err != nil {
		// The send failure surfaces to the caller, which leaks whether the
		// address exists.
		l.Error("forgot_password_failed", "error", err)
		return c.JSON(http.StatusOK, transport.Fail[any](err.Error()))
	}

	return c.JSON(http.StatusOK, transport.Ok[any](message, nil))
}

func (h *AuthHTTP) ResetPassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_reset_password")

	var req transport.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, transport.Fail[any]("invalid body"))
	}
	if req.NewPassword != req.ConfirmPassword {
		return c.JSON(http.StatusBadRequest, transport.Fail[any]("Password reset failed", "passwords do not match"))
	}

	if err := h.Auth.ResetPassword(ctx, req.Email, req.Token, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidUserOrToken),
			errors.Is(err, service.ErrTokenInvalidOrExpired),
			errors.Is(err, service.ErrValidation):
			l.Warn("reset_password_failed", "status", 400, "error", err)
			return c.JSON(http.StatusBadRequest, transport.Fail[any]("Password reset failed", err.Error()))
		default:
			l.Error("reset_password_failed", "status", 500, "error", err)
			return c.JSON(http.StatusInternalServerError, transport.Fail[any]("Password reset failed"))
		}
	}

	return c.JSON(http.StatusOK, transport.Ok[any]("Password reset successfully", nil))
}

func (h *AuthHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := h.Auth.FindByID(ctx, middleware.UserID(c))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, transport.Fail[any]("User not found"))
		}
		return c.JSON(http.StatusInternalServerError, transport.Fail[any]("Cannot load user"))
	}

	return c.JSON(http.StatusOK, transport.Ok("User found", user))
}

// Logout is a client-side operation: tokens are stateless, so the server has
// nothing to revoke.
func (h *AuthHTTP) Logout(c echo.Context) error {
	logging.FromContext(c.Request().Context()).
		With("handler", "auth_logout").
		Info("logout", "user_id", middleware.UserID(c))
	return c.JSON(http.StatusOK, transport.Ok[any]("Logged out", nil))
}

func (h *AuthHTTP) RefreshToken(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_refresh_token")

	var req transport.RefreshTokenRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, transport.Fail[any]("invalid body"))
	}

	pair, err := h.Tokens.Refresh(ctx, req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExpiredToken):
			l.Warn("refresh_failed", "status", 401, "reason", "expired")
			return c.JSON(http.StatusUnauthorized, transport.Fail[any]("Refresh token has expired"))
		case errors.Is(err, service.ErrInvalidToken):
			l.Warn("refresh_failed", "status", 401, "reason", "invalid")
			return c.JSON(http.StatusUnauthorized, transport.Fail[any]("Invalid token"))
		case errors.Is(err, service.ErrUserNotFound):
			l.Warn("refresh_failed", "status", 401, "reason", "user not found")
			return c.JSON(http.StatusUnauthorized, transport.Fail[any]("User not found"))
		default:
			l.Error("refresh_failed", "status", 500, "error", err)
			return c.JSON(http.StatusInternalServerError, transport.Fail[any]("Refresh failed"))
		}
	}

	return c.JSON(http.StatusOK, transport.Ok("Token refreshed successfully", pair))
}
