package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/filehub-app/filehub/internal/logging"
	"github.com/filehub-app/filehub/internal/middleware"
	"github.com/filehub-app/filehub/internal/service"
	"github.com/filehub-app/filehub/internal/transport"
	"github.com/filehub-app/filehub/internal/util"
)

type UserHTTP struct {
	Auth *service.AuthService
}

func (h *UserHTTP) GetByID(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := h.Auth.FindByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, transport.Fail[any]("User not found"))
		}
		return c.JSON(http.StatusInternalServerError, transport.Fail[any]("Cannot load user"))
	}

	return c.JSON(http.StatusOK, transport.Ok("User found", user))
}

func (h *UserHTTP) GetByUsername(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := h.Auth.FindByName(ctx, c.Param("username"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, transport.Fail[any]("User not found"))
		}
		return c.JSON(http.StatusInternalServerError, transport.Fail[any]("Cannot load user"))
	}

	return c.JSON(http.StatusOK, transport.Ok("User found", user))
}

func (h *UserHTTP) SearchReceiver(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user_search_receiver")

	keyword := c.QueryParam("keyword")
	pageIndex := util.ParseIntDefault(c.QueryParam("pageIndex"), 1)
	pageSize := util.ParseIntDefault(c.QueryParam("pageSize"), util.DefaultPageSize)

	list, err := h.Auth.SearchReceivers(ctx, keyword, middleware.UserID(c), pageIndex, pageSize)
	if err != nil {
		l.Error("search_receiver_failed", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, transport.Fail[any]("Search failed"))
	}

	return c.JSON(http.StatusOK, transport.Ok("Receivers retrieved successfully", list))
}

func (h *UserHTTP) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user_update_profile")

	var req transport.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, transport.Fail[any]("invalid body"))
	}

	if err := h.Auth.UpdateProfile(ctx, middleware.UserID(c), req); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, transport.Fail[any]("User not found"))
		case errors.Is(err, service.ErrCurrentPasswordNeeded),
			errors.Is(err, service.ErrCurrentPasswordInvalid),
			errors.Is(err, service.ErrValidation):
			l.Warn("update_profile_failed", "status", 400, "error", err)
			return c.JSON(http.StatusBadRequest, transport.Fail[any]("Update failed", err.Error()))
		default:
			l.Error("update_profile_failed", "status", 500, "error", err)
			return c.JSON(http.StatusInternalServerError, transport.Fail[any]("Update failed"))
		}
	}

	return c.JSON(http.StatusOK, transport.Ok[any]("Profile updated successfully", nil))
}
