package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/filehub-app/filehub/internal/middleware"
)

type Deps struct {
	AuthHandler *AuthHTTP
	UserHandler *UserHTTP
	FileHandler *FileHTTP
	Auth        *middleware.BearerAuth
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	auth := e.Group("/api/Authentication")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/ExternalLogin", d.AuthHandler.ExternalLogin)
	auth.POST("/forgot-password", d.AuthHandler.ForgotPassword)
	auth.POST("/reset-password", d.AuthHandler.ResetPassword)

	authPriv := e.Group("/api/Authentication", d.Auth.RequireAuth)
	authPriv.GET("/me", d.AuthHandler.Me)
	authPriv.POST("/logout", d.AuthHandler.Logout)
	authPriv.POST("/refresh-token", d.AuthHandler.RefreshToken)

	e.GET("/api/User/:id", d.UserHandler.GetByID)

	user := e.Group("/api/User", d.Auth.RequireAuth)
	user.GET("/username/:username", d.UserHandler.GetByUsername)
	user.POST("/search-receiver", d.UserHandler.SearchReceiver)
	user.PUT("/update-profile", d.UserHandler.UpdateProfile)

	file := e.Group("/api/File", d.Auth.RequireAuth)
	file.POST("/upload-file", d.FileHandler.UploadFile)
	file.GET("/recent-activities", d.FileHandler.RecentActivities)
	file.GET("/chat-history", d.FileHandler.ChatHistory)
	file.GET("/download/:id", d.FileHandler.Download)
	file.POST("/create-folder", d.FileHandler.CreateFolder)
	file.GET("/search", d.FileHandler.SearchItems)
}
