package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/filehub-app/filehub/internal/logging"
	"github.com/filehub-app/filehub/internal/middleware"
	"github.com/filehub-app/filehub/internal/service"
	"github.com/filehub-app/filehub/internal/transport"
	"github.com/filehub-app/filehub/internal/util"
)

type FileHTTP struct {
	Files    *service.FileService
	Activity *service.ActivityService
}

func (h *FileHTTP) UploadFile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "file_upload")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		l.Warn("upload_error", "status", 400, "reason", "missing file part", "error", err)
		return c.JSON(http.StatusBadRequest, transport.Fail[any]("Invalid file"))
	}
	receiverID := c.FormValue("receiverID")
	if receiverID == "" {
		return c.JSON(http.StatusBadRequest, transport.Fail[any]("receiverID is required"))
	}

	src, err := fileHeader.Open()
	if err != nil {
		l.Error("upload_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, transport.Fail[any]("Error uploading file"))
	}
	defer src.Close()

	file, err := h.Files.UploadFile(ctx, middleware.UserID(c), service.Upload{
		Name:        fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Content:     src,
		ReceiverID:  receiverID,
		Description: c.FormValue("description"),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyFile), errors.Is(err, service.ErrFileTooLarge):
			l.Warn("upload_error", "status", 400, "error", err)
			return c.JSON(http.StatusBadRequest, transport.Fail[any](err.Error()))
		default:
			l.Error("upload_error", "status", 500, "error", err)
			return c.JSON(http.StatusInternalServerError, transport.Fail[any]("Error uploading file"))
		}
	}

	return c.JSON(http.StatusOK, transport.Ok("File uploaded successfully",
		&transport.UploadFileResponse{ID: file.ID, Name: file.Name}))
}

func (h *FileHTTP) RecentActivities(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "file_recent_activities")

	pageIndex := util.ParseIntDefault(c.QueryParam("pageIndex"), 1)
	pageSize := util.ParseIntDefault(c.QueryParam("pageSize"), util.DefaultPageSize)

	list, err := h.Activity.RecentActivities(ctx, middleware.UserID(c), pageIndex, pageSize)
	if err != nil {
		l.Error("recent_activities_failed", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, transport.Fail[any]("Cannot retrieve activities"))
	}

	return c.JSON(http.StatusOK, transport.Ok("Recent activities retrieved successfully", list))
}

func (h *FileHTTP) ChatHistory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "file_chat_history")

	receiverID := c.QueryParam("receiverID")
	if receiverID == "" {
		return c.JSON(http.StatusBadRequest, transport.Fail[any]("receiverID is required"))
	}

	var before *time.Time
	if raw := c.QueryParam("before"); raw != "" {
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			l.Warn("chat_history_error", "status", 400, "reason", "bad cursor", "error", err)
			return c.JSON(http.StatusBadRequest, transport.Fail[any]("before must be an RFC3339 timestamp"))
		}
		before = &t
	}
	pageSize := util.ParseIntDefault(c.QueryParam("pageSize"), service.DefaultChatPageSize)

	list, err := h.Activity.ChatHistory(ctx, middleware.UserID(c), receiverID, before, pageSize)
	if err != nil {
		l.Error("chat_history_failed", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, transport.Fail[any]("Error retrieving chat history"))
	}

	return c.JSON(http.StatusOK, transport.Ok("Chat history retrieved successfully", list))
}

func (h *FileHTTP) Download(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "file_download")

	id := util.ParseIntDefault(c.Param("id"), 0)
	if id <= 0 {
		return c.JSON(http.StatusBadRequest, transport.Fail[any]("invalid file id"))
	}

	file, err := h.Files.GetFile(ctx, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, transport.Fail[any]("File not found"))
		}
		l.Error("download_failed", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, transport.Fail[any]("Cannot download file"))
	}

	contentType := file.FileType
	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+file.Name+`"`)
	return c.Blob(http.StatusOK, contentType, file.Content)
}

func (h *FileHTTP) CreateFolder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "file_create_folder")

	var req transport.CreateFolderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, transport.Fail[any]("invalid body"))
	}

	folder, err := h.Files.CreateFolder(ctx, middleware.UserID(c), req)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("create_folder_failed", "status", 400, "error", err)
			return c.JSON(http.StatusBadRequest, transport.Fail[any](err.Error()))
		}
		l.Error("create_folder_failed", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, transport.Fail[any]("Cannot create folder"))
	}

	return c.JSON(http.StatusOK, transport.Ok("Folder created successfully", folder))
}

func (h *FileHTTP) SearchItems(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "file_search")

	q := c.QueryParam("q")
	if q == "" {
		return c.JSON(http.StatusBadRequest, transport.Fail[any]("q is required"))
	}
	pageIndex := util.ParseIntDefault(c.QueryParam("pageIndex"), 1)
	pageSize := util.ParseIntDefault(c.QueryParam("pageSize"), util.DefaultPageSize)

	list, enabled, err := h.Files.SearchItems(ctx, middleware.UserID(c), q, pageIndex, pageSize)
	if !enabled {
		return c.JSON(http.StatusNotImplemented, transport.Fail[any]("Search is not configured"))
	}
	if err != nil {
		l.Error("item_search_failed", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, transport.Fail[any]("Search failed"))
	}

	return c.JSON(http.StatusOK, transport.Ok("Search results retrieved successfully", list))
}
