package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/filehub-app/filehub/internal/es"
	"github.com/filehub-app/filehub/internal/events"
	"github.com/filehub-app/filehub/internal/logging"
	"github.com/filehub-app/filehub/internal/models"
	"github.com/filehub-app/filehub/internal/repo"
	"github.com/filehub-app/filehub/internal/transport"
)

type FileService struct {
	Repo   *repo.GormRepo
	Events *events.Producer
	ES     *elasticsearch.Client // nil disables item search

	MaxFileSize int64
}

type Upload struct {
	Name        string
	ContentType string
	Size        int64
	Content     io.Reader

	ReceiverID  string
	Description string
}

func (s *FileService) UploadFile(ctx context.Context, senderID string, up Upload) (*models.File, error) {
	l := logging.FromContext(ctx).With("svc", "file.upload", "user_id", senderID)

	if up.Name == "" || up.Size == 0 {
		return nil, ErrEmptyFile
	}
	if up.Size > s.MaxFileSize {
		l.Warn("upload_rejected", "reason", "too large", "size", up.Size)
		return nil, fmt.Errorf("%w of %d MB", ErrFileTooLarge, s.MaxFileSize/(1024*1024))
	}

	content, err := io.ReadAll(io.LimitReader(up.Content, s.MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(content)) > s.MaxFileSize {
		return nil, fmt.Errorf("%w of %d MB", ErrFileTooLarge, s.MaxFileSize/(1024*1024))
	}

	file := models.File{
		Name:          up.Name,
		Description:   up.Description,
		FileSize:      int64(len(content)),
		FileType:      up.ContentType,
		Content:       content,
		VersionNumber: 1,
		SenderID:      senderID,
		ReceiverID:    up.ReceiverID,
		Permission:    models.PermissionPublic.Name,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.Repo.CreateFile(ctx, &file); err != nil {
		l.Error("upload_failed", "error", err)
		return nil, err
	}

	if err := s.Events.PublishEvent(ctx, events.TopicFileEvents, senderID, events.FileEvent{
		Event: "file_uploaded", FileID: file.ID,
		SenderID: senderID, ReceiverID: up.ReceiverID, At: time.Now().UTC(),
	}); err != nil {
		l.Warn("event_publish_failed", "error", err)
	}

	// Search indexing is best effort; the upload already succeeded.
	if s.ES != nil {
		if err := es.IndexItem(ctx, s.ES, es.ItemDoc{
			ID: file.ID, Name: file.Name, Type: "File",
			SenderID: senderID, ReceiverID: up.ReceiverID,
		}); err != nil {
			l.Warn("index_failed", "file_id", file.ID, "error", err)
		}
	}

	l.Info("upload_successful", "file_id", file.ID, "size", file.FileSize)
	return &file, nil
}

func (s *FileService) GetFile(ctx context.Context, id uint) (*models.File, error) {
	return s.Repo.GetFile(ctx, id)
}

func (s *FileService) CreateFolder(ctx context.Context, senderID string, req transport.CreateFolderRequest) (*models.Folder, error) {
	l := logging.FromContext(ctx).With("svc", "file.create_folder", "user_id", senderID)

	if req.Name == "" || req.ReceiverID == "" {
		return nil, fmt.Errorf("%w: folder name and receiverID are required", ErrValidation)
	}

	folder := models.Folder{
		Name:           req.Name,
		Description:    req.Description,
		ParentFolderID: req.ParentFolderID,
		SenderID:       senderID,
		ReceiverID:     req.ReceiverID,
		Permission:     models.PermissionPublic.Name,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.Repo.CreateFolder(ctx, &folder); err != nil {
		l.Error("create_folder_failed", "error", err)
		return nil, err
	}

	if err := s.Events.PublishEvent(ctx, events.TopicFileEvents, senderID, events.FileEvent{
		Event: "folder_created", FolderID: folder.ID,
		SenderID: senderID, ReceiverID: req.ReceiverID, At: time.Now().UTC(),
	}); err != nil {
		l.Warn("event_publish_failed", "error", err)
	}

	if s.ES != nil {
		if err := es.IndexItem(ctx, s.ES, es.ItemDoc{
			ID: folder.ID, Name: folder.Name, Type: "Folder",
			SenderID: senderID, ReceiverID: req.ReceiverID,
		}); err != nil {
			l.Warn("index_failed", "folder_id", folder.ID, "error", err)
		}
	}

	l.Info("create_folder_successful", "folder_id", folder.ID)
	return &folder, nil
}

// SearchItems looks up the caller's shared items by name. Returns false when
// Elasticsearch is not configured.
func (s *FileService) SearchItems(ctx context.Context, userID, query string, pageIndex, pageSize int) (*transport.PaginatedList[transport.ItemSearchHit], bool, error) {
	if s.ES == nil {
		return nil, false, nil
	}

	offset, limit := pagedWindow(pageIndex, pageSize)
	total, docs, err := es.SearchItems(ctx, s.ES, userID, query, offset, limit)
	if err != nil {
		return nil, true, err
	}

	hits := make([]transport.ItemSearchHit, len(docs))
	for i, d := range docs {
		hits[i] = transport.ItemSearchHit{ID: d.ID, Name: d.Name, Type: d.Type}
	}
	list := transport.NewPaginatedList(hits, total, normalizePage(pageIndex), limit)
	return &list, true, nil
}
