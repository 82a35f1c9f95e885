package repo

import (
	"context"
	"time"

	"github.com/filehub-app/filehub/internal/models"
)

func (r *GormRepo) CreateFile(ctx context.Context, f *models.File) error {
	return r.DB.WithContext(ctx).Create(f).Error
}

func (r *GormRepo) GetFile(ctx context.Context, id uint) (*models.File, error) {
	var file models.File
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&file).Error; err != nil {
		return nil, err
	}
	return &file, nil
}

// RecentFiles returns every file where the user is either side of the
// exchange; content bytes are deliberately not selected.
func (r *GormRepo) RecentFiles(ctx context.Context, userID string) ([]models.File, error) {
	var files []models.File
	if err := r.DB.WithContext(ctx).Model(&models.File{}).
		Select("id", "name", "file_size", "file_type", "version_number", "sender_id", "receiver_id", "permission", "created_at").
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}

// FilesWithFriend returns the files of one conversation pair, order
// independent, newest first, optionally only those created before the cursor.
func (r *GormRepo) FilesWithFriend(ctx context.Context, senderID, receiverID string, before *time.Time, limit int) ([]models.File, error) {
	q := r.DB.WithContext(ctx).Model(&models.File{}).
		Omit("content").
		Preload("Sender").
		Preload("Receiver").
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			senderID, receiverID, receiverID, senderID)
	if before != nil {
		q = q.Where("created_at < ?", *before)
	}

	var files []models.File
	if err := q.Order("created_at DESC").Limit(limit).Find(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}
