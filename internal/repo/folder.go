package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/filehub-app/filehub/internal/models"
)

func (r *GormRepo) CreateFolder(ctx context.Context, f *models.Folder) error {
	return r.DB.WithContext(ctx).Create(f).Error
}

func (r *GormRepo) RecentFolders(ctx context.Context, userID string) ([]models.Folder, error) {
	var folders []models.Folder
	if err := r.DB.WithContext(ctx).Model(&models.Folder{}).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&folders).Error; err != nil {
		return nil, err
	}
	return folders, nil
}

func (r *GormRepo) FoldersWithFriend(ctx context.Context, senderID, receiverID string, before *time.Time, limit int) ([]models.Folder, error) {
	q := r.DB.WithContext(ctx).Model(&models.Folder{}).
		Preload("Sender").
		Preload("Receiver").
		Preload("Files", func(db *gorm.DB) *gorm.DB { return db.Select("id", "folder_id") }).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			senderID, receiverID, receiverID, senderID)
	if before != nil {
		q = q.Where("created_at < ?", *before)
	}

	var folders []models.Folder
	if err := q.Order("created_at DESC").Limit(limit).Find(&folders).Error; err != nil {
		return nil, err
	}
	return folders, nil
}
