package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/filehub-app/filehub/internal/models"
)

func Normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	u.NormalizedUserName = Normalize(u.UserName)
	u.NormalizedEmail = Normalize(u.Email)

	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("normalized_email = ?", u.NormalizedEmail).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateEmail
	}

	return r.DB.WithContext(ctx).Create(u).Error
}

func (r *GormRepo) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Preload("Roles").Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Preload("Roles").
		Where("normalized_email = ?", Normalize(email)).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) GetUserByName(ctx context.Context, userName string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Preload("Roles").
		Where("normalized_user_name = ?", Normalize(userName)).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) SaveUser(ctx context.Context, u *models.User) error {
	u.NormalizedUserName = Normalize(u.UserName)
	u.NormalizedEmail = Normalize(u.Email)
	return r.DB.WithContext(ctx).Save(u).Error
}

// RecordFailedLogin bumps the failure counter and locks the account once the
// threshold is hit. Returns whether the account is now locked.
func (r *GormRepo) RecordFailedLogin(ctx context.Context, u *models.User, threshold int, lockFor time.Duration) (bool, error) {
	u.AccessFailedCount++
	locked := false
	if u.AccessFailedCount >= threshold {
		end := time.Now().UTC().Add(lockFor)
		u.LockoutEnd = &end
		u.AccessFailedCount = 0
		locked = true
	}
	if err := r.DB.WithContext(ctx).Model(u).
		Select("access_failed_count", "lockout_end").
		Updates(map[string]any{
			"access_failed_count": u.AccessFailedCount,
			"lockout_end":         u.LockoutEnd,
		}).Error; err != nil {
		return false, err
	}
	return locked, nil
}

func (r *GormRepo) ResetFailedLogins(ctx context.Context, u *models.User) error {
	u.AccessFailedCount = 0
	u.LockoutEnd = nil
	return r.DB.WithContext(ctx).Model(u).
		Updates(map[string]any{"access_failed_count": 0, "lockout_end": nil}).Error
}

func (r *GormRepo) EnsureRole(ctx context.Context, name string) (*models.Role, error) {
	role := models.Role{Name: name}
	if err := r.DB.WithContext(ctx).Where("name = ?", name).FirstOrCreate(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *GormRepo) AddToRole(ctx context.Context, u *models.User, roleName string) error {
	role, err := r.EnsureRole(ctx, roleName)
	if err != nil {
		return err
	}
	return r.DB.WithContext(ctx).Model(u).Association("Roles").Append(role)
}

func RoleNames(u *models.User) []string {
	names := make([]string, 0, len(u.Roles))
	for _, role := range u.Roles {
		names = append(names, role.Name)
	}
	return names
}

// SearchReceivers matches the trimmed, upper-cased keyword as a substring of
// the normalized email or username, restricted to Active users and excluding
// the requester. An empty keyword matches all eligible users.
func (r *GormRepo) SearchReceivers(ctx context.Context, keyword, excludeUserID string, offset, limit int) (int64, []models.User, error) {
	keyword = Normalize(keyword)

	q := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id <> ? AND status = ?", excludeUserID, models.StatusActive.Name)
	if keyword != "" {
		like := "%" + keyword + "%"
		q = q.Where("normalized_email LIKE ? OR normalized_user_name LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var users []models.User
	if err := q.Order("user_name ASC").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return 0, nil, err
	}

	return total, users, nil
}
