package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/filehub-app/filehub/internal/models"
	"github.com/filehub-app/filehub/internal/oauth"
	"github.com/filehub-app/filehub/internal/repo"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Folder{},
		&models.File{},
		&models.Tag{},
		&models.ItemTag{},
	))
	return db
}

func newTestTokenService(db *gorm.DB) *TokenService {
	return &TokenService{
		Repo:       &repo.GormRepo{DB: db},
		Secret:     []byte("test-jwt-secret"),
		Issuer:     "filehub",
		Audience:   "filehub-clients",
		AccessTTL:  time.Hour,
		RefreshTTL: 7 * 24 * time.Hour,
	}
}

type fakeMail struct {
	sent []string // reset links, in send order
	fail error
}

func (m *fakeMail) SendPasswordReset(_ context.Context, _, resetLink string) error {
	if m.fail != nil {
		return m.fail
	}
	m.sent = append(m.sent, resetLink)
	return nil
}

type fakeVerifier struct {
	payload *oauth.Payload
}

func (v *fakeVerifier) Validate(context.Context, string) *oauth.Payload {
	return v.payload
}

func newTestAuthService(t *testing.T) (*AuthService, *fakeMail, *fakeVerifier) {
	t.Helper()

	db := newTestDB(t)
	mailer := &fakeMail{}
	verifier := &fakeVerifier{}
	svc := &AuthService{
		Repo:   &repo.GormRepo{DB: db},
		Tokens: newTestTokenService(db),
		Mail:   mailer,
		Google: verifier,
		AppURL: "http://localhost:5173",
	}
	return svc, mailer, verifier
}

func mustRegister(t *testing.T, svc *AuthService, email, userName string) string {
	t.Helper()

	user, err := svc.Register(context.Background(), email, userName, "Correct1Password")
	require.NoError(t, err)
	return user.ID
}
