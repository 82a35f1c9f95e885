package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/filehub-app/filehub/internal/models"
	"github.com/filehub-app/filehub/internal/oauth"
	"github.com/filehub-app/filehub/internal/repo"
	"github.com/filehub-app/filehub/internal/service"
)

const (
	testSecret   = "test-jwt-secret"
	testIssuer   = "filehub"
	testAudience = "filehub-clients"
	testPassword = "Correct1Password"
)

type testEnv struct {
	T  *testing.T
	E  *echo.Echo
	DB *gorm.DB

	A *AuthHTTP
	U *UserHTTP
	F *FileHTTP

	Mail     *stubMail
	Verifier *stubVerifier
}

type stubMail struct {
	sent []string
	fail error
}

func (m *stubMail) SendPasswordReset(_ context.Context, _, resetLink string) error {
	if m.fail != nil {
		return m.fail
	}
	m.sent = append(m.sent, resetLink)
	return nil
}

type stubVerifier struct {
	payload *oauth.Payload
}

func (v *stubVerifier) Validate(context.Context, string) *oauth.Payload {
	return v.payload
}

func newTestEnv(t *testing.T) *testEnv {
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

	r := &repo.GormRepo{DB: db}
	tokens := &service.TokenService{
		Repo:       r,
		Secret:     []byte(testSecret),
		Issuer:     testIssuer,
		Audience:   testAudience,
		AccessTTL:  time.Hour,
		RefreshTTL: 7 * 24 * time.Hour,
	}
	mailer := &stubMail{}
	verifier := &stubVerifier{}
	auth := &service.AuthService{
		Repo:   r,
		Tokens: tokens,
		Mail:   mailer,
		Google: verifier,
		AppURL: "http://localhost:5173",
	}
	files := &service.FileService{Repo: r, MaxFileSize: 1024}
	activity := &service.ActivityService{Repo: r}

	return &testEnv{
		T:        t,
		E:        echo.New(),
		DB:       db,
		A:        &AuthHTTP{Auth: auth, Tokens: tokens},
		U:        &UserHTTP{Auth: auth},
		F:        &FileHTTP{Files: files, Activity: activity},
		Mail:     mailer,
		Verifier: verifier,
	}
}

func (env *testEnv) doJSONRequest(method, path string, body interface{}) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

// as stamps the identity RequireAuth would have set after a valid bearer token.
func (env *testEnv) as(c echo.Context, userID string) echo.Context {
	c.Set("user_id", userID)
	return c
}

func (env *testEnv) register(t *testing.T, email, userName string) string {
	t.Helper()

	rec, c := env.doJSONRequest(http.MethodPost, "/api/Authentication/register", map[string]string{
		"email":    email,
		"userName": userName,
		"password": testPassword,
	})
	require.NoError(t, env.A.Register(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.ID)
	return resp.Data.ID
}

func (env *testEnv) login(t *testing.T, email string) (string, string) {
	t.Helper()

	rec, c := env.doJSONRequest(http.MethodPost, "/api/Authentication/login", map[string]string{
		"email":    email,
		"password": testPassword,
	})
	require.NoError(t, env.A.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Token        string `json:"token"`
			RefreshToken string `json:"refreshToken"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.Token)
	require.NotEmpty(t, resp.Data.RefreshToken)
	return resp.Data.Token, resp.Data.RefreshToken
}

func (env *testEnv) doMultipartUpload(t *testing.T, fileName, receiverID string, content []byte) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	if receiverID != "" {
		require.NoError(t, w.WriteField("receiverID", receiverID))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/File/upload-file", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}
