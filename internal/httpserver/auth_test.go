package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filehub-app/filehub/internal/oauth"
)

func TestRegisterHandler(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/Authentication/register", map[string]string{
		"email":    "alice@x.com",
		"userName": "alice",
		"password": testPassword,
	})
	require.NoError(t, env.A.Register(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			ID       string `json:"id"`
			UserName string `json:"userName"`
			Email    string `json:"email"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Data.ID)
	assert.Equal(t, "alice", resp.Data.UserName)
	assert.Equal(t, "alice@x.com", resp.Data.Email)

	// Weak password comes back as a 400 with the individual problems listed.
	recWeak, cWeak := env.doJSONRequest(http.MethodPost, "/api/Authentication/register", map[string]string{
		"email":    "weak@x.com",
		"userName": "weak",
		"password": "short",
	})
	require.NoError(t, env.A.Register(cWeak))
	assert.Equal(t, http.StatusBadRequest, recWeak.Code)

	var weakResp struct {
		Success bool     `json:"success"`
		Errors  []string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(recWeak.Body.Bytes(), &weakResp))
	assert.False(t, weakResp.Success)
	assert.NotEmpty(t, weakResp.Errors)

	// Same email, different case.
	recDup, cDup := env.doJSONRequest(http.MethodPost, "/api/Authentication/register", map[string]string{
		"email":    "ALICE@X.COM",
		"userName": "alice2",
		"password": testPassword,
	})
	require.NoError(t, env.A.Register(cDup))
	assert.Equal(t, http.StatusBadRequest, recDup.Code)
}

func TestLoginHandler(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.register(t, "alice@x.com", "alice")

	token, refresh := env.login(t, "alice@x.com")
	assert.NotEqual(t, token, refresh)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/Authentication/login", map[string]string{
		"email":    "alice@x.com",
		"password": "WrongPassword1",
	})
	require.NoError(t, env.A.Login(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	recGhost, cGhost := env.doJSONRequest(http.MethodPost, "/api/Authentication/login", map[string]string{
		"email":    "ghost@x.com",
		"password": testPassword,
	})
	require.NoError(t, env.A.Login(cGhost))
	assert.Equal(t, http.StatusUnauthorized, recGhost.Code)
}

func TestMeAndLogoutHandlers(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	userID := env.register(t, "alice@x.com", "alice")

	rec, c := env.doJSONRequest(http.MethodGet, "/api/Authentication/me", nil)
	require.NoError(t, env.A.Me(env.as(c, userID)))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			ID       string `json:"id"`
			UserName string `json:"userName"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, userID, resp.Data.ID)
	assert.Equal(t, "alice", resp.Data.UserName)

	recOut, cOut := env.doJSONRequest(http.MethodPost, "/api/Authentication/logout", nil)
	require.NoError(t, env.A.Logout(env.as(cOut, userID)))
	assert.Equal(t, http.StatusOK, recOut.Code)

	recGhost, cGhost := env.doJSONRequest(http.MethodGet, "/api/Authentication/me", nil)
	require.NoError(t, env.A.Me(env.as(cGhost, "no-such-id")))
	assert.Equal(t, http.StatusNotFound, recGhost.Code)
}

func TestRefreshTokenHandler(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.register(t, "alice@x.com", "alice")
	_, refresh := env.login(t, "alice@x.com")

	rec, c := env.doJSONRequest(http.MethodPost, "/api/Authentication/refresh-token", map[string]string{
		"refreshToken": refresh,
	})
	require.NoError(t, env.A.RefreshToken(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Token        string `json:"token"`
			RefreshToken string `json:"refreshToken"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Data.Token)
	assert.NotEmpty(t, resp.Data.RefreshToken)

	recBad, cBad := env.doJSONRequest(http.MethodPost, "/api/Authentication/refresh-token", map[string]string{
		"refreshToken": "not-a-token",
	})
	require.NoError(t, env.A.RefreshToken(cBad))
	assert.Equal(t, http.StatusUnauthorized, recBad.Code)
}

func TestPasswordResetFlowOverHTTP(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.register(t, "alice@x.com", "alice")

	recForgot, cForgot := env.doJSONRequest(http.MethodPost, "/api/Authentication/forgot-password", map[string]string{
		"email": "alice@x.com",
	})
	require.NoError(t, env.A.ForgotPassword(cForgot))
	require.Equal(t, http.StatusOK, recForgot.Code)
	require.Len(t, env.Mail.sent, 1)

	link, err := url.Parse(env.Mail.sent[0])
	require.NoError(t, err)
	token := link.Query().Get("token")
	require.NotEmpty(t, token)

	// Unknown address gets the same 200 and no mail.
	recGhost, cGhost := env.doJSONRequest(http.MethodPost, "/api/Authentication/forgot-password", map[string]string{
		"email": "ghost@x.com",
	})
	require.NoError(t, env.A.ForgotPassword(cGhost))
	assert.Equal(t, http.StatusOK, recGhost.Code)
	assert.Len(t, env.Mail.sent, 1)

	recMismatch, cMismatch := env.doJSONRequest(http.MethodPost, "/api/Authentication/reset-password", map[string]string{
		"email":           "alice@x.com",
		"token":           token,
		"newPassword":     "Another1Password",
		"confirmPassword": "Different1Password",
	})
	require.NoError(t, env.A.ResetPassword(cMismatch))
	assert.Equal(t, http.StatusBadRequest, recMismatch.Code)

	recReset, cReset := env.doJSONRequest(http.MethodPost, "/api/Authentication/reset-password", map[string]string{
		"email":           "alice@x.com",
		"token":           token,
		"newPassword":     "Another1Password",
		"confirmPassword": "Another1Password",
	})
	require.NoError(t, env.A.ResetPassword(cReset))
	require.Equal(t, http.StatusOK, recReset.Code)

	// The old credentials are dead, the new ones work.
	recOld, cOld := env.doJSONRequest(http.MethodPost, "/api/Authentication/login", map[string]string{
		"email":    "alice@x.com",
		"password": testPassword,
	})
	require.NoError(t, env.A.Login(cOld))
	assert.Equal(t, http.StatusUnauthorized, recOld.Code)

	recNew, cNew := env.doJSONRequest(http.MethodPost, "/api/Authentication/login", map[string]string{
		"email":    "alice@x.com",
		"password": "Another1Password",
	})
	require.NoError(t, env.A.Login(cNew))
	assert.Equal(t, http.StatusOK, recNew.Code)

	// Token is single use.
	recReuse, cReuse := env.doJSONRequest(http.MethodPost, "/api/Authentication/reset-password", map[string]string{
		"email":           "alice@x.com",
		"token":           token,
		"newPassword":     "Third1Password",
		"confirmPassword": "Third1Password",
	})
	require.NoError(t, env.A.ResetPassword(cReuse))
	assert.Equal(t, http.StatusBadRequest, recReuse.Code)
}

func TestForgotPasswordHandler_SendFailure(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.register(t, "alice@x.com", "alice")
	env.Mail.fail = errors.New("smtp connection refused")

	rec, c := env.doJSONRequest(http.MethodPost, "/api/Authentication/forgot-password", map[string]string{
		"email": "alice@x.com",
	})
	require.NoError(t, env.A.ForgotPassword(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.True(t, strings.Contains(resp.Message, "smtp connection refused"))
}

func TestExternalLoginHandler(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/Authentication/ExternalLogin", map[string]string{
		"provider": "Google",
		"idToken":  "bad-token",
	})
	require.NoError(t, env.A.ExternalLogin(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	env.Verifier.payload = &oauth.Payload{Subject: "g-1", Email: "alice@gmail.com", Name: "Alice"}
	recOK, cOK := env.doJSONRequest(http.MethodPost, "/api/Authentication/ExternalLogin", map[string]string{
		"provider": "Google",
		"idToken":  "good-token",
	})
	require.NoError(t, env.A.ExternalLogin(cOK))
	require.Equal(t, http.StatusOK, recOK.Code)

	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recOK.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Data.Token)
}
