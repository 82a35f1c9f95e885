package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/filehub-app/filehub/internal/events"
	"github.com/filehub-app/filehub/internal/hash"
	"github.com/filehub-app/filehub/internal/logging"
	"github.com/filehub-app/filehub/internal/mail"
	"github.com/filehub-app/filehub/internal/models"
	"github.com/filehub-app/filehub/internal/oauth"
	"github.com/filehub-app/filehub/internal/repo"
	"github.com/filehub-app/filehub/internal/transport"
)

const (
	lockoutThreshold = 5
	lockoutDuration  = 5 * time.Minute
	resetTokenTTL    = 15 * time.Minute
	defaultRole      = "User"
)

type AuthService struct {
	Repo   *repo.GormRepo
	Tokens *TokenService
	Mail   mail.Sender
	Google oauth.Verifier
	Events *events.Producer

	AppURL string
}

func (s *AuthService) Register(ctx context.Context, email, userName, password string) (*transport.UserResponseDTO, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	email = strings.TrimSpace(email)
	userName = strings.TrimSpace(userName)

	var problems []string
	if !ValidateEmail(email) {
		problems = append(problems, "a valid email is required")
	}
	if userName == "" {
		problems = append(problems, "a username is required")
	}
	problems = append(problems, ValidatePassword(password)...)
	if len(problems) > 0 {
		l.Warn("register_rejected", "reason", "validation", "problems", problems)
		return nil, fmt.Errorf("%w: %s", ErrValidation, strings.Join(problems, "; "))
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("register_failed", "reason", "cannot hash password", "error", err)
		return nil, err
	}

	user := models.User{
		UserName:     userName,
		Email:        email,
		PasswordHash: pwHash,
		Status:       models.StatusActive.Name,
	}
	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		l.Warn("register_rejected", "error", err)
		return nil, err
	}
	if err := s.Repo.AddToRole(ctx, &user, defaultRole); err != nil {
		l.Error("register_failed", "reason", "cannot assign role", "error", err)
		return nil, err
	}

	if err := s.Events.PublishEvent(ctx, events.TopicUserEvents, user.ID, events.UserEvent{
		Event: "user_registered", UserID: user.ID, At: time.Now().UTC(),
	}); err != nil {
		l.Warn("event_publish_failed", "error", err)
	}

	l.Info("register_successful", "user_id", user.ID)
	return &transport.UserResponseDTO{ID: user.ID, UserName: user.UserName, Email: user.Email}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*transport.TokenDTO, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	user, err := s.Repo.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if err == ErrUserNotFound {
			l.Warn("login_failed", "reason", "unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if user.LockoutEnd != nil && user.LockoutEnd.After(time.Now().UTC()) {
		l.Warn("login_failed", "reason", "account locked", "user_id", user.ID)
		return nil, ErrAccountLocked
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		locked, err := s.Repo.RecordFailedLogin(ctx, user, lockoutThreshold, lockoutDuration)
		if err != nil {
			return nil, err
		}
		if locked {
			l.Warn("login_failed", "reason", "lockout triggered", "user_id", user.ID)
			return nil, ErrAccountLocked
		}
		l.Warn("login_failed", "reason", "wrong password", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	if err := s.Repo.ResetFailedLogins(ctx, user); err != nil {
		return nil, err
	}

	pair, err := s.Tokens.GenerateTokenPair(user)
	if err != nil {
		l.Error("login_failed", "reason", "cannot issue tokens", "error", err)
		return nil, err
	}

	if err := s.Events.PublishEvent(ctx, events.TopicUserEvents, user.ID, events.UserEvent{
		Event: "user_logged_in", UserID: user.ID, At: time.Now().UTC(),
	}); err != nil {
		l.Warn("event_publish_failed", "error", err)
	}

	l.Info("login_successful", "user_id", user.ID)
	return pair, nil
}

// ForgotPassword answers with the same generic message whether or not the
// email is registered. A mail delivery failure flips the response and carries
// the error, which weakens that guarantee.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	l := logging.FromContext(ctx).With("svc", "auth.forgot_password")
	const generic = "If your email is registered, you will receive a password reset link."

	user, err := s.Repo.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if err == ErrUserNotFound {
			l.Info("forgot_password_noop")
			return generic, nil
		}
		return "", err
	}

	token := uuid.NewString()
	sum := sha256.Sum256([]byte(token))
	expires := time.Now().UTC().Add(resetTokenTTL)
	user.ResetTokenHash = hex.EncodeToString(sum[:])
	user.ResetTokenExpires = &expires
	if err := s.Repo.SaveUser(ctx, user); err != nil {
		return "", err
	}

	resetLink := fmt.Sprintf("%s/reset-password?email=%s&token=%s",
		s.AppURL, url.QueryEscape(user.Email), url.QueryEscape(token))

	if err := s.Mail.SendPasswordReset(ctx, user.Email, resetLink); err != nil {
		l.Error("reset_mail_failed", "user_id", user.ID, "error", err)
		return "", err
	}

	l.Info("reset_mail_sent", "user_id", user.ID)
	return generic, nil
}

func (s *AuthService) ResetPassword(ctx context.Context, email, token, newPassword string) error {
	l := logging.FromContext(ctx).With("svc", "auth.reset_password")

	user, err := s.Repo.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if err == ErrUserNotFound {
			return ErrInvalidUserOrToken
		}
		return err
	}
	if user.Status != models.StatusActive.Name {
		return ErrInvalidUserOrToken
	}

	sum := sha256.Sum256([]byte(token))
	if user.ResetTokenHash == "" ||
		user.ResetTokenHash != hex.EncodeToString(sum[:]) ||
		user.ResetTokenExpires == nil ||
		user.ResetTokenExpires.Before(time.Now().UTC()) {
		l.Warn("reset_rejected", "user_id", user.ID)
		return ErrTokenInvalidOrExpired
	}

	if problems := ValidatePassword(newPassword); len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrValidation, strings.Join(problems, "; "))
	}

	pwHash, err := hash.HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = pwHash
	user.ResetTokenHash = ""
	user.ResetTokenExpires = nil
	if err := s.Repo.SaveUser(ctx, user); err != nil {
		return err
	}

	l.Info("reset_successful", "user_id", user.ID)
	return nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID string, upd transport.UpdateProfileRequest) error {
	l := logging.FromContext(ctx).With("svc", "auth.update_profile", "user_id", userID)

	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if upd.UserName != nil && strings.TrimSpace(*upd.UserName) != "" {
		user.UserName = strings.TrimSpace(*upd.UserName)
	}
	if upd.Email != nil && strings.TrimSpace(*upd.Email) != "" {
		if !ValidateEmail(*upd.Email) {
			return fmt.Errorf("%w: a valid email is required", ErrValidation)
		}
		user.Email = strings.TrimSpace(*upd.Email)
	}

	if upd.NewPassword != "" {
		if upd.CurrentPassword == "" {
			return ErrCurrentPasswordNeeded
		}
		if !hash.CheckPassword(user.PasswordHash, upd.CurrentPassword) {
			return ErrCurrentPasswordInvalid
		}
		if problems := ValidatePassword(upd.NewPassword); len(problems) > 0 {
			return fmt.Errorf("%w: %s", ErrValidation, strings.Join(problems, "; "))
		}
		pwHash, err := hash.HashPassword(upd.NewPassword)
		if err != nil {
			return err
		}
		user.PasswordHash = pwHash
	}

	if err := s.Repo.SaveUser(ctx, user); err != nil {
		return err
	}

	l.Info("profile_updated")
	return nil
}

// ExternalLogin validates the Google ID token and signs the user in,
// provisioning a local account on first contact.
func (s *AuthService) ExternalLogin(ctx context.Context, idToken string) (*transport.TokenDTO, error) {
	l := logging.FromContext(ctx).With("svc", "auth.external_login")

	payload := s.Google.Validate(ctx, idToken)
	if payload == nil {
		l.Warn("external_login_rejected")
		return nil, ErrExternalTokenInvalid
	}

	user, err := s.Repo.GetUserByEmail(ctx, payload.Email)
	if err == ErrUserNotFound {
		user = &models.User{
			UserName: payload.Email,
			Email:    payload.Email,
			Status:   models.StatusActive.Name,
		}
		if err := s.Repo.CreateUser(ctx, user); err != nil {
			return nil, err
		}
		if err := s.Repo.AddToRole(ctx, user, defaultRole); err != nil {
			return nil, err
		}
		l.Info("external_user_provisioned", "user_id", user.ID)
	} else if err != nil {
		return nil, err
	}

	pair, err := s.Tokens.GenerateTokenPair(user)
	if err != nil {
		return nil, err
	}

	l.Info("external_login_successful", "user_id", user.ID)
	return pair, nil
}

func (s *AuthService) FindByID(ctx context.Context, id string) (*transport.UserResponseDTO, error) {
	user, err := s.Repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &transport.UserResponseDTO{ID: user.ID, UserName: user.UserName, Email: user.Email}, nil
}

func (s *AuthService) FindByName(ctx context.Context, userName string) (*transport.UserResponseDTO, error) {
	user, err := s.Repo.GetUserByName(ctx, userName)
	if err != nil {
		return nil, err
	}
	return &transport.UserResponseDTO{ID: user.ID, UserName: user.UserName, Email: user.Email}, nil
}

func (s *AuthService) SearchReceivers(ctx context.Context, keyword, excludeUserID string, pageIndex, pageSize int) (*transport.PaginatedList[transport.UserResponseDTO], error) {
	offset, limit := pagedWindow(pageIndex, pageSize)

	total, users, err := s.Repo.SearchReceivers(ctx, keyword, excludeUserID, offset, limit)
	if err != nil {
		return nil, err
	}

	items := make([]transport.UserResponseDTO, len(users))
	for i, u := range users {
		items[i] = transport.UserResponseDTO{ID: u.ID, UserName: u.UserName, Email: u.Email}
	}

	list := transport.NewPaginatedList(items, total, normalizePage(pageIndex), limit)
	return &list, nil
}
