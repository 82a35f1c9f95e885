package service

import (
	"errors"

	"github.com/filehub-app/filehub/internal/repo"
	"github.com/filehub-app/filehub/internal/tokens"
)

var (
	ErrValidation             = errors.New("validation failed")
	ErrInvalidCredentials     = errors.New("invalid login attempt")
	ErrAccountLocked          = errors.New("account locked due to multiple failed attempts")
	ErrInvalidUserOrToken     = errors.New("user not found or invalid")
	ErrTokenInvalidOrExpired  = errors.New("reset token is invalid or has expired")
	ErrCurrentPasswordNeeded  = errors.New("current password is required to reset")
	ErrCurrentPasswordInvalid = errors.New("current password is invalid")
	ErrExternalTokenInvalid   = errors.New("invalid external token")
	ErrFileTooLarge           = errors.New("file size exceeds the limit")
	ErrEmptyFile              = errors.New("invalid file")

	ErrUserNotFound   = repo.ErrUserNotFound
	ErrDuplicateEmail = repo.ErrDuplicateEmail
	ErrInvalidToken   = tokens.ErrInvalidToken
	ErrExpiredToken   = tokens.ErrExpiredToken
)
