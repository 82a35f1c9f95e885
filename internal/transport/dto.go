package transport

import "time"

// ApiResponse is the envelope every endpoint returns.
type ApiResponse[T any] struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Data    *T       `json:"data"`
	Errors  []string `json:"errors"`
}

func Ok[T any](message string, data *T) ApiResponse[T] {
	return ApiResponse[T]{Success: true, Message: message, Data: data}
}

func Fail[T any](message string, errs ...string) ApiResponse[T] {
	return ApiResponse[T]{Success: false, Message: message, Errors: errs}
}

type RegisterRequest struct {
	Email    string `json:"email"`
	UserName string `json:"userName"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ExternalLoginRequest struct {
	Provider string `json:"provider"`
	IDToken  string `json:"idToken"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Email           string `json:"email"`
	Token           string `json:"token"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type UpdateProfileRequest struct {
	UserName        *string `json:"userName"`
	Email           *string `json:"email"`
	CurrentPassword string  `json:"currentPassword"`
	NewPassword     string  `json:"newPassword"`
}

type TokenDTO struct {
	Token                  string    `json:"token"`
	Expiration             time.Time `json:"expiration"`
	RefreshToken           string    `json:"refreshToken"`
	RefreshTokenExpiration time.Time `json:"refreshTokenExpiration"`
}

type UserResponseDTO struct {
	ID       string `json:"id"`
	UserName string `json:"userName"`
	Email    string `json:"email"`
}

type RecentActivityDTO struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`   // "File" or "Folder"
	Action    string    `json:"action"` // "Sent" or "Received"
	CreatedAt time.Time `json:"createdAt"`
}

type ChatActivityDTO struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Action    string    `json:"action"`
	UserName  string    `json:"userName"`
	CreatedAt time.Time `json:"createdAt"`

	FileType  string `json:"fileType,omitempty"`
	Size      int64  `json:"size,omitempty"`
	ItemCount int    `json:"itemCount,omitempty"`

	Permission string            `json:"permission,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

type UploadFileResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type CreateFolderRequest struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	ReceiverID     string `json:"receiverID"`
	ParentFolderID *uint  `json:"parentFolderID"`
}

type ItemSearchHit struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}
