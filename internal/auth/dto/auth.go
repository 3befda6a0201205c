package dto

import authdomain "fyndflip-backend/internal/auth/domain"

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type RegisterRequest struct {
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required,min=8"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	LocationCity   string `json:"location_city"`
	LocationRegion string `json:"location_region"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

type UpdatePasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

// UpdateProfileRequest carries a partial update; nil fields are left
// untouched. Tier and active-flag are deliberately absent.
type UpdateProfileRequest struct {
	FirstName      *string `json:"first_name"`
	LastName       *string `json:"last_name"`
	AvatarURL      *string `json:"avatar_url"`
	LocationCity   *string `json:"location_city"`
	LocationRegion *string `json:"location_region"`
}

type DeleteAccountRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
}

// OAuthSignInOptions tunes the provider authorization redirect.
type OAuthSignInOptions struct {
	RedirectTo string
	Next       string
}

type SessionResponse struct {
	AccessToken  string           `json:"access_token"`
	RefreshToken string           `json:"refresh_token"`
	ExpiresAt    int64            `json:"expires_at"`
	User         *authdomain.User `json:"user"`
}
