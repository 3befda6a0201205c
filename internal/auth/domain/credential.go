package domain

import "time"

// AuthProvider identifies how a credential was established.
type AuthProvider string

const (
	ProviderEmail    AuthProvider = "email"
	ProviderGoogle   AuthProvider = "google"
	ProviderFacebook AuthProvider = "facebook"
	ProviderGitHub   AuthProvider = "github"
	ProviderApple    AuthProvider = "apple"
)

// Credential is the service-of-record row for authentication. The password
// only ever exists here as a bcrypt hash; OAuth-established credentials have
// an empty hash and a non-email provider.
type Credential struct {
	AuthID       string       `json:"auth_id" gorm:"primaryKey"`
	Email        string       `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string       `json:"-"`
	Provider     AuthProvider `json:"provider" gorm:"default:email"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// RefreshToken is a persisted long-lived token. One row per device; expired
// rows are purged by the cleanup scheduler.
type RefreshToken struct {
	Token     string    `json:"token" gorm:"primaryKey"`
	AuthID    string    `json:"auth_id" gorm:"index;not null"`
	ExpiresAt time.Time `json:"expires_at"`
}

// RecoveryToken is minted by the password-reset flow and consumed exactly once.
type RecoveryToken struct {
	Token     string `gorm:"primaryKey"`
	AuthID    string `gorm:"index;not null"`
	ExpiresAt time.Time
	UsedAt    *time.Time
}
