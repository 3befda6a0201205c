package repository

import (
	"errors"
	"time"

	authdomain "fyndflip-backend/internal/auth/domain"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// CredentialRepository is the credential-store boundary: password hashes and
// the persisted refresh/recovery tokens. Lookups return (nil, nil) when no
// row exists.
type CredentialRepository interface {
	Create(cred *authdomain.Credential) error
	FindByEmail(email string) (*authdomain.Credential, error)
	FindByAuthID(authID string) (*authdomain.Credential, error)
	UpdatePasswordHash(authID, hash string) error

	SaveRefreshToken(token *authdomain.RefreshToken) error
	FindRefreshToken(token string) (*authdomain.RefreshToken, error)
	// RotateRefreshToken atomically replaces a consumed refresh token with
	// its successor. On failure the old token remains valid.
	RotateRefreshToken(oldToken string, replacement *authdomain.RefreshToken) error
	DeleteRefreshToken(token string) error
	DeleteRefreshTokensByAuthID(authID string) error
	DeleteExpiredRefreshTokens(now time.Time) (int64, error)

	SaveRecoveryToken(token *authdomain.RecoveryToken) error
	// ConsumeRecoveryToken marks an unused, unexpired recovery token as used
	// and returns it. Returns (nil, nil) when the token is unknown, expired
	// or already consumed.
	ConsumeRecoveryToken(token string, now time.Time) (*authdomain.RecoveryToken, error)
	DeleteExpiredRecoveryTokens(now time.Time) (int64, error)
}

// credentialRepository implements CredentialRepository on gorm
type credentialRepository struct {
	db *gorm.DB
}

// NewCredentialRepository creates a new instance of credentialRepository
func NewCredentialRepository(db *gorm.DB) CredentialRepository {
	return &credentialRepository{
		db: db,
	}
}

func (r *credentialRepository) Create(cred *authdomain.Credential) error {
	cred.CreatedAt = time.Now()
	cred.UpdatedAt = time.Now()
	return r.db.Create(cred).Error
}

func (r *credentialRepository) FindByEmail(email string) (*authdomain.Credential, error) {
	var cred authdomain.Credential
	err := r.db.Where("email = ?", email).First(&cred).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cred, nil
}

func (r *credentialRepository) FindByAuthID(authID string) (*authdomain.Credential, error) {
	var cred authdomain.Credential
	err := r.db.Where("auth_id = ?", authID).First(&cred).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cred, nil
}

func (r *credentialRepository) UpdatePasswordHash(authID, hash string) error {
	return r.db.Model(&authdomain.Credential{}).Where("auth_id = ?", authID).Updates(map[string]interface{}{
		"password_hash": hash,
		"updated_at":    time.Now(),
	}).Error
}

// SaveRefreshToken adds a refresh token for the identity without deleting
// existing ones, so each device keeps its own token. Expired rows for the
// same identity are cleaned up in the same transaction.
func (r *credentialRepository) SaveRefreshToken(token *authdomain.RefreshToken) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("auth_id = ? AND expires_at < ?", token.AuthID, time.Now()).Delete(&authdomain.RefreshToken{}).Error; err != nil {
			return err
		}
		return tx.Create(token).Error
	})
}

func (r *credentialRepository) RotateRefreshToken(oldToken string, replacement *authdomain.RefreshToken) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("token = ?", oldToken).Delete(&authdomain.RefreshToken{}).Error; err != nil {
			return err
		}
		return tx.Create(replacement).Error
	})
}

func (r *credentialRepository) FindRefreshToken(token string) (*authdomain.RefreshToken, error) {
	var refreshToken authdomain.RefreshToken
	err := r.db.Where("token = ?", token).First(&refreshToken).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &refreshToken, nil
}

func (r *credentialRepository) DeleteRefreshToken(token string) error {
	return r.db.Where("token = ?", token).Delete(&authdomain.RefreshToken{}).Error
}

func (r *credentialRepository) DeleteRefreshTokensByAuthID(authID string) error {
	return r.db.Where("auth_id = ?", authID).Delete(&authdomain.RefreshToken{}).Error
}

func (r *credentialRepository) DeleteExpiredRefreshTokens(now time.Time) (int64, error) {
	res := r.db.Where("expires_at < ?", now).Delete(&authdomain.RefreshToken{})
	return res.RowsAffected, res.Error
}

func (r *credentialRepository) SaveRecoveryToken(token *authdomain.RecoveryToken) error {
	return r.db.Create(token).Error
}

func (r *credentialRepository) ConsumeRecoveryToken(token string, now time.Time) (*authdomain.RecoveryToken, error) {
	var recovery authdomain.RecoveryToken
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("token = ? AND used_at IS NULL AND expires_at > ?", token, now).First(&recovery).Error; err != nil {
			return err
		}
		return tx.Model(&authdomain.RecoveryToken{}).Where("token = ?", token).Update("used_at", now).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	used := now
	recovery.UsedAt = &used
	return &recovery, nil
}

func (r *credentialRepository) DeleteExpiredRecoveryTokens(now time.Time) (int64, error) {
	res := r.db.Where("expires_at < ?", now).Delete(&authdomain.RecoveryToken{})
	return res.RowsAffected, res.Error
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash compares a password with a hash
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
