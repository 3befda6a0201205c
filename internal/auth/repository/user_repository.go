package repository

import (
	"errors"
	"time"

	authdomain "fyndflip-backend/internal/auth/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRepository is the profile-store boundary. Lookups return (nil, nil)
// when no row exists; callers must not treat absence as an error.
type UserRepository interface {
	Create(user *authdomain.User) error
	FindByAuthID(authID string) (*authdomain.User, error)
	FindByID(id string) (*authdomain.User, error)
	// GetOrCreate returns the existing profile for user.AuthID or inserts the
	// given row. Concurrent first-logins racing on the unique auth_id index
	// resolve by re-fetching the winner's row instead of erroring.
	GetOrCreate(user *authdomain.User) (*authdomain.User, error)
	Update(user *authdomain.User) error
	// UpdateFields applies a partial update to the row with the given AuthID.
	// Callers whitelist columns; tier and active-flag must never pass through
	// this path.
	UpdateFields(authID string, fields map[string]interface{}) error
	// Deactivate soft-deletes the profile. There is no reactivation path.
	Deactivate(authID string) error
}

// userRepository implements UserRepository on gorm
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new instance of userRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{
		db: db,
	}
}

func (r *userRepository) Create(user *authdomain.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.SubscriptionTier == "" {
		user.SubscriptionTier = authdomain.TierFreemium
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	return r.db.Create(user).Error
}

func (r *userRepository) FindByAuthID(authID string) (*authdomain.User, error) {
	var user authdomain.User
	err := r.db.Where("auth_id = ?", authID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByID(id string) (*authdomain.User, error) {
	var user authdomain.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetOrCreate(user *authdomain.User) (*authdomain.User, error) {
	existing, err := r.FindByAuthID(user.AuthID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	if createErr := r.Create(user); createErr != nil {
		// A concurrent first-login may have inserted the row between the
		// lookup and the insert; the unique index makes the insert fail, so
		// re-fetch before giving up.
		existing, err = r.FindByAuthID(user.AuthID)
		if err == nil && existing != nil {
			return existing, nil
		}
		return nil, createErr
	}
	return user, nil
}

func (r *userRepository) Update(user *authdomain.User) error {
	user.UpdatedAt = time.Now()
	return r.db.Save(user).Error
}

func (r *userRepository) UpdateFields(authID string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	fields["updated_at"] = time.Now()
	return r.db.Model(&authdomain.User{}).Where("auth_id = ?", authID).Updates(fields).Error
}

func (r *userRepository) Deactivate(authID string) error {
	return r.db.Model(&authdomain.User{}).Where("auth_id = ?", authID).Updates(map[string]interface{}{
		"is_active":  false,
		"updated_at": time.Now(),
	}).Error
}
