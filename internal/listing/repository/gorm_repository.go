package repository

import (
	"errors"
	"time"

	"fyndflip-backend/internal/listing/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListingRepository defines the interface for listing data access
type ListingRepository interface {
	Create(listing *domain.Listing) error
	FindByID(id string) (*domain.Listing, error)
	FindByUserID(userID string, status *domain.ListingStatus, limit, offset int) ([]*domain.Listing, int64, error)
	Update(listing *domain.Listing) error
	Delete(id string) error
}

// gormListingRepository implements ListingRepository interface
type gormListingRepository struct {
	db *gorm.DB
}

// NewListingRepository creates a new instance of gormListingRepository
func NewListingRepository(db *gorm.DB) ListingRepository {
	return &gormListingRepository{
		db: db,
	}
}

func (r *gormListingRepository) Create(listing *domain.Listing) error {
	if listing.ID == "" {
		listing.ID = uuid.New().String()
	}
	if listing.Status == "" {
		listing.Status = domain.StatusDraft
	}
	if listing.Currency == "" {
		listing.Currency = "SEK"
	}
	listing.CreatedAt = time.Now()
	listing.UpdatedAt = time.Now()
	return r.db.Create(listing).Error
}

func (r *gormListingRepository) FindByID(id string) (*domain.Listing, error) {
	var listing domain.Listing
	err := r.db.Where("id = ?", id).First(&listing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &listing, nil
}

func (r *gormListingRepository) FindByUserID(userID string, status *domain.ListingStatus, limit, offset int) ([]*domain.Listing, int64, error) {
	var listings []*domain.Listing
	var total int64

	query := r.db.Model(&domain.Listing{}).Where("user_id = ?", userID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&listings).Error
	if err != nil {
		return nil, 0, err
	}
	return listings, total, nil
}

func (r *gormListingRepository) Update(listing *domain.Listing) error {
	listing.UpdatedAt = time.Now()
	return r.db.Save(listing).Error
}

func (r *gormListingRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&domain.Listing{}).Error
}
