package repository

import (
	"time"

	"fyndflip-backend/internal/pricing/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PriceRepository defines the interface for price-corpus access
type PriceRepository interface {
	Create(price *domain.ProductPrice) error
	Count() (int64, error)
}

// gormPriceRepository implements PriceRepository interface
type gormPriceRepository struct {
	db *gorm.DB
}

// NewPriceRepository creates a new instance of gormPriceRepository
func NewPriceRepository(db *gorm.DB) PriceRepository {
	return &gormPriceRepository{
		db: db,
	}
}

func (r *gormPriceRepository) Create(price *domain.ProductPrice) error {
	if price.ID == "" {
		price.ID = uuid.New().String()
	}
	if price.ScrapedAt.IsZero() {
		price.ScrapedAt = time.Now()
	}
	price.CreatedAt = time.Now()
	return r.db.Create(price).Error
}

func (r *gormPriceRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&domain.ProductPrice{}).Count(&count).Error
	return count, err
}
