package repository

import (
	"time"

	"fyndflip-backend/internal/notification/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// gormNotificationRepository implements NotificationRepository interface
type gormNotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new instance of gormNotificationRepository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &gormNotificationRepository{
		db: db,
	}
}

func (r *gormNotificationRepository) Create(notification *domain.Notification) error {
	if notification.ID == "" {
		notification.ID = uuid.New().String()
	}
	notification.CreatedAt = time.Now()
	return r.db.Create(notification).Error
}

func (r *gormNotificationRepository) FindByUserID(userID string, limit, offset int) ([]*domain.Notification, int64, error) {
	var notifications []*domain.Notification
	var total int64

	query := r.db.Model(&domain.Notification{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&notifications).Error
	if err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

func (r *gormNotificationRepository) CountByUserID(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&domain.Notification{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *gormNotificationRepository) CountUnread(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&domain.Notification{}).Where("user_id = ? AND is_read = ?", userID, false).Count(&count).Error
	return count, err
}

func (r *gormNotificationRepository) MarkRead(id, userID string) error {
	return r.db.Model(&domain.Notification{}).Where("id = ? AND user_id = ?", id, userID).Update("is_read", true).Error
}

func (r *gormNotificationRepository) MarkAllRead(userID string) error {
	return r.db.Model(&domain.Notification{}).Where("user_id = ?", userID).Update("is_read", true).Error
}

func (r *gormNotificationRepository) DeleteOldest(userID string, n int) error {
	if n <= 0 {
		return nil
	}
	sub := r.db.Model(&domain.Notification{}).
		Select("id").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Limit(n)
	return r.db.Where("id IN (?)", sub).Delete(&domain.Notification{}).Error
}
