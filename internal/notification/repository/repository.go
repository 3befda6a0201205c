package repository

import (
	"fyndflip-backend/internal/notification/domain"
)

// NotificationRepository defines the interface for notification data access
type NotificationRepository interface {
	// Create stores a new notification
	Create(notification *domain.Notification) error

	// FindByUserID returns a user's notifications, newest first
	FindByUserID(userID string, limit, offset int) ([]*domain.Notification, int64, error)

	// CountByUserID returns the total stored notifications for a user
	CountByUserID(userID string) (int64, error)

	// CountUnread returns the unread notifications for a user
	CountUnread(userID string) (int64, error)

	// MarkRead marks one of the user's notifications as read
	MarkRead(id, userID string) error

	// MarkAllRead marks every notification of the user as read
	MarkAllRead(userID string) error

	// DeleteOldest removes the user's n oldest notifications
	DeleteOldest(userID string, n int) error
}
