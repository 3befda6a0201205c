package domain

import "time"

// NotificationType classifies what triggered a notification.
type NotificationType string

const (
	TypeDealAlert NotificationType = "deal_alert"
	TypePriceDrop NotificationType = "price_drop"
	TypeSystem    NotificationType = "system"
)

// Notification is a per-user deal or system message. Storage per user is
// capped by subscription tier; the oldest rows are evicted at the cap.
type Notification struct {
	ID        string           `json:"id" gorm:"primaryKey"`
	UserID    string           `json:"user_id" gorm:"index;not null"`
	Type      NotificationType `json:"type" gorm:"default:system"`
	Title     string           `json:"title" gorm:"not null"`
	Message   string           `json:"message"`
	ListingID string           `json:"listing_id,omitempty" gorm:"index"`
	IsRead    bool             `json:"is_read" gorm:"default:false"`
	CreatedAt time.Time        `json:"created_at"`
}
