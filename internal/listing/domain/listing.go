package domain

import (
	"errors"
	"time"
)

// ListingStatus tracks a listing through its lifecycle.
type ListingStatus string

const (
	StatusDraft   ListingStatus = "draft"
	StatusActive  ListingStatus = "active"
	StatusSold    ListingStatus = "sold"
	StatusRemoved ListingStatus = "removed"
)

// Condition grades the item being flipped.
type Condition string

const (
	ConditionNew      Condition = "new"
	ConditionVeryGood Condition = "very_good"
	ConditionGood     Condition = "good"
	ConditionFair     Condition = "fair"
	ConditionPoor     Condition = "poor"
)

var (
	ErrListingNotFound = errors.New("listing not found")
	ErrNotOwner        = errors.New("listing belongs to another user")
)

// Listing is an item a user is flipping. Prices are in SEK.
type Listing struct {
	ID          string        `json:"id" gorm:"primaryKey"`
	UserID      string        `json:"user_id" gorm:"index;not null"`
	Title       string        `json:"title" gorm:"not null"`
	Description string        `json:"description,omitempty"`
	Category    string        `json:"category" gorm:"index"`
	Condition   Condition     `json:"condition,omitempty"`
	Price       float64       `json:"price"`
	Currency    string        `json:"currency" gorm:"default:SEK"`
	Location    string        `json:"location,omitempty"`
	Status      ListingStatus `json:"status" gorm:"default:draft;index"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
