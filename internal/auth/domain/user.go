package domain

import "time"

// SubscriptionTier is the ordered subscription level of a user.
type SubscriptionTier string

const (
	TierFreemium SubscriptionTier = "freemium"
	TierSilver   SubscriptionTier = "silver"
	TierGold     SubscriptionTier = "gold"
)

// Rank returns the ordering used for tier access checks. Unknown values rank
// below freemium so a corrupted row can never pass a gate.
func (t SubscriptionTier) Rank() int {
	switch t {
	case TierFreemium:
		return 1
	case TierSilver:
		return 2
	case TierGold:
		return 3
	}
	return 0
}

// User is the application-level profile row, keyed by the credential identity
// (AuthID). Exactly one row exists per identity; it is created lazily on the
// first successful authentication and never hard-deleted - deactivation sets
// IsActive to false.
type User struct {
	ID               string           `json:"id" gorm:"primaryKey"`
	AuthID           string           `json:"auth_id" gorm:"uniqueIndex;not null"`
	Email            string           `json:"email" gorm:"index;not null"`
	FirstName        string           `json:"first_name,omitempty"`
	LastName         string           `json:"last_name,omitempty"`
	AvatarURL        string           `json:"avatar_url,omitempty"`
	SubscriptionTier SubscriptionTier `json:"subscription_tier" gorm:"default:freemium"`
	IsActive         bool             `json:"is_active" gorm:"default:true"`
	LocationCity     string           `json:"location_city,omitempty"`
	LocationRegion   string           `json:"location_region,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// HasTier reports whether the user is active and at or above the given tier.
func (u *User) HasTier(tier SubscriptionTier) bool {
	if u == nil || !u.IsActive {
		return false
	}
	return u.SubscriptionTier.Rank() >= tier.Rank()
}
