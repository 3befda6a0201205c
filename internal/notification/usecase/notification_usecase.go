package usecase

import (
	authdomain "fyndflip-backend/internal/auth/domain"
	"fyndflip-backend/internal/notification/domain"
	"fyndflip-backend/internal/notification/repository"

	"github.com/rs/zerolog"
)

// NotificationUsecase applies the per-tier storage caps on top of the
// repository.
type NotificationUsecase interface {
	// Notify stores a notification for the user, evicting the oldest rows
	// when the user's tier cap is reached.
	Notify(user *authdomain.User, notification *domain.Notification) error
	List(userID string, limit, offset int) ([]*domain.Notification, int64, error)
	UnreadCount(userID string) (int64, error)
	MarkRead(id, userID string) error
	MarkAllRead(userID string) error
}

type notificationUsecase struct {
	repo   repository.NotificationRepository
	limits map[string]int
	logger zerolog.Logger
}

// NewNotificationUsecase creates a new instance of notificationUsecase.
// limits maps tier name to the maximum stored notifications; -1 is
// unlimited.
func NewNotificationUsecase(repo repository.NotificationRepository, limits map[string]int, logger zerolog.Logger) NotificationUsecase {
	return &notificationUsecase{
		repo:   repo,
		limits: limits,
		logger: logger.With().Str("component", "notifications").Logger(),
	}
}

func (u *notificationUsecase) Notify(user *authdomain.User, notification *domain.Notification) error {
	notification.UserID = user.ID

	cap, ok := u.limits[string(user.SubscriptionTier)]
	if ok && cap >= 0 {
		count, err := u.repo.CountByUserID(user.ID)
		if err != nil {
			return err
		}
		if over := int(count) - cap + 1; over > 0 {
			if err := u.repo.DeleteOldest(user.ID, over); err != nil {
				return err
			}
			u.logger.Debug().Str("user_id", user.ID).Int("evicted", over).Msg("notification cap reached")
		}
	}

	return u.repo.Create(notification)
}

func (u *notificationUsecase) List(userID string, limit, offset int) ([]*domain.Notification, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return u.repo.FindByUserID(userID, limit, offset)
}

func (u *notificationUsecase) UnreadCount(userID string) (int64, error) {
	return u.repo.CountUnread(userID)
}

func (u *notificationUsecase) MarkRead(id, userID string) error {
	return u.repo.MarkRead(id, userID)
}

func (u *notificationUsecase) MarkAllRead(userID string) error {
	return u.repo.MarkAllRead(userID)
}
