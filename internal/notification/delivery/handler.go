package delivery

import (
	"net/http"
	"strconv"

	authdomain "fyndflip-backend/internal/auth/domain"
	"fyndflip-backend/internal/notification/usecase"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notifications usecase.NotificationUsecase
}

func NewNotificationHandler(notifications usecase.NotificationUsecase) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

func (h *NotificationHandler) List(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	notifications, total, err := h.notifications.List(user.ID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications, "total": total})
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}

	count, err := h.notifications.UnreadCount(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": count})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}

	if err := h.notifications.MarkRead(c.Param("id"), user.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark notification read"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "marked read"})
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}

	if err := h.notifications.MarkAllRead(user.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark notifications read"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "marked all read"})
}

func mustUser(c *gin.Context) *authdomain.User {
	if v, ok := c.Get("user"); ok {
		if user, ok := v.(*authdomain.User); ok {
			return user
		}
	}
	c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
	c.Abort()
	return nil
}
