package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-workflow/internal/domain"
)

// NotificationResponse is one notification for its recipient.
type NotificationResponse struct {
	ID        string                  `json:"id"`
	Type      domain.NotificationType `json:"type"`
	Message   string                  `json:"message"`
	Read      bool                    `json:"read"`
	TicketID  *string                 `json:"ticket_id"`
	CreatedAt time.Time               `json:"created_at"`
}

// UnreadCountResponse carries the unread count and the refresh interval clients should poll at.
type UnreadCountResponse struct {
	Unread              int `json:"unread"`
	PollIntervalSeconds int `json:"poll_interval_seconds"`
}

// NewNotificationResponse maps a notification.
func NewNotificationResponse(notification *domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        notification.ID,
		Type:      notification.Type,
		Message:   notification.Message,
		Read:      notification.Read,
		TicketID:  notification.TicketID,
		CreatedAt: notification.CreatedAt,
	}
}
