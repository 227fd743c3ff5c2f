package domain

import "time"

// NotificationType tags the event that produced a notification.
type NotificationType string

const (
	NotificationTicketAssigned      NotificationType = "ticket_assigned"
	NotificationTicketStatusChanged NotificationType = "ticket_status_changed"
	NotificationTicketEscalated     NotificationType = "ticket_escalated"
	NotificationTicketClosed        NotificationType = "ticket_closed"
	NotificationTicketReopened      NotificationType = "ticket_reopened"
)

// Notification is a message addressed to a single recipient.
type Notification struct {
	ID          string
	RecipientID string
	Type        NotificationType
	Message     string
	Read        bool
	CreatedAt   time.Time
	TicketID    *string
}
