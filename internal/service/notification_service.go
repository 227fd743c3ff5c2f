package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-workflow/internal/config"
	"github.com/spec-kit/helpdesk-workflow/internal/domain"
	"github.com/spec-kit/helpdesk-workflow/internal/events"
	"github.com/spec-kit/helpdesk-workflow/internal/observability"
	"github.com/spec-kit/helpdesk-workflow/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-workflow/pkg/util/errorutil"
)

// NotificationService turns workflow events into per-recipient notifications.
type NotificationService struct {
	dispatcher    events.Dispatcher
	notifications repository.NotificationRepository
	metrics       *observability.Metrics
	logger        *zap.Logger
	cfg           config.NotificationConfig
	now           func() time.Time
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, notifications repository.NotificationRepository, metrics *observability.Metrics, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher:    dispatcher,
		notifications: notifications,
		metrics:       metrics,
		logger:        logger,
		cfg:           cfg,
		now:           time.Now,
	}
}

// RegisterHandlers subscribes to every workflow event.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	for _, eventType := range events.TransitionEventTypes {
		n.dispatcher.Subscribe(eventType, n.handleTransition)
	}
}

// ListNotifications returns the recipient's notifications, newest first.
func (n *NotificationService) ListNotifications(ctx context.Context, recipientID string, limit int) ([]domain.Notification, error) {
	if strings.TrimSpace(recipientID) == "" {
		return nil, apperrors.NewValidationError("recipient required", nil)
	}
	if limit <= 0 {
		limit = n.cfg.ListLimit
	}
	return n.notifications.ListByRecipient(ctx, recipientID, limit)
}

// MarkRead marks one of the recipient's notifications as read.
func (n *NotificationService) MarkRead(ctx context.Context, recipientID, notificationID string) (*domain.Notification, error) {
	notification, err := n.notifications.MarkRead(ctx, recipientID, notificationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("notification", map[string]any{"notification_id": notificationID})
		}
		return nil, err
	}
	return notification, nil
}

// UnreadCount returns how many notifications the recipient has not read.
func (n *NotificationService) UnreadCount(ctx context.Context, recipientID string) (int, error) {
	return n.notifications.CountUnread(ctx, recipientID)
}

// PollInterval is how often clients are expected to refresh the unread count.
func (n *NotificationService) PollInterval() time.Duration {
	return n.cfg.PollInterval()
}

func (n *NotificationService) handleTransition(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TransitionPayload)
	if !ok {
		return fmt.Errorf("event %s: unexpected payload %T", event.Type, event.Payload)
	}
	var failed int
	for _, notification := range notificationsFor(payload) {
		notification.CreatedAt = n.now().UTC()
		if err := n.notifications.Create(ctx, &notification); err != nil {
			failed++
			n.metrics.RecordNotification(string(notification.Type), false)
			n.logger.Warn("notification not stored",
				zap.String("ticket_id", event.TicketID),
				zap.String("recipient_id", notification.RecipientID),
				zap.String("type", string(notification.Type)),
				zap.Error(err))
			continue
		}
		n.metrics.RecordNotification(string(notification.Type), true)
	}
	if failed > 0 {
		return fmt.Errorf("%d notification(s) for ticket %s not stored", failed, event.TicketID)
	}
	return nil
}

// notificationsFor derives recipients and messages from a completed transition.
func notificationsFor(payload events.TransitionPayload) []domain.Notification {
	ticket := payload.Ticket
	ref := ticketRef(ticket)
	ticketID := ticket.ID

	build := func(recipient *string, kind domain.NotificationType, message string) *domain.Notification {
		if recipient == nil || *recipient == "" {
			return nil
		}
		return &domain.Notification{
			RecipientID: *recipient,
			Type:        kind,
			Message:     message,
			TicketID:    &ticketID,
		}
	}
	creator := &ticket.CreatorID

	var out []*domain.Notification
	switch payload.Action {
	case domain.ActionAssign:
		out = append(out,
			build(ticket.TechnicianID, domain.NotificationTicketAssigned,
				fmt.Sprintf("Le ticket %s vous a été assigné.", ref)),
			build(creator, domain.NotificationTicketStatusChanged,
				fmt.Sprintf("Votre ticket %s a été assigné à un technicien.", ref)))
	case domain.ActionReassign:
		out = append(out,
			build(ticket.TechnicianID, domain.NotificationTicketAssigned,
				fmt.Sprintf("Le ticket %s vous a été réassigné.", ref)))
	case domain.ActionEscalate:
		out = append(out,
			build(ticket.TechnicianID, domain.NotificationTicketEscalated,
				fmt.Sprintf("Le ticket %s a été escaladé en priorité %s.", ref, ticket.Priority)))
	case domain.ActionClose:
		out = append(out,
			build(creator, domain.NotificationTicketClosed,
				fmt.Sprintf("Votre ticket %s a été clôturé.", ref)))
	case domain.ActionReopen:
		out = append(out,
			build(ticket.TechnicianID, domain.NotificationTicketAssigned,
				fmt.Sprintf("Le ticket %s a été rouvert et vous a été assigné.", ref)),
			build(creator, domain.NotificationTicketReopened,
				fmt.Sprintf("Votre ticket %s a été rouvert.", ref)))
	case domain.ActionUpdateStatus:
		if label, ok := statusLabels[payload.NewStatus]; ok {
			out = append(out,
				build(creator, domain.NotificationTicketStatusChanged,
					fmt.Sprintf("Votre ticket %s est maintenant %s.", ref, label)))
		}
	}

	notifications := make([]domain.Notification, 0, len(out))
	for _, notification := range out {
		if notification != nil {
			notifications = append(notifications, *notification)
		}
	}
	return notifications
}

var statusLabels = map[domain.TicketStatus]string{
	domain.TicketStatusInProgress: "en cours de traitement",
	domain.TicketStatusResolved:   "résolu",
	domain.TicketStatusRejected:   "rejeté",
}

func ticketRef(ticket domain.Ticket) string {
	if ticket.Number > 0 {
		return fmt.Sprintf("#%d", ticket.Number)
	}
	return ticket.ID
}
