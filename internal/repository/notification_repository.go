package repository

import (
	"context"
	"time"

	"github.com/spec-kit/helpdesk-workflow/internal/domain"
)

// NotificationRepository stores per-recipient notifications.
type NotificationRepository interface {
	Create(ctx context.Context, notification *domain.Notification) error
	ListByRecipient(ctx context.Context, recipientID string, limit int) ([]domain.Notification, error)
	// MarkRead flips read to true. Notifications owned by another recipient are reported as ErrNotFound.
	MarkRead(ctx context.Context, recipientID, notificationID string) (*domain.Notification, error)
	CountUnread(ctx context.Context, recipientID string) (int, error)
}

type notificationRepository struct {
	db DB
}

// NewNotificationRepository instantiates the repository.
func NewNotificationRepository(db DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	const query = `
        INSERT INTO notifications (recipient_id, type, message, read_flag, ticket_id, created_at)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id`
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now().UTC()
	}
	return r.db.QueryRow(ctx, query,
		notification.RecipientID,
		notification.Type,
		notification.Message,
		notification.Read,
		notification.TicketID,
		notification.CreatedAt,
	).Scan(&notification.ID)
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientID string, limit int) ([]domain.Notification, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	const query = `
        SELECT id, recipient_id, type, message, read_flag, created_at, ticket_id
        FROM notifications
        WHERE recipient_id=$1
        ORDER BY created_at DESC
        LIMIT $2`
	rows, err := r.db.Query(ctx, query, recipientID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Notification
	for rows.Next() {
		notification, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *notification)
	}
	return result, rows.Err()
}

func (r *notificationRepository) MarkRead(ctx context.Context, recipientID, notificationID string) (*domain.Notification, error) {
	const query = `
        UPDATE notifications SET read_flag = TRUE
        WHERE id=$1 AND recipient_id=$2
        RETURNING id, recipient_id, type, message, read_flag, created_at, ticket_id`
	notification, err := scanNotification(r.db.QueryRow(ctx, query, notificationID, recipientID))
	if err != nil {
		return nil, notFound(err)
	}
	return notification, nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, recipientID string) (int, error) {
	const query = `SELECT COUNT(*) FROM notifications WHERE recipient_id=$1 AND NOT read_flag`
	var count int64
	if err := r.db.QueryRow(ctx, query, recipientID).Scan(&count); err != nil {
		return 0, err
	}
	return int(count), nil
}

func scanNotification(scanner interface {
	Scan(dest ...any) error
}) (*domain.Notification, error) {
	var notification domain.Notification
	if err := scanner.Scan(
		&notification.ID,
		&notification.RecipientID,
		&notification.Type,
		&notification.Message,
		&notification.Read,
		&notification.CreatedAt,
		&notification.TicketID,
	); err != nil {
		return nil, err
	}
	return &notification, nil
}
