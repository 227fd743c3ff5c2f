package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-workflow/internal/domain"
)

const unreadKeyPrefix = "helpdesk:notifications:unread:"

// cachedNotificationRepository serves unread counts from Redis. Entries expire
// after ttl and are dropped on every write for the recipient, so a cached count
// is never older than the client poll interval.
type cachedNotificationRepository struct {
	inner  NotificationRepository
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedNotificationRepository wraps inner with a Redis unread-count cache.
// A nil client returns inner unchanged.
func NewCachedNotificationRepository(inner NotificationRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger) NotificationRepository {
	if client == nil {
		return inner
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &cachedNotificationRepository{inner: inner, client: client, ttl: ttl, logger: logger}
}

func (r *cachedNotificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	if err := r.inner.Create(ctx, notification); err != nil {
		return err
	}
	r.invalidate(ctx, notification.RecipientID)
	return nil
}

func (r *cachedNotificationRepository) ListByRecipient(ctx context.Context, recipientID string, limit int) ([]domain.Notification, error) {
	return r.inner.ListByRecipient(ctx, recipientID, limit)
}

func (r *cachedNotificationRepository) MarkRead(ctx context.Context, recipientID, notificationID string) (*domain.Notification, error) {
	notification, err := r.inner.MarkRead(ctx, recipientID, notificationID)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx, recipientID)
	return notification, nil
}

func (r *cachedNotificationRepository) CountUnread(ctx context.Context, recipientID string) (int, error) {
	key := unreadKeyPrefix + recipientID
	cached, err := r.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		if count, convErr := strconv.Atoi(cached); convErr == nil {
			return count, nil
		}
	case !errors.Is(err, redis.Nil):
		r.logger.Warn("unread count cache read failed", zap.String("recipient_id", recipientID), zap.Error(err))
	}

	count, err := r.inner.CountUnread(ctx, recipientID)
	if err != nil {
		return 0, err
	}
	if err := r.client.Set(ctx, key, count, r.ttl).Err(); err != nil {
		r.logger.Warn("unread count cache write failed", zap.String("recipient_id", recipientID), zap.Error(err))
	}
	return count, nil
}

func (r *cachedNotificationRepository) invalidate(ctx context.Context, recipientID string) {
	if err := r.client.Del(ctx, unreadKeyPrefix+recipientID).Err(); err != nil {
		r.logger.Warn("unread count cache invalidation failed", zap.String("recipient_id", recipientID), zap.Error(err))
	}
}
