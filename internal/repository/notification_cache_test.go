package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-workflow/internal/domain"
	"github.com/spec-kit/helpdesk-workflow/internal/repository"
)

type countingNotificationStore struct {
	*repository.MemoryNotificationStore
	countCalls int
}

func (s *countingNotificationStore) CountUnread(ctx context.Context, recipientID string) (int, error) {
	s.countCalls++
	return s.MemoryNotificationStore.CountUnread(ctx, recipientID)
}

func newCachedStore(t *testing.T) (repository.NotificationRepository, *countingNotificationStore, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	inner := &countingNotificationStore{MemoryNotificationStore: repository.NewMemoryNotificationStore()}
	return repository.NewCachedNotificationRepository(inner, client, 30*time.Second, nil), inner, server
}

func TestCachedUnreadCountServedFromRedis(t *testing.T) {
	cached, inner, server := newCachedStore(t)
	ctx := context.Background()

	require.NoError(t, cached.Create(ctx, &domain.Notification{RecipientID: "user-1", Type: domain.NotificationTicketClosed, Message: "m"}))

	count, err := cached.CountUnread(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, 1, count)
	count, err = cached.CountUnread(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, 1, count)
	require.Equal(t, 1, inner.countCalls)

	require.True(t, server.Exists("helpdesk:notifications:unread:user-1"))
	require.Equal(t, 30*time.Second, server.TTL("helpdesk:notifications:unread:user-1"))
}

func TestCachedUnreadCountInvalidatedOnWrite(t *testing.T) {
	cached, inner, server := newCachedStore(t)
	ctx := context.Background()

	first := &domain.Notification{RecipientID: "user-1", Type: domain.NotificationTicketClosed, Message: "m"}
	require.NoError(t, cached.Create(ctx, first))
	_, err := cached.CountUnread(ctx, "user-1")
	require.NoError(t, err)

	require.NoError(t, cached.Create(ctx, &domain.Notification{RecipientID: "user-1", Type: domain.NotificationTicketReopened, Message: "m"}))
	require.False(t, server.Exists("helpdesk:notifications:unread:user-1"))

	count, err := cached.CountUnread(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, 2, count)

	_, err = cached.MarkRead(ctx, "user-1", first.ID)
	require.NoError(t, err)
	count, err = cached.CountUnread(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, 1, count)
	require.Equal(t, 3, inner.countCalls)
}

func TestCachedUnreadCountFallsBackWhenRedisDown(t *testing.T) {
	cached, inner, server := newCachedStore(t)
	ctx := context.Background()
	require.NoError(t, cached.Create(ctx, &domain.Notification{RecipientID: "user-1", Type: domain.NotificationTicketClosed, Message: "m"}))

	server.Close()

	count, err := cached.CountUnread(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, 1, count)
	require.Equal(t, 1, inner.countCalls)
}

func TestNilClientReturnsInner(t *testing.T) {
	inner := repository.NewMemoryNotificationStore()
	require.Same(t, inner, repository.NewCachedNotificationRepository(inner, nil, time.Second, nil))
}
