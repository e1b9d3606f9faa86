package memory

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationRepository(t *testing.T) {
	repo := NewNotificationRepository(0)
	ctx := context.Background()
	base := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.CreateBatch(ctx, []*notification.Notification{
		{ID: "n1", Recipient: "admins", Type: notification.TypeScheduleChangeRequested, CreatedAt: base},
		{ID: "n2", Recipient: "admin@example.com", Type: notification.TypeMemberCreated, CreatedAt: base.Add(time.Minute)},
		{ID: "n3", Recipient: "other@example.com", CreatedAt: base.Add(2 * time.Minute)},
	}))

	recipients := []string{"admin@example.com", "admins"}
	list, total, err := repo.ListByRecipients(ctx, recipients, 1, 10, false)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, list, 2)
	assert.Equal(t, "n2", list[0].ID, "newest first")

	unread, err := repo.GetUnreadCount(ctx, recipients)
	require.NoError(t, err)
	assert.Equal(t, 2, unread)

	require.NoError(t, repo.MarkAsRead(ctx, []string{"n1", "n3"}, recipients))
	unread, err = repo.GetUnreadCount(ctx, recipients)
	require.NoError(t, err)
	assert.Equal(t, 1, unread)

	// n3 belongs to another recipient and stays unread.
	other, err := repo.GetUnreadCount(ctx, []string{"other@example.com"})
	require.NoError(t, err)
	assert.Equal(t, 1, other)

	require.NoError(t, repo.MarkAllAsRead(ctx, recipients))
	list, total, err = repo.ListByRecipients(ctx, recipients, 1, 10, true)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, list)

	assert.ErrorIs(t, repo.Create(ctx, &notification.Notification{ID: "bad"}), notification.ErrInvalidRecipient)
}

func TestNotificationRepository_InboxLimit(t *testing.T) {
	repo := NewNotificationRepository(2)
	ctx := context.Background()
	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Create(ctx, &notification.Notification{
			ID: id, Recipient: "r", CreatedAt: time.Unix(int64(i), 0),
		}))
	}

	list, total, err := repo.ListByRecipients(ctx, []string{"r"}, 1, 10, false)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, "c", list[0].ID)
	assert.Equal(t, "b", list[1].ID)
}
