package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationRepository(t *testing.T) {
	db := newTestDatabase(t)
	repo := postgresql.NewNotificationRepository(db)
	ctx := context.Background()

	base := time.Date(2025, 3, 5, 9, 0, 0, 0, time.UTC)
	batch := []*notification.Notification{
		{Recipient: sse.AdminChannel, Type: notification.TypeScheduleChangeRequested, Title: "a", Message: "a", CreatedAt: base},
		{Recipient: sse.AdminChannel, Type: notification.TypeMemberCreated, Title: "b", Message: "b", CreatedAt: base.Add(time.Minute),
			Data: map[string]interface{}{"memberId": "1700000000002"}},
		{Recipient: "jiho.park@example.com", Type: notification.TypeMemberCreated, Title: "c", Message: "c", CreatedAt: base.Add(2 * time.Minute)},
	}
	require.NoError(t, repo.CreateBatch(ctx, batch))
	for _, n := range batch {
		assert.NotEmpty(t, n.ID)
	}

	err := repo.Create(ctx, &notification.Notification{Type: notification.TypeMemberCreated})
	assert.ErrorIs(t, err, notification.ErrInvalidRecipient)

	list, total, err := repo.ListByRecipients(ctx, []string{sse.AdminChannel}, 1, 10, false)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].Title, "newest first")
	assert.Equal(t, "1700000000002", list[0].Data["memberId"])

	count, err := repo.GetUnreadCount(ctx, []string{sse.AdminChannel, "jiho.park@example.com"})
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	// Marking through another inbox has no effect.
	require.NoError(t, repo.MarkAsRead(ctx, []string{batch[0].ID}, []string{"jiho.park@example.com"}))
	count, err = repo.GetUnreadCount(ctx, []string{sse.AdminChannel})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, repo.MarkAsRead(ctx, []string{batch[0].ID}, []string{sse.AdminChannel}))
	unread, total, err := repo.ListByRecipients(ctx, []string{sse.AdminChannel}, 1, 10, true)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, unread, 1)
	assert.Equal(t, batch[1].ID, unread[0].ID)

	require.NoError(t, repo.MarkAllAsRead(ctx, []string{sse.AdminChannel}))
	count, err = repo.GetUnreadCount(ctx, []string{sse.AdminChannel, "jiho.park@example.com"})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
