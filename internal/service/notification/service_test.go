package notification

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, cfg Config) (notification.Service, *sse.Hub) {
	t.Helper()
	hub := sse.NewHub()
	svc := NewNotificationService(memory.NewNotificationRepository(0), hub, cfg)
	t.Cleanup(svc.Stop)
	return svc, hub
}

func changeRequest(recipient string) notification.CreateNotificationRequest {
	return notification.CreateNotificationRequest{
		Recipient: recipient,
		Type:      notification.TypeScheduleChangeRequested,
		Title:     "근무 일정 변경 요청",
		Message:   "이서연님이 2025-03-03 주간 일정 변경을 요청했습니다 (1건)",
	}
}

func TestQueueNotification_RequiresRecipient(t *testing.T) {
	svc, _ := newTestService(t, Config{})
	err := svc.QueueNotification(context.Background(), notification.CreateNotificationRequest{})
	assert.ErrorIs(t, err, notification.ErrInvalidRecipient)
}

func TestStop_FlushesQueue(t *testing.T) {
	svc, _ := newTestService(t, Config{FlushInterval: time.Hour})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.QueueNotification(ctx, changeRequest(sse.AdminChannel)))
	}
	require.NoError(t, svc.QueueNotification(ctx, changeRequest("seoyeon.lee@example.com")))
	svc.Stop()
	svc.Stop()

	list, err := svc.GetNotifications(ctx, []string{sse.AdminChannel}, 1, 10, false)
	require.NoError(t, err)
	assert.Equal(t, 3, list.Total)
	assert.Equal(t, 3, list.UnreadCount)
	require.Len(t, list.Notifications, 3)
	assert.Equal(t, notification.TypeScheduleChangeRequested, list.Notifications[0].Type)

	both, err := svc.GetNotifications(ctx, []string{sse.AdminChannel, "seoyeon.lee@example.com"}, 0, 0, false)
	require.NoError(t, err)
	assert.Equal(t, 4, both.Total)
	assert.Equal(t, 1, both.Page)
	assert.Equal(t, 20, both.PageSize)
}

func TestSubscribe_ReceivesFlushedNotifications(t *testing.T) {
	svc, hub := newTestService(t, Config{FlushInterval: 10 * time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, cleanup := svc.Subscribe(ctx, "minjun.kim@example.com", sse.AdminChannel)
	defer cleanup()
	assert.Equal(t, 1, hub.SubscriberCount(sse.AdminChannel))

	require.NoError(t, svc.QueueNotification(ctx, changeRequest(sse.AdminChannel)))

	select {
	case ev := <-events:
		assert.Equal(t, string(notification.TypeScheduleChangeRequested), ev.Event)
		resp, ok := ev.Data.(notification.NotificationResponse)
		require.True(t, ok)
		assert.Equal(t, "근무 일정 변경 요청", resp.Title)
		assert.NotEmpty(t, resp.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}

	cleanup()
	assert.Zero(t, hub.SubscriberCount(sse.AdminChannel))
}

func TestMarkAsRead(t *testing.T) {
	svc, _ := newTestService(t, Config{FlushInterval: time.Hour})
	ctx := context.Background()
	me := []string{"jiho.park@example.com"}

	require.NoError(t, svc.QueueNotification(ctx, changeRequest(me[0])))
	require.NoError(t, svc.QueueNotification(ctx, changeRequest(me[0])))
	svc.Stop()

	list, err := svc.GetNotifications(ctx, me, 1, 10, true)
	require.NoError(t, err)
	require.Len(t, list.Notifications, 2)

	assert.Error(t, svc.MarkAsRead(ctx, me, notification.MarkAsReadRequest{}))

	require.NoError(t, svc.MarkAsRead(ctx, me, notification.MarkAsReadRequest{
		NotificationIDs: []string{list.Notifications[0].ID},
	}))
	count, err := svc.GetUnreadCount(ctx, me)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Someone else's inbox cannot mark these.
	require.NoError(t, svc.MarkAllAsRead(ctx, []string{"other@example.com"}))
	count, err = svc.GetUnreadCount(ctx, me)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, svc.MarkAllAsRead(ctx, me))
	count, err = svc.GetUnreadCount(ctx, me)
	require.NoError(t, err)
	assert.Zero(t, count)
}
