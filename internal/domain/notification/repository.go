package notification

import (
	"context"
)

// Repository defines the notification repository interface. Read methods take every
// recipient key the caller may see.
type Repository interface {
	Create(ctx context.Context, notification *Notification) error
	CreateBatch(ctx context.Context, notifications []*Notification) error
	ListByRecipients(ctx context.Context, recipients []string, page, pageSize int, unreadOnly bool) ([]*Notification, int, error)
	GetUnreadCount(ctx context.Context, recipients []string) (int, error)
	MarkAsRead(ctx context.Context, ids []string, recipients []string) error
	MarkAllAsRead(ctx context.Context, recipients []string) error
}
