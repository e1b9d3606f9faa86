package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/notification"
)

// defaultInboxLimit caps how many notifications are kept per recipient.
const defaultInboxLimit = 200

type notificationRepository struct {
	mu    sync.RWMutex
	limit int
	inbox map[string][]*notification.Notification
}

func NewNotificationRepository(limit int) notification.Repository {
	if limit <= 0 {
		limit = defaultInboxLimit
	}
	return &notificationRepository{
		limit: limit,
		inbox: make(map[string][]*notification.Notification),
	}
}

// Create implements notification.Repository.
func (r *notificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	return r.CreateBatch(ctx, []*notification.Notification{n})
}

// CreateBatch implements notification.Repository.
func (r *notificationRepository) CreateBatch(ctx context.Context, notifications []*notification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, n := range notifications {
		if n.Recipient == "" {
			return notification.ErrInvalidRecipient
		}
		stored := *n
		list := append(r.inbox[n.Recipient], &stored)
		if len(list) > r.limit {
			list = list[len(list)-r.limit:]
		}
		r.inbox[n.Recipient] = list
	}
	return nil
}

// collect returns the recipients' notifications, newest first.
func (r *notificationRepository) collect(recipients []string, unreadOnly bool) []*notification.Notification {
	var out []*notification.Notification
	for _, recipient := range uniqueStrings(recipients) {
		for _, n := range r.inbox[recipient] {
			if unreadOnly && n.IsRead {
				continue
			}
			copied := *n
			out = append(out, &copied)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// ListByRecipients implements notification.Repository.
func (r *notificationRepository) ListByRecipients(ctx context.Context, recipients []string, page, pageSize int, unreadOnly bool) ([]*notification.Notification, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := r.collect(recipients, unreadOnly)
	total := len(all)

	offset := (page - 1) * pageSize
	if offset >= total {
		return []*notification.Notification{}, total, nil
	}
	end := offset + pageSize
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

// GetUnreadCount implements notification.Repository.
func (r *notificationRepository) GetUnreadCount(ctx context.Context, recipients []string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.collect(recipients, true)), nil
}

// MarkAsRead implements notification.Repository.
func (r *notificationRepository) MarkAsRead(ctx context.Context, ids []string, recipients []string) error {
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	r.mark(recipients, func(n *notification.Notification) bool {
		_, ok := wanted[n.ID]
		return ok
	})
	return nil
}

// MarkAllAsRead implements notification.Repository.
func (r *notificationRepository) MarkAllAsRead(ctx context.Context, recipients []string) error {
	r.mark(recipients, func(*notification.Notification) bool { return true })
	return nil
}

func (r *notificationRepository) mark(recipients []string, match func(*notification.Notification) bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for _, recipient := range uniqueStrings(recipients) {
		for _, n := range r.inbox[recipient] {
			if !n.IsRead && match(n) {
				n.IsRead = true
				readAt := now
				n.ReadAt = &readAt
			}
		}
	}
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok || v == "" {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
