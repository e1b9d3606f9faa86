package notification

import (
	"time"
)

// NotificationType represents the type of notification
type NotificationType string

const (
	TypeScheduleChangeRequested NotificationType = "schedule.change_requested"
	TypeMembersImported         NotificationType = "members.imported"
	TypeMemberCreated           NotificationType = "member.created"
)

func AllNotificationTypes() []NotificationType {
	return []NotificationType{
		TypeScheduleChangeRequested,
		TypeMembersImported,
		TypeMemberCreated,
	}
}

// Notification represents a notification entity. Recipient is a user's email or
// sse.AdminChannel for messages shared by every administrator.
type Notification struct {
	ID        string
	Recipient string
	SenderID  *string
	Type      NotificationType
	Title     string
	Message   string
	Data      map[string]interface{}
	IsRead    bool
	ReadAt    *time.Time
	CreatedAt time.Time
}
