package notification

import "errors"

// Notification domain errors
var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrInvalidRecipient     = errors.New("notification recipient is required")
	ErrQueueFull            = errors.New("notification queue is full")
)
