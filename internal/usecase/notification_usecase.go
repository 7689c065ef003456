package usecase

import (
	"context"

	"tiffin/internal/domain/entity"
)

// NotificationUsecase owns the notification collection and its local mirror.
type NotificationUsecase interface {
	SessionScoped

	// Fetch replaces the collection. On failure the last-known value is kept.
	Fetch(ctx context.Context) error
	// ApplyNewNotification prepends a pushed notification unless its id is
	// already present, in which case the event is dropped.
	ApplyNewNotification(ctx context.Context, n entity.Notification) bool

	MarkRead(ctx context.Context, id entity.ID) error
	MarkAllRead(ctx context.Context) error
	Delete(ctx context.Context, id entity.ID) error

	Notifications() []entity.Notification
	UnreadCount() int
}
