package usecase

import (
	"context"

	"tiffin/internal/domain/entity"
)

// RealtimeDispatcher routes push events into the order and notification collections.
type RealtimeDispatcher interface {
	// Start subscribes to the channel. Calling it again does not add handlers.
	Start(ctx context.Context)
	// Observe registers fn to see every event after it has been applied.
	Observe(fn func(ctx context.Context, event entity.Event))
}
