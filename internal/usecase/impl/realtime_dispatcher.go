package impl

import (
	"context"
	"log/slog"
	"sync"

	"tiffin/internal/domain/entity"
	"tiffin/internal/domain/service"
	"tiffin/internal/usecase"

	"go.uber.org/fx"
)

// realtimeDispatcher routes typed push events to their collections.
type realtimeDispatcher struct {
	channel       service.RealtimeChannel
	orders        usecase.OrderUsecase
	notifications usecase.NotificationUsecase
	logger        *slog.Logger

	once      sync.Once
	mu        sync.RWMutex
	observers []func(context.Context, entity.Event)
}

// RealtimeDispatcherParams holds dependencies for RealtimeDispatcher, injected by Fx.
type RealtimeDispatcherParams struct {
	fx.In

	Channel       service.RealtimeChannel
	Orders        usecase.OrderUsecase
	Notifications usecase.NotificationUsecase
	Logger        *slog.Logger
}

// NewRealtimeDispatcher is the constructor for realtimeDispatcher.
func NewRealtimeDispatcher(params RealtimeDispatcherParams) usecase.RealtimeDispatcher {
	return &realtimeDispatcher{
		channel:       params.Channel,
		orders:        params.Orders,
		notifications: params.Notifications,
		logger:        params.Logger,
	}
}

// Start registers one handler per event kind.
func (d *realtimeDispatcher) Start(ctx context.Context) {
	d.once.Do(func() {
		d.channel.Subscribe(entity.EventOrderUpdate, d.dispatch)
		d.channel.Subscribe(entity.EventNewNotification, d.dispatch)
		d.channel.OnStateChange(func(state service.ChannelState) {
			d.logger.Info("Realtime channel state changed", slog.String("state", string(state)))
		})

		d.logger.InfoContext(ctx, "Realtime dispatcher subscribed")
	})
}

func (d *realtimeDispatcher) dispatch(ctx context.Context, event entity.Event) {
	switch e := event.(type) {
	case entity.OrderUpdated:
		d.orders.ApplyOrderUpdate(ctx, e.Order)
	case entity.NotificationReceived:
		d.notifications.ApplyNewNotification(ctx, e.Notification)
	default:
		d.logger.Debug("Unhandled realtime event", slog.String("event", string(event.Kind())))

		return
	}

	d.mu.RLock()
	observers := d.observers
	d.mu.RUnlock()

	for _, fn := range observers {
		fn(ctx, event)
	}
}

// Observe registers fn for applied events.
func (d *realtimeDispatcher) Observe(fn func(ctx context.Context, event entity.Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.observers = append(d.observers[:len(d.observers):len(d.observers)], fn)
}
