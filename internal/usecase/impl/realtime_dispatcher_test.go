package impl

import (
	"context"
	"testing"
	"time"

	"tiffin/internal/domain/entity"
	"tiffin/internal/domain/service"
	"tiffin/internal/infra/persistence/memory"
	mockService "tiffin/internal/mocks/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRealtimeDispatcher_RoutesEvents(t *testing.T) {
	channel := mockService.NewMockRealtimeChannel(t)
	api := mockService.NewMockMarketplaceAPI(t)
	toasts := newTestToasts()

	orders := NewOrderService(OrderServiceParams{API: api, Toasts: toasts, Logger: newDiscardLogger()})
	notifications := newNotificationService(api, memory.NewLocalStore(), toasts, 0, time.Now, newDiscardLogger())

	handlers := make(map[entity.EventKind]service.EventHandler)
	channel.EXPECT().Subscribe(mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		handlers[args.Get(0).(entity.EventKind)] = args.Get(1).(service.EventHandler)
	}).Twice()
	channel.EXPECT().OnStateChange(mock.Anything).Once()

	dispatcher := NewRealtimeDispatcher(RealtimeDispatcherParams{
		Channel:       channel,
		Orders:        orders,
		Notifications: notifications,
		Logger:        newDiscardLogger(),
	})

	var seen []entity.EventKind
	dispatcher.Observe(func(_ context.Context, event entity.Event) {
		seen = append(seen, event.Kind())
	})

	ctx := context.Background()
	dispatcher.Start(ctx)
	dispatcher.Start(ctx)

	require.Contains(t, handlers, entity.EventOrderUpdate)
	require.Contains(t, handlers, entity.EventNewNotification)

	handlers[entity.EventOrderUpdate](ctx, entity.OrderUpdated{Order: entity.Order{ID: "5", Status: entity.OrderStatusReady}})
	got, ok := orders.Order("5")
	require.True(t, ok)
	assert.Equal(t, entity.OrderStatusReady, got.Status)
	assert.Equal(t, "Your order is ready for pickup! 📦", lastToast(toasts).Message)

	handlers[entity.EventNewNotification](ctx, entity.NotificationReceived{Notification: entity.Notification{ID: "n1", Message: "Rider assigned"}})
	handlers[entity.EventNewNotification](ctx, entity.NotificationReceived{Notification: entity.Notification{ID: "n1", Message: "Rider assigned"}})
	assert.Len(t, notifications.Notifications(), 1)
	assert.Equal(t, "Rider assigned", lastToast(toasts).Message)

	assert.Equal(t, []entity.EventKind{entity.EventOrderUpdate, entity.EventNewNotification, entity.EventNewNotification}, seen)
}
