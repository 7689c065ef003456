package worker

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"tiffin/config"
	"tiffin/internal/delivery/worker/handler"
	"tiffin/internal/domain/entity"
	domainerrors "tiffin/internal/domain/errors"
	"tiffin/internal/domain/service"
	"tiffin/internal/errors"
	"tiffin/internal/infra/persistence/memory"
	mockService "tiffin/internal/mocks/service"
	"tiffin/internal/usecase"
	"tiffin/internal/usecase/impl"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type stubSession struct {
	usecase.SessionUsecase

	authenticated bool
	role          entity.Role
	hydrated      atomic.Int32
}

func (s *stubSession) Hydrate(context.Context) error {
	s.hydrated.Add(1)

	return nil
}

func (s *stubSession) IsAuthenticated() bool { return s.authenticated }

func (s *stubSession) HasRole(role entity.Role) bool { return s.authenticated && s.role == role }

type stubDispatcher struct {
	started atomic.Int32
}

func (d *stubDispatcher) Start(context.Context) { d.started.Add(1) }

func (d *stubDispatcher) Observe(func(context.Context, entity.Event)) {}

type workerFixtures struct {
	server        *workerServer
	api           *mockService.MockMarketplaceAPI
	channel       *mockService.MockRealtimeChannel
	session       *stubSession
	dispatcher    *stubDispatcher
	notifications usecase.NotificationUsecase
	toasts        usecase.ToastUsecase
}

func createTestWorker(t *testing.T, session *stubSession) workerFixtures {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{API: &config.APIConfig{BaseURL: "http://backend.invalid/api"}}
	cfg.ApplyDefaults()
	cfg.Notifications.PollInterval = 10 * time.Millisecond

	api := mockService.NewMockMarketplaceAPI(t)
	channel := mockService.NewMockRealtimeChannel(t)
	dispatcher := &stubDispatcher{}

	toasts := impl.NewToastService(impl.ToastServiceParams{Config: cfg, Logger: logger})
	orders := impl.NewOrderService(impl.OrderServiceParams{API: api, Toasts: toasts, Logger: logger})
	notifications := impl.NewNotificationService(impl.NotificationServiceParams{
		API: api, Store: memory.NewLocalStore(), Toasts: toasts, Config: cfg, Logger: logger,
	})

	syncer := handler.NewSyncHandler(handler.SyncHandlerParams{
		Session:       session,
		Orders:        orders,
		Notifications: notifications,
		Logger:        logger,
	})

	return workerFixtures{
		server: newWorkerServer(ServerParams{
			Cfg:         cfg,
			Logger:      logger,
			Session:     session,
			Dispatcher:  dispatcher,
			Channel:     channel,
			SyncHandler: syncer,
		}),
		api:           api,
		channel:       channel,
		session:       session,
		dispatcher:    dispatcher,
		notifications: notifications,
		toasts:        toasts,
	}
}

func TestWorker_ServeLoadsPollsAndCatchesUp(t *testing.T) {
	fx := createTestWorker(t, &stubSession{authenticated: true, role: entity.RoleCustomer})

	listeners := make(chan func(service.ChannelState), 1)
	fx.channel.EXPECT().OnStateChange(mock.Anything).Run(func(args mock.Arguments) {
		listeners <- args.Get(0).(func(service.ChannelState))
	}).Once()

	var orderFetches, notificationFetches atomic.Int32
	fx.api.EXPECT().ListMyOrders(mock.Anything).Run(func(mock.Arguments) {
		orderFetches.Add(1)
	}).Return([]entity.Order{{ID: "1", Status: entity.OrderStatusPending}}, nil)
	fx.api.EXPECT().ListNotifications(mock.Anything).Run(func(mock.Arguments) {
		notificationFetches.Add(1)
	}).Return([]entity.Notification{{ID: "n1", Message: "Welcome"}}, nil)

	errCh := make(chan error, 1)
	go func() { errCh <- fx.server.Serve(context.Background()) }()

	listener := <-listeners
	assert.Eventually(t, func() bool { return orderFetches.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool { return notificationFetches.Load() >= 3 }, time.Second, 5*time.Millisecond)

	listener(service.ChannelConnected)
	listener(service.ChannelReconnecting)
	listener(service.ChannelConnected)
	assert.Eventually(t, func() bool { return orderFetches.Load() == 2 }, time.Second, 5*time.Millisecond)

	require.NoError(t, fx.server.stop(context.Background()))
	require.NoError(t, <-errCh)

	assert.EqualValues(t, 1, fx.session.hydrated.Load())
	assert.EqualValues(t, 1, fx.dispatcher.started.Load())
	assert.Len(t, fx.notifications.Notifications(), 1)
}

func TestWorker_StopBeforeServeReturnsImmediately(t *testing.T) {
	fx := createTestWorker(t, &stubSession{})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	require.NoError(t, fx.server.stop(ctx))
	assert.NoError(t, ctx.Err())
}

func TestWorker_WatchReconnectSignalsOnce(t *testing.T) {
	fx := createTestWorker(t, &stubSession{})
	listener := fx.server.watchReconnect()

	listener(service.ChannelConnected)
	assert.Empty(t, fx.server.resync)

	listener(service.ChannelReconnecting)
	listener(service.ChannelReconnecting)
	listener(service.ChannelConnected)
	listener(service.ChannelReconnecting)
	listener(service.ChannelConnected)

	assert.Len(t, fx.server.resync, 1)
}

func TestSyncHandler_PollSkipsSignedOutSession(t *testing.T) {
	fx := createTestWorker(t, &stubSession{})

	fx.server.syncer.Poll(context.Background())
	require.NoError(t, fx.server.syncer.Load(context.Background()))
}

func TestSyncHandler_PollFailureIsSilent(t *testing.T) {
	fx := createTestWorker(t, &stubSession{authenticated: true, role: entity.RoleCustomer})
	ctx := context.Background()

	fx.notifications.ApplyNewNotification(ctx, entity.Notification{ID: "n1", Message: "kept"})
	fx.toasts.Dismiss()

	fx.api.EXPECT().ListNotifications(ctx).Return(nil, errors.WithStack(domainerrors.ErrNetwork)).Once()

	fx.server.syncer.Poll(ctx)

	assert.Len(t, fx.notifications.Notifications(), 1)
	_, shown := fx.toasts.Current()
	assert.False(t, shown)
}

func TestSyncHandler_LoadRiderCollections(t *testing.T) {
	fx := createTestWorker(t, &stubSession{authenticated: true, role: entity.RoleRider})
	ctx := context.Background()

	fx.api.EXPECT().ListAvailableOrders(ctx).Return([]entity.Order{{ID: "8"}}, nil).Once()
	fx.api.EXPECT().ListRiderOrders(ctx).Return([]entity.Order{{ID: "3"}}, nil).Once()
	fx.api.EXPECT().ListNotifications(ctx).Return(nil, errors.WithStack(domainerrors.ErrServer)).Once()

	err := fx.server.syncer.Load(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrServer))
}
