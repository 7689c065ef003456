// Package worker runs the background sync loop next to the gateway.
package worker

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"tiffin/config"
	"tiffin/internal/delivery"
	deliverycontext "tiffin/internal/delivery/context"
	"tiffin/internal/delivery/worker/handler"
	"tiffin/internal/domain/lifecycle"
	"tiffin/internal/domain/service"
	"tiffin/internal/usecase"

	"go.uber.org/fx"
)

type workerServer struct {
	logger       *slog.Logger
	pollInterval time.Duration

	session    usecase.SessionUsecase
	dispatcher usecase.RealtimeDispatcher
	channel    service.RealtimeChannel
	syncer     *handler.SyncHandler

	started  atomic.Bool
	resync   chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	stopped  chan struct{}
}

// ServerParams holds dependencies for the worker
type ServerParams struct {
	fx.In

	Lc          fx.Lifecycle
	Cfg         *config.Config
	Logger      *slog.Logger
	Session     usecase.SessionUsecase
	Dispatcher  usecase.RealtimeDispatcher
	Channel     service.RealtimeChannel
	SyncHandler *handler.SyncHandler
}

// NewServer creates the background sync worker
func NewServer(params ServerParams) (delivery.Delivery, error) {
	srv := newWorkerServer(params)

	params.Lc.Append(fx.Hook{
		OnStop: srv.stop,
	})

	return srv, nil
}

func newWorkerServer(params ServerParams) *workerServer {
	return &workerServer{
		logger:       params.Logger,
		pollInterval: params.Cfg.Notifications.PollInterval,
		session:      params.Session,
		dispatcher:   params.Dispatcher,
		channel:      params.Channel,
		syncer:       params.SyncHandler,
		resync:       make(chan struct{}, 1),
		done:         make(chan struct{}),
		stopped:      make(chan struct{}),
	}
}

// Serve hydrates the session, subscribes to push events and then polls until stopped.
func (s *workerServer) Serve(ctx context.Context) error {
	s.started.Store(true)
	defer close(s.stopped)

	ctx = deliverycontext.WithOrigin(ctx, s.logger, deliverycontext.OriginWorker)
	logger := deliverycontext.GetLoggerOrDefault(ctx, s.logger)

	s.dispatcher.Start(ctx)
	s.channel.OnStateChange(s.watchReconnect())

	if err := s.session.Hydrate(ctx); err != nil {
		logger.Warn("Session hydrate failed", slog.Any("error", err))
	}
	_ = s.syncer.Load(ctx)

	logger.Info("Starting sync worker", slog.Duration("poll_interval", s.pollInterval))

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.done:
			return nil
		case <-ticker.C:
			s.syncer.Poll(ctx)
		case <-s.resync:
			logger.Info("Realtime channel restored, catching up")
			_ = s.syncer.Load(ctx)
		}
	}
}

// watchReconnect requests a catch-up load when the channel comes back after
// a drop. Events sent while it was down are not replayed.
func (s *workerServer) watchReconnect() func(service.ChannelState) {
	var mu sync.Mutex
	dropped := false

	return func(state service.ChannelState) {
		mu.Lock()
		defer mu.Unlock()

		switch state {
		case service.ChannelReconnecting:
			dropped = true
		case service.ChannelConnected:
			if !dropped {
				return
			}
			dropped = false
			select {
			case s.resync <- struct{}{}:
			default:
			}
		}
	}
}

func (s *workerServer) stop(ctx context.Context) error {
	s.stopOnce.Do(func() { close(s.done) })
	if !s.started.Load() {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
	defer cancel()

	select {
	case <-s.stopped:
	case <-ctx.Done():
		s.logger.Warn("Sync worker did not stop in time")
	}

	return nil
}
