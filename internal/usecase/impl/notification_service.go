package impl

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"tiffin/config"
	deliverycontext "tiffin/internal/delivery/context"
	"tiffin/internal/domain/collection"
	"tiffin/internal/domain/entity"
	"tiffin/internal/domain/repository"
	"tiffin/internal/domain/service"
	"tiffin/internal/errors"
	"tiffin/internal/usecase"

	"go.uber.org/fx"
)

type notificationSet = collection.Keyed[entity.ID, entity.Notification]

// notificationService implements the NotificationUsecase interface. Every
// change is mirrored to the local store, newest first, up to cacheLimit entries.
type notificationService struct {
	api        service.MarketplaceAPI
	store      repository.LocalStore
	toasts     usecase.ToastUsecase
	cacheLimit int
	now        func() time.Time
	logger     *slog.Logger

	mu    sync.Mutex
	items *notificationSet
	// gen changes on Clear so results requested before a sign-out are discarded.
	gen uint64
}

// NotificationServiceParams holds dependencies for NotificationService, injected by Fx.
type NotificationServiceParams struct {
	fx.In

	API    service.MarketplaceAPI
	Store  repository.LocalStore
	Toasts usecase.ToastUsecase
	Config *config.Config
	Logger *slog.Logger
}

// NewNotificationService is the constructor for notificationService. The
// collection starts from the locally cached notifications.
func NewNotificationService(params NotificationServiceParams) usecase.NotificationUsecase {
	return newNotificationService(params.API, params.Store, params.Toasts, params.Config.Notifications.CacheLimit, time.Now, params.Logger)
}

func newNotificationService(
	api service.MarketplaceAPI,
	store repository.LocalStore,
	toasts usecase.ToastUsecase,
	cacheLimit int,
	now func() time.Time,
	logger *slog.Logger,
) *notificationService {
	srv := &notificationService{
		api:        api,
		store:      store,
		toasts:     toasts,
		cacheLimit: cacheLimit,
		now:        now,
		logger:     logger,
	}

	cached, _ := repository.LoadJSON[[]entity.Notification](context.Background(), store, repository.KeyNotifications, logger)
	srv.items = collection.New[entity.ID, entity.Notification](cached...)

	return srv
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *notificationService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Fetch replaces the collection with the server's list. An empty list also
// removes the local cache.
func (srv *notificationService) Fetch(ctx context.Context) error {
	srv.mu.Lock()
	gen := srv.gen
	srv.mu.Unlock()

	items, err := srv.api.ListNotifications(ctx)
	if err != nil {
		srv.log(ctx).Warn("Notification fetch failed, keeping last known value", slog.Any("error", err))

		return errors.Wrap(err, "fetch notifications")
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()

	if srv.gen != gen {
		srv.log(ctx).Info("Discarding notifications fetched before the session changed")

		return nil
	}

	srv.items.Replace(items)
	srv.mirrorLocked(ctx)

	return nil
}

// ApplyNewNotification prepends a pushed notification and toasts it. A
// notification already present is dropped without merging.
func (srv *notificationService) ApplyNewNotification(ctx context.Context, n entity.Notification) bool {
	n = n.Normalize(srv.now())

	srv.mu.Lock()
	inserted := srv.items.InsertIfAbsent(n)
	if inserted {
		srv.mirrorLocked(ctx)
	}
	srv.mu.Unlock()

	if !inserted {
		srv.log(ctx).Debug("Dropping duplicate notification", slog.Any("notification_id", n.ID))

		return false
	}

	srv.toasts.Show(n.ToastText(), n.ToastType())

	return true
}

// MarkRead flags one notification read, then tells the API.
func (srv *notificationService) MarkRead(ctx context.Context, id entity.ID) error {
	srv.mu.Lock()
	prev, tracked := srv.items.Update(id, func(n entity.Notification) entity.Notification {
		n.Read = true

		return n
	})
	if tracked {
		srv.mirrorLocked(ctx)
	}
	srv.mu.Unlock()

	if err := srv.api.MarkNotificationRead(ctx, id); err != nil {
		if tracked && !prev.Read {
			srv.mu.Lock()
			srv.items.Update(id, func(cur entity.Notification) entity.Notification {
				cur.Read = false

				return cur
			})
			srv.mirrorLocked(ctx)
			srv.mu.Unlock()
		}

		srv.log(ctx).Warn("Mark notification read failed", slog.Any("notification_id", id), slog.Any("error", err))
		srv.toasts.Show("Failed to mark notification as read", entity.ToastError)

		return errors.Wrapf(err, "mark notification %s read", id)
	}

	srv.toasts.Show("Notification marked as read", entity.ToastSuccess)

	return nil
}

// MarkAllRead flags every notification read, then tells the API.
func (srv *notificationService) MarkAllRead(ctx context.Context) error {
	srv.mu.Lock()
	var unread []entity.ID
	for _, n := range srv.items.Items() {
		if !n.Read {
			unread = append(unread, n.ID)
		}
	}
	srv.items.UpdateAll(func(n entity.Notification) entity.Notification {
		n.Read = true

		return n
	})
	srv.mirrorLocked(ctx)
	srv.mu.Unlock()

	if err := srv.api.MarkAllNotificationsRead(ctx); err != nil {
		srv.mu.Lock()
		for _, id := range unread {
			srv.items.Update(id, func(cur entity.Notification) entity.Notification {
				cur.Read = false

				return cur
			})
		}
		srv.mirrorLocked(ctx)
		srv.mu.Unlock()

		srv.log(ctx).Warn("Mark all notifications read failed", slog.Any("error", err))
		srv.toasts.Show("Failed to mark notifications as read", entity.ToastError)

		return errors.Wrap(err, "mark all notifications read")
	}

	srv.toasts.Show("All notifications marked as read", entity.ToastSuccess)

	return nil
}

// Delete removes one notification, then tells the API. On failure it is put
// back at its old position unless it reappeared or the session changed meanwhile.
func (srv *notificationService) Delete(ctx context.Context, id entity.ID) error {
	srv.mu.Lock()
	gen := srv.gen
	pos := srv.items.Position(id)
	removed, tracked := srv.items.Remove(id)
	if tracked {
		srv.mirrorLocked(ctx)
	}
	srv.mu.Unlock()

	if err := srv.api.DeleteNotification(ctx, id); err != nil {
		if tracked {
			srv.mu.Lock()
			if _, back := srv.items.Get(id); !back && srv.gen == gen {
				srv.items.InsertAt(pos, removed)
				srv.mirrorLocked(ctx)
			}
			srv.mu.Unlock()
		}

		srv.log(ctx).Warn("Delete notification failed", slog.Any("notification_id", id), slog.Any("error", err))
		srv.toasts.Show("Failed to delete notification", entity.ToastError)

		return errors.Wrapf(err, "delete notification %s", id)
	}

	srv.toasts.Show("Notification deleted", entity.ToastSuccess)

	return nil
}

// Notifications returns a copy of the collection in display order.
func (srv *notificationService) Notifications() []entity.Notification {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	return srv.items.Items()
}

// UnreadCount counts notifications not yet read.
func (srv *notificationService) UnreadCount() int {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	return entity.UnreadCount(srv.items.Items())
}

// Clear drops the collection and its local cache.
func (srv *notificationService) Clear(ctx context.Context) {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	srv.gen++
	srv.items.Replace(nil)
	if err := srv.store.Remove(ctx, repository.KeyNotifications); err != nil {
		srv.log(ctx).Warn("Failed to clear cached notifications", slog.Any("error", err))
	}
}

// mirrorLocked writes the collection to the local store. The caller holds srv.mu.
func (srv *notificationService) mirrorLocked(ctx context.Context) {
	items := srv.items.Items()

	var err error
	if len(items) == 0 {
		err = srv.store.Remove(ctx, repository.KeyNotifications)
	} else {
		if srv.cacheLimit > 0 && len(items) > srv.cacheLimit {
			items = items[:srv.cacheLimit]
		}
		err = repository.SaveJSON(ctx, srv.store, repository.KeyNotifications, items)
	}

	if err != nil {
		srv.log(ctx).Warn("Failed to mirror notifications", slog.Any("error", err))
	}
}
