// Package handler holds the background jobs run by the sync worker.
package handler

import (
	"context"
	"log/slog"

	deliverycontext "tiffin/internal/delivery/context"
	"tiffin/internal/errors"
	"tiffin/internal/usecase"

	"go.uber.org/fx"
)

// SyncHandler keeps the order and notification collections current while no
// view is asking for them.
type SyncHandler struct {
	session       usecase.SessionUsecase
	orders        usecase.OrderUsecase
	notifications usecase.NotificationUsecase
	logger        *slog.Logger
}

// SyncHandlerParams holds dependencies for the SyncHandler
type SyncHandlerParams struct {
	fx.In

	Session       usecase.SessionUsecase
	Orders        usecase.OrderUsecase
	Notifications usecase.NotificationUsecase
	Logger        *slog.Logger
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(params SyncHandlerParams) *SyncHandler {
	return &SyncHandler{
		session:       params.Session,
		orders:        params.Orders,
		notifications: params.Notifications,
		logger:        params.Logger,
	}
}

func (h *SyncHandler) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, h.logger)
}

// Load fetches every collection the signed-in role works with. Order failures
// are toasted like a dashboard load; notification failures are only logged.
func (h *SyncHandler) Load(ctx context.Context) error {
	if !h.session.IsAuthenticated() {
		return nil
	}

	role := usecase.DashboardRole(h.session)
	err := errors.Join(
		h.orders.Refresh(ctx, role, ""),
		h.notifications.Fetch(ctx),
	)
	if err != nil {
		h.log(ctx).Warn("Sync load incomplete", slog.String("role", string(role)), slog.Any("error", err))

		return err
	}

	h.log(ctx).Debug("Sync load complete",
		slog.String("role", string(role)),
		slog.Int("orders", len(h.orders.Orders())),
		slog.Int("notifications", len(h.notifications.Notifications())))

	return nil
}

// Poll refreshes notifications. A failure keeps the last-known list and raises no toast.
func (h *SyncHandler) Poll(ctx context.Context) {
	if !h.session.IsAuthenticated() {
		return
	}

	if err := h.notifications.Fetch(ctx); err != nil {
		h.log(ctx).Warn("Notification poll failed", slog.Any("error", err))
	}
}
