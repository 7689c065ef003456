// Package impl contains the implementation of the application's business logic.
package impl

import (
	"log/slog"
	"sync"
	"time"

	"tiffin/config"
	"tiffin/internal/domain/entity"
	"tiffin/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

// toastService keeps at most one toast. Showing a new one supersedes the old.
type toastService struct {
	duration time.Duration
	now      func() time.Time
	logger   *slog.Logger

	mu      sync.Mutex
	current *entity.Toast
}

// ToastServiceParams holds dependencies for ToastService, injected by Fx.
type ToastServiceParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// NewToastService is the constructor for toastService.
func NewToastService(params ToastServiceParams) usecase.ToastUsecase {
	return newToastService(params.Config.Toast.Duration, time.Now, params.Logger)
}

func newToastService(duration time.Duration, now func() time.Time, logger *slog.Logger) *toastService {
	return &toastService{
		duration: duration,
		now:      now,
		logger:   logger,
	}
}

// Show replaces the visible toast.
func (srv *toastService) Show(message string, kind entity.ToastType) entity.Toast {
	if _, ok := entity.ParseToastType(string(kind)); !ok {
		kind = entity.ToastInfo
	}

	shownAt := srv.now()
	toast := entity.Toast{
		ID:        uuid.NewString(),
		Message:   message,
		Type:      kind,
		ShownAt:   shownAt,
		ExpiresAt: shownAt.Add(srv.duration),
	}

	srv.mu.Lock()
	srv.current = &toast
	srv.mu.Unlock()

	srv.logger.Debug("Toast shown", slog.String("type", string(kind)), slog.String("message", message))

	return toast
}

// Current returns the visible toast until it expires.
func (srv *toastService) Current() (entity.Toast, bool) {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	if srv.current == nil {
		return entity.Toast{}, false
	}
	if srv.current.Expired(srv.now()) {
		srv.current = nil

		return entity.Toast{}, false
	}

	return *srv.current, true
}

// Dismiss hides the visible toast.
func (srv *toastService) Dismiss() {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	srv.current = nil
}
