package impl

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"tiffin/internal/domain/entity"
	"tiffin/internal/domain/service"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestToasts() *toastService {
	return newToastService(time.Hour, time.Now, newDiscardLogger())
}

// lastToast returns the visible toast or fails the caller's assertion with a zero value.
func lastToast(toasts *toastService) entity.Toast {
	toast, _ := toasts.Current()

	return toast
}

type stubInspector struct {
	claims *service.TokenClaims
	err    error
}

func (s stubInspector) Inspect(entity.Credential) (*service.TokenClaims, error) {
	return s.claims, s.err
}

type countingScoped struct {
	mu      sync.Mutex
	cleared int
}

func (c *countingScoped) Clear(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cleared++
}

func (c *countingScoped) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.cleared
}
