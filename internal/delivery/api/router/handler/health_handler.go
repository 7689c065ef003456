package handler

import (
	"net/http"

	"tiffin/internal/delivery/api/response"
	"tiffin/internal/domain/service"
	"tiffin/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// HealthHandlerParams holds dependencies for HealthHandler, injected by Fx.
type HealthHandlerParams struct {
	fx.In

	Channel service.RealtimeChannel
	Toasts  usecase.ToastUsecase
}

// HealthHandler reports liveness and serves the toast slot.
type HealthHandler struct {
	channel service.RealtimeChannel
	toasts  usecase.ToastUsecase
}

// NewHealthHandler is the constructor for HealthHandler.
func NewHealthHandler(params HealthHandlerParams) *HealthHandler {
	return &HealthHandler{channel: params.Channel, toasts: params.Toasts}
}

// HealthCheck reports the gateway as up and the push channel's state.
func (h *HealthHandler) HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{
		"status":   "ok",
		"realtime": string(h.channel.State()),
	})
}

// GetToast returns the visible toast, or null.
func (h *HealthHandler) GetToast(c echo.Context) error {
	toast, ok := h.toasts.Current()
	if !ok {
		return response.Success(c, http.StatusOK, nil)
	}

	return response.Success(c, http.StatusOK, toast)
}

// DismissToast hides the visible toast.
func (h *HealthHandler) DismissToast(c echo.Context) error {
	h.toasts.Dismiss()

	return response.NoContent(c)
}
