package handler

import (
	"net/http"

	"tiffin/internal/delivery/api/response"
	"tiffin/internal/domain/entity"
	"tiffin/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// NotificationHandlerParams holds dependencies for NotificationHandler, injected by Fx.
type NotificationHandlerParams struct {
	fx.In

	Notifications usecase.NotificationUsecase
}

// NotificationHandler serves the notification collection.
type NotificationHandler struct {
	notifications usecase.NotificationUsecase
}

// NewNotificationHandler is the constructor for NotificationHandler.
func NewNotificationHandler(params NotificationHandlerParams) *NotificationHandler {
	return &NotificationHandler{notifications: params.Notifications}
}

// NotificationsView carries the unread badge next to the list.
type NotificationsView struct {
	Items       []entity.Notification `json:"items"`
	UnreadCount int                   `json:"unread_count"`
}

func (h *NotificationHandler) view() NotificationsView {
	items := h.notifications.Notifications()
	if items == nil {
		items = []entity.Notification{}
	}

	return NotificationsView{Items: items, UnreadCount: h.notifications.UnreadCount()}
}

func (h *NotificationHandler) List(c echo.Context) error {
	return response.Success(c, http.StatusOK, h.view())
}

// Refresh reloads the list from the API.
func (h *NotificationHandler) Refresh(c echo.Context) error {
	if err := h.notifications.Fetch(c.Request().Context()); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, h.view())
}

func (h *NotificationHandler) MarkRead(c echo.Context) error {
	if err := h.notifications.MarkRead(c.Request().Context(), entity.ID(c.Param("id"))); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, h.view())
}

func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	if err := h.notifications.MarkAllRead(c.Request().Context()); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, h.view())
}

func (h *NotificationHandler) Delete(c echo.Context) error {
	if err := h.notifications.Delete(c.Request().Context(), entity.ID(c.Param("id"))); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, h.view())
}
