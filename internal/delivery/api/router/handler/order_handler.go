package handler

import (
	"context"
	"net/http"

	"tiffin/internal/delivery/api/response"
	"tiffin/internal/domain/entity"
	"tiffin/internal/errors"
	"tiffin/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// OrderHandlerParams holds dependencies for OrderHandler, injected by Fx.
type OrderHandlerParams struct {
	fx.In

	Orders  usecase.OrderUsecase
	Session usecase.SessionUsecase
}

// OrderHandler serves the order collections of every role.
type OrderHandler struct {
	orders  usecase.OrderUsecase
	session usecase.SessionUsecase
}

// NewOrderHandler is the constructor for OrderHandler.
func NewOrderHandler(params OrderHandlerParams) *OrderHandler {
	return &OrderHandler{orders: params.Orders, session: params.Session}
}

// RefreshOrdersRequest optionally names the vendor restaurant to load.
type RefreshOrdersRequest struct {
	RestaurantID entity.ID `json:"restaurant_id"`
}

// StatusChangeRequest is the body of both status endpoints.
type StatusChangeRequest struct {
	Status entity.OrderStatus `json:"status" validate:"required,oneof=pending confirmed preparing ready assigned picked_up on_the_way delivered cancelled"`
}

// ListOrders returns the local collection, most recent first.
func (h *OrderHandler) ListOrders(c echo.Context) error {
	return response.Success(c, http.StatusOK, h.orders.Orders())
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	order, err := h.orders.LoadOrder(c.Request().Context(), entity.ID(c.Param("id")))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, order)
}

// GetPayment returns the payment recorded for an order.
func (h *OrderHandler) GetPayment(c echo.Context) error {
	payment, err := h.orders.OrderPayment(c.Request().Context(), entity.ID(c.Param("id")))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, payment)
}

// ListAvailableOrders returns the rider's pool of unassigned orders.
func (h *OrderHandler) ListAvailableOrders(c echo.Context) error {
	return response.Success(c, http.StatusOK, h.orders.AvailableOrders())
}

// Refresh reloads the collections of the caller's role.
func (h *OrderHandler) Refresh(c echo.Context) error {
	var req RefreshOrdersRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid refresh input")
	}

	if err := h.orders.Refresh(c.Request().Context(), usecase.DashboardRole(h.session), req.RestaurantID); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, h.orders.Orders())
}

// UpdateStatus handles the vendor's PUT /orders/:id/status.
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	return h.changeStatus(c, h.orders.UpdateOrderStatus)
}

// UpdateRiderStatus handles the rider's PUT /orders/:id/rider-status.
func (h *OrderHandler) UpdateRiderStatus(c echo.Context) error {
	return h.changeStatus(c, h.orders.UpdateRiderStatus)
}

func (h *OrderHandler) changeStatus(
	c echo.Context,
	change func(ctx context.Context, id entity.ID, status entity.OrderStatus) (*entity.Order, error),
) error {
	var req StatusChangeRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid status input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	order, err := change(c.Request().Context(), entity.ID(c.Param("id")), req.Status)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, order)
}

// Accept handles the rider's POST /orders/:id/accept.
func (h *OrderHandler) Accept(c echo.Context) error {
	order, err := h.orders.AcceptOrder(c.Request().Context(), entity.ID(c.Param("id")))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, order)
}
