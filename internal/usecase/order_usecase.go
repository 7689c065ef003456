package usecase

import (
	"context"

	"tiffin/internal/domain/entity"
)

// OrderUsecase owns the order collection of the signed-in identity and the
// rider's pool of available orders.
type OrderUsecase interface {
	SessionScoped

	// Snapshot fetches replace the collection. On failure the last-known
	// value is kept and the error is returned without a toast.
	FetchMyOrders(ctx context.Context) error
	FetchRiderOrders(ctx context.Context) error
	FetchRestaurantOrders(ctx context.Context, restaurantID entity.ID) error
	FetchAvailableOrders(ctx context.Context) error

	// Refresh is the user-triggered fetch for role. Failures raise a toast.
	Refresh(ctx context.Context, role entity.Role, restaurantID entity.ID) error

	// ApplyOrderUpdate upserts a pushed order and raises a status toast.
	ApplyOrderUpdate(ctx context.Context, order entity.Order)
	// AddOrder records an order created or accepted by this client.
	AddOrder(order entity.Order)

	UpdateOrderStatus(ctx context.Context, id entity.ID, status entity.OrderStatus) (*entity.Order, error)
	UpdateRiderStatus(ctx context.Context, id entity.ID, status entity.OrderStatus) (*entity.Order, error)
	AcceptOrder(ctx context.Context, id entity.ID) (*entity.Order, error)

	// Orders returns a copy sorted most recent first.
	Orders() []entity.Order
	AvailableOrders() []entity.Order
	Order(id entity.ID) (entity.Order, bool)
	// LoadOrder returns the local entry, else fetches it and keeps it.
	LoadOrder(ctx context.Context, id entity.ID) (entity.Order, error)
	// OrderPayment looks up the payment recorded for an order. Read only.
	OrderPayment(ctx context.Context, orderID entity.ID) (*entity.Payment, error)
}
