package impl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	deliverycontext "tiffin/internal/delivery/context"
	"tiffin/internal/domain/collection"
	"tiffin/internal/domain/entity"
	domainerrors "tiffin/internal/domain/errors"
	"tiffin/internal/domain/service"
	"tiffin/internal/errors"
	"tiffin/internal/usecase"

	"go.uber.org/fx"
)

type orderSet = collection.Keyed[entity.ID, entity.Order]

type statusCall func(ctx context.Context, id entity.ID, status entity.OrderStatus) (*entity.Order, error)

// orderService implements the OrderUsecase interface. Both collections are
// written only by its methods, under mu, and never across a network call.
type orderService struct {
	api    service.MarketplaceAPI
	toasts usecase.ToastUsecase
	logger *slog.Logger

	mu        sync.Mutex
	orders    *orderSet
	available *orderSet
	// gen changes on Clear so results requested before a sign-out are discarded.
	gen uint64
}

// OrderServiceParams holds dependencies for OrderService, injected by Fx.
type OrderServiceParams struct {
	fx.In

	API    service.MarketplaceAPI
	Toasts usecase.ToastUsecase
	Logger *slog.Logger
}

// NewOrderService is the constructor for orderService.
func NewOrderService(params OrderServiceParams) usecase.OrderUsecase {
	return &orderService{
		api:       params.API,
		toasts:    params.Toasts,
		logger:    params.Logger,
		orders:    collection.New[entity.ID, entity.Order](),
		available: collection.New[entity.ID, entity.Order](),
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *orderService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// FetchMyOrders replaces the collection with the customer's orders.
func (srv *orderService) FetchMyOrders(ctx context.Context) error {
	return srv.fetch(ctx, "my orders", srv.api.ListMyOrders, srv.orders)
}

// FetchRiderOrders replaces the collection with the orders the rider accepted.
func (srv *orderService) FetchRiderOrders(ctx context.Context) error {
	return srv.fetch(ctx, "rider orders", srv.api.ListRiderOrders, srv.orders)
}

// FetchRestaurantOrders replaces the collection with the orders of one restaurant.
func (srv *orderService) FetchRestaurantOrders(ctx context.Context, restaurantID entity.ID) error {
	return srv.fetch(ctx, "restaurant orders", func(ctx context.Context) ([]entity.Order, error) {
		return srv.api.ListRestaurantOrders(ctx, restaurantID)
	}, srv.orders)
}

// FetchAvailableOrders replaces the pool of orders waiting for a rider.
func (srv *orderService) FetchAvailableOrders(ctx context.Context) error {
	return srv.fetch(ctx, "available orders", srv.api.ListAvailableOrders, srv.available)
}

func (srv *orderService) fetch(
	ctx context.Context,
	label string,
	list func(ctx context.Context) ([]entity.Order, error),
	target *orderSet,
) error {
	srv.mu.Lock()
	gen := srv.gen
	srv.mu.Unlock()

	orders, err := list(ctx)
	if err != nil {
		srv.log(ctx).Warn("Order fetch failed, keeping last known value", slog.String("source", label), slog.Any("error", err))

		return errors.Wrapf(err, "fetch %s", label)
	}

	srv.mu.Lock()
	stale := srv.gen != gen
	if !stale {
		target.Replace(orders)
	}
	srv.mu.Unlock()

	if stale {
		srv.log(ctx).Info("Discarding orders fetched before the session changed", slog.String("source", label))

		return nil
	}

	srv.log(ctx).Debug("Orders fetched", slog.String("source", label), slog.Int("count", len(orders)))

	return nil
}

// Refresh loads the collections role works with and toasts each failure.
// A vendor without restaurantID uses its first restaurant.
func (srv *orderService) Refresh(ctx context.Context, role entity.Role, restaurantID entity.ID) error {
	switch role {
	case entity.RoleRider:
		var errs []error
		if err := srv.FetchAvailableOrders(ctx); err != nil {
			srv.toasts.Show("Failed to load available orders", entity.ToastError)
			errs = append(errs, err)
		}
		if err := srv.FetchRiderOrders(ctx); err != nil {
			srv.toasts.Show("Failed to load my orders", entity.ToastError)
			errs = append(errs, err)
		}

		return errors.Join(errs...)
	case entity.RoleVendor:
		if restaurantID.IsZero() {
			restaurants, err := srv.api.ListMyRestaurants(ctx)
			if err != nil {
				srv.toasts.Show("Failed to load restaurants", entity.ToastError)

				return errors.Wrap(err, "resolve vendor restaurant")
			}
			if len(restaurants) == 0 {
				return nil
			}
			restaurantID = restaurants[0].ID
		}

		if err := srv.FetchRestaurantOrders(ctx, restaurantID); err != nil {
			srv.toasts.Show("Failed to load orders", entity.ToastError)

			return err
		}

		return nil
	default:
		if err := srv.FetchMyOrders(ctx); err != nil {
			srv.toasts.Show("Failed to load orders", entity.ToastError)

			return err
		}

		return nil
	}
}

// ApplyOrderUpdate overwrites or inserts a pushed order. Regressive statuses
// are applied as received.
func (srv *orderService) ApplyOrderUpdate(ctx context.Context, order entity.Order) {
	srv.mu.Lock()
	prev, existed := srv.orders.Get(order.ID)
	srv.orders.Upsert(order)
	srv.available.Update(order.ID, func(entity.Order) entity.Order { return order })
	srv.mu.Unlock()

	if existed && !prev.Status.IsForward(order.Status) && prev.Status != order.Status {
		srv.log(ctx).Debug("Applying non-forward status",
			slog.Any("order_id", order.ID),
			slog.String("from", string(prev.Status)),
			slog.String("to", string(order.Status)))
	}

	if order.Status != "" {
		srv.toasts.Show(order.Status.UpdateMessage(order.ID), order.Status.UpdateToastType())
	}
}

// AddOrder records an order this client created or accepted.
func (srv *orderService) AddOrder(order entity.Order) {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	srv.orders.Upsert(order)
}

// UpdateOrderStatus is the vendor's status change.
func (srv *orderService) UpdateOrderStatus(ctx context.Context, id entity.ID, status entity.OrderStatus) (*entity.Order, error) {
	return srv.changeStatus(ctx, id, status, srv.api.UpdateOrderStatus,
		fmt.Sprintf("Order #%s marked as %s", id, status))
}

// UpdateRiderStatus is the rider's status change.
func (srv *orderService) UpdateRiderStatus(ctx context.Context, id entity.ID, status entity.OrderStatus) (*entity.Order, error) {
	return srv.changeStatus(ctx, id, status, srv.api.UpdateRiderStatus,
		"Order marked as "+strings.ReplaceAll(string(status), "_", " "))
}

// changeStatus applies status locally, then asks the API. On failure the
// previous order is restored unless something else changed the entry since.
// A sign-out during the call discards the result.
func (srv *orderService) changeStatus(
	ctx context.Context,
	id entity.ID,
	status entity.OrderStatus,
	call statusCall,
	successMessage string,
) (*entity.Order, error) {
	var optimistic entity.Order
	srv.mu.Lock()
	gen := srv.gen
	prev, tracked := srv.orders.Update(id, func(o entity.Order) entity.Order {
		o.Status = status
		optimistic = o

		return o
	})
	srv.mu.Unlock()

	updated, err := call(ctx, id, status)
	if err != nil {
		if tracked {
			srv.mu.Lock()
			srv.orders.Update(id, func(cur entity.Order) entity.Order {
				if !cur.Equal(optimistic) {
					return cur
				}

				return prev
			})
			srv.mu.Unlock()
		}

		srv.log(ctx).Warn("Order status change failed",
			slog.Any("order_id", id), slog.String("status", string(status)), slog.Any("error", err))
		srv.toasts.Show(domainerrors.ServerMessageOr(err, "Failed to update order status"), entity.ToastError)

		return nil, errors.Wrapf(err, "update order %s to %s", id, status)
	}

	if updated.ID.IsZero() {
		updated.ID = id
	}

	srv.mu.Lock()
	if srv.gen == gen {
		srv.orders.Upsert(*updated)
	}
	srv.mu.Unlock()

	srv.toasts.Show(successMessage, entity.ToastSuccess)

	return updated, nil
}

// AcceptOrder moves an available order into the rider's orders.
func (srv *orderService) AcceptOrder(ctx context.Context, id entity.ID) (*entity.Order, error) {
	srv.mu.Lock()
	gen := srv.gen
	srv.mu.Unlock()

	order, err := srv.api.AcceptOrder(ctx, id)
	if err != nil {
		srv.log(ctx).Warn("Accept order failed", slog.Any("order_id", id), slog.Any("error", err))
		srv.toasts.Show(domainerrors.ServerMessageOr(err, "Failed to accept order"), entity.ToastError)

		return nil, errors.Wrapf(err, "accept order %s", id)
	}

	if order.ID.IsZero() {
		order.ID = id
	}

	srv.mu.Lock()
	if srv.gen == gen {
		srv.available.Remove(id)
		srv.orders.Upsert(*order)
	}
	srv.mu.Unlock()

	srv.toasts.Show("Order accepted successfully", entity.ToastSuccess)

	return order, nil
}

// Orders returns a copy of the collection, most recent first.
func (srv *orderService) Orders() []entity.Order {
	srv.mu.Lock()
	items := cloneOrders(srv.orders.Items())
	srv.mu.Unlock()

	entity.SortByRecency(items)

	return items
}

// AvailableOrders returns a copy of the rider's pool.
func (srv *orderService) AvailableOrders() []entity.Order {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	return cloneOrders(srv.available.Items())
}

// Order returns one order by id.
func (srv *orderService) Order(id entity.ID) (entity.Order, bool) {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	order, ok := srv.orders.Get(id)
	if !ok {
		return entity.Order{}, false
	}

	return order.Clone(), true
}

// LoadOrder serves id from the collection and falls back to the API for an
// order not loaded yet.
func (srv *orderService) LoadOrder(ctx context.Context, id entity.ID) (entity.Order, error) {
	srv.mu.Lock()
	gen := srv.gen
	order, ok := srv.orders.Get(id)
	srv.mu.Unlock()

	if ok {
		return order.Clone(), nil
	}

	fetched, err := srv.api.GetOrder(ctx, id)
	if err != nil {
		srv.log(ctx).Warn("Order lookup failed", slog.Any("order_id", id), slog.Any("error", err))
		srv.toasts.Show(domainerrors.ServerMessageOr(err, "Failed to load order"), entity.ToastError)

		return entity.Order{}, errors.Wrapf(err, "load order %s", id)
	}
	if fetched.ID.IsZero() {
		fetched.ID = id
	}

	srv.mu.Lock()
	if srv.gen == gen {
		srv.orders.Upsert(*fetched)
	}
	srv.mu.Unlock()

	return fetched.Clone(), nil
}

func (srv *orderService) OrderPayment(ctx context.Context, orderID entity.ID) (*entity.Payment, error) {
	payment, err := srv.api.GetOrderPayment(ctx, orderID)
	if err != nil {
		srv.log(ctx).Warn("Payment lookup failed", slog.Any("order_id", orderID), slog.Any("error", err))
		srv.toasts.Show(domainerrors.ServerMessageOr(err, "Failed to load payment"), entity.ToastError)

		return nil, errors.Wrapf(err, "load payment for order %s", orderID)
	}
	if payment.OrderID.IsZero() {
		payment.OrderID = orderID
	}

	return payment, nil
}

// Clear drops both collections. Orders are never persisted.
func (srv *orderService) Clear(ctx context.Context) {
	srv.mu.Lock()
	srv.gen++
	srv.orders.Replace(nil)
	srv.available.Replace(nil)
	srv.mu.Unlock()

	srv.log(ctx).Debug("Order state cleared")
}

func cloneOrders(items []entity.Order) []entity.Order {
	for i := range items {
		items[i] = items[i].Clone()
	}

	return items
}
