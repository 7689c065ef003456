package impl

import (
	"context"
	"log/slog"
	"sync"

	deliverycontext "tiffin/internal/delivery/context"
	"tiffin/internal/domain/entity"
	domainerrors "tiffin/internal/domain/errors"
	"tiffin/internal/domain/repository"
	"tiffin/internal/domain/service"
	"tiffin/internal/errors"
	"tiffin/internal/usecase"

	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

const orderPlacedMessage = "🎉 Thank you! Your order is placed and will be delivered soon."

var (
	errItemUnavailable = domainerrors.ErrValidationFailed.WithMessage("This item is currently unavailable")
	errOrderInFlight   = domainerrors.ErrValidationFailed.WithMessage("Your order is already being placed")
)

// cartService implements the CartUsecase interface. The cart holds lines of
// one vendor only and is mirrored to the local store after every change.
type cartService struct {
	api     service.MarketplaceAPI
	store   repository.LocalStore
	session usecase.SessionUsecase
	orders  usecase.OrderUsecase
	toasts  usecase.ToastUsecase
	logger  *slog.Logger

	mu      sync.Mutex
	cart    entity.Cart
	placing bool
}

// CartServiceParams holds dependencies for CartService, injected by Fx.
type CartServiceParams struct {
	fx.In

	API     service.MarketplaceAPI
	Store   repository.LocalStore
	Session usecase.SessionUsecase
	Orders  usecase.OrderUsecase
	Toasts  usecase.ToastUsecase
	Logger  *slog.Logger
}

// NewCartService is the constructor for cartService. The cart starts from the
// locally stored vendor and lines.
func NewCartService(params CartServiceParams) usecase.CartUsecase {
	srv := &cartService{
		api:     params.API,
		store:   params.Store,
		session: params.Session,
		orders:  params.Orders,
		toasts:  params.Toasts,
		logger:  params.Logger,
	}
	srv.restore(context.Background())

	return srv
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *cartService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// restore loads the persisted cart. Lines without a vendor, lines of another
// vendor and non-positive quantities are discarded.
func (srv *cartService) restore(ctx context.Context) {
	vendor, ok := repository.LoadJSON[entity.Restaurant](ctx, srv.store, repository.KeySelectedRestaurant, srv.logger)
	if !ok {
		return
	}
	srv.cart.Vendor = &vendor

	lines, _ := repository.LoadJSON[[]entity.CartLine](ctx, srv.store, repository.KeyCart, srv.logger)
	for _, line := range lines {
		if line.Quantity < 1 || line.Item.ID.IsZero() {
			continue
		}
		if !line.Item.RestaurantID.IsZero() && line.Item.RestaurantID != vendor.ID {
			continue
		}
		srv.cart.Lines = append(srv.cart.Lines, line)
	}
}

// SelectVendor switches vendor. Choosing a different vendor empties the cart.
func (srv *cartService) SelectVendor(ctx context.Context, vendor entity.Restaurant) error {
	if vendor.ID.IsZero() {
		return errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("restaurant id is required"))
	}

	srv.mu.Lock()
	cleared := srv.cart.SelectVendor(vendor)
	srv.persistLocked(ctx)
	srv.mu.Unlock()

	if cleared {
		srv.log(ctx).Info("Vendor changed, cart emptied", slog.Any("restaurant_id", vendor.ID))
	}

	return nil
}

// ClearVendor drops the vendor and every line.
func (srv *cartService) ClearVendor(ctx context.Context) error {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	srv.cart.ClearVendor()
	srv.persistLocked(ctx)

	return nil
}

// AddItem adds one unit of item and returns its new quantity.
func (srv *cartService) AddItem(ctx context.Context, item entity.MenuItem) (int, error) {
	srv.mu.Lock()
	qty, err := srv.addLocked(ctx, item)
	srv.mu.Unlock()

	if err != nil {
		srv.toasts.Show(domainerrors.UserMessage(err, "Failed to add item"), entity.ToastError)

		return 0, err
	}

	srv.toasts.Show("Added "+item.Name+" to cart", entity.ToastSuccess)

	return qty, nil
}

func (srv *cartService) addLocked(ctx context.Context, item entity.MenuItem) (int, error) {
	if srv.cart.Vendor == nil {
		return 0, errors.WithStack(domainerrors.ErrNoVendorSelected)
	}
	if !item.RestaurantID.IsZero() && item.RestaurantID != srv.cart.Vendor.ID {
		return 0, errors.WithStack(domainerrors.ErrVendorMismatch.
			WithDetails("item " + item.ID.String() + " belongs to restaurant " + item.RestaurantID.String()))
	}
	if !item.Available() {
		return 0, errors.WithStack(errItemUnavailable.WithDetails(item.ID.String()))
	}

	qty := srv.cart.Add(item)
	srv.persistLocked(ctx)

	return qty, nil
}

// RemoveItem takes one unit away. An absent item is a no-op.
func (srv *cartService) RemoveItem(ctx context.Context, id entity.ID) error {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	if srv.cart.Remove(id) {
		srv.persistLocked(ctx)
	}

	return nil
}

// DeleteItem drops the whole line of id.
func (srv *cartService) DeleteItem(ctx context.Context, id entity.ID) error {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	if srv.cart.Delete(id) {
		srv.persistLocked(ctx)
	}

	return nil
}

// PlaceOrder submits the cart. On success the cart and vendor are cleared and
// the order is recorded; on failure the cart is left as it was.
func (srv *cartService) PlaceOrder(ctx context.Context) (*entity.Order, error) {
	srv.mu.Lock()
	if srv.placing {
		srv.mu.Unlock()

		return nil, errors.WithStack(errOrderInFlight)
	}
	snapshot := srv.cart.Clone()
	if snapshot.Vendor == nil {
		srv.mu.Unlock()
		srv.toasts.Show(domainerrors.ErrNoVendorSelected.Message(), entity.ToastError)

		return nil, errors.WithStack(domainerrors.ErrNoVendorSelected)
	}
	if snapshot.IsEmpty() {
		srv.mu.Unlock()
		srv.toasts.Show(domainerrors.ErrEmptyCart.Message(), entity.ToastWarning)

		return nil, errors.WithStack(domainerrors.ErrEmptyCart)
	}
	srv.placing = true
	srv.mu.Unlock()

	defer func() {
		srv.mu.Lock()
		srv.placing = false
		srv.mu.Unlock()
	}()

	address := entity.DefaultDeliveryAddress
	if identity, ok := srv.session.Identity(); ok {
		address = identity.DeliveryAddress()
	}

	order, err := srv.api.CreateOrder(ctx, snapshot.OrderRequest(address))
	if err != nil {
		srv.log(ctx).Warn("Place order failed", slog.Any("restaurant_id", snapshot.Vendor.ID), slog.Any("error", err))
		srv.toasts.Show(domainerrors.ErrPlaceOrderFailed.Message(), entity.ToastError)

		return nil, errors.Wrap(domainerrors.ErrPlaceOrderFailed.WithDetails(err.Error()), "place order")
	}

	srv.mu.Lock()
	srv.cart.ClearVendor()
	srv.persistLocked(ctx)
	srv.mu.Unlock()

	srv.orders.AddOrder(*order)
	srv.toasts.Show(orderPlacedMessage, entity.ToastSuccess)

	srv.log(ctx).Info("Order placed",
		slog.Any("order_id", order.ID),
		slog.Any("restaurant_id", snapshot.Vendor.ID),
		slog.String("total", snapshot.Total().String()))

	return order, nil
}

// Cart returns a copy of the cart.
func (srv *cartService) Cart() entity.Cart {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	return srv.cart.Clone()
}

// Total is the exact cart total.
func (srv *cartService) Total() decimal.Decimal {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	return srv.cart.Total()
}

// persistLocked mirrors vendor and lines to the local store in one write. The caller holds srv.mu.
func (srv *cartService) persistLocked(ctx context.Context) {
	err := srv.store.Execute(ctx, func(tx repository.LocalStore) error {
		if srv.cart.Vendor == nil {
			if err := tx.Remove(ctx, repository.KeySelectedRestaurant); err != nil {
				return err
			}
		} else if err := repository.SaveJSON(ctx, tx, repository.KeySelectedRestaurant, srv.cart.Vendor); err != nil {
			return err
		}

		if srv.cart.IsEmpty() {
			return tx.Remove(ctx, repository.KeyCart)
		}

		return repository.SaveJSON(ctx, tx, repository.KeyCart, srv.cart.Lines)
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to persist cart", slog.Any("error", err))
	}
}
