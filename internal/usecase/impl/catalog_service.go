package impl

import (
	"context"
	"log/slog"

	deliverycontext "tiffin/internal/delivery/context"
	"tiffin/internal/domain/entity"
	domainerrors "tiffin/internal/domain/errors"
	"tiffin/internal/domain/service"
	"tiffin/internal/errors"
	"tiffin/internal/usecase"

	"github.com/go-playground/validator/v10"
	"go.uber.org/fx"
)

const (
	restaurantSaved = "Restaurant saved successfully"
	dishSaved       = "Dish saved successfully"
)

// catalogService implements the CatalogUsecase interface. It keeps no state.
type catalogService struct {
	api      service.MarketplaceAPI
	toasts   usecase.ToastUsecase
	validate *validator.Validate
	logger   *slog.Logger
}

// CatalogServiceParams holds dependencies for CatalogService, injected by Fx.
type CatalogServiceParams struct {
	fx.In

	API    service.MarketplaceAPI
	Toasts usecase.ToastUsecase
	Logger *slog.Logger
}

// NewCatalogService is the constructor for catalogService.
func NewCatalogService(params CatalogServiceParams) usecase.CatalogUsecase {
	return &catalogService{
		api:      params.API,
		toasts:   params.Toasts,
		validate: validator.New(),
		logger:   params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *catalogService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *catalogService) ListRestaurants(ctx context.Context) ([]entity.Restaurant, error) {
	restaurants, err := srv.api.ListRestaurants(ctx)
	if err != nil {
		return nil, srv.fail(ctx, err, "Failed to load restaurants")
	}

	return restaurants, nil
}

func (srv *catalogService) GetRestaurant(ctx context.Context, id entity.ID) (*entity.Restaurant, error) {
	restaurant, err := srv.api.GetRestaurant(ctx, id)
	if err != nil {
		return nil, srv.fail(ctx, err, "Failed to load restaurant")
	}

	return restaurant, nil
}

func (srv *catalogService) ListMenu(ctx context.Context, restaurantID entity.ID) ([]entity.MenuItem, error) {
	items, err := srv.api.ListMenu(ctx, restaurantID)
	if err != nil {
		return nil, srv.fail(ctx, err, "Failed to load menu")
	}

	return items, nil
}

func (srv *catalogService) ListMyRestaurants(ctx context.Context) ([]entity.Restaurant, error) {
	restaurants, err := srv.api.ListMyRestaurants(ctx)
	if err != nil {
		return nil, srv.fail(ctx, err, "Failed to load restaurants")
	}

	return restaurants, nil
}

// CreateRestaurant registers a restaurant for the signed-in vendor.
func (srv *catalogService) CreateRestaurant(ctx context.Context, in entity.RestaurantInput) (*entity.Restaurant, error) {
	if err := srv.validate.Struct(in); err != nil {
		return nil, srv.invalid(err)
	}

	restaurant, err := srv.api.CreateRestaurant(ctx, in)
	if err != nil {
		return nil, srv.failWrite(ctx, err, "Failed to save restaurant")
	}
	srv.toasts.Show(restaurantSaved, entity.ToastSuccess)

	return restaurant, nil
}

func (srv *catalogService) UpdateRestaurant(ctx context.Context, id entity.ID, in entity.RestaurantInput) (*entity.Restaurant, error) {
	if err := srv.validate.Struct(in); err != nil {
		return nil, srv.invalid(err)
	}

	restaurant, err := srv.api.UpdateRestaurant(ctx, id, in)
	if err != nil {
		return nil, srv.failWrite(ctx, err, "Failed to save restaurant")
	}
	if restaurant.ID.IsZero() {
		restaurant.ID = id
	}
	srv.toasts.Show(restaurantSaved, entity.ToastSuccess)

	return restaurant, nil
}

// AddMenuItem adds a dish to one of the vendor's restaurants.
func (srv *catalogService) AddMenuItem(ctx context.Context, restaurantID entity.ID, in entity.MenuItemInput) (*entity.MenuItem, error) {
	if err := srv.validateMenuItem(in); err != nil {
		return nil, err
	}

	item, err := srv.api.AddMenuItem(ctx, restaurantID, in)
	if err != nil {
		return nil, srv.failWrite(ctx, err, "Failed to save dish")
	}
	if item.RestaurantID.IsZero() {
		item.RestaurantID = restaurantID
	}
	srv.toasts.Show(dishSaved, entity.ToastSuccess)

	return item, nil
}

func (srv *catalogService) UpdateMenuItem(ctx context.Context, restaurantID, itemID entity.ID, in entity.MenuItemInput) (*entity.MenuItem, error) {
	if err := srv.validateMenuItem(in); err != nil {
		return nil, err
	}

	item, err := srv.api.UpdateMenuItem(ctx, restaurantID, itemID, in)
	if err != nil {
		return nil, srv.failWrite(ctx, err, "Failed to save dish")
	}
	if item.ID.IsZero() {
		item.ID = itemID
	}
	if item.RestaurantID.IsZero() {
		item.RestaurantID = restaurantID
	}
	srv.toasts.Show(dishSaved, entity.ToastSuccess)

	return item, nil
}

func (srv *catalogService) DeleteMenuItem(ctx context.Context, itemID entity.ID) error {
	if err := srv.api.DeleteMenuItem(ctx, itemID); err != nil {
		return srv.failWrite(ctx, err, "Failed to delete dish")
	}
	srv.toasts.Show("Dish deleted", entity.ToastSuccess)

	return nil
}

func (srv *catalogService) validateMenuItem(in entity.MenuItemInput) error {
	if err := srv.validate.Struct(in); err != nil {
		return srv.invalid(err)
	}
	if !in.Price.IsPositive() {
		return srv.invalid(errors.New("price must be greater than zero"))
	}

	return nil
}

func (srv *catalogService) invalid(err error) error {
	srv.toasts.Show(domainerrors.ErrValidationFailed.Message(), entity.ToastError)

	return errors.WithStack(domainerrors.ErrValidationFailed.WithDetails(err.Error()))
}

// failWrite prefers the server's message, as vendors need to know why a form was refused.
func (srv *catalogService) failWrite(ctx context.Context, err error, message string) error {
	srv.log(ctx).Warn("Catalog write failed", slog.String("message", message), slog.Any("error", err))
	srv.toasts.Show(domainerrors.ServerMessageOr(err, message), entity.ToastError)

	return errors.Wrap(err, message)
}

func (srv *catalogService) fail(ctx context.Context, err error, message string) error {
	srv.log(ctx).Warn("Catalog read failed", slog.String("message", message), slog.Any("error", err))
	srv.toasts.Show(message, entity.ToastError)

	return errors.Wrap(err, message)
}
