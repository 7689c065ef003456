package usecase

import (
	"context"

	"tiffin/internal/domain/entity"
)

// CatalogUsecase reads restaurants and menus and lets a vendor edit its own.
// Failures raise a toast; writes also toast on success.
type CatalogUsecase interface {
	ListRestaurants(ctx context.Context) ([]entity.Restaurant, error)
	GetRestaurant(ctx context.Context, id entity.ID) (*entity.Restaurant, error)
	ListMenu(ctx context.Context, restaurantID entity.ID) ([]entity.MenuItem, error)
	ListMyRestaurants(ctx context.Context) ([]entity.Restaurant, error)

	CreateRestaurant(ctx context.Context, in entity.RestaurantInput) (*entity.Restaurant, error)
	UpdateRestaurant(ctx context.Context, id entity.ID, in entity.RestaurantInput) (*entity.Restaurant, error)
	AddMenuItem(ctx context.Context, restaurantID entity.ID, in entity.MenuItemInput) (*entity.MenuItem, error)
	UpdateMenuItem(ctx context.Context, restaurantID, itemID entity.ID, in entity.MenuItemInput) (*entity.MenuItem, error)
	DeleteMenuItem(ctx context.Context, itemID entity.ID) error
}
