// Package service declares the external collaborators of the client core.
package service

import (
	"context"

	"tiffin/internal/domain/entity"
)

// MarketplaceAPI is the REST contract of the marketplace backend (base path /api).
// Every call except SignIn and SignUp carries the stored credential.
type MarketplaceAPI interface {
	// Auth
	SignIn(ctx context.Context, req entity.SignInRequest) (*entity.AuthResponse, error)
	SignUp(ctx context.Context, req entity.SignUpRequest) error

	// Users
	GetProfile(ctx context.Context) (*entity.Identity, error)
	UpdateProfile(ctx context.Context, update entity.ProfileUpdate) (*entity.Identity, error)

	// Restaurants
	ListRestaurants(ctx context.Context) ([]entity.Restaurant, error)
	GetRestaurant(ctx context.Context, id entity.ID) (*entity.Restaurant, error)
	ListMenu(ctx context.Context, restaurantID entity.ID) ([]entity.MenuItem, error)
	ListMyRestaurants(ctx context.Context) ([]entity.Restaurant, error)
	CreateRestaurant(ctx context.Context, in entity.RestaurantInput) (*entity.Restaurant, error)
	UpdateRestaurant(ctx context.Context, id entity.ID, in entity.RestaurantInput) (*entity.Restaurant, error)
	AddMenuItem(ctx context.Context, restaurantID entity.ID, in entity.MenuItemInput) (*entity.MenuItem, error)
	UpdateMenuItem(ctx context.Context, restaurantID, itemID entity.ID, in entity.MenuItemInput) (*entity.MenuItem, error)
	DeleteMenuItem(ctx context.Context, itemID entity.ID) error

	// Orders
	CreateOrder(ctx context.Context, req entity.PlaceOrderRequest) (*entity.Order, error)
	ListMyOrders(ctx context.Context) ([]entity.Order, error)
	GetOrder(ctx context.Context, id entity.ID) (*entity.Order, error)
	ListAvailableOrders(ctx context.Context) ([]entity.Order, error)
	AcceptOrder(ctx context.Context, id entity.ID) (*entity.Order, error)
	UpdateOrderStatus(ctx context.Context, id entity.ID, status entity.OrderStatus) (*entity.Order, error)
	UpdateRiderStatus(ctx context.Context, id entity.ID, status entity.OrderStatus) (*entity.Order, error)
	ListRiderOrders(ctx context.Context) ([]entity.Order, error)
	ListRestaurantOrders(ctx context.Context, restaurantID entity.ID) ([]entity.Order, error)

	// Payments
	GetOrderPayment(ctx context.Context, orderID entity.ID) (*entity.Payment, error)

	// Notifications
	ListNotifications(ctx context.Context) ([]entity.Notification, error)
	MarkNotificationRead(ctx context.Context, id entity.ID) error
	MarkAllNotificationsRead(ctx context.Context) error
	DeleteNotification(ctx context.Context, id entity.ID) error

	// OnUnauthorized registers the hook run when a non-authentication call answers 401.
	OnUnauthorized(hook UnauthorizedHook)
}

// UnauthorizedHook is invoked when a non-authentication call answers 401.
type UnauthorizedHook func(ctx context.Context)
