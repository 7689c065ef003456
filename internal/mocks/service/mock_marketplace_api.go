package service

import (
	"context"

	"tiffin/internal/domain/entity"
	"tiffin/internal/domain/service"

	"github.com/stretchr/testify/mock"
)

// MockMarketplaceAPI is a testify mock of service.MarketplaceAPI.
type MockMarketplaceAPI struct {
	mock.Mock
}

// MockMarketplaceAPI_Expecter builds expectations one method at a time.
type MockMarketplaceAPI_Expecter struct {
	mock *mock.Mock
}

func (_m *MockMarketplaceAPI) EXPECT() *MockMarketplaceAPI_Expecter {
	return &MockMarketplaceAPI_Expecter{mock: &_m.Mock}
}

var _ service.MarketplaceAPI = (*MockMarketplaceAPI)(nil)

func (_m *MockMarketplaceAPI) SignIn(ctx context.Context, req entity.SignInRequest) (*entity.AuthResponse, error) {
	ret := _m.Called(ctx, req)

	var r0 *entity.AuthResponse
	if v := ret.Get(0); v != nil {
		r0 = v.(*entity.AuthResponse)
	}

	return r0, ret.Error(1)
}

func (_e *MockMarketplaceAPI_Expecter) SignIn(ctx any, req any) *mock.Call {
	return _e.mock.On("SignIn", ctx, req)
}

func (_m *MockMarketplaceAPI) SignUp(ctx context.Context, req entity.SignUpRequest) error {
	ret := _m.Called(ctx, req)

	return ret.Error(0)
}

func (_e *MockMarketplaceAPI_Expecter) SignUp(ctx any, req any) *mock.Call {
	return _e.mock.On("SignUp", ctx, req)
}

func (_m *MockMarketplaceAPI) GetProfile(ctx context.Context) (*entity.Identity, error) {
	ret := _m.Called(ctx)

	var r0 *entity.Identity
	if v := ret.Get(0); v != nil {
		r0 = v.(*entity.Identity)
	}

	return r0, ret.Error(1)
}

func (_e *MockMarketplaceAPI_Expecter) GetProfile(ctx any) *mock.Call {
	return _e.mock.On("GetProfile", ctx)
}

func (_m *MockMarketplaceAPI) UpdateProfile(ctx context.Context, update entity.ProfileUpdate) (*entity.Identity, error) {
	ret := _m.Called(ctx, update)

	var r0 *entity.Identity
	if v := ret.Get(0); v != nil {
		r0 = v.(*entity.Identity)
	}

	return r0, ret.Error(1)
}

func (_e *MockMarketplaceAPI_Expecter) UpdateProfile(ctx any, update any) *mock.Call {
	return _e.mock.On("UpdateProfile", ctx, update)
}

func (_m *MockMarketplaceAPI) ListRestaurants(ctx context.Context) ([]entity.Restaurant, error) {
	ret := _m.Called(ctx)

	var r0 []entity.Restaurant
	if v := ret.Get(0); v != nil {
		r0 = v.([]entity.Restaurant)
	}

	return r0, ret.Error(1)
}

func (_e *MockMarketplaceAPI_Expecter) ListRestaurants(ctx any) *mock.Call {
	return _e.mock.On("ListRestaurants", ctx)
}

func (_m *MockMarketplaceAPI) GetRestaurant(ctx context.Context, id entity.ID) (*entity.Restaurant, error) {
	ret := _m.Called(ctx, id)

	var r0 *entity.Restaurant
	if v := ret.Get(0); v != nil {
		r0 = v.(*entity.Restaurant)
	}

	return r0, ret.Error(1)
}

func (_e *MockMarketplaceAPI_Expecter) GetRestaurant(ctx any, id any) *mock.Call {
	return _e.mock.On("GetRestaurant", ctx, id)
}

func (_m *MockMarketplaceAPI) ListMenu(ctx context.Context, restaurantID entity.ID) ([]entity.MenuItem, error) {
	ret := _m.Called(ctx, restaurantID)

	var r0 []entity.MenuItem
	if v := ret.Get(0); v != nil {
		r0 = v.([]entity.MenuItem)
	}

	return r0, ret.Error(1)
}

func (_e *MockMarketplaceAPI_Expecter) ListMenu(ctx any, restaurantID any) *mock.Call {
	return _e.mock.On("ListMenu", ctx, restaurantID)
}

func (_m *MockMarketplaceAPI) ListMyRestaurants(ctx context.Context) ([]entity.Restaurant, error) {
	ret := _m.Called(ctx)

	var r0 []entity.Restaurant
	if v := ret.Get(0); v != nil {
		r0 = v.([]entity.Restaurant)
	}

	return r0, ret.Error(1)
}

func (_e *MockMarketplaceAPI_Expecter) ListMyRestaurants(ctx any) *mock.Call {
	return _e.mock.On("ListMyRestaurants", ctx)
}

func (_m *MockMarketplaceAPI) CreateOrder(ctx context.Context, req entity.PlaceOrderRequest) (*entity.Order, error) {
	ret := _m.Called(ctx, req)

	var r0 *entity.Order
	if v := ret.Get(0); v != nil {
		r0 = v.(*entity.Order)
	}

	return r0, ret.Error(1)
}

func (_e *MockMarketplaceAPI_Expecter) CreateOrder(ctx any, req any) *mock.Call {
	return _e.mock.On("CreateOrder", ctx, req)
}

func (_m *MockMarketplaceAPI) ListMyOrders(ctx context.Context) ([]entity.Order, error) {
	ret := _m.Called(ctx)

	var r0 []entity.Order
	if v := ret.Get(0); v != nil {
		r0 = v.([]entity.Order)
	}

	return r0, ret.Error(1)
}

func (_e *MockMarketplaceAPI_Expecter) ListMyOrders(ctx any) *mock.Call {
	return _e.mock.On("ListMyOrders", ctx)
}

func (_m *MockMarketplaceAPI) GetOrder(ctx context.Context, id entity.ID) (*entity.Order, error) {
	ret := _m.Called(ctx, id)

	var r0 *entity.Order
	if v := ret.Get(0); v != nil {
		r0 = v.(*entity.Order)
	}

	return r0, ret.Error(1)
}

func (_e *MockMarketplaceAPI_Expecter) GetOrder(ctx any, id any) *mock.Call {
	return _e.mock.On("GetOrder", ctx, id)
}

func (_m *MockMarketplaceAPI) ListAvailableOrders(ctx context.Context) ([]entity.Order, error) {
	ret := _m.Called(ctx)

	var r0 []entity.Order
	if v := ret.Get(0); v != nil {
		r0 = v.([]entity.Order)
	}

	return r0, ret.Error(1)
}

func (_e *MockMarketplaceAPI_Expecter) ListAvailableOrders(ctx any) *mock.Call {
	return _e.mock.On("ListAvailableOrders", ctx)
}

func (_m *MockMarketplaceAPI) AcceptOrder(ctx context.Context, id entity.ID) (*entity.Order, error) {
	ret := _m.Called(ctx, id)

	var r0 *entity.Order
	if v := ret.Get(0); v != nil {
		r0 = v.(*entity.Order)
	}

	return r0, ret.Error(1)
}

func (_e *MockMarketplaceAPI_Expecter) AcceptOrder(ctx any, id any) *mock.Call {
	return _e.mock.On("AcceptOrder", ctx, id)
}

func (_m *MockMarketplaceAPI) UpdateOrderStatus(ctx context.Context, id entity.ID, status entity.OrderStatus) (*entity.Order, error) {
	ret := _m.Called(ctx, id, status)

	var r0 *entity.Order
	if v := ret.Get(0); v != nil {
		r0 = v.(*entity.Order)
	}

	return r0, ret.Error(1)
}

func (_e *MockMarketplaceAPI_Expecter) UpdateOrderStatus(ctx any, id any, status any) *mock.Call {
	return _e.mock.On("UpdateOrderStatus", ctx, id, status)
}

func (_m *MockMarketplaceAPI) UpdateRiderStatus(ctx context.Context, id entity.ID, status entity.OrderStatus) (*entity.Order, error) {
	ret := _m.Called(ctx, id, status)

	var r0 *entity.Order
	if v := ret.Get(0); v != nil {
		r0 = v.(*entity.Order)
	}

	return r0, ret.Error(1)
}

func (_e *MockMarketplaceAPI_Expecter) UpdateRiderStatus(ctx any, id any, status any) *mock.Call {
	return _e.mock.On("UpdateRiderStatus", ctx, id, status)
}

func (_m *MockMarketplaceAPI) ListRiderOrders(ctx context.Context) ([]entity.Order, error) {
	ret := _m.Called(ctx)

	var r0 []entity.Order
	if v := ret.Get(0); v != nil {
		r0 = v.([]entity.Order)
	}

	return r0, ret.Error(1)
}

func (_e *MockMarketplaceAPI_Expecter) ListRiderOrders(ctx any) *mock.Call {
	return _e.mock.On("ListRiderOrders", ctx)
}

func (_m *MockMarketplaceAPI) ListRestaurantOrders(ctx context.Context, restaurantID entity.ID) ([]entity.Order, error) {
	ret := _m.Called(ctx, restaurantID)

	var r0 []entity.Order
	if v := ret.Get(0); v != nil {
		r0 = v.([]entity.Order)
	}

	return r0, ret.Error(1)
}

func (_e *MockMarketplaceAPI_Expecter) ListRestaurantOrders(ctx any, restaurantID any) *mock.Call {
	return _e.mock.On("ListRestaurantOrders", ctx, restaurantID)
}

func (_m *MockMarketplaceAPI) ListNotifications(ctx context.Context) ([]entity.Notification, error) {
	ret := _m.Called(ctx)

	var r0 []entity.Notification
	if v := ret.Get(0); v != nil {
		r0 = v.([]entity.Notification)
	}

	return r0, ret.Error(1)
}

func (_e *MockMarketplaceAPI_Expecter) ListNotifications(ctx any) *mock.Call {
	return _e.mock.On("ListNotifications", ctx)
}

func (_m *MockMarketplaceAPI) MarkNotificationRead(ctx context.Context, id entity.ID) error {
	ret := _m.Called(ctx, id)

	return ret.Error(0)
}

func (_e *MockMarketplaceAPI_Expecter) MarkNotificationRead(ctx any, id any) *mock.Call {
	return _e.mock.On("MarkNotificationRead", ctx, id)
}

func (_m *MockMarketplaceAPI) MarkAllNotificationsRead(ctx context.Context) error {
	ret := _m.Called(ctx)

	return ret.Error(0)
}

func (_e *MockMarketplaceAPI_Expecter) MarkAllNotificationsRead(ctx any) *mock.Call {
	return _e.mock.On("MarkAllNotificationsRead", ctx)
}

func (_m *MockMarketplaceAPI) DeleteNotification(ctx context.Context, id entity.ID) error {
	ret := _m.Called(ctx, id)

	return ret.Error(0)
}

func (_e *MockMarketplaceAPI_Expecter) DeleteNotification(ctx any, id any) *mock.Call {
	return _e.mock.On("DeleteNotification", ctx, id)
}

func (_m *MockMarketplaceAPI) CreateRestaurant(ctx context.Context, in entity.RestaurantInput) (*entity.Restaurant, error) {
	ret := _m.Called(ctx, in)

	var r0 *entity.Restaurant
	if v := ret.Get(0); v != nil {
		r0 = v.(*entity.Restaurant)
	}

	return r0, ret.Error(1)
}

func (_e *MockMarketplaceAPI_Expecter) CreateRestaurant(ctx any, in any) *mock.Call {
	return _e.mock.On("CreateRestaurant", ctx, in)
}

func (_m *MockMarketplaceAPI) UpdateRestaurant(ctx context.Context, id entity.ID, in entity.RestaurantInput) (*entity.Restaurant, error) {
	ret := _m.Called(ctx, id, in)

	var r0 *entity.Restaurant
	if v := ret.Get(0); v != nil {
		r0 = v.(*entity.Restaurant)
	}

	return r0, ret.Error(1)
}

func (_e *MockMarketplaceAPI_Expecter) UpdateRestaurant(ctx any, id any, in any) *mock.Call {
	return _e.mock.On("UpdateRestaurant", ctx, id, in)
}

func (_m *MockMarketplaceAPI) AddMenuItem(ctx context.Context, restaurantID entity.ID, in entity.MenuItemInput) (*entity.MenuItem, error) {
	ret := _m.Called(ctx, restaurantID, in)

	var r0 *entity.MenuItem
	if v := ret.Get(0); v != nil {
		r0 = v.(*entity.MenuItem)
	}

	return r0, ret.Error(1)
}

func (_e *MockMarketplaceAPI_Expecter) AddMenuItem(ctx any, restaurantID any, in any) *mock.Call {
	return _e.mock.On("AddMenuItem", ctx, restaurantID, in)
}

func (_m *MockMarketplaceAPI) UpdateMenuItem(ctx context.Context, restaurantID, itemID entity.ID, in entity.MenuItemInput) (*entity.MenuItem, error) {
	ret := _m.Called(ctx, restaurantID, itemID, in)

	var r0 *entity.MenuItem
	if v := ret.Get(0); v != nil {
		r0 = v.(*entity.MenuItem)
	}

	return r0, ret.Error(1)
}

func (_e *MockMarketplaceAPI_Expecter) UpdateMenuItem(ctx any, restaurantID any, itemID any, in any) *mock.Call {
	return _e.mock.On("UpdateMenuItem", ctx, restaurantID, itemID, in)
}

func (_m *MockMarketplaceAPI) DeleteMenuItem(ctx context.Context, itemID entity.ID) error {
	ret := _m.Called(ctx, itemID)

	return ret.Error(0)
}

func (_e *MockMarketplaceAPI_Expecter) DeleteMenuItem(ctx any, itemID any) *mock.Call {
	return _e.mock.On("DeleteMenuItem", ctx, itemID)
}

func (_m *MockMarketplaceAPI) GetOrderPayment(ctx context.Context, orderID entity.ID) (*entity.Payment, error) {
	ret := _m.Called(ctx, orderID)

	var r0 *entity.Payment
	if v := ret.Get(0); v != nil {
		r0 = v.(*entity.Payment)
	}

	return r0, ret.Error(1)
}

func (_e *MockMarketplaceAPI_Expecter) GetOrderPayment(ctx any, orderID any) *mock.Call {
	return _e.mock.On("GetOrderPayment", ctx, orderID)
}

func (_m *MockMarketplaceAPI) OnUnauthorized(hook service.UnauthorizedHook) {
	_m.Called(hook)
}

func (_e *MockMarketplaceAPI_Expecter) OnUnauthorized(hook any) *mock.Call {
	return _e.mock.On("OnUnauthorized", hook)
}

// NewMockMarketplaceAPI creates a mock that asserts its expectations when the test ends.
func NewMockMarketplaceAPI(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockMarketplaceAPI {
	m := &MockMarketplaceAPI{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
