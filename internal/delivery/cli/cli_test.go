package cli_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tiffin/config"
	"tiffin/internal/delivery/cli"
	"tiffin/internal/domain/entity"
	domainerrors "tiffin/internal/domain/errors"
	"tiffin/internal/domain/service"
	"tiffin/internal/errors"
	"tiffin/internal/infra/auth"
	"tiffin/internal/infra/persistence/memory"
	mockService "tiffin/internal/mocks/service"
	"tiffin/internal/usecase"
	"tiffin/internal/usecase/impl"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type cliFixtures struct {
	cli     *cli.CLI
	api     *mockService.MockMarketplaceAPI
	channel *mockService.MockRealtimeChannel
}

func createTestCLI(t *testing.T) *cliFixtures {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{API: &config.APIConfig{BaseURL: "http://backend.invalid/api"}}
	cfg.ApplyDefaults()

	marketplace := mockService.NewMockMarketplaceAPI(t)
	channel := mockService.NewMockRealtimeChannel(t)
	store := memory.NewLocalStore()

	marketplace.EXPECT().OnUnauthorized(mock.Anything).Return().Once()
	channel.EXPECT().State().Return(service.ChannelConnected).Maybe()
	channel.EXPECT().Open(mock.Anything, mock.Anything).Return(nil).Maybe()
	channel.EXPECT().Close().Return(nil).Maybe()
	channel.EXPECT().Subscribe(mock.Anything, mock.Anything).Return().Maybe()
	channel.EXPECT().OnStateChange(mock.Anything).Return().Maybe()

	toasts := impl.NewToastService(impl.ToastServiceParams{Config: cfg, Logger: logger})
	orders := impl.NewOrderService(impl.OrderServiceParams{API: marketplace, Toasts: toasts, Logger: logger})
	notifications := impl.NewNotificationService(impl.NotificationServiceParams{
		API: marketplace, Store: store, Toasts: toasts, Config: cfg, Logger: logger,
	})
	session := impl.NewSessionService(impl.SessionServiceParams{
		API:       marketplace,
		Channel:   channel,
		Store:     store,
		Inspector: auth.NewJWTInspector(),
		Toasts:    toasts,
		Scoped:    []usecase.SessionScoped{orders, notifications},
		Logger:    logger,
	})

	return &cliFixtures{
		cli: cli.New(cli.Params{
			Session:       session,
			Catalog:       impl.NewCatalogService(impl.CatalogServiceParams{API: marketplace, Toasts: toasts, Logger: logger}),
			Cart:          impl.NewCartService(impl.CartServiceParams{API: marketplace, Store: store, Session: session, Orders: orders, Toasts: toasts, Logger: logger}),
			Orders:        orders,
			Notifications: notifications,
			Dispatcher: impl.NewRealtimeDispatcher(impl.RealtimeDispatcherParams{
				Channel: channel, Orders: orders, Notifications: notifications, Logger: logger,
			}),
			Channel: channel,
			Toasts:  toasts,
			Logger:  logger,
		}),
		api:     marketplace,
		channel: channel,
	}
}

func (fx *cliFixtures) execute(ctx context.Context, stdin string, args ...string) (string, string, error) {
	root := fx.cli.RootCmd()

	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)

	return stdout.String(), stderr.String(), err
}

func (fx *cliFixtures) signIn(t *testing.T, role entity.Role) {
	t.Helper()

	identity := entity.Identity{ID: "u1", Name: "Asha", Email: "asha@example.com", Role: role, Address: "12 Main St"}
	fx.api.EXPECT().SignIn(mock.Anything, entity.SignInRequest{Email: "asha@example.com", Password: "secret"}).
		Return(&entity.AuthResponse{AccessToken: "opaque-token", Identity: identity}, nil).Once()
	fx.api.EXPECT().GetProfile(mock.Anything).Return(&identity, nil).Maybe()

	stdout, _, err := fx.execute(context.Background(), "asha@example.com\nsecret\n", "signin")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Signed in as Asha ("+string(role)+")")
}

func TestCLI_SignInAndWhoami(t *testing.T) {
	fx := createTestCLI(t)

	stdout, _, err := fx.execute(context.Background(), "", "whoami")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Not signed in")

	fx.signIn(t, entity.RoleRider)

	stdout, _, err = fx.execute(context.Background(), "", "whoami")
	require.NoError(t, err)
	assert.Contains(t, stdout, "rider")
	assert.Contains(t, stdout, "/rider")
	assert.Contains(t, stdout, "12 Main St")

	stdout, _, err = fx.execute(context.Background(), "", "signout")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Signed out")

	stdout, _, err = fx.execute(context.Background(), "", "whoami")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Not signed in")
}

func TestCLI_CommandsRequireSession(t *testing.T) {
	fx := createTestCLI(t)

	for _, args := range [][]string{{"orders"}, {"restaurants"}, {"notifications"}, {"cart", "checkout"}} {
		_, _, err := fx.execute(context.Background(), "", args...)
		require.Error(t, err, strings.Join(args, " "))
		assert.True(t, errors.Is(err, domainerrors.ErrNotAuthenticated))
	}
}

func TestCLI_CartFlow(t *testing.T) {
	fx := createTestCLI(t)
	fx.signIn(t, entity.RoleCustomer)
	ctx := context.Background()

	fx.api.EXPECT().GetRestaurant(mock.Anything, entity.ID("7")).Return(&entity.Restaurant{ID: "7", Name: "Spice Hub"}, nil).Once()
	fx.api.EXPECT().ListMenu(mock.Anything, entity.ID("7")).
		Return([]entity.MenuItem{{ID: "A", Name: "Thali", Price: decimal.NewFromInt(150)}}, nil).Twice()

	stdout, _, err := fx.execute(ctx, "", "cart", "select", "7")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Ordering from Spice Hub")

	_, stderr, err := fx.execute(ctx, "", "cart", "add", "A")
	require.NoError(t, err)
	assert.Contains(t, stderr, "[success] Added Thali to cart")

	stdout, _, err = fx.execute(ctx, "", "cart", "add", "A")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Thali x2")

	stdout, _, err = fx.execute(ctx, "", "cart")
	require.NoError(t, err)
	assert.Contains(t, stdout, "300.00")

	fx.api.EXPECT().CreateOrder(mock.Anything, mock.Anything).
		Return(&entity.Order{ID: "101", Status: entity.OrderStatusPending, TotalAmount: decimal.NewFromInt(300)}, nil).Once()

	stdout, stderr, err = fx.execute(ctx, "", "cart", "checkout")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Order 101 placed, total 300.00")
	assert.Contains(t, stderr, "Thank you!")

	stdout, _, err = fx.execute(ctx, "", "cart")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No restaurant selected")
}

func TestCLI_AddWithoutVendor(t *testing.T) {
	fx := createTestCLI(t)
	fx.signIn(t, entity.RoleCustomer)

	_, stderr, err := fx.execute(context.Background(), "", "cart", "add", "A")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrNoVendorSelected))
	assert.Contains(t, stderr, "[error] Please select a restaurant first")
}

func TestCLI_OrderGuards(t *testing.T) {
	fx := createTestCLI(t)
	fx.signIn(t, entity.RoleCustomer)
	ctx := context.Background()

	_, _, err := fx.execute(ctx, "", "orders", "accept", "8")
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))

	_, _, err = fx.execute(ctx, "", "orders", "status", "8", "ready")
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))
}

func TestCLI_RiderOrders(t *testing.T) {
	fx := createTestCLI(t)
	fx.signIn(t, entity.RoleRider)
	ctx := context.Background()

	_, _, err := fx.execute(ctx, "", "orders", "rider-status", "8", "teleported")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))

	fx.api.EXPECT().AcceptOrder(mock.Anything, entity.ID("8")).
		Return(&entity.Order{ID: "8", Status: entity.OrderStatusAssigned, RestaurantName: "Spice Hub"}, nil).Once()

	stdout, stderr, err := fx.execute(ctx, "", "orders", "accept", "8")
	require.NoError(t, err)
	assert.Contains(t, stdout, "assigned")
	assert.Contains(t, stdout, "Spice Hub")
	assert.Contains(t, stderr, "Order accepted successfully")

	fx.api.EXPECT().ListAvailableOrders(mock.Anything).Return(nil, nil).Once()
	fx.api.EXPECT().ListRiderOrders(mock.Anything).Return([]entity.Order{{ID: "8", Status: entity.OrderStatusPickedUp}}, nil).Once()

	stdout, _, err = fx.execute(ctx, "", "orders")
	require.NoError(t, err)
	assert.Contains(t, stdout, "picked_up")
}

func TestCLI_VendorEditsMenu(t *testing.T) {
	fx := createTestCLI(t)
	fx.signIn(t, entity.RoleVendor)
	ctx := context.Background()

	picture := filepath.Join(t.TempDir(), "dal.png")
	require.NoError(t, os.WriteFile(picture, []byte("png-bytes"), 0o600))

	fx.api.EXPECT().AddMenuItem(mock.Anything, entity.ID("r9"), mock.MatchedBy(func(in entity.MenuItemInput) bool {
		return in.Name == "Dal" &&
			in.Price.Equal(decimal.RequireFromString("12.5")) &&
			in.IsAvailable &&
			in.Image != nil && in.Image.Filename == "dal.png" && string(in.Image.Data) == "png-bytes"
	})).Return(&entity.MenuItem{ID: "m1", Name: "Dal", Price: decimal.RequireFromString("12.5")}, nil).Once()

	stdout, stderr, err := fx.execute(ctx, "", "menu", "add", "r9", "--name", "Dal", "--price", "12.50", "--image", picture)
	require.NoError(t, err)
	assert.Contains(t, stdout, "m1")
	assert.Contains(t, stdout, "12.50")
	assert.Contains(t, stderr, "Dish saved successfully")

	_, _, err = fx.execute(ctx, "", "menu", "add", "r9", "--name", "Dal", "--price", "cheap")
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))

	fx.api.EXPECT().DeleteMenuItem(mock.Anything, entity.ID("m1")).Return(nil).Once()

	stdout, _, err = fx.execute(ctx, "", "menu", "delete", "m1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Deleted m1")
}

func TestCLI_CatalogWritesRequireVendor(t *testing.T) {
	fx := createTestCLI(t)
	fx.signIn(t, entity.RoleCustomer)
	ctx := context.Background()

	_, _, err := fx.execute(ctx, "", "restaurants", "create", "--name", "Spice Route", "--address", "4 Curry Lane")
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))

	_, _, err = fx.execute(ctx, "", "menu", "delete", "m1")
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))
}

func TestCLI_OrderPayment(t *testing.T) {
	fx := createTestCLI(t)
	fx.signIn(t, entity.RoleCustomer)

	fx.api.EXPECT().GetOrderPayment(mock.Anything, entity.ID("11")).
		Return(&entity.Payment{ID: "p1", Amount: decimal.NewFromInt(300), Status: "completed", Method: "card"}, nil).Once()

	stdout, _, err := fx.execute(context.Background(), "", "orders", "payment", "11")
	require.NoError(t, err)
	assert.Contains(t, stdout, "p1")
	assert.Contains(t, stdout, "completed")
	assert.Contains(t, stdout, "300.00")
}

func TestCLI_Notifications(t *testing.T) {
	fx := createTestCLI(t)
	fx.signIn(t, entity.RoleCustomer)
	ctx := context.Background()

	fx.api.EXPECT().ListNotifications(mock.Anything).Return([]entity.Notification{
		{ID: "n1", Message: "Order ready", Type: "success"},
		{ID: "n2", Message: "Welcome", Read: true},
	}, nil).Once()

	stdout, _, err := fx.execute(ctx, "", "notifications")
	require.NoError(t, err)
	assert.Contains(t, stdout, "1 unread")
	assert.Contains(t, stdout, "Order ready")

	fx.api.EXPECT().MarkAllNotificationsRead(mock.Anything).Return(nil).Once()

	stdout, stderr, err := fx.execute(ctx, "", "notifications", "read-all")
	require.NoError(t, err)
	assert.Contains(t, stdout, "0 unread")
	assert.Contains(t, stderr, "All notifications marked as read")

	stdout, _, err = fx.execute(ctx, "", "notifications", "--cached")
	require.NoError(t, err)
	assert.Contains(t, stdout, "0 unread")
}

func TestCLI_WatchStopsWithContext(t *testing.T) {
	fx := createTestCLI(t)
	fx.signIn(t, entity.RoleCustomer)

	fx.api.EXPECT().ListMyOrders(mock.Anything).Return([]entity.Order{{ID: "1"}}, nil).Once()
	fx.api.EXPECT().ListNotifications(mock.Anything).Return(nil, nil).Once()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stdout, _, err := fx.execute(ctx, "", "watch")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Watching as customer, 1 orders, 0 unread notifications (live updates: connected)")
	assert.Contains(t, stdout, "Stopped")
}
