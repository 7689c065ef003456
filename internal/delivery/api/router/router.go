// Package router registers the gateway routes.
package router

import (
	"tiffin/internal/delivery/api/middleware"
	"tiffin/internal/delivery/api/router/handler"
	"tiffin/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	SessionHandler      *handler.SessionHandler
	CatalogHandler      *handler.CatalogHandler
	CartHandler         *handler.CartHandler
	OrderHandler        *handler.OrderHandler
	NotificationHandler *handler.NotificationHandler
	HealthHandler       *handler.HealthHandler
	SessionMiddleware   *middleware.SessionMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	sessionHandler      *handler.SessionHandler
	catalogHandler      *handler.CatalogHandler
	cartHandler         *handler.CartHandler
	orderHandler        *handler.OrderHandler
	notificationHandler *handler.NotificationHandler
	healthHandler       *handler.HealthHandler
	sessionMiddleware   *middleware.SessionMiddleware
}

// NewRouter is the constructor for the Router.
func NewRouter(params RouterParams) *router {
	return &router{
		sessionHandler:      params.SessionHandler,
		catalogHandler:      params.CatalogHandler,
		cartHandler:         params.CartHandler,
		orderHandler:        params.OrderHandler,
		notificationHandler: params.NotificationHandler,
		healthHandler:       params.HealthHandler,
		sessionMiddleware:   params.SessionMiddleware,
	}
}

// RegisterRoutes sets up the gateway routes under /v1.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", r.healthHandler.HealthCheck)

	v1 := e.Group("/v1")
	v1.Use(r.sessionMiddleware.AttachToasts)

	v1.GET("/health", r.healthHandler.HealthCheck)
	v1.GET("/toast", r.healthHandler.GetToast)
	v1.DELETE("/toast", r.healthHandler.DismissToast)

	authenticate := r.sessionMiddleware.Authenticate

	// Session routes are public: they establish or describe the session
	sessionGroup := v1.Group("/session")
	{
		sessionGroup.GET("", r.sessionHandler.GetSession)
		sessionGroup.POST("/signin", r.sessionHandler.SignIn)
		sessionGroup.POST("/signup", r.sessionHandler.SignUp)
		sessionGroup.POST("/signout", r.sessionHandler.SignOut)
		sessionGroup.PUT("/profile", r.sessionHandler.UpdateProfile, authenticate)
	}

	restaurantsGroup := v1.Group("/restaurants", authenticate)
	{
		restaurantsGroup.GET("", r.catalogHandler.ListRestaurants)
		restaurantsGroup.GET("/:id", r.catalogHandler.GetRestaurant)
		restaurantsGroup.GET("/:id/menu", r.catalogHandler.ListMenu)

		// Vendor routes
		vendorOnly := r.sessionMiddleware.RequireRole(entity.RoleVendor)
		restaurantsGroup.GET("/mine", r.catalogHandler.ListMyRestaurants, vendorOnly)
		restaurantsGroup.POST("", r.catalogHandler.CreateRestaurant, vendorOnly)
		restaurantsGroup.PUT("/:id", r.catalogHandler.UpdateRestaurant, vendorOnly)
		restaurantsGroup.POST("/:id/menu", r.catalogHandler.AddMenuItem, vendorOnly)
		restaurantsGroup.PUT("/:id/menu/:itemId", r.catalogHandler.UpdateMenuItem, vendorOnly)
		restaurantsGroup.DELETE("/:id/menu/:itemId", r.catalogHandler.DeleteMenuItem, vendorOnly)
	}

	cartGroup := v1.Group("/cart", authenticate)
	{
		cartGroup.GET("", r.cartHandler.GetCart)
		cartGroup.PUT("/vendor", r.cartHandler.SelectVendor)
		cartGroup.DELETE("/vendor", r.cartHandler.ClearVendor)
		cartGroup.POST("/items", r.cartHandler.AddItem)
		cartGroup.DELETE("/items/:id", r.cartHandler.RemoveItem)
		cartGroup.POST("/checkout", r.cartHandler.Checkout)
	}

	ordersGroup := v1.Group("/orders", authenticate)
	{
		ordersGroup.GET("", r.orderHandler.ListOrders)
		ordersGroup.POST("/refresh", r.orderHandler.Refresh)
		ordersGroup.GET("/:id", r.orderHandler.GetOrder)
		ordersGroup.GET("/:id/payment", r.orderHandler.GetPayment)

		// Vendor routes
		ordersGroup.PUT("/:id/status", r.orderHandler.UpdateStatus, r.sessionMiddleware.RequireRole(entity.RoleVendor, entity.RoleAdmin))

		// Rider routes
		riderOnly := r.sessionMiddleware.RequireRole(entity.RoleRider)
		ordersGroup.GET("/available", r.orderHandler.ListAvailableOrders, riderOnly)
		ordersGroup.PUT("/:id/rider-status", r.orderHandler.UpdateRiderStatus, riderOnly)
		ordersGroup.POST("/:id/accept", r.orderHandler.Accept, riderOnly)
	}

	notificationsGroup := v1.Group("/notifications", authenticate)
	{
		notificationsGroup.GET("", r.notificationHandler.List)
		notificationsGroup.POST("/refresh", r.notificationHandler.Refresh)
		notificationsGroup.PUT("/read-all", r.notificationHandler.MarkAllRead)
		notificationsGroup.PUT("/:id/read", r.notificationHandler.MarkRead)
		notificationsGroup.DELETE("/:id", r.notificationHandler.Delete)
	}
}
