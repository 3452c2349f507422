// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"agrimarket/config"
	"agrimarket/internal/delivery/api/middleware"
	"agrimarket/internal/delivery/api/router/handler"
	"agrimarket/internal/domain/entity"
	"agrimarket/internal/infra/metrics"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler         *handler.AuthHandler
	ProfileHandler      *handler.ProfileHandler
	ProductHandler      *handler.ProductHandler
	CartHandler         *handler.CartHandler
	OrderHandler        *handler.OrderHandler
	NotificationHandler *handler.NotificationHandler
	ChatHandler         *handler.ChatHandler
	DeviceHandler       *handler.DeviceHandler
	AuthMiddleware      *middleware.AuthMiddleware
	Metrics             *metrics.Collector
	Config              *config.Config
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler         *handler.AuthHandler
	profileHandler      *handler.ProfileHandler
	productHandler      *handler.ProductHandler
	cartHandler         *handler.CartHandler
	orderHandler        *handler.OrderHandler
	notificationHandler *handler.NotificationHandler
	chatHandler         *handler.ChatHandler
	deviceHandler       *handler.DeviceHandler
	authMiddleware      *middleware.AuthMiddleware
	metrics             *metrics.Collector
	config              *config.Config
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:         params.AuthHandler,
		profileHandler:      params.ProfileHandler,
		productHandler:      params.ProductHandler,
		cartHandler:         params.CartHandler,
		orderHandler:        params.OrderHandler,
		notificationHandler: params.NotificationHandler,
		chatHandler:         params.ChatHandler,
		deviceHandler:       params.DeviceHandler,
		authMiddleware:      params.AuthMiddleware,
		metrics:             params.Metrics,
		config:              params.Config,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)
	r.metrics.Mount(e, r.config.Metrics)

	producerOnly := r.authMiddleware.RequireUserType(entity.UserTypeProducer)
	consumerOnly := r.authMiddleware.RequireUserType(entity.UserTypeConsumer)

	api := e.Group("/api")

	// Public routes
	{
		api.POST("/signup", r.authHandler.Signup)
		api.POST("/login", r.authHandler.Login)
		api.POST("/send-otp", r.authHandler.SendOTP)
		api.POST("/verify-otp", r.authHandler.VerifyOTP)
		api.POST("/refresh-token", r.authHandler.RefreshToken)

		api.GET("/products", r.productHandler.List)
		api.GET("/products/:id", r.productHandler.Get)
	}

	// The websocket route authenticates on its own so the token may travel in the query string.
	api.GET("/chat-stream/:orderId", r.chatHandler.Stream, r.authMiddleware.AuthenticateStream)

	authed := api.Group("")
	authed.Use(r.authMiddleware.Authenticate)

	// Account
	{
		authed.POST("/logout", r.authHandler.Logout)
		authed.POST("/send-action-otp", r.authHandler.SendActionOTP)
		authed.POST("/verify-action-otp", r.authHandler.VerifyActionOTP)

		authed.GET("/profile", r.profileHandler.GetProfile)
		authed.PUT("/profile", r.profileHandler.UpdateProfile)
		authed.PUT("/update-bank-details", r.profileHandler.UpdateBankDetails, producerOnly)
		authed.PUT("/change-password", r.profileHandler.ChangePassword)
		authed.DELETE("/delete-account", r.profileHandler.DeleteAccount)
		authed.GET("/settings", r.profileHandler.GetSettings)
		authed.PUT("/settings", r.profileHandler.UpdateSettings)
	}

	// Product management requires a Producer with a fresh action verification
	{
		authed.POST("/submit-product", r.productHandler.Submit, producerOnly, r.authMiddleware.RequireActionGrant)
		authed.GET("/products/your", r.productHandler.ListMine, producerOnly)
		authed.PUT("/products/:id", r.productHandler.Update, producerOnly, r.authMiddleware.RequireActionGrant)
		authed.DELETE("/products/:id", r.productHandler.Delete, producerOnly, r.authMiddleware.RequireActionGrant)
	}

	// Cart
	{
		authed.POST("/add-to-cart/:productId", r.cartHandler.AddToCart, consumerOnly)
		authed.GET("/cart", r.cartHandler.GetCart, consumerOnly)
		authed.DELETE("/cart/:productId", r.cartHandler.RemoveFromCart, consumerOnly)
		authed.DELETE("/cart", r.cartHandler.ClearCart, consumerOnly)
	}

	// Orders
	{
		authed.POST("/place-order", r.orderHandler.PlaceOrder, consumerOnly)
		authed.POST("/confirm-order/:orderId", r.orderHandler.ConfirmOrder, consumerOnly)
		authed.POST("/verify-payment", r.orderHandler.VerifyPayment)
		authed.GET("/your-orders", r.orderHandler.ListMine)
		authed.POST("/order-action/:id", r.orderHandler.ActOnOrder, producerOnly)
		authed.GET("/orders/:orderId/qr", r.orderHandler.PickupQRCode)
	}

	// Notifications
	{
		authed.GET("/notifications", r.notificationHandler.List)
		authed.GET("/notifications/unread-count", r.notificationHandler.UnreadCount)
		authed.POST("/notification-action/:id", r.notificationHandler.SetStatus)
		authed.DELETE("/notification-action/:id", r.notificationHandler.Delete)
	}

	// Chat
	{
		authed.GET("/chat-messages/:orderId", r.chatHandler.ListMessages)
		authed.POST("/chat-messages/:orderId", r.chatHandler.PostMessage)
		authed.POST("/send-message", r.chatHandler.SendMessage)
	}

	// Push devices
	devicesGroup := authed.Group("/devices")
	{
		devicesGroup.POST("", r.deviceHandler.RegisterDevice)
		devicesGroup.GET("", r.deviceHandler.GetUserDevices)
		devicesGroup.PUT("/:id/token", r.deviceHandler.UpdateFCMToken)
		devicesGroup.DELETE("/:id", r.deviceHandler.DeactivateDevice)
	}
}
