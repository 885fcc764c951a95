// Package router wires the API routes to their handlers.
package router

import (
	"pinpoint/internal/delivery/http/middleware"
	"pinpoint/internal/delivery/http/router/handler"
	"pinpoint/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// RouterParams holds all handlers and route-level middleware, injected by Fx.
type RouterParams struct {
	fx.In

	UserHandler         *handler.UserHandler
	SessionHandler      *handler.SessionHandler
	AddressHandler      *handler.AddressHandler
	FallbackHandler     *handler.FallbackHandler
	LookupHandler       *handler.LookupHandler
	FeedbackHandler     *handler.FeedbackHandler
	SubscriptionHandler *handler.SubscriptionHandler
	DeviceHandler       *handler.DeviceHandler
	AuthMiddleware      *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	params RouterParams
}

// NewRouter is the constructor for the router.
func NewRouter(params RouterParams) *router {
	return &router{params: params}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	authn := r.params.AuthMiddleware.Authenticate
	requireResident := r.params.AuthMiddleware.RequireRole(entity.RoleResident.String())
	requireCourier := r.params.AuthMiddleware.RequireRole(entity.RoleCourier.String())

	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register/resident", r.params.UserHandler.RegisterResident)
		authGroup.POST("/register/courier", r.params.UserHandler.RegisterCourier)
		authGroup.POST("/login", r.params.UserHandler.Login)
		authGroup.POST("/refresh", r.params.UserHandler.Refresh)
		authGroup.POST("/logout", r.params.SessionHandler.Logout)
	}

	// Session routes backing the client activity guard
	sessionGroup := e.Group("/session", authn)
	{
		sessionGroup.POST("/ping", r.params.SessionHandler.Ping)
		sessionGroup.GET("", r.params.SessionHandler.ListSessions)
		sessionGroup.POST("/logout-all", r.params.SessionHandler.LogoutAll)
	}

	// Profile
	userGroup := e.Group("/user", authn)
	{
		userGroup.GET("/profile", r.params.UserHandler.GetProfile)
	}

	// Resident address management
	addressGroup := e.Group("/addresses", authn, requireResident)
	{
		addressGroup.POST("", r.params.AddressHandler.CreateAddress)
		addressGroup.GET("", r.params.AddressHandler.ListAddresses)
		addressGroup.GET("/:id", r.params.AddressHandler.GetAddress)
		addressGroup.PATCH("/:id", r.params.AddressHandler.UpdateAddress)
		addressGroup.PATCH("/:id/preferences", r.params.AddressHandler.UpdatePreferences)
		addressGroup.PUT("/:id/coordinates", r.params.AddressHandler.PinCoordinates)
		addressGroup.DELETE("/:id", r.params.AddressHandler.DeleteAddress)
		addressGroup.GET("/:id/qr", r.params.AddressHandler.GetAddressQR)

		addressGroup.POST("/:id/contacts", r.params.FallbackHandler.AddContact)
		addressGroup.GET("/:id/contacts", r.params.FallbackHandler.ListContacts)
		addressGroup.GET("/:id/feedback", r.params.FeedbackHandler.ListFeedbackForAddress)
	}

	// Fallback contacts addressed by their own ID
	contactGroup := e.Group("/contacts", authn, requireResident)
	{
		contactGroup.PATCH("/:id", r.params.FallbackHandler.UpdateContact)
		contactGroup.DELETE("/:id", r.params.FallbackHandler.DeleteContact)
	}

	// Courier-side routes
	courierGroup := e.Group("/courier", authn, requireCourier)
	{
		courierGroup.GET("/lookup/:digital_id", r.params.LookupHandler.LookupByDigitalID)
		courierGroup.POST("/feedback", r.params.FeedbackHandler.RecordFeedback)

		courierGroup.POST("/subscription", r.params.SubscriptionHandler.Activate)
		courierGroup.DELETE("/subscription", r.params.SubscriptionHandler.Cancel)
		courierGroup.POST("/subscription/renew", r.params.SubscriptionHandler.Renew)
		courierGroup.GET("/subscription", r.params.SubscriptionHandler.GetStatus)
	}

	// Push notification devices
	deviceGroup := e.Group("/devices", authn)
	{
		deviceGroup.POST("", r.params.DeviceHandler.RegisterDevice)
		deviceGroup.GET("", r.params.DeviceHandler.ListDevices)
		deviceGroup.PATCH("/:id/token", r.params.DeviceHandler.UpdateToken)
		deviceGroup.DELETE("/:id", r.params.DeviceHandler.DeactivateDevice)
	}
}
