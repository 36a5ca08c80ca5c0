package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"telecare/handlers"
	"telecare/middleware"
)

// RegisterSlotRoutes registers slot browsing and administration endpoints.
func RegisterSlotRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/slots")
	{
		api.GET("", hb.ListBookableSlots)

		// Slot administration requires an admin token.
		admin := api.Group("")
		admin.Use(middleware.JWTAuthAdminMiddleware())
		admin.GET("/all", hb.ListAllSlots)
		admin.POST("/generate", hb.GenerateTemplateSlots)
		admin.POST("/generate-special", hb.GenerateSpecialSlots)
		admin.PATCH("/:id/capacity", hb.SetSlotCapacity)
		admin.DELETE("/:id", hb.DeleteSlot)
		admin.POST("/delete-range", hb.DeleteSlotRange)
		admin.GET("/history/capacity", hb.GetCapacityOverrideHistory)
		admin.GET("/history/special", hb.GetSpecialSlotHistory)
	}
}

// RegisterBookingRoutes registers the booking lifecycle endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/bookings")
	{
		api.POST("", hb.CreateBooking)

		admin := api.Group("")
		admin.Use(middleware.JWTAuthAdminMiddleware())
		admin.GET("", hb.ListBookings)
		admin.GET("/:id", hb.GetBooking)
		admin.PATCH("/:id/assign", hb.AssignBooking)
		admin.PATCH("/:id/status", hb.UpdateBookingStatus)
	}
}

// RegisterProviderRoutes registers provider directory and availability
// endpoints.
func RegisterProviderRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/providers")
	{
		api.GET("", hb.ListProviders)
		api.GET("/:id", hb.GetProvider)

		// Live-session registration is called by the notification transport.
		api.POST("/:id/session/connect", hb.ConnectProviderSession)
		api.POST("/:id/session/disconnect", hb.DisconnectProviderSession)

		admin := api.Group("")
		admin.Use(middleware.JWTAuthAdminMiddleware())
		admin.POST("", hb.RegisterProvider)
		admin.GET("/:id/bookings", hb.ListProviderBookings)
		admin.PUT("/:id/availability/weekly", hb.SetWeeklyAvailability)
		admin.PUT("/:id/availability/monthly", hb.UpsertMonthlyAvailability)
		admin.PATCH("/:id/status", hb.SetProviderStatus)
		admin.PUT("/:id/overrides", hb.UpsertDateOverride)
		admin.GET("/:id/overrides", hb.ListDateOverrides)
		admin.DELETE("/:id/overrides/:date", hb.DeleteDateOverride)
	}
}

// RegisterFormRoutes registers intake form endpoints.
func RegisterFormRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/forms")
	{
		api.POST("", hb.CreateForm)
		api.GET("/:id", hb.GetForm)
	}
}

// RegisterPaymentRoutes registers checkout creation and the webhook.
func RegisterPaymentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/payments")
	{
		api.POST("/checkout/booking", hb.CreateBookingCheckout)
		api.POST("/checkout/form", hb.CreateFormCheckout)
		api.POST("/webhook", hb.StripeWebhook)
	}
}

// RegisterAdminRoutes sets up endpoints for admin operations.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	adminGroup := r.Group("/api/admin")
	{
		adminGroup.POST("/token", hb.IssueAdminToken)

		protected := adminGroup.Group("")
		protected.Use(middleware.JWTAuthAdminMiddleware())
		protected.GET("/conflicts", hb.ListReconciliationConflicts)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "Stripe-Signature"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterSlotRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterProviderRoutes(r, hb)
	RegisterFormRoutes(r, hb)
	RegisterPaymentRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterHealthRoute(r)
}
