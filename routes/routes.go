package routes

import (
	"github.com/larrybwosi/realstate-sub001/handlers"
	"github.com/larrybwosi/realstate-sub001/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires every endpoint of the payment engine.
func RegisterRoutes(r *gin.Engine, paymentHandler *handlers.PaymentHandler, bookingHandler *handlers.BookingHandler) {
	r.Use(cors.Default())

	r.GET("/health", handlers.HealthHandler)

	RegisterBookingRoutes(r, bookingHandler)
	RegisterPaymentRoutes(r, paymentHandler)

	admin := r.Group("/api/admin")
	admin.Use(middleware.AdminAuthMiddleware())
	{
		admin.GET("/payments/flagged", paymentHandler.ListFlaggedPayments)
	}
}
