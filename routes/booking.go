package routes

import (
	"github.com/larrybwosi/realstate-sub001/handlers"
	"github.com/larrybwosi/realstate-sub001/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterBookingRoutes registers booking CRUD endpoints.
func RegisterBookingRoutes(r *gin.Engine, h *handlers.BookingHandler) {
	bookings := r.Group("/api/bookings")
	bookings.Use(middleware.JWTAuthTenantMiddleware())
	{
		bookings.POST("", h.CreateBooking)
		bookings.GET("/:id", h.GetBooking)
	}
}
