package routes

import (
	"github.com/larrybwosi/realstate-sub001/handlers"
	"github.com/larrybwosi/realstate-sub001/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterPaymentRoutes registers all endpoints for the payment engine.
func RegisterPaymentRoutes(r *gin.Engine, h *handlers.PaymentHandler) {
	payments := r.Group("/api/payments")
	{
		// The gateway posts result notifications here; it authenticates by
		// shared knowledge of the callback URL, not by bearer token.
		payments.POST("/callback", h.MpesaCallback)

		authed := payments.Group("")
		authed.Use(middleware.JWTAuthTenantMiddleware())
		{
			authed.POST("/initiate", h.InitiatePayment)
			authed.GET("/:checkoutId", h.GetPaymentStatus)
		}
	}
}
