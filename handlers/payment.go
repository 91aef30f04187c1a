package handlers

import (
	"errors"
	"net/http"

	"github.com/larrybwosi/realstate-sub001/models"
	"github.com/larrybwosi/realstate-sub001/services/payment"
	"github.com/larrybwosi/realstate-sub001/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PaymentHandler exposes the payment lifecycle over HTTP.
type PaymentHandler struct {
	Service payment.PaymentService
	Logger  *zap.Logger
}

// NewPaymentHandler constructs a PaymentHandler.
func NewPaymentHandler(svc payment.PaymentService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{Service: svc, Logger: logger}
}

type initiatePaymentRequest struct {
	BookingID   string  `json:"bookingId" binding:"required"`
	Amount      float64 `json:"amount" binding:"required"`
	PhoneNumber string  `json:"phoneNumber" binding:"required"`
}

// InitiatePayment starts an STK push for a booking.
func (h *PaymentHandler) InitiatePayment(c *gin.Context) {
	var req initiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	checkoutID, err := h.Service.Initiate(c.Request.Context(), req.BookingID, req.Amount, req.PhoneNumber)
	if err != nil {
		var vErr *payment.ValidationError
		var gwErr *payment.GatewayError
		var authErr *payment.AuthError
		switch {
		case errors.As(err, &vErr):
			utils.JSONError(c, http.StatusBadRequest, "invalid payment request", vErr.Error())
		case errors.As(err, &authErr):
			h.Logger.Error("gateway credential exchange failed", zap.Error(err))
			utils.JSONError(c, http.StatusBadGateway, "payment provider unavailable", "credential exchange failed")
		case errors.As(err, &gwErr):
			utils.JSONError(c, http.StatusBadGateway, "payment provider unavailable", "the push could not be delivered; please retry")
		default:
			h.Logger.Error("payment initiation failed", zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "failed to initiate payment", "")
		}
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"checkoutId": checkoutID,
		"message":    "Payment request sent. Approve the prompt on your phone.",
	})
}

// MpesaCallback receives the gateway's asynchronous result notification.
// Success, replay and permanently-malformed cases are all acknowledged with
// 200 so the gateway stops redelivering; only transient internal failures
// return a server error to invite redelivery.
func (h *PaymentHandler) MpesaCallback(c *gin.Context) {
	var env models.CallbackEnvelope
	if err := c.ShouldBindJSON(&env); err != nil {
		h.Logger.Warn("unparseable callback payload", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"ResultCode": 0, "ResultDesc": "Accepted"})
		return
	}

	err := h.Service.HandleCallback(c.Request.Context(), &env)
	if err != nil {
		var vErr *payment.ValidationError
		var nfErr *payment.NotFoundError
		switch {
		case errors.As(err, &vErr):
			h.Logger.Warn("malformed callback acknowledged",
				zap.String("checkoutId", env.Body.StkCallback.CheckoutRequestID),
				zap.Error(err))
		case errors.As(err, &nfErr):
			h.Logger.Warn("callback for unknown checkout acknowledged",
				zap.String("checkoutId", env.Body.StkCallback.CheckoutRequestID))
		default:
			h.Logger.Error("callback processing failed, requesting redelivery",
				zap.String("checkoutId", env.Body.StkCallback.CheckoutRequestID),
				zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"ResultCode": 1, "ResultDesc": "Internal error"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"ResultCode": 0, "ResultDesc": "Accepted"})
}

// GetPaymentStatus returns the current state of one payment attempt for
// polling clients.
func (h *PaymentHandler) GetPaymentStatus(c *gin.Context) {
	checkoutID := c.Param("checkoutId")

	pmt, booking, err := h.Service.PaymentStatus(c.Request.Context(), checkoutID)
	if err != nil {
		var nfErr *payment.NotFoundError
		if errors.As(err, &nfErr) {
			utils.JSONError(c, http.StatusNotFound, "unknown checkout id", checkoutID)
			return
		}
		h.Logger.Error("payment status lookup failed", zap.String("checkoutId", checkoutID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch payment status", "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payment": pmt,
		"booking": booking,
	})
}

// ListFlaggedPayments returns attempts the sweeper handed over to manual
// review. Admin only.
func (h *PaymentHandler) ListFlaggedPayments(c *gin.Context) {
	payments, err := h.Service.FlaggedPayments(c.Request.Context())
	if err != nil {
		h.Logger.Error("flagged payment listing failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to list flagged payments", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

// HealthHandler reports the latest stored health snapshot.
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, utils.GetHealthStatus())
}
