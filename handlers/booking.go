package handlers

import (
	"net/http"
	"time"

	ledgerRepo "github.com/larrybwosi/realstate-sub001/database/repository/ledger"
	"github.com/larrybwosi/realstate-sub001/models"
	"github.com/larrybwosi/realstate-sub001/services/payment"
	"github.com/larrybwosi/realstate-sub001/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BookingHandler manages booking records ahead of payment collection.
type BookingHandler struct {
	Repo   ledgerRepo.LedgerRepository
	Logger *zap.Logger
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(repo ledgerRepo.LedgerRepository, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Repo: repo, Logger: logger}
}

type createBookingRequest struct {
	PropertyID  string  `json:"propertyId" binding:"required"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	PhoneNumber string  `json:"phoneNumber" binding:"required"`
	IsRecurring bool    `json:"isRecurring"`
}

// CreateBooking records a new reservation in the PENDING state. Money only
// moves once a payment is initiated against it.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	tenantID, exists := c.Get("tenantID")
	if !exists {
		utils.JSONError(c, http.StatusUnauthorized, "unauthorized", "missing tenant identity")
		return
	}

	// Stored numbers are always in the canonical 254 form; anything the
	// gateway would later reject is refused here.
	phone, err := payment.NormalizePhoneNumber(req.PhoneNumber)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	now := time.Now().UTC()
	booking := &models.Booking{
		ID:          uuid.NewString(),
		TenantID:    tenantID.(string),
		PropertyID:  req.PropertyID,
		Status:      models.StatusPending,
		Amount:      req.Amount,
		PhoneNumber: phone,
		IsRecurring: req.IsRecurring,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.Repo.CreateBooking(c.Request.Context(), booking); err != nil {
		h.Logger.Error("booking creation failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to create booking", "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"booking": booking})
}

// GetBooking returns one booking by id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	id := c.Param("id")

	booking, err := h.Repo.GetBookingByID(c.Request.Context(), id)
	if err != nil {
		h.Logger.Error("booking lookup failed", zap.String("bookingId", id), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch booking", "")
		return
	}
	if booking == nil {
		utils.JSONError(c, http.StatusNotFound, "unknown booking id", id)
		return
	}

	c.JSON(http.StatusOK, gin.H{"booking": booking})
}
