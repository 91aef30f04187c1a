package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/larrybwosi/realstate-sub001/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitiateCreatesPendingPayment(t *testing.T) {
	repo := newFakeLedger()
	gw := newFakeGateway()
	gw.pushResp = &models.STKPushResponse{
		CheckoutRequestID:   "ABC123",
		ResponseCode:        "0",
		ResponseDescription: "Success. Request accepted for processing",
	}
	svc := newTestService(repo, gw)
	booking := seedBooking(repo, "bk-init-1", false)

	checkoutID, err := svc.Initiate(context.Background(), booking.ID, 1000, "0712345678")
	require.NoError(t, err)
	assert.Equal(t, "ABC123", checkoutID)

	pmt, _ := repo.GetPaymentByCheckoutID(context.Background(), "ABC123")
	require.NotNil(t, pmt)
	assert.Equal(t, models.StatusPending, pmt.Status)
	assert.Equal(t, booking.ID, pmt.BookingID)
	// Amount and receipt are populated from the confirmation, not the push.
	assert.Zero(t, pmt.Amount)
	assert.Empty(t, pmt.ReceiptNumber)

	got, _ := repo.GetBookingByID(context.Background(), booking.ID)
	assert.Equal(t, "ABC123", got.CheckoutID)
}

func TestInitiateRejectsBadPhoneNumber(t *testing.T) {
	repo := newFakeLedger()
	gw := newFakeGateway()
	svc := newTestService(repo, gw)
	seedBooking(repo, "bk-init-2", false)

	_, err := svc.Initiate(context.Background(), "bk-init-2", 1000, "12345")

	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Zero(t, gw.pushCalls, "gateway must not be called for invalid input")
}

func TestInitiateRejectsNonPositiveAmount(t *testing.T) {
	repo := newFakeLedger()
	svc := newTestService(repo, newFakeGateway())
	seedBooking(repo, "bk-init-3", false)

	_, err := svc.Initiate(context.Background(), "bk-init-3", 0, "0712345678")

	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
}

func TestInitiateGatewayFailureLeavesNoRow(t *testing.T) {
	repo := newFakeLedger()
	gw := newFakeGateway()
	gw.pushErr = &GatewayError{Op: "push", Err: errors.New("503 Service Unavailable")}
	svc := newTestService(repo, gw)
	seedBooking(repo, "bk-init-4", false)

	_, err := svc.Initiate(context.Background(), "bk-init-4", 1000, "0712345678")

	var gwErr *GatewayError
	require.True(t, errors.As(err, &gwErr))
	assert.Empty(t, repo.payments, "a rejected push must not leave a pending row")
}

func TestInitiateRetryProducesFreshAttempt(t *testing.T) {
	repo := newFakeLedger()
	gw := newFakeGateway()
	svc := newTestService(repo, gw)
	booking := seedBooking(repo, "bk-init-5", false)

	gw.pushResp = &models.STKPushResponse{CheckoutRequestID: "FIRST1"}
	first, err := svc.Initiate(context.Background(), booking.ID, 1000, "0712345678")
	require.NoError(t, err)

	gw.pushResp = &models.STKPushResponse{CheckoutRequestID: "SECOND2"}
	second, err := svc.Initiate(context.Background(), booking.ID, 1000, "0712345678")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	// The booking keeps the checkout id of its first attempt.
	got, _ := repo.GetBookingByID(context.Background(), booking.ID)
	assert.Equal(t, "FIRST1", got.CheckoutID)
}
