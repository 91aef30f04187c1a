package notification

import (
	"context"
	"fmt"

	tenantRepo "github.com/larrybwosi/realstate-sub001/database/repository/tenant"
	"github.com/larrybwosi/realstate-sub001/models"
	"github.com/larrybwosi/realstate-sub001/utils"

	"firebase.google.com/go/v4/messaging"
)

// NotificationService defines methods for sending FCM pushes about payment
// outcomes. Notifications are best-effort and always run after the ledger
// commit, never inside it.
type NotificationService interface {
	NotifyPaymentOutcome(ctx context.Context, booking *models.Booking, outcome models.PaymentOutcome) error
}

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	Tenants tenantRepo.TenantRepository
}

// NewDefaultNotificationService wires the notification service.
func NewDefaultNotificationService(tenants tenantRepo.TenantRepository) (*DefaultNotificationService, error) {
	if tenants == nil {
		return nil, fmt.Errorf("notification service initialization error: tenant repository is nil")
	}
	return &DefaultNotificationService{Tenants: tenants}, nil
}

// NotifyPaymentOutcome looks up the tenant's FCM token and sends a push
// describing the terminal payment result.
func (s *DefaultNotificationService) NotifyPaymentOutcome(ctx context.Context, booking *models.Booking, outcome models.PaymentOutcome) error {
	tenant, err := s.Tenants.GetTenantByID(ctx, booking.TenantID)
	if err != nil {
		return fmt.Errorf("NotifyPaymentOutcome: could not find tenant %s: %w", booking.TenantID, err)
	}
	if tenant == nil || tenant.FCMToken == "" {
		// No push target; nothing to do.
		return nil
	}

	title := "Payment received"
	body := fmt.Sprintf("Your rent payment of KES %.2f was confirmed. Receipt %s.", outcome.Amount, outcome.ReceiptNumber)
	if !outcome.Success {
		title = "Payment failed"
		body = fmt.Sprintf("Your rent payment could not be completed (%s). You can try again from the app.", outcome.ResultDesc)
	}

	msg := &messaging.Message{
		Token: tenant.FCMToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: map[string]string{
			"bookingId":  booking.ID,
			"checkoutId": booking.CheckoutID,
			"resultCode": outcome.ResultCode,
		},
	}

	if _, err := utils.FCMClient.Send(ctx, msg); err != nil {
		return fmt.Errorf("NotifyPaymentOutcome: failed to send FCM message: %w", err)
	}
	return nil
}
