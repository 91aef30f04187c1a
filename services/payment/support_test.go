package payment

import (
	"context"
	"sync"
	"time"

	ledgerRepo "github.com/larrybwosi/realstate-sub001/database/repository/ledger"
	"github.com/larrybwosi/realstate-sub001/models"

	"go.uber.org/zap"
)

// fakeLedger is an in-memory LedgerRepository with the same conditional-write
// semantics as the Mongo implementation: the terminal transition commits only
// if the payment row is still pending, and the booking moves in the same
// critical section.
type fakeLedger struct {
	mu       sync.Mutex
	bookings map[string]*models.Booking
	payments map[string]*models.Payment
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		bookings: make(map[string]*models.Booking),
		payments: make(map[string]*models.Payment),
	}
}

func (f *fakeLedger) CreateBooking(_ context.Context, b *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *b
	f.bookings[b.ID] = &cp
	return nil
}

func (f *fakeLedger) GetBookingByID(_ context.Context, id string) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (f *fakeLedger) CreatePendingPayment(_ context.Context, p *models.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *p
	f.payments[p.CheckoutID] = &cp
	if b, ok := f.bookings[p.BookingID]; ok && b.CheckoutID == "" {
		b.CheckoutID = p.CheckoutID
	}
	return nil
}

func (f *fakeLedger) GetPaymentByCheckoutID(_ context.Context, checkoutID string) (*models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payments[checkoutID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeLedger) ApplyOutcome(_ context.Context, checkoutID string, outcome models.PaymentOutcome) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.payments[checkoutID]
	if !ok || p.Status != models.StatusPending {
		return ledgerRepo.ErrNotPending
	}

	status := models.StatusFailed
	if outcome.Success {
		status = models.StatusConfirmed
	}
	now := outcome.ConfirmedAt
	if now.IsZero() {
		now = time.Now()
	}

	p.Status = status
	p.UpdatedAt = now
	if outcome.Success {
		p.Amount = outcome.Amount
		p.ReceiptNumber = outcome.ReceiptNumber
		p.TransactionID = outcome.TransactionID
		p.PhoneNumber = outcome.PhoneNumber
	}

	b := f.bookings[p.BookingID]
	if b == nil {
		return nil
	}
	b.UpdatedAt = now
	switch {
	case b.Status == models.StatusPending:
		b.Status = status
		if outcome.Success {
			b.ReceiptNumber = outcome.ReceiptNumber
			if b.IsRecurring {
				next := now.AddDate(0, 1, 0)
				b.NextPaymentDate = &next
			}
		}
	case outcome.Success:
		b.ReceiptNumber = outcome.ReceiptNumber
		if b.IsRecurring {
			next := now.AddDate(0, 1, 0)
			b.NextPaymentDate = &next
		}
	}
	return nil
}

func (f *fakeLedger) FindOverduePending(_ context.Context, cutoff time.Time, maxAttempts int) ([]models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Payment
	for _, p := range f.payments {
		if p.Status == models.StatusPending && p.CreatedAt.Before(cutoff) &&
			!p.FlaggedForReview && p.ReconcileCount < maxAttempts {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeLedger) IncrementReconcileCount(_ context.Context, checkoutID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.payments[checkoutID]; ok {
		p.ReconcileCount++
	}
	return nil
}

func (f *fakeLedger) FlagForReview(_ context.Context, checkoutID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.payments[checkoutID]; ok {
		p.FlaggedForReview = true
	}
	return nil
}

func (f *fakeLedger) ListFlagged(_ context.Context) ([]models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Payment
	for _, p := range f.payments {
		if p.FlaggedForReview {
			out = append(out, *p)
		}
	}
	return out, nil
}

// fakeGateway scripts push and query responses per checkout id.
type fakeGateway struct {
	mu         sync.Mutex
	pushResp   *models.STKPushResponse
	pushErr    error
	pushCalls  int
	queryResp  map[string]*models.STKQueryResponse
	queryErr   map[string]error
	queryCalls int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		queryResp: make(map[string]*models.STKQueryResponse),
		queryErr:  make(map[string]error),
	}
}

func (g *fakeGateway) STKPush(_ context.Context, _ float64, _, _, _ string) (*models.STKPushResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pushCalls++
	if g.pushErr != nil {
		return nil, g.pushErr
	}
	return g.pushResp, nil
}

func (g *fakeGateway) STKQuery(_ context.Context, checkoutID string) (*models.STKQueryResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.queryCalls++
	if err, ok := g.queryErr[checkoutID]; ok {
		return nil, err
	}
	if resp, ok := g.queryResp[checkoutID]; ok {
		return resp, nil
	}
	return nil, ErrStillProcessing
}

func newTestService(repo *fakeLedger, gw *fakeGateway) *DefaultPaymentService {
	svc := NewPaymentService(repo, gw, nil, zap.NewNop())
	svc.LookupBackoff = time.Millisecond
	return svc
}

func seedBooking(repo *fakeLedger, id string, recurring bool) *models.Booking {
	b := &models.Booking{
		ID:          id,
		TenantID:    "tenant-1",
		PropertyID:  "prop-1",
		Status:      models.StatusPending,
		Amount:      1000,
		PhoneNumber: "254712345678",
		IsRecurring: recurring,
		CreatedAt:   time.Now(),
	}
	_ = repo.CreateBooking(context.Background(), b)
	return b
}

func seedPendingPayment(repo *fakeLedger, checkoutID, bookingID string, createdAt time.Time) {
	_ = repo.CreatePendingPayment(context.Background(), &models.Payment{
		CheckoutID: checkoutID,
		BookingID:  bookingID,
		Status:     models.StatusPending,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	})
}

func successCallback(checkoutID, receipt string, amount float64, phone string) *models.CallbackEnvelope {
	env := &models.CallbackEnvelope{}
	env.Body.StkCallback = models.STKCallback{
		CheckoutRequestID: checkoutID,
		ResultCode:        models.ResultCode("0"),
		ResultDesc:        "The service request is processed successfully.",
		CallbackMetadata: &models.CallbackMetadata{
			Item: []models.MetadataItem{
				{Name: models.MetaAmount, Value: amount},
				{Name: models.MetaReceiptNumber, Value: receipt},
				{Name: models.MetaPhoneNumber, Value: phone},
			},
		},
	}
	return env
}

func failureCallback(checkoutID, code, desc string) *models.CallbackEnvelope {
	env := &models.CallbackEnvelope{}
	env.Body.StkCallback = models.STKCallback{
		CheckoutRequestID: checkoutID,
		ResultCode:        models.ResultCode(code),
		ResultDesc:        desc,
	}
	return env
}
