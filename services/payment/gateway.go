package payment

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/larrybwosi/realstate-sub001/models"

	"github.com/go-resty/resty/v2"
)

// ErrStillProcessing reports that the gateway has not yet settled the push;
// the sweeper leaves such rows pending and tries again on a later sweep.
var ErrStillProcessing = errors.New("transaction still processing at gateway")

// stillProcessingCode is the gateway's error code for a query against a push
// that has not finished.
const stillProcessingCode = "500.001.1001"

// Gateway is the outbound surface of the Daraja STK API used by the
// initiator and the sweeper.
type Gateway interface {
	STKPush(ctx context.Context, amount float64, phoneNumber, accountRef, description string) (*models.STKPushResponse, error)
	STKQuery(ctx context.Context, checkoutID string) (*models.STKQueryResponse, error)
}

// DarajaClient implements Gateway over the Safaricom Daraja REST API.
type DarajaClient struct {
	client      *resty.Client
	tokens      *TokenManager
	shortcode   string
	passkey     string
	callbackURL string
	now         func() time.Time
}

// NewDarajaClient builds the production gateway client.
func NewDarajaClient(baseURL string, tokens *TokenManager, shortcode, passkey, callbackURL string, timeout time.Duration) *DarajaClient {
	return &DarajaClient{
		client:      resty.New().SetBaseURL(baseURL).SetTimeout(timeout),
		tokens:      tokens,
		shortcode:   shortcode,
		passkey:     passkey,
		callbackURL: callbackURL,
		now:         time.Now,
	}
}

// STKPush prompts the payer's device to approve the payment and returns the
// gateway's checkout id on acceptance.
func (g *DarajaClient) STKPush(ctx context.Context, amount float64, phoneNumber, accountRef, description string) (*models.STKPushResponse, error) {
	token, err := g.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}
	password, timestamp := Sign(g.shortcode, g.passkey, g.now())

	req := models.STKPushRequest{
		BusinessShortCode: g.shortcode,
		Password:          password,
		Timestamp:         timestamp,
		TransactionType:   "CustomerPayBillOnline",
		Amount:            strconv.FormatFloat(amount, 'f', -1, 64),
		PartyA:            phoneNumber,
		PartyB:            g.shortcode,
		PhoneNumber:       phoneNumber,
		CallBackURL:       g.callbackURL,
		AccountReference:  accountRef,
		TransactionDesc:   description,
	}

	var pushResp models.STKPushResponse
	var errResp models.GatewayErrorResponse
	resp, err := g.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(req).
		SetResult(&pushResp).
		SetError(&errResp).
		Post("/mpesa/stkpush/v1/processrequest")
	if err != nil {
		return nil, &GatewayError{Op: "push", Err: err}
	}
	if resp.IsError() {
		return nil, &GatewayError{Op: "push", Err: fmt.Errorf("%s: %s %s", resp.Status(), errResp.ErrorCode, errResp.ErrorMessage)}
	}
	if pushResp.CheckoutRequestID == "" {
		return nil, &GatewayError{Op: "push", Err: fmt.Errorf("accepted response missing CheckoutRequestID: %s", pushResp.ResponseDescription)}
	}
	return &pushResp, nil
}

// STKQuery asks the gateway for the terminal result of an earlier push.
// Returns ErrStillProcessing while the gateway has no terminal answer yet.
func (g *DarajaClient) STKQuery(ctx context.Context, checkoutID string) (*models.STKQueryResponse, error) {
	token, err := g.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}
	password, timestamp := Sign(g.shortcode, g.passkey, g.now())

	req := models.STKQueryRequest{
		BusinessShortCode: g.shortcode,
		Password:          password,
		Timestamp:         timestamp,
		CheckoutRequestID: checkoutID,
	}

	var queryResp models.STKQueryResponse
	var errResp models.GatewayErrorResponse
	resp, err := g.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(req).
		SetResult(&queryResp).
		SetError(&errResp).
		Post("/mpesa/stkpushquery/v1/query")
	if err != nil {
		return nil, &GatewayError{Op: "query", Err: err}
	}
	if resp.IsError() {
		if errResp.ErrorCode == stillProcessingCode {
			return nil, ErrStillProcessing
		}
		return nil, &GatewayError{Op: "query", Err: fmt.Errorf("%s: %s %s", resp.Status(), errResp.ErrorCode, errResp.ErrorMessage)}
	}
	return &queryResp, nil
}
