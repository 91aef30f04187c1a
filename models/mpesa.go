package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Daraja wire types. Field names follow the gateway's JSON contract exactly.

// STKPushRequest is the outbound push that prompts the payer's device.
type STKPushRequest struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	TransactionType   string `json:"TransactionType"`
	Amount            string `json:"Amount"`
	PartyA            string `json:"PartyA"`
	PartyB            string `json:"PartyB"`
	PhoneNumber       string `json:"PhoneNumber"`
	CallBackURL       string `json:"CallBackURL"`
	AccountReference  string `json:"AccountReference"`
	TransactionDesc   string `json:"TransactionDesc"`
}

// STKPushResponse is the gateway's acceptance of a push request.
type STKPushResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`
}

// STKQueryRequest asks the gateway for the current status of a push.
type STKQueryRequest struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	CheckoutRequestID string `json:"CheckoutRequestID"`
}

// STKQueryResponse carries the same result shape as the callback.
type STKQueryResponse struct {
	ResponseCode      string            `json:"ResponseCode"`
	CheckoutRequestID string            `json:"CheckoutRequestID"`
	ResultCode        ResultCode        `json:"ResultCode"`
	ResultDesc        string            `json:"ResultDesc"`
	CallbackMetadata  *CallbackMetadata `json:"CallbackMetadata,omitempty"`
}

// GatewayErrorResponse is the body the gateway sends with non-2xx statuses.
type GatewayErrorResponse struct {
	RequestID    string `json:"requestId"`
	ErrorCode    string `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}

// TokenResponse is the OAuth credential exchange response.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   string `json:"expires_in"` // seconds, as a string
}

// CallbackEnvelope is the inbound asynchronous result notification.
type CallbackEnvelope struct {
	Body struct {
		StkCallback STKCallback `json:"stkCallback"`
	} `json:"Body"`
}

// STKCallback is the payload the receiver acts on.
type STKCallback struct {
	MerchantRequestID string            `json:"MerchantRequestID"`
	CheckoutRequestID string            `json:"CheckoutRequestID"`
	ResultCode        ResultCode        `json:"ResultCode"`
	ResultDesc        string            `json:"ResultDesc"`
	CallbackMetadata  *CallbackMetadata `json:"CallbackMetadata,omitempty"`
}

// CallbackMetadata is an unordered list of name/value pairs.
type CallbackMetadata struct {
	Item []MetadataItem `json:"Item"`
}

// MetadataItem values arrive as either strings or numbers.
type MetadataItem struct {
	Name  string      `json:"Name"`
	Value interface{} `json:"Value"`
}

// Metadata names the gateway is known to send.
const (
	MetaReceiptNumber = "MpesaReceiptNumber"
	MetaAmount        = "Amount"
	MetaPhoneNumber   = "PhoneNumber"
)

// ResultCodeSuccess is the only result code denoting a settled payment.
const ResultCodeSuccess = "0"

// ResultCode tolerates the gateway sending result codes as JSON numbers or
// strings. Comparisons are always done on the string form.
type ResultCode string

func (r *ResultCode) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*r = ResultCode(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*r = ResultCode(n.String())
		return nil
	}
	return fmt.Errorf("result code is neither string nor number: %s", data)
}

// Success reports whether the code denotes a settled payment.
func (r ResultCode) Success() bool {
	return string(r) == ResultCodeSuccess
}

// LookupString finds a metadata item by name and returns its value as a string.
func (m *CallbackMetadata) LookupString(name string) (string, bool) {
	if m == nil {
		return "", false
	}
	for _, item := range m.Item {
		if item.Name != name {
			continue
		}
		switch v := item.Value.(type) {
		case string:
			return v, true
		case float64:
			// Phone numbers arrive as JSON numbers; never render them in
			// scientific notation.
			return strconv.FormatFloat(v, 'f', -1, 64), true
		case json.Number:
			return v.String(), true
		}
	}
	return "", false
}

// LookupAmount finds a metadata item by name and returns it as a number.
func (m *CallbackMetadata) LookupAmount(name string) (float64, bool) {
	if m == nil {
		return 0, false
	}
	for _, item := range m.Item {
		if item.Name != name {
			continue
		}
		switch v := item.Value.(type) {
		case float64:
			return v, true
		case json.Number:
			f, err := v.Float64()
			return f, err == nil
		case string:
			f, err := strconv.ParseFloat(v, 64)
			return f, err == nil
		}
	}
	return 0, false
}
