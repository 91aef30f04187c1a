package payment

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/larrybwosi/realstate-sub001/models"

	"github.com/go-resty/resty/v2"
	"golang.org/x/sync/singleflight"
)

// expiryMargin is shaved off the advertised lifetime so a token is never used
// right at its edge.
const expiryMargin = 30 * time.Second

// TokenManager exchanges the consumer key/secret for a bearer token at the
// gateway's OAuth endpoint and caches it until expiry. Concurrent callers on
// a cache miss collapse into one outbound request.
type TokenManager struct {
	client         *resty.Client
	consumerKey    string
	consumerSecret string

	mu      sync.RWMutex
	token   string
	expires time.Time

	group *singleflight.Group
	now   func() time.Time
}

// NewTokenManager builds a token manager against the given Daraja base URL.
func NewTokenManager(baseURL, consumerKey, consumerSecret string, timeout time.Duration) *TokenManager {
	return &TokenManager{
		client:         resty.New().SetBaseURL(baseURL).SetTimeout(timeout),
		consumerKey:    consumerKey,
		consumerSecret: consumerSecret,
		group:          new(singleflight.Group),
		now:            time.Now,
	}
}

// Token returns a valid bearer token, refreshing it when the cached one has
// expired. A non-success exchange surfaces as AuthError and is not retried
// here: failed credentials signal a configuration problem.
func (tm *TokenManager) Token(ctx context.Context) (string, error) {
	tm.mu.RLock()
	if tm.token != "" && tm.now().Before(tm.expires) {
		token := tm.token
		tm.mu.RUnlock()
		return token, nil
	}
	tm.mu.RUnlock()

	v, err, _ := tm.group.Do("token", func() (interface{}, error) {
		// Re-check under the flight: another caller may have refreshed while
		// we queued.
		tm.mu.RLock()
		if tm.token != "" && tm.now().Before(tm.expires) {
			token := tm.token
			tm.mu.RUnlock()
			return token, nil
		}
		tm.mu.RUnlock()
		return tm.refresh(ctx)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (tm *TokenManager) refresh(ctx context.Context) (string, error) {
	var tokenResp models.TokenResponse
	resp, err := tm.client.R().
		SetContext(ctx).
		SetBasicAuth(tm.consumerKey, tm.consumerSecret).
		SetQueryParam("grant_type", "client_credentials").
		SetResult(&tokenResp).
		Get("/oauth/v1/generate")
	if err != nil {
		return "", &GatewayError{Op: "token", Err: err}
	}
	if resp.IsError() {
		return "", &AuthError{Reason: fmt.Sprintf("credential exchange returned %s", resp.Status())}
	}
	if tokenResp.AccessToken == "" {
		return "", &AuthError{Reason: "credential exchange returned no access token"}
	}

	ttl := 3600 * time.Second
	if secs, err := strconv.Atoi(tokenResp.ExpiresIn); err == nil && secs > 0 {
		ttl = time.Duration(secs) * time.Second
	}

	tm.mu.Lock()
	tm.token = tokenResp.AccessToken
	tm.expires = tm.now().Add(ttl - expiryMargin)
	tm.mu.Unlock()

	return tokenResp.AccessToken, nil
}
