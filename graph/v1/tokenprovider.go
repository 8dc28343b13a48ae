package v1

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// ErrAuth marks credential acquisition failures. A pass hitting it has no
// usable bearer token and must abort.
var ErrAuth = errors.New("graph token acquisition failed")

const defaultScope = "https://graph.microsoft.com/.default"

// ClientCredentialsTokenProvider performs the OAuth2 client-credential flow
// against Azure AD and caches the token in memory until shortly before its
// expiry. The cache is a single value behind one mutex: callers go through a
// read-check-refresh-write sequence and never observe a half-written token.
type ClientCredentialsTokenProvider struct {
	TenantID     string
	ClientID     string
	ClientSecret string
	Scope        string
	LoginURL     string
	HTTPClient   *http.Client

	mu     sync.Mutex
	cached string
	expiry time.Time
	now    func() time.Time
}

func NewClientCredentialsTokenProvider(tenantID, clientID, clientSecret string) *ClientCredentialsTokenProvider {
	return &ClientCredentialsTokenProvider{
		TenantID:     tenantID,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Scope:        defaultScope,
		LoginURL:     "https://login.microsoftonline.com",
		HTTPClient:   &http.Client{},
		now:          time.Now,
	}
}

// Token returns a valid access token, refreshing it when the cached one has
// expired or is about to.
func (p *ClientCredentialsTokenProvider) Token(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cached != "" && p.now().Before(p.expiry) {
		return p.cached, nil
	}

	form := url.Values{
		"client_id":     {p.ClientID},
		"client_secret": {p.ClientSecret},
		"grant_type":    {"client_credentials"},
		"scope":         {p.Scope},
	}

	tokenURL := fmt.Sprintf("%s/%s/oauth2/v2.0/token", p.LoginURL, p.TenantID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuth, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuth, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status code %d", ErrAuth, resp.StatusCode)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuth, err)
	}

	p.cached = payload.AccessToken
	// renew a minute before the upstream expiry
	p.expiry = p.now().Add(time.Duration(payload.ExpiresIn-60) * time.Second)
	return p.cached, nil
}

// StaticTokenProvider returns a fixed token. Used by tooling and tests.
type StaticTokenProvider string

func (s StaticTokenProvider) Token(ctx context.Context) (string, error) {
	return string(s), nil
}
