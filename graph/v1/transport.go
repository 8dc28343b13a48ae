package v1

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// TokenProvider supplies bearer credentials for Graph requests.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// FetchError is returned for any non-success Graph response. It identifies
// the failing call so the orchestrator can log which fetch broke the pass.
type FetchError struct {
	Op     string
	Status int
	Body   string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s failed with status code %d: %s", e.Op, e.Status, e.Body)
}

type Response struct {
	Data []byte
}

// Transport handles low-level HTTP and authentication
type Transport struct {
	BaseURL    string
	Tokens     TokenProvider
	HTTPClient *http.Client
}

// NewTransport creates a transport with base URL and a token source
func NewTransport(baseURL string, tokens TokenProvider) *Transport {
	return &Transport{
		BaseURL:    baseURL,
		Tokens:     tokens,
		HTTPClient: &http.Client{},
	}
}

// helper: build full URL with query params
func (t *Transport) buildURL(path string, query map[string]string) string {
	u, _ := url.Parse(t.BaseURL + path)
	q := u.Query()
	for k, v := range query {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// Get sends an authenticated GET request and returns the response body.
// No retries are attempted; callers decide what a failed fetch means.
func (t *Transport) Get(ctx context.Context, path string, query map[string]string) (*Response, error) {
	fullURL := t.buildURL(path, query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, err
	}

	token, err := t.Tokens.Token(ctx)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))

	resp, err := t.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, &FetchError{Op: "GET " + path, Status: resp.StatusCode, Body: string(b)}
	}

	resdata, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &Response{
		Data: resdata,
	}, nil
}
