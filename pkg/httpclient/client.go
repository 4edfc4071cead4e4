package httpclient

import (
	"context"
	"net/http"
	"time"
)

// ClientType represents the type of HTTP client configuration
type ClientType string

const (
	// BrowserClient uses browser-like headers. YouTube serves consent pages or
	// stripped markup to clients that do not look like a browser.
	BrowserClient ClientType = "browser"

	// APIClient identifies the bot with its own User-Agent. Reddit throttles or
	// rejects requests that use a generic one.
	APIClient ClientType = "api"
)

// DefaultTimeout bounds every request made through a client
const DefaultTimeout = 15 * time.Second

// HTTPClient wraps an http.Client with configuration
type HTTPClient struct {
	client     *http.Client
	clientType ClientType
}

// NewClient creates a new HTTP client with the specified type
func NewClient(clientType ClientType) *HTTPClient {
	return newClient(clientType, "")
}

// NewAPIClient creates a client that sends userAgent on every request
func NewAPIClient(userAgent string) *HTTPClient {
	return newClient(APIClient, userAgent)
}

func newClient(clientType ClientType, userAgent string) *HTTPClient {
	client := &http.Client{
		Timeout: DefaultTimeout,
		Transport: &headerTransport{
			base:       http.DefaultTransport,
			clientType: clientType,
			userAgent:  userAgent,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			// Follow up to 10 redirects
			if len(via) >= 10 {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}

	return &HTTPClient{
		client:     client,
		clientType: clientType,
	}
}

// Do executes an HTTP request with the appropriate headers for the client type
func (c *HTTPClient) Do(req *http.Request) (*http.Response, error) {
	return c.client.Do(req)
}

// Get is a convenience method for GET requests
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return c.Do(req)
}

// HTTP exposes the underlying client for libraries that take an *http.Client.
// Requests made through it carry the same headers.
func (c *HTTPClient) HTTP() *http.Client {
	return c.client
}

// headerTransport sets the appropriate headers based on client type
type headerTransport struct {
	base       http.RoundTripper
	clientType ClientType
	userAgent  string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())

	switch t.clientType {
	case BrowserClient:
		req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36")
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	case APIClient:
		if t.userAgent != "" {
			req.Header.Set("User-Agent", t.userAgent)
		}

	default:
		// Default: use Go's default User-Agent
	}

	return t.base.RoundTrip(req)
}
