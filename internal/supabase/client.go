// Package supabase provides the client for the hosted identity provider
// and row store. It is the only package that talks to the upstream
// service; responses are normalized into internal types at this boundary.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// ClientTimeout is the total request timeout.
	ClientTimeout = 30 * time.Second
	// DialTimeout is the connection timeout.
	DialTimeout = 10 * time.Second
	// TLSHandshakeTimeout is the TLS negotiation timeout.
	TLSHandshakeTimeout = 10 * time.Second
	// ResponseHeaderTimeout is time to wait for response headers.
	ResponseHeaderTimeout = 15 * time.Second
)

// Client talks to the Supabase auth and REST APIs using the service role
// key. A single Client is safe for concurrent use by multiple in-flight
// requests.
type Client struct {
	httpClient *http.Client
	baseURL    string
	serviceKey string
}

// New creates a Client for the project at baseURL authenticated with the
// service role key.
func New(baseURL, serviceKey string) *Client {
	return &Client{
		httpClient: newHTTPClient(),
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		serviceKey: serviceKey,
	}
}

// newHTTPClient creates an HTTP client configured for upstream calls.
// It has appropriate timeouts and does not follow redirects.
func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout: ClientTimeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   DialTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   TLSHandshakeTimeout,
			ResponseHeaderTimeout: ResponseHeaderTimeout,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   10,
			IdleConnTimeout:       90 * time.Second,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// Error is a non-2xx response from the upstream service.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("upstream error (status %d): %s", e.Status, e.Message)
}

// errorBody covers the message field variants the auth and REST APIs use.
type errorBody struct {
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	ErrorDescription string `json:"error_description"`
	ErrorField       string `json:"error"`
}

func (b errorBody) text() string {
	for _, s := range []string{b.Msg, b.Message, b.ErrorDescription, b.ErrorField} {
		if s != "" {
			return s
		}
	}
	return ""
}

// request describes one upstream call.
type request struct {
	method string
	path   string
	query  url.Values
	// bearer overrides the service key in the Authorization header.
	// Used when validating a caller's token.
	bearer string
	prefer string
	body   any
}

// do executes an upstream call and decodes the JSON response into dest
// when dest is non-nil. Non-2xx responses are returned as *Error.
func (c *Client) do(ctx context.Context, req request, dest any) error {
	var bodyReader io.Reader
	if req.body != nil {
		encoded, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, bodyReader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	httpReq.Header.Set("apikey", c.serviceKey)
	bearer := req.bearer
	if bearer == "" {
		bearer = c.serviceKey
	}
	httpReq.Header.Set("Authorization", "Bearer "+bearer)
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.prefer != "" {
		httpReq.Header.Set("Prefer", req.prefer)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("call upstream: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}

	if dest != nil {
		if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// decodeError reads a non-2xx response into an *Error.
func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var body errorBody
	message := ""
	if err := json.Unmarshal(raw, &body); err == nil {
		message = body.text()
	}
	if message == "" {
		message = strings.TrimSpace(string(raw))
	}
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	return &Error{Status: resp.StatusCode, Message: message}
}

// Ping checks upstream connectivity via the auth health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, request{method: http.MethodGet, path: "/auth/v1/health"}, nil)
}
