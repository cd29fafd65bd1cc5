package catalog

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/net/proxy"
)

const (
	// DefaultTimeout is the HTTP client timeout when none is configured.
	DefaultTimeout = 10 * time.Second

	// maxResponseBytes caps how much of a response body is read.
	maxResponseBytes = 4 << 20

	// maxErrorMessage caps the body excerpt kept in an APIError.
	maxErrorMessage = 200
)

// HTTPOptions configures NewHTTPClient.
type HTTPOptions struct {
	// Timeout bounds each request. Zero means DefaultTimeout.
	Timeout time.Duration
	// UserAgent is set on requests that do not carry one.
	UserAgent string
	// ProxyAddress routes traffic through a SOCKS5 proxy ("host:port") when set.
	ProxyAddress string
}

// NewHTTPClient creates the HTTP client shared by the catalog backends.
func NewHTTPClient(opts HTTPOptions) (*http.Client, error) {
	base, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		return nil, fmt.Errorf("unexpected default transport %T", http.DefaultTransport)
	}
	transport := base.Clone()
	transport.MaxIdleConnsPerHost = 4
	transport.IdleConnTimeout = 90 * time.Second

	if opts.ProxyAddress != "" {
		if !isValidProxyAddress(opts.ProxyAddress) {
			return nil, ErrInvalidProxyAddress
		}
		dialer, err := proxy.SOCKS5("tcp", opts.ProxyAddress, nil, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
		}
		transport.Proxy = nil
		transport.DialContext = dialContext(dialer)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	var rt http.RoundTripper = transport
	if opts.UserAgent != "" {
		rt = &userAgentTransport{base: transport, userAgent: opts.UserAgent}
	}

	return &http.Client{
		Transport: rt,
		Timeout:   timeout,
	}, nil
}

// dialContext adapts a proxy.Dialer to http.Transport.DialContext.
func dialContext(d proxy.Dialer) func(ctx context.Context, network, addr string) (net.Conn, error) {
	if cd, ok := d.(proxy.ContextDialer); ok {
		return cd.DialContext
	}
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		type dialResult struct {
			conn net.Conn
			err  error
		}
		resultCh := make(chan dialResult, 1)
		go func() {
			conn, err := d.Dial(network, addr)
			resultCh <- dialResult{conn, err}
		}()
		select {
		case result := <-resultCh:
			return result.conn, result.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// isValidProxyAddress checks if the address is in valid "host:port" format.
func isValidProxyAddress(address string) bool {
	host, port, err := net.SplitHostPort(address)
	if err != nil || host == "" {
		return false
	}
	n, err := strconv.Atoi(port)
	return err == nil && n >= 1 && n <= 65535
}

// userAgentTransport sets a User-Agent on requests that lack one.
type userAgentTransport struct {
	base      http.RoundTripper
	userAgent string
}

// RoundTrip implements http.RoundTripper.
func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return t.base.RoundTrip(req)
	}
	clone := req.Clone(req.Context())
	clone.Header.Set("User-Agent", t.userAgent)
	return t.base.RoundTrip(clone)
}

// jsonEndpoint issues GET requests against one JSON API.
type jsonEndpoint struct {
	baseURL   *url.URL
	client    *http.Client
	limiter   *RateLimiter
	authorize func(*http.Request)
}

func newJSONEndpoint(rawBase string, client *http.Client, limiter *RateLimiter) (*jsonEndpoint, error) {
	u, err := url.Parse(strings.TrimRight(rawBase, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", rawBase, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: scheme and host are required", rawBase)
	}
	return &jsonEndpoint{baseURL: u, client: client, limiter: limiter}, nil
}

// get fetches path with query and parses the body as JSON.
func (e *jsonEndpoint) get(ctx context.Context, path string, query url.Values) (gjson.Result, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return gjson.Result{}, fmt.Errorf("rate limit wait: %w", err)
	}

	u := e.baseURL.JoinPath(path)
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if e.authorize != nil {
		e.authorize(req)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if err := e.limiter.CheckRateLimit(resp); err != nil {
		return gjson.Result{}, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return gjson.Result{}, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return gjson.Result{}, &APIError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(body),
			URL:        redactURL(u),
		}
	}

	if !gjson.ValidBytes(body) {
		return gjson.Result{}, ErrMalformedResponse
	}
	return gjson.ParseBytes(body), nil
}

// errorMessage extracts a short message from an error body.
func errorMessage(body []byte) string {
	if gjson.ValidBytes(body) {
		for _, path := range []string{"message", "error", "detail"} {
			if msg := gjson.GetBytes(body, path); msg.Type == gjson.String && msg.Str != "" {
				return truncate(msg.Str, maxErrorMessage)
			}
		}
	}
	return truncate(strings.TrimSpace(string(body)), maxErrorMessage)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// redactURL drops user info from u for error messages.
func redactURL(u *url.URL) string {
	c := *u
	c.User = nil
	return c.String()
}

// basicAuth returns an authorize func sending HTTP basic credentials.
func basicAuth(username, password string) func(*http.Request) {
	return func(req *http.Request) {
		req.SetBasicAuth(username, password)
	}
}

// bearerAuth returns an authorize func sending a bearer token, or nil if token is empty.
func bearerAuth(token string) func(*http.Request) {
	if token == "" {
		return nil
	}
	return func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}
