package httpx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// DefaultUserAgent is sent with every request unless overridden.
// Yahoo rejects requests with Go's default agent.
const DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko)"

// Options configures a Client. The zero value is usable.
type Options struct {
	Timeout   time.Duration // per request, default 30s
	UserAgent string
	Proxy     string  // optional proxy URL
	RateLimit float64 // requests per second, 0 = unlimited
	Burst     int     // limiter burst, default 1
	Retries   int     // extra attempts on 5xx/429, 0 = none
	Backoff   time.Duration
}

// Client is the HTTP client shared by all data sources.
type Client struct {
	httpClient *http.Client
	transport  *transport
}

// transport applies the user agent, the rate limit and retries to every
// request, whichever client sends it.
type transport struct {
	base      http.RoundTripper
	userAgent string
	limiter   *rate.Limiter
	retries   int
	backoff   time.Duration
	log       zerolog.Logger
}

// New creates a Client from opts.
func New(opts Options, log zerolog.Logger) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	base := http.DefaultTransport.(*http.Transport).Clone()
	if opts.Proxy != "" {
		if u, err := url.Parse(opts.Proxy); err == nil {
			base.Proxy = http.ProxyURL(u)
		} else {
			log.Warn().Err(err).Str("proxy", opts.Proxy).Msg("ignoring invalid proxy url")
		}
	}
	t := &transport{
		base:      base,
		userAgent: opts.UserAgent,
		retries:   opts.Retries,
		backoff:   opts.Backoff,
		log:       log,
	}
	if t.userAgent == "" {
		t.userAgent = DefaultUserAgent
	}
	if t.backoff <= 0 {
		t.backoff = time.Second
	}
	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		t.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout, Transport: t},
		transport:  t,
	}
}

// Default returns a Client with default options and a disabled logger.
func Default() *Client { return New(Options{}, zerolog.Nop()) }

// HTTPClient returns a new *http.Client sharing c's transport and timeout,
// for libraries that take their own client. The limiter is shared too, so
// the rate limit holds across all of them.
func (c *Client) HTTPClient() *http.Client {
	return &http.Client{Timeout: c.httpClient.Timeout, Transport: c.transport}
}

// StatusError is returned by GetBody for non-2xx responses.
type StatusError struct {
	URL  string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	body := e.Body
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("GET %s: status %d: %s", e.URL, e.Code, body)
}

// Get performs a GET request. The caller must close the response body.
func (c *Client) Get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create GET request: %w", err)
	}
	return c.httpClient.Do(req)
}

// GetBody performs a GET request and returns the full body of a 2xx response.
func (c *Client) GetBody(ctx context.Context, rawURL string) ([]byte, error) {
	resp, err := c.Get(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body %s: %w", rawURL, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: rawURL, Code: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

// RoundTrip only retries requests without a body.
func (t *transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", t.userAgent)
	}
	retries := t.retries
	if req.Body != nil && req.Body != http.NoBody {
		retries = 0
	}

	start := time.Now()
	delay := t.backoff
	var (
		resp *http.Response
		err  error
	)
	for attempt := 0; ; attempt++ {
		if t.limiter != nil {
			if err := t.limiter.Wait(req.Context()); err != nil {
				return nil, fmt.Errorf("rate limit wait: %w", err)
			}
		}
		resp, err = t.base.RoundTrip(req)
		if attempt >= retries || !retryable(resp, err) || req.Context().Err() != nil {
			break
		}
		if resp != nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}
		t.log.Warn().Int("attempt", attempt+1).Dur("delay", delay).Str("url", req.URL.String()).Msg("retrying request")
		select {
		case <-req.Context().Done():
			return nil, req.Context().Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	if err != nil {
		t.log.Debug().Err(err).Str("url", req.URL.String()).Dur("duration", time.Since(start)).Msg("request failed")
		return nil, err
	}
	t.log.Debug().Str("url", req.URL.String()).Int("status", resp.StatusCode).Dur("duration", time.Since(start)).Msg("request completed")
	return resp, nil
}

func retryable(resp *http.Response, err error) bool {
	if err != nil {
		return true
	}
	return resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
}
