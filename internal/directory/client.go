package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/sealbox/client-go/internal/crypto"
)

const (
	// DefaultTimeout is the default HTTP client timeout.
	DefaultTimeout = 30 * time.Second
	// DefaultRateLimit is the default sustained request rate per second.
	DefaultRateLimit = 10
	// DefaultRateBurst is the default token bucket size.
	DefaultRateBurst = 20

	maxErrorBody = 64 << 10
)

// Client talks to a remote public-key directory over HTTP.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	retry      *RetryPolicy
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// Option configures the directory client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithRetryPolicy replaces the retry policy.
func WithRetryPolicy(p *RetryPolicy) Option {
	return func(c *Client) {
		if p != nil {
			c.retry = p
		}
	}
}

// WithRateLimit sets the client-side token bucket. A non-positive rps
// disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithLogger sets the logger used for retry diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a directory client for baseURL. The token may be empty for
// directories without authentication.
func New(baseURL, token string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("directory: base URL is required")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("directory: invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("directory: unsupported URL scheme %q", u.Scheme)
	}

	c := &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		retry:      DefaultRetryPolicy(),
		limiter:    rate.NewLimiter(DefaultRateLimit, DefaultRateBurst),
		logger:     slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetPublicKey fetches the key published for identity.
func (c *Client) GetPublicKey(ctx context.Context, identity string) ([]byte, error) {
	var record PublicKeyRecord
	if err := c.Do(ctx, http.MethodGet, publicKeyPath(identity), nil, &record); err != nil {
		return nil, err
	}

	key, err := crypto.DecimalListToBytes(record.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}
	if len(key) != crypto.KeySize {
		return nil, fmt.Errorf("%w: got %d bytes", ErrInvalidPublicKey, len(key))
	}
	return key, nil
}

// SetPublicKey publishes key for identity.
func (c *Client) SetPublicKey(ctx context.Context, identity string, key []byte) error {
	if len(key) != crypto.KeySize {
		return fmt.Errorf("%w: got %d bytes", ErrInvalidPublicKey, len(key))
	}
	record := PublicKeyRecord{
		Identity:  identity,
		PublicKey: crypto.BytesToDecimalList(key),
	}
	return c.Do(ctx, http.MethodPut, publicKeyPath(identity), record, nil)
}

// Do performs a JSON request with retries and rate limiting. A nil result
// discards the response body.
func (c *Client) Do(ctx context.Context, method, path string, body, result any) error {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		payload = data
	}

	target := c.baseURL + path
	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := c.newRequest(ctx, method, target, payload)
		if err != nil {
			return err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if c.retry.Allows(attempt, 0) {
				c.logger.Debug("directory request failed, retrying",
					"method", method, "attempt", attempt+1, "error", err)
				if werr := c.retry.Sleep(ctx, attempt); werr != nil {
					return werr
				}
				continue
			}
			return &NetworkError{Err: err, URL: target, Attempt: attempt + 1}
		}

		if resp.StatusCode >= 400 && c.retry.Allows(attempt, resp.StatusCode) {
			drain(resp)
			c.logger.Debug("directory returned retryable status",
				"method", method, "status", resp.StatusCode, "attempt", attempt+1)
			if werr := c.retry.Sleep(ctx, attempt); werr != nil {
				return werr
			}
			continue
		}

		return handleResponse(resp, result)
	}
}

func (c *Client) newRequest(ctx context.Context, method, target string, payload []byte) (*http.Request, error) {
	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func handleResponse(resp *http.Response, result any) error {
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return parseErrorResponse(resp)
	}

	if result == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to decode response: empty body")
		}
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func parseErrorResponse(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    errResp.Error,
			RequestID:  errResp.RequestID,
		}
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    strings.TrimSpace(string(body)),
	}
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	resp.Body.Close()
}

func pathEscape(s string) string {
	return url.PathEscape(s)
}
