package sealbox

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// clientConfig holds configuration for the client and messenger.
type clientConfig struct {
	rand io.Reader

	kv          KeyValueStore
	keyStoreDir string

	directory      PublicKeyDirectory
	directoryURL   string
	directoryToken string
	httpClient     *http.Client
	retries        int
	retryOn        []int
	retryBackoff   time.Duration
	retryMax       time.Duration
	rateLimit      float64
	rateBurst      int
	rateLimitSet   bool

	logger     *slog.Logger
	registerer prometheus.Registerer
}

// Option configures a Client or Messenger.
type Option func(*clientConfig)

func newConfig(opts []Option) *clientConfig {
	cfg := &clientConfig{retries: -1}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithRandReader sets the random source used for key generation and nonces.
// The reader must be safe for concurrent use. Default: crypto/rand.
func WithRandReader(r io.Reader) Option {
	return func(c *clientConfig) {
		c.rand = r
	}
}

// WithKeyValueStore sets the backend that persists secret keys.
func WithKeyValueStore(kv KeyValueStore) Option {
	return func(c *clientConfig) {
		c.kv = kv
	}
}

// WithKeyStoreDir persists secret keys as files below dir.
// It is ignored when WithKeyValueStore is also given.
func WithKeyStoreDir(dir string) Option {
	return func(c *clientConfig) {
		c.keyStoreDir = dir
	}
}

// WithDirectory sets the public-key directory.
func WithDirectory(dir PublicKeyDirectory) Option {
	return func(c *clientConfig) {
		c.directory = dir
	}
}

// WithDirectoryURL uses the HTTP directory at baseURL, authenticating with
// token when it is not empty. It is ignored when WithDirectory is also given.
func WithDirectoryURL(baseURL, token string) Option {
	return func(c *clientConfig) {
		c.directoryURL = baseURL
		c.directoryToken = token
	}
}

// WithHTTPClient sets the HTTP client used for the directory.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithRetries sets the number of retries for directory calls.
// Default: 3
func WithRetries(count int) Option {
	return func(c *clientConfig) {
		c.retries = count
	}
}

// WithRetryOn sets the HTTP status codes that trigger a retry.
// Transport errors are always retried.
// Default: [408, 429, 500, 502, 503, 504]
func WithRetryOn(statusCodes []int) Option {
	return func(c *clientConfig) {
		c.retryOn = statusCodes
	}
}

// WithRetryBackoff sets the wait before the first retry and the cap for
// later ones. Non-positive values keep the default.
// Default: 500ms, doubling up to 10s
func WithRetryBackoff(initial, maxWait time.Duration) Option {
	return func(c *clientConfig) {
		c.retryBackoff = initial
		c.retryMax = maxWait
	}
}

// WithRateLimit bounds directory requests to rps per second with the given
// burst. A non-positive rps disables limiting.
// Default: 10 per second, burst 20
func WithRateLimit(rps float64, burst int) Option {
	return func(c *clientConfig) {
		c.rateLimit = rps
		c.rateBurst = burst
		c.rateLimitSet = true
	}
}

// WithLogger sets the logger. Secret values and identities in log
// attributes are redacted before reaching it. Default: discard.
func WithLogger(logger *slog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithMetrics registers operation counters on reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *clientConfig) {
		c.registerer = reg
	}
}
