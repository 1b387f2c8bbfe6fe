package sealbox

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"

	"github.com/sealbox/client-go/internal/directory"
	"github.com/sealbox/client-go/internal/kv"
	"github.com/sealbox/client-go/internal/logging"
	"github.com/sealbox/client-go/internal/metrics"
)

// Client ties key generation, local key storage and the public-key
// directory together so messages can be addressed by identity.
//
// A Client is safe for concurrent use.
type Client struct {
	generator *KeyPairGenerator
	messenger *Messenger
	keys      *KeyStore
	directory PublicKeyDirectory
	logger    *slog.Logger
	metrics   *metrics.Collector
}

// New creates a client. A key store is required: pass WithKeyValueStore or
// WithKeyStoreDir. A directory is needed for Register and the
// identity-addressed methods.
func New(opts ...Option) (*Client, error) {
	cfg := newConfig(opts)

	store, err := buildKeyValueStore(cfg)
	if err != nil {
		return nil, err
	}

	logger := logging.Wrap(cfg.logger)

	dir, err := buildDirectory(cfg, logger)
	if err != nil {
		return nil, err
	}

	collector, err := metrics.New(cfg.registerer)
	if err != nil {
		return nil, err
	}

	keys := NewKeyStore(store)
	keys.logger = logger

	return &Client{
		generator: NewKeyPairGenerator(cfg.rand),
		messenger: newMessenger(cfg.rand, logger, collector),
		keys:      keys,
		directory: dir,
		logger:    logger,
		metrics:   collector,
	}, nil
}

// buildKeyValueStore resolves the key-value backend from the config.
func buildKeyValueStore(cfg *clientConfig) (KeyValueStore, error) {
	if cfg.kv != nil {
		return cfg.kv, nil
	}
	if cfg.keyStoreDir != "" {
		store, err := kv.NewFile(cfg.keyStoreDir)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
	return nil, ErrMissingKeyStore
}

// buildDirectory resolves the public-key directory from the config.
// It returns nil when none is configured.
func buildDirectory(cfg *clientConfig, logger *slog.Logger) (PublicKeyDirectory, error) {
	if cfg.directory != nil {
		return cfg.directory, nil
	}
	if cfg.directoryURL == "" {
		return nil, nil
	}

	dirOpts := []directory.Option{
		directory.WithLogger(logger),
	}
	if cfg.httpClient != nil {
		dirOpts = append(dirOpts, directory.WithHTTPClient(cfg.httpClient))
	}
	dirOpts = append(dirOpts, directory.WithRetryPolicy(retryPolicy(cfg)))
	if cfg.rateLimitSet {
		dirOpts = append(dirOpts, directory.WithRateLimit(cfg.rateLimit, cfg.rateBurst))
	}

	client, err := directory.New(cfg.directoryURL, cfg.directoryToken, dirOpts...)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func retryPolicy(cfg *clientConfig) *directory.RetryPolicy {
	p := directory.DefaultRetryPolicy()
	if cfg.retries >= 0 {
		p.Retries = cfg.retries
	}
	if cfg.retryOn != nil {
		p.RetryOn = slices.Clone(cfg.retryOn)
	}
	if cfg.retryBackoff > 0 {
		p.Backoff = cfg.retryBackoff
	}
	if cfg.retryMax > 0 {
		p.MaxBackoff = cfg.retryMax
	}
	p.MaxBackoff = max(p.MaxBackoff, p.Backoff)
	return p
}

// Messenger returns the client's messenger for direct use with KeyMaterial.
func (c *Client) Messenger() *Messenger {
	return c.messenger
}

// KeyStore returns the client's local key store.
func (c *Client) KeyStore() *KeyStore {
	return c.keys
}

// Register creates a key pair for identity, stores the secret key locally
// and publishes the public key.
//
// Publishing is the last step, so a failure leaves nothing in the directory.
// A failed publish leaves the new secret key stored locally; calling
// Register again replaces it. Every failure is returned to the caller.
func (c *Client) Register(ctx context.Context, identity string) (*KeyPair, error) {
	if err := validateIdentity(identity); err != nil {
		return nil, err
	}
	if c.directory == nil {
		return nil, ErrMissingDirectory
	}

	kp, err := c.generator.Generate()
	if err != nil {
		c.metrics.Observe(metrics.OpKeygen, metrics.ResultEntropy)
		c.metrics.Observe(metrics.OpRegister, metrics.ResultEntropy)
		return nil, err
	}
	c.metrics.Observe(metrics.OpKeygen, metrics.ResultOK)

	if err := c.keys.StoreSecretKey(ctx, identity, kp.SecretKey); err != nil {
		c.metrics.Observe(metrics.OpRegister, metrics.ResultError)
		return nil, err
	}

	if err := c.directory.SetPublicKey(ctx, identity, kp.PublicKey); err != nil {
		c.metrics.Observe(metrics.OpRegister, metrics.ResultError)
		c.logger.Warn("publish public key failed", "identity", identity, "error", err)
		return nil, fmt.Errorf("publish public key: %w", wrapError(err))
	}

	c.metrics.Observe(metrics.OpRegister, metrics.ResultOK)
	c.logger.Info("identity registered", "identity", identity, "fingerprint", kp.Fingerprint())
	return kp, nil
}

// LocalKeyPair rebuilds the key pair for identity from its stored secret key.
func (c *Client) LocalKeyPair(ctx context.Context, identity string) (*KeyPair, error) {
	secretKey, err := c.keys.LoadSecretKey(ctx, identity)
	if err != nil {
		return nil, err
	}
	return KeyPairFromSecretKey(secretKey)
}

// PublicKey looks up the key published for identity.
func (c *Client) PublicKey(ctx context.Context, identity string) ([]byte, error) {
	if err := validateIdentity(identity); err != nil {
		return nil, err
	}
	if c.directory == nil {
		return nil, ErrMissingDirectory
	}

	key, err := c.directory.GetPublicKey(ctx, identity)
	if err != nil {
		c.metrics.Observe(metrics.OpLookup, metrics.ResultError)
		return nil, wrapError(err)
	}
	if len(key) != KeySize {
		c.metrics.Observe(metrics.OpLookup, metrics.ResultError)
		return nil, fmt.Errorf("%w: directory key for %q is %d bytes", ErrInvalidKeySize, identity, len(key))
	}
	c.metrics.Observe(metrics.OpLookup, metrics.ResultOK)
	return key, nil
}

// keyAgreement resolves the KeyAgreement between identity and peer.
func (c *Client) keyAgreement(ctx context.Context, identity, peer string) (KeyAgreement, error) {
	if err := validateIdentity(peer); err != nil {
		return KeyAgreement{}, err
	}

	secretKey, err := c.keys.LoadSecretKey(ctx, identity)
	if err != nil {
		return KeyAgreement{}, err
	}

	peerKey, err := c.PublicKey(ctx, peer)
	if err != nil {
		return KeyAgreement{}, err
	}
	return KeyAgreement{SecretKey: secretKey, PeerPublicKey: peerKey}, nil
}

// SharedKeyFor precomputes the shared key between identity's stored secret
// key and peer's published public key. Callers may cache the result.
func (c *Client) SharedKeyFor(ctx context.Context, identity, peer string) (SharedKey, error) {
	ka, err := c.keyAgreement(ctx, identity, peer)
	if err != nil {
		return SharedKey{}, err
	}
	return Precompute(ka.SecretKey, ka.PeerPublicKey)
}

// EncryptFor seals payload from identity to peer.
func (c *Client) EncryptFor(ctx context.Context, identity, peer string, payload any) (string, error) {
	ka, err := c.keyAgreement(ctx, identity, peer)
	if err != nil {
		return "", err
	}
	return c.messenger.Encrypt(ka, payload)
}

// DecryptFrom opens a message that peer sealed for identity.
func (c *Client) DecryptFrom(ctx context.Context, identity, peer, encoded string) (json.RawMessage, error) {
	ka, err := c.keyAgreement(ctx, identity, peer)
	if err != nil {
		return nil, err
	}
	return c.messenger.Decrypt(ka, encoded)
}

// DecryptFromInto opens a message that peer sealed for identity and
// unmarshals the payload into v.
func (c *Client) DecryptFromInto(ctx context.Context, identity, peer, encoded string, v any) error {
	ka, err := c.keyAgreement(ctx, identity, peer)
	if err != nil {
		return err
	}
	return c.messenger.DecryptInto(ka, encoded, v)
}
