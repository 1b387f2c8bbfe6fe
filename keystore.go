package sealbox

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sealbox/client-go/internal/crypto"
	"github.com/sealbox/client-go/internal/kv"
)

// KeyValueStore is the textual storage behind a KeyStore. Get reports
// ok=false with a nil error for a missing key. Set overwrites.
type KeyValueStore interface {
	Set(ctx context.Context, key, value string) error
	Get(ctx context.Context, key string) (value string, ok bool, err error)
}

// MemoryStore is an in-process KeyValueStore.
type MemoryStore = kv.Memory

// FileStore is a KeyValueStore keeping one file per identity.
type FileStore = kv.File

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return kv.NewMemory()
}

// NewFileStore creates a file store rooted at dir, creating dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	return kv.NewFile(dir)
}

// KeyStore persists secret keys by identity. Keys are stored as
// comma-separated decimal byte values ("12,250,3,...").
//
// Storing a key for an identity that already has one replaces it; the old
// key cannot be recovered.
type KeyStore struct {
	kv     KeyValueStore
	logger *slog.Logger
}

// NewKeyStore creates a KeyStore over kv.
func NewKeyStore(kv KeyValueStore) *KeyStore {
	return &KeyStore{kv: kv, logger: slog.New(slog.DiscardHandler)}
}

// StoreSecretKey saves secretKey for identity.
func (s *KeyStore) StoreSecretKey(ctx context.Context, identity string, secretKey []byte) error {
	if err := validateIdentity(identity); err != nil {
		return err
	}
	if len(secretKey) != KeySize {
		return fmt.Errorf("%w: secret key is %d bytes, want %d", ErrInvalidKeySize, len(secretKey), KeySize)
	}

	if err := s.kv.Set(ctx, identity, BytesToString(secretKey)); err != nil {
		return fmt.Errorf("store secret key: %w", err)
	}
	s.logger.Debug("secret key stored", "identity", identity)
	return nil
}

// LoadSecretKey returns the secret key stored for identity. A missing entry
// yields a *KeyNotFoundError.
func (s *KeyStore) LoadSecretKey(ctx context.Context, identity string) ([]byte, error) {
	if err := validateIdentity(identity); err != nil {
		return nil, err
	}

	value, ok, err := s.kv.Get(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("load secret key: %w", err)
	}
	if !ok {
		return nil, &KeyNotFoundError{Identity: identity}
	}

	key, err := StringToBytes(value)
	if err != nil {
		return nil, err
	}
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: stored secret key is %d bytes, want %d", ErrInvalidKeySize, len(key), KeySize)
	}
	return key, nil
}

// BytesToString encodes b as comma-separated decimal values.
// An empty slice encodes to "".
func BytesToString(b []byte) string {
	return crypto.BytesToDecimalList(b)
}

// StringToBytes decodes the output of BytesToString. Anything other than a
// list of decimal values in 0..255 is rejected with ErrInvalidKeyEncoding.
func StringToBytes(s string) ([]byte, error) {
	b, err := crypto.DecimalListToBytes(s)
	if err != nil {
		return nil, wrapError(err)
	}
	return b, nil
}

func validateIdentity(identity string) error {
	if strings.TrimSpace(identity) == "" {
		return ErrInvalidIdentity
	}
	return nil
}
