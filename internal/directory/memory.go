package directory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/sealbox/client-go/internal/crypto"
)

// Memory is an in-process public-key directory.
type Memory struct {
	mu   sync.RWMutex
	keys map[string][]byte
}

// NewMemory creates an empty directory.
func NewMemory() *Memory {
	return &Memory{keys: make(map[string][]byte)}
}

// GetPublicKey returns a copy of the key published for identity.
func (m *Memory) GetPublicKey(ctx context.Context, identity string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	key, ok := m.keys[identity]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrPublicKeyNotFound, identity)
	}
	return slices.Clone(key), nil
}

// SetPublicKey publishes key for identity, replacing any previous key.
func (m *Memory) SetPublicKey(ctx context.Context, identity string, key []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(key) != crypto.KeySize {
		return fmt.Errorf("%w: got %d bytes", ErrInvalidPublicKey, len(key))
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys[identity] = slices.Clone(key)
	return nil
}
