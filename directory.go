package sealbox

import (
	"context"

	"github.com/sealbox/client-go/internal/directory"
)

// PublicKeyDirectory publishes and looks up public keys by identity.
// GetPublicKey returns an error matching ErrPublicKeyNotFound when no key is
// published for the identity.
type PublicKeyDirectory interface {
	GetPublicKey(ctx context.Context, identity string) ([]byte, error)
	SetPublicKey(ctx context.Context, identity string, key []byte) error
}

// MemoryDirectory is an in-process PublicKeyDirectory.
type MemoryDirectory = directory.Memory

// NewMemoryDirectory creates an empty in-process directory.
func NewMemoryDirectory() *MemoryDirectory {
	return directory.NewMemory()
}

var (
	_ PublicKeyDirectory = (*directory.Memory)(nil)
	_ PublicKeyDirectory = (*directory.Client)(nil)
)
