package sealbox

import (
	"github.com/sealbox/client-go/internal/crypto"
)

// KeyMaterial selects how a message is sealed or opened. It has exactly two
// variants: SharedKey and KeyAgreement.
type KeyMaterial interface {
	keyMode() string
}

// SharedKey is a key precomputed from a local secret key and a peer public
// key. Reusing it skips key agreement on every message. Callers own any
// caching; this package never stores shared keys.
type SharedKey [SharedKeySize]byte

func (SharedKey) keyMode() string { return "shared-key" }

// KeyAgreement performs key agreement between SecretKey and PeerPublicKey on
// every call.
type KeyAgreement struct {
	SecretKey     []byte
	PeerPublicKey []byte
}

func (KeyAgreement) keyMode() string { return "key-agreement" }

// Precompute derives the SharedKey for secretKey and peerPublicKey.
// Both sides of a conversation derive the same value.
func Precompute(secretKey, peerPublicKey []byte) (SharedKey, error) {
	var shared SharedKey
	raw, err := crypto.Precompute(secretKey, peerPublicKey)
	if err != nil {
		return shared, wrapError(err)
	}
	copy(shared[:], raw)
	return shared, nil
}

// SharedKeyFromBytes converts raw bytes into a SharedKey.
func SharedKeyFromBytes(b []byte) (SharedKey, error) {
	var shared SharedKey
	if len(b) != SharedKeySize {
		return shared, ErrInvalidKeySize
	}
	copy(shared[:], b)
	return shared, nil
}
