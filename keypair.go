package sealbox

import (
	"crypto/rand"
	"crypto/sha256"
	"io"

	"github.com/mr-tron/base58"

	"github.com/sealbox/client-go/internal/crypto"
)

// Sizes of the box construction, in bytes.
const (
	KeySize       = crypto.KeySize
	SharedKeySize = crypto.SharedKeySize
	NonceSize     = crypto.NonceSize
	Overhead      = crypto.Overhead
)

// KeyPair is an X25519 key pair. Both halves come from a single generation
// call and are never valid on their own.
type KeyPair struct {
	// PublicKey is published to the directory for peers to discover.
	PublicKey []byte
	// SecretKey never leaves the local key store.
	SecretKey []byte
}

// Fingerprint returns the fingerprint of the pair's public key.
func (k *KeyPair) Fingerprint() string {
	return Fingerprint(k.PublicKey)
}

// KeyPairGenerator produces fresh key pairs from a secure random source.
type KeyPairGenerator struct {
	rand io.Reader
}

// NewKeyPairGenerator returns a generator reading entropy from r.
// A nil r uses crypto/rand.
func NewKeyPairGenerator(r io.Reader) *KeyPairGenerator {
	if r == nil {
		r = rand.Reader
	}
	return &KeyPairGenerator{rand: r}
}

// Generate creates a new key pair. A failing random source yields an
// *EntropyUnavailableError, which callers should treat as fatal.
func (g *KeyPairGenerator) Generate() (*KeyPair, error) {
	kp, err := crypto.GenerateKeypair(g.rand)
	if err != nil {
		return nil, wrapError(err)
	}
	return &KeyPair{PublicKey: kp.PublicKey, SecretKey: kp.SecretKey}, nil
}

// GenerateKeyPair creates a new key pair using crypto/rand.
func GenerateKeyPair() (*KeyPair, error) {
	return NewKeyPairGenerator(nil).Generate()
}

// KeyPairFromSecretKey rebuilds a key pair from a stored secret key by
// recomputing its public key.
func KeyPairFromSecretKey(secretKey []byte) (*KeyPair, error) {
	kp, err := crypto.KeypairFromSecretKey(secretKey)
	if err != nil {
		return nil, wrapError(err)
	}
	return &KeyPair{PublicKey: kp.PublicKey, SecretKey: kp.SecretKey}, nil
}

// Fingerprint returns a short base58 identifier for a public key: the first
// 8 bytes of its SHA-256 digest. It is safe to log and display.
func Fingerprint(publicKey []byte) string {
	sum := sha256.Sum256(publicKey)
	return base58.Encode(sum[:8])
}
