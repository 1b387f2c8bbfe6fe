package crypto

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/cloudflare/circl/dh/x25519"
	"golang.org/x/crypto/nacl/box"
)

// Keypair represents an X25519 key pair for the box construction.
type Keypair struct {
	// PublicKey is the raw X25519 public key bytes.
	PublicKey []byte
	// SecretKey is the raw X25519 secret key bytes.
	SecretKey []byte
}

// GenerateKeypair creates a new key pair from r. A nil r uses crypto/rand.
func GenerateKeypair(r io.Reader) (*Keypair, error) {
	if r == nil {
		r = rand.Reader
	}

	pub, priv, err := box.GenerateKey(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEntropy, err)
	}

	return &Keypair{
		PublicKey: pub[:],
		SecretKey: priv[:],
	}, nil
}

// KeypairFromSecretKey reconstructs a key pair from the secret key.
// The public key is recomputed by scalar base multiplication.
func KeypairFromSecretKey(secretKey []byte) (*Keypair, error) {
	publicKey, err := DerivePublicKeyFromSecret(secretKey)
	if err != nil {
		return nil, err
	}

	sk := make([]byte, KeySize)
	copy(sk, secretKey)

	return &Keypair{
		PublicKey: publicKey,
		SecretKey: sk,
	}, nil
}

// DerivePublicKeyFromSecret computes the public key matching secretKey.
// Returns an error if the secret key has an invalid size.
func DerivePublicKeyFromSecret(secretKey []byte) ([]byte, error) {
	if len(secretKey) != KeySize {
		return nil, ErrInvalidSecretKeySize
	}

	var secret, public x25519.Key
	copy(secret[:], secretKey)
	x25519.KeyGen(&public, &secret)

	publicKey := make([]byte, KeySize)
	copy(publicKey, public[:])
	return publicKey, nil
}
