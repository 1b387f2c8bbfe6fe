package crypto

import (
	"crypto/rand"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/box"
)

// NewNonce reads a fresh box nonce from r. A nil r uses crypto/rand.
func NewNonce(r io.Reader) (*[NonceSize]byte, error) {
	if r == nil {
		r = rand.Reader
	}

	var nonce [NonceSize]byte
	if _, err := io.ReadFull(r, nonce[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEntropy, err)
	}
	return &nonce, nil
}

// Precompute derives the shared key for secretKey and peerPublicKey.
func Precompute(secretKey, peerPublicKey []byte) ([]byte, error) {
	sk, pk, err := keyArrays(secretKey, peerPublicKey)
	if err != nil {
		return nil, err
	}

	var shared [SharedKeySize]byte
	box.Precompute(&shared, pk, sk)
	return shared[:], nil
}

// Seal encrypts message for peerPublicKey with secretKey.
// Returns: nonce (24 bytes) || ciphertext || tag (16 bytes)
func Seal(r io.Reader, message, secretKey, peerPublicKey []byte) ([]byte, error) {
	sk, pk, err := keyArrays(secretKey, peerPublicKey)
	if err != nil {
		return nil, err
	}

	nonce, err := NewNonce(r)
	if err != nil {
		return nil, err
	}

	return box.Seal(nonce[:], message, nonce, pk, sk), nil
}

// Open authenticates and decrypts a message produced by Seal.
func Open(sealed, secretKey, peerPublicKey []byte) ([]byte, error) {
	sk, pk, err := keyArrays(secretKey, peerPublicKey)
	if err != nil {
		return nil, err
	}

	nonce, ciphertext, err := SplitNonce(sealed)
	if err != nil {
		return nil, err
	}

	plaintext, ok := box.Open(nil, ciphertext, nonce, pk, sk)
	if !ok {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}

// SealPrecomputed encrypts message with a key from Precompute.
// Returns: nonce (24 bytes) || ciphertext || tag (16 bytes)
func SealPrecomputed(r io.Reader, message, sharedKey []byte) ([]byte, error) {
	shared, err := sharedArray(sharedKey)
	if err != nil {
		return nil, err
	}

	nonce, err := NewNonce(r)
	if err != nil {
		return nil, err
	}

	return box.SealAfterPrecomputation(nonce[:], message, nonce, shared), nil
}

// OpenPrecomputed authenticates and decrypts a message with a key from Precompute.
func OpenPrecomputed(sealed, sharedKey []byte) ([]byte, error) {
	shared, err := sharedArray(sharedKey)
	if err != nil {
		return nil, err
	}

	nonce, ciphertext, err := SplitNonce(sealed)
	if err != nil {
		return nil, err
	}

	plaintext, ok := box.OpenAfterPrecomputation(nil, ciphertext, nonce, shared)
	if !ok {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}

// SplitNonce separates the leading nonce from the box output.
func SplitNonce(sealed []byte) (*[NonceSize]byte, []byte, error) {
	if len(sealed) < NonceSize {
		return nil, nil, fmt.Errorf("%w: got %d bytes, need at least %d", ErrMessageTooShort, len(sealed), NonceSize)
	}

	var nonce [NonceSize]byte
	copy(nonce[:], sealed[:NonceSize])
	return &nonce, sealed[NonceSize:], nil
}

func keyArrays(secretKey, peerPublicKey []byte) (*[KeySize]byte, *[KeySize]byte, error) {
	if len(secretKey) != KeySize {
		return nil, nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidSecretKeySize, len(secretKey), KeySize)
	}
	if len(peerPublicKey) != KeySize {
		return nil, nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidPublicKeySize, len(peerPublicKey), KeySize)
	}

	var sk, pk [KeySize]byte
	copy(sk[:], secretKey)
	copy(pk[:], peerPublicKey)
	return &sk, &pk, nil
}

func sharedArray(sharedKey []byte) (*[SharedKeySize]byte, error) {
	if len(sharedKey) != SharedKeySize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidSharedKeySize, len(sharedKey), SharedKeySize)
	}

	var shared [SharedKeySize]byte
	copy(shared[:], sharedKey)
	return &shared, nil
}
