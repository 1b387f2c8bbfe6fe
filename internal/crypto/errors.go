package crypto

import "errors"

var (
	// ErrInvalidSecretKeySize is returned when the secret key size is invalid.
	ErrInvalidSecretKeySize = errors.New("invalid secret key size")

	// ErrInvalidPublicKeySize is returned when the public key size is invalid.
	ErrInvalidPublicKeySize = errors.New("invalid public key size")

	// ErrInvalidSharedKeySize is returned when a precomputed key has the wrong size.
	ErrInvalidSharedKeySize = errors.New("invalid shared key size")

	// ErrEntropy is returned when the random source fails to deliver bytes.
	ErrEntropy = errors.New("random source unavailable")

	// ErrMessageTooShort is returned when a sealed message cannot hold a nonce.
	ErrMessageTooShort = errors.New("message shorter than nonce")

	// ErrDecryptionFailed is returned when box authentication fails.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrInvalidEncoding is returned when a decimal byte list cannot be parsed.
	ErrInvalidEncoding = errors.New("invalid byte list encoding")
)
