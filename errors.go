package sealbox

import (
	"errors"
	"fmt"

	"github.com/sealbox/client-go/internal/crypto"
	"github.com/sealbox/client-go/internal/directory"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrSerialization is returned when a payload cannot be encoded as JSON.
	ErrSerialization = errors.New("payload is not JSON serializable")

	// ErrMalformedMessage is returned when an encoded message is not valid
	// base64 or is shorter than a nonce once decoded.
	ErrMalformedMessage = errors.New("malformed message")

	// ErrDecryptionFailed is returned when authentication of a message fails:
	// wrong key, wrong peer, or tampered nonce or ciphertext.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrPayloadFormat is returned when an authenticated plaintext is not
	// valid UTF-8 JSON.
	ErrPayloadFormat = errors.New("decrypted payload is not valid JSON")

	// ErrKeyNotFound is returned when no secret key is stored for an identity.
	ErrKeyNotFound = errors.New("secret key not found")

	// ErrEntropyUnavailable is returned when the random source fails.
	// Callers should treat it as fatal.
	ErrEntropyUnavailable = errors.New("secure random source unavailable")

	// ErrInvalidKeySize is returned when key material has the wrong length.
	ErrInvalidKeySize = errors.New("invalid key size")

	// ErrInvalidKeyEncoding is returned when a stored key is not a decimal byte list.
	ErrInvalidKeyEncoding = errors.New("invalid stored key encoding")

	// ErrMissingKeyMaterial is returned when Encrypt or Decrypt receives nil
	// key material.
	ErrMissingKeyMaterial = errors.New("key material is required")

	// ErrInvalidIdentity is returned when an identity is empty.
	ErrInvalidIdentity = errors.New("identity is required")

	// ErrMissingKeyStore is returned when a client is built without key storage.
	ErrMissingKeyStore = errors.New("key store is required")

	// ErrMissingDirectory is returned when an operation needs the public-key
	// directory and none is configured.
	ErrMissingDirectory = errors.New("public key directory is not configured")

	// ErrPublicKeyNotFound is returned when the directory has no key for an identity.
	ErrPublicKeyNotFound = errors.New("public key not found")

	// ErrUnauthorized is returned when the directory rejects the credentials.
	ErrUnauthorized = errors.New("directory rejected credentials")

	// ErrRateLimited is returned when the directory rate limit is exceeded.
	ErrRateLimited = errors.New("rate limit exceeded")
)

// SealboxError is implemented by all typed errors of this package.
type SealboxError interface {
	error
	SealboxError() // marker method
}

// SerializationError reports a payload that json.Marshal rejected.
// No cryptographic operation runs when this error is returned.
type SerializationError struct {
	Err error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("serialize payload: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *SerializationError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *SerializationError) Is(target error) bool {
	return target == ErrSerialization
}

// SealboxError implements the SealboxError interface.
func (e *SerializationError) SealboxError() {}

// MalformedMessageError reports an encoded message that cannot hold a nonce.
type MalformedMessageError struct {
	// Length is the decoded length, or -1 when base64 decoding failed.
	Length int
	Err    error
}

func (e *MalformedMessageError) Error() string {
	if e.Length < 0 {
		return fmt.Sprintf("malformed message: %v", e.Err)
	}
	return fmt.Sprintf("malformed message: decoded %d bytes, need at least %d", e.Length, NonceSize)
}

// Unwrap returns the underlying error.
func (e *MalformedMessageError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *MalformedMessageError) Is(target error) bool {
	return target == ErrMalformedMessage
}

// SealboxError implements the SealboxError interface.
func (e *MalformedMessageError) SealboxError() {}

// DecryptionError represents a failure to authenticate a message.
type DecryptionError struct {
	Mode string // "shared-key", "key-agreement"
	Err  error
}

func (e *DecryptionError) Error() string {
	return fmt.Sprintf("decryption failed (%s): %v", e.Mode, e.Err)
}

// Unwrap returns the underlying error.
func (e *DecryptionError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *DecryptionError) Is(target error) bool {
	return target == ErrDecryptionFailed
}

// SealboxError implements the SealboxError interface.
func (e *DecryptionError) SealboxError() {}

// PayloadFormatError reports an authenticated plaintext that is not JSON.
// It is distinct from DecryptionError: the key was right, the content was not.
type PayloadFormatError struct {
	Stage string // "utf8", "json", "unmarshal"
	Err   error
}

func (e *PayloadFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid payload at %s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("invalid payload at %s", e.Stage)
}

// Unwrap returns the underlying error.
func (e *PayloadFormatError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *PayloadFormatError) Is(target error) bool {
	return target == ErrPayloadFormat
}

// SealboxError implements the SealboxError interface.
func (e *PayloadFormatError) SealboxError() {}

// KeyNotFoundError reports an identity without a stored secret key.
type KeyNotFoundError struct {
	Identity string
}

func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("secret key not found for identity %q", e.Identity)
}

// Is implements errors.Is for sentinel error matching.
func (e *KeyNotFoundError) Is(target error) bool {
	return target == ErrKeyNotFound
}

// SealboxError implements the SealboxError interface.
func (e *KeyNotFoundError) SealboxError() {}

// EntropyUnavailableError reports a failing random source.
type EntropyUnavailableError struct {
	Err error
}

func (e *EntropyUnavailableError) Error() string {
	return fmt.Sprintf("secure random source unavailable: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *EntropyUnavailableError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *EntropyUnavailableError) Is(target error) bool {
	return target == ErrEntropyUnavailable
}

// SealboxError implements the SealboxError interface.
func (e *EntropyUnavailableError) SealboxError() {}

// APIError represents an HTTP error from the public-key directory.
type APIError struct {
	StatusCode int
	Message    string
	RequestID  string // if returned by server
}

func (e *APIError) Error() string {
	if e.RequestID != "" {
		if e.Message != "" {
			return fmt.Sprintf("directory error %d: %s (request_id: %s)", e.StatusCode, e.Message, e.RequestID)
		}
		return fmt.Sprintf("directory error %d (request_id: %s)", e.StatusCode, e.RequestID)
	}
	if e.Message != "" {
		return fmt.Sprintf("directory error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("directory error %d", e.StatusCode)
}

// SealboxError implements the SealboxError interface.
func (e *APIError) SealboxError() {}

// Is implements errors.Is for sentinel error matching.
func (e *APIError) Is(target error) bool {
	switch e.StatusCode {
	case 401, 403:
		return target == ErrUnauthorized
	case 404:
		return target == ErrPublicKeyNotFound
	case 429:
		return target == ErrRateLimited
	}
	return false
}

// NetworkError represents a network-level failure talking to the directory.
type NetworkError struct {
	Err     error
	URL     string
	Attempt int
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// SealboxError implements the SealboxError interface.
func (e *NetworkError) SealboxError() {}

// wrapError converts internal errors to public errors.
// This ensures that errors.Is() checks work with public sentinel errors.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, crypto.ErrEntropy):
		return &EntropyUnavailableError{Err: err}
	case errors.Is(err, crypto.ErrInvalidSecretKeySize),
		errors.Is(err, crypto.ErrInvalidPublicKeySize),
		errors.Is(err, crypto.ErrInvalidSharedKeySize):
		return fmt.Errorf("%w: %v", ErrInvalidKeySize, err)
	case errors.Is(err, crypto.ErrInvalidEncoding):
		return fmt.Errorf("%w: %v", ErrInvalidKeyEncoding, err)
	case errors.Is(err, directory.ErrInvalidPublicKey):
		return fmt.Errorf("%w: %v", ErrInvalidKeySize, err)
	}

	var apiErr *directory.APIError
	if errors.As(err, &apiErr) {
		return &APIError{
			StatusCode: apiErr.StatusCode,
			Message:    apiErr.Message,
			RequestID:  apiErr.RequestID,
		}
	}

	var netErr *directory.NetworkError
	if errors.As(err, &netErr) {
		return &NetworkError{
			Err:     netErr.Err,
			URL:     netErr.URL,
			Attempt: netErr.Attempt,
		}
	}

	if errors.Is(err, directory.ErrPublicKeyNotFound) {
		return fmt.Errorf("%w: %v", ErrPublicKeyNotFound, err)
	}

	return err
}
