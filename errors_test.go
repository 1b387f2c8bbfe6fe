package sealbox

import (
	"errors"
	"fmt"
	"testing"

	"github.com/sealbox/client-go/internal/crypto"
	"github.com/sealbox/client-go/internal/directory"
)

func TestSentinelErrors(t *testing.T) {
	sentinels := []struct {
		name string
		err  error
	}{
		{"ErrSerialization", ErrSerialization},
		{"ErrMalformedMessage", ErrMalformedMessage},
		{"ErrDecryptionFailed", ErrDecryptionFailed},
		{"ErrPayloadFormat", ErrPayloadFormat},
		{"ErrKeyNotFound", ErrKeyNotFound},
		{"ErrEntropyUnavailable", ErrEntropyUnavailable},
		{"ErrInvalidKeySize", ErrInvalidKeySize},
		{"ErrInvalidKeyEncoding", ErrInvalidKeyEncoding},
		{"ErrMissingKeyMaterial", ErrMissingKeyMaterial},
		{"ErrInvalidIdentity", ErrInvalidIdentity},
		{"ErrMissingKeyStore", ErrMissingKeyStore},
		{"ErrMissingDirectory", ErrMissingDirectory},
		{"ErrPublicKeyNotFound", ErrPublicKeyNotFound},
		{"ErrUnauthorized", ErrUnauthorized},
		{"ErrRateLimited", ErrRateLimited},
	}

	for _, s := range sentinels {
		t.Run(s.name, func(t *testing.T) {
			if s.err == nil {
				t.Fatal("sentinel error is nil")
			}
			if s.err.Error() == "" {
				t.Error("sentinel error has empty message")
			}
		})
	}
}

func TestTypedErrors_IsAndUnwrap(t *testing.T) {
	cause := errors.New("cause")

	tests := []struct {
		name     string
		err      error
		sentinel error
		unwraps  bool
	}{
		{"SerializationError", &SerializationError{Err: cause}, ErrSerialization, true},
		{"MalformedMessageError", &MalformedMessageError{Length: 3, Err: cause}, ErrMalformedMessage, true},
		{"DecryptionError", &DecryptionError{Mode: "shared-key", Err: cause}, ErrDecryptionFailed, true},
		{"PayloadFormatError", &PayloadFormatError{Stage: "json", Err: cause}, ErrPayloadFormat, true},
		{"KeyNotFoundError", &KeyNotFoundError{Identity: "alice"}, ErrKeyNotFound, false},
		{"EntropyUnavailableError", &EntropyUnavailableError{Err: cause}, ErrEntropyUnavailable, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("outer: %w", tt.err)
			if !errors.Is(wrapped, tt.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false", wrapped, tt.sentinel)
			}
			if got := errors.Is(tt.err, cause); got != tt.unwraps {
				t.Errorf("errors.Is(err, cause) = %v, want %v", got, tt.unwraps)
			}

			var se SealboxError
			if !errors.As(wrapped, &se) {
				t.Error("error does not implement SealboxError")
			}
		})
	}
}

func TestTypedErrors_DoNotCrossMatch(t *testing.T) {
	decErr := &DecryptionError{Mode: "key-agreement"}
	payloadErr := &PayloadFormatError{Stage: "utf8"}

	if errors.Is(decErr, ErrPayloadFormat) {
		t.Error("DecryptionError matched ErrPayloadFormat")
	}
	if errors.Is(payloadErr, ErrDecryptionFailed) {
		t.Error("PayloadFormatError matched ErrDecryptionFailed")
	}
}

func TestMalformedMessageError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *MalformedMessageError
		expected string
	}{
		{
			name:     "too short",
			err:      &MalformedMessageError{Length: 10},
			expected: "malformed message: decoded 10 bytes, need at least 24",
		},
		{
			name:     "not base64",
			err:      &MalformedMessageError{Length: -1, Err: errors.New("illegal base64 data")},
			expected: "malformed message: illegal base64 data",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestAPIError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *APIError
		expected string
	}{
		{"with message", &APIError{StatusCode: 401, Message: "bad token"}, "directory error 401: bad token"},
		{"without message", &APIError{StatusCode: 500}, "directory error 500"},
		{"with request ID", &APIError{StatusCode: 404, Message: "not found", RequestID: "req-1"}, "directory error 404: not found (request_id: req-1)"},
		{"with request ID only", &APIError{StatusCode: 500, RequestID: "req-2"}, "directory error 500 (request_id: req-2)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestAPIError_Is(t *testing.T) {
	tests := []struct {
		status int
		target error
		want   bool
	}{
		{401, ErrUnauthorized, true},
		{403, ErrUnauthorized, true},
		{404, ErrPublicKeyNotFound, true},
		{429, ErrRateLimited, true},
		{500, ErrUnauthorized, false},
		{404, ErrUnauthorized, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d", tt.status), func(t *testing.T) {
			err := &APIError{StatusCode: tt.status}
			if got := errors.Is(err, tt.target); got != tt.want {
				t.Errorf("errors.Is(%d, %v) = %v, want %v", tt.status, tt.target, got, tt.want)
			}
		})
	}
}

func TestWrapError(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		if wrapError(nil) != nil {
			t.Error("wrapError(nil) != nil")
		}
	})

	t.Run("entropy", func(t *testing.T) {
		err := wrapError(fmt.Errorf("%w: boom", crypto.ErrEntropy))
		var entropyErr *EntropyUnavailableError
		if !errors.As(err, &entropyErr) {
			t.Fatalf("wrapError() = %T, want *EntropyUnavailableError", err)
		}
	})

	t.Run("key sizes", func(t *testing.T) {
		for _, base := range []error{crypto.ErrInvalidSecretKeySize, crypto.ErrInvalidPublicKeySize, crypto.ErrInvalidSharedKeySize} {
			if err := wrapError(base); !errors.Is(err, ErrInvalidKeySize) {
				t.Errorf("wrapError(%v) = %v, want ErrInvalidKeySize", base, err)
			}
		}
	})

	t.Run("encoding", func(t *testing.T) {
		if err := wrapError(crypto.ErrInvalidEncoding); !errors.Is(err, ErrInvalidKeyEncoding) {
			t.Errorf("wrapError() = %v, want ErrInvalidKeyEncoding", err)
		}
	})

	t.Run("invalid directory key", func(t *testing.T) {
		in := fmt.Errorf("%w: got 3 bytes", directory.ErrInvalidPublicKey)
		if err := wrapError(in); !errors.Is(err, ErrInvalidKeySize) {
			t.Errorf("wrapError() = %v, want ErrInvalidKeySize", err)
		}
	})

	t.Run("directory API error", func(t *testing.T) {
		in := fmt.Errorf("get: %w", &directory.APIError{StatusCode: 404, Message: "gone", RequestID: "r"})
		err := wrapError(in)
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("wrapError() = %T, want *APIError", err)
		}
		if apiErr.StatusCode != 404 || apiErr.Message != "gone" || apiErr.RequestID != "r" {
			t.Errorf("APIError = %+v", apiErr)
		}
		if !errors.Is(err, ErrPublicKeyNotFound) {
			t.Error("404 does not match ErrPublicKeyNotFound")
		}
	})

	t.Run("directory network error", func(t *testing.T) {
		cause := errors.New("refused")
		err := wrapError(&directory.NetworkError{Err: cause, URL: "http://x", Attempt: 2})
		var netErr *NetworkError
		if !errors.As(err, &netErr) {
			t.Fatalf("wrapError() = %T, want *NetworkError", err)
		}
		if netErr.Attempt != 2 || !errors.Is(err, cause) {
			t.Errorf("NetworkError = %+v", netErr)
		}
	})

	t.Run("memory directory miss", func(t *testing.T) {
		err := wrapError(fmt.Errorf("%w: %q", directory.ErrPublicKeyNotFound, "bob"))
		if !errors.Is(err, ErrPublicKeyNotFound) {
			t.Errorf("wrapError() = %v, want ErrPublicKeyNotFound", err)
		}
	})

	t.Run("passthrough", func(t *testing.T) {
		other := errors.New("other")
		if wrapError(other) != other {
			t.Error("unrelated error was rewritten")
		}
	})
}
