package sealbox

import (
	"bytes"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"unicode/utf8"

	"github.com/sealbox/client-go/internal/crypto"
	"github.com/sealbox/client-go/internal/logging"
	"github.com/sealbox/client-go/internal/metrics"
)

// Messenger seals JSON payloads into encoded messages and opens them again.
// An encoded message is the standard base64 encoding, with padding, of the
// 24-byte nonce followed by the box output.
//
// A Messenger holds no keys; every call receives its KeyMaterial. It is safe
// for concurrent use when its random source is.
type Messenger struct {
	rand    io.Reader
	logger  *slog.Logger
	metrics *metrics.Collector
}

// NewMessenger creates a Messenger. Only WithRandReader, WithLogger and
// WithMetrics apply; other options are ignored.
func NewMessenger(opts ...Option) (*Messenger, error) {
	cfg := newConfig(opts)

	collector, err := metrics.New(cfg.registerer)
	if err != nil {
		return nil, err
	}
	return newMessenger(cfg.rand, logging.Wrap(cfg.logger), collector), nil
}

func newMessenger(r io.Reader, logger *slog.Logger, collector *metrics.Collector) *Messenger {
	if r == nil {
		r = rand.Reader
	}
	return &Messenger{rand: r, logger: logger, metrics: collector}
}

// Encrypt serializes payload to JSON and seals it with km.
//
// A payload that cannot be serialized yields a *SerializationError before
// any random bytes are read. A failing random source yields an
// *EntropyUnavailableError.
func (m *Messenger) Encrypt(km KeyMaterial, payload any) (string, error) {
	plaintext, err := marshalPayload(payload)
	if err != nil {
		m.metrics.Observe(metrics.OpEncrypt, metrics.ResultSerialization)
		return "", &SerializationError{Err: err}
	}

	km, err = resolveKeyMaterial(km)
	if err != nil {
		return "", err
	}

	var sealed []byte
	switch k := km.(type) {
	case SharedKey:
		sealed, err = crypto.SealPrecomputed(m.rand, plaintext, k[:])
	case KeyAgreement:
		sealed, err = crypto.Seal(m.rand, plaintext, k.SecretKey, k.PeerPublicKey)
	}
	if err != nil {
		err = wrapError(err)
		if errors.Is(err, ErrEntropyUnavailable) {
			m.metrics.Observe(metrics.OpEncrypt, metrics.ResultEntropy)
			m.logger.Error("random source failed", "error", err)
		} else {
			m.metrics.Observe(metrics.OpEncrypt, metrics.ResultError)
		}
		return "", err
	}

	m.metrics.Observe(metrics.OpEncrypt, metrics.ResultOK)
	m.metrics.ObservePayload(metrics.OpEncrypt, len(plaintext))
	m.logger.Debug("message sealed", "mode", km.keyMode(), "bytes", len(plaintext))
	return crypto.ToBase64(sealed), nil
}

// Decrypt opens encoded with km and returns the JSON payload.
//
// Errors, in the order they are checked:
//   - *MalformedMessageError: not base64, or shorter than a nonce
//   - *DecryptionError: authentication failed
//   - *PayloadFormatError: the plaintext is not UTF-8 JSON
func (m *Messenger) Decrypt(km KeyMaterial, encoded string) (json.RawMessage, error) {
	raw, err := crypto.DecodeBase64(encoded)
	if err != nil {
		m.metrics.Observe(metrics.OpDecrypt, metrics.ResultMalformed)
		return nil, &MalformedMessageError{Length: -1, Err: err}
	}
	if len(raw) < NonceSize {
		m.metrics.Observe(metrics.OpDecrypt, metrics.ResultMalformed)
		return nil, &MalformedMessageError{Length: len(raw), Err: crypto.ErrMessageTooShort}
	}

	km, err = resolveKeyMaterial(km)
	if err != nil {
		return nil, err
	}

	var plaintext []byte
	switch k := km.(type) {
	case SharedKey:
		plaintext, err = crypto.OpenPrecomputed(raw, k[:])
	case KeyAgreement:
		plaintext, err = crypto.Open(raw, k.SecretKey, k.PeerPublicKey)
	}
	if err != nil {
		if errors.Is(err, crypto.ErrDecryptionFailed) {
			m.metrics.Observe(metrics.OpDecrypt, metrics.ResultAuthFailed)
			m.logger.Warn("message authentication failed", "mode", km.keyMode())
			return nil, &DecryptionError{Mode: km.keyMode(), Err: err}
		}
		m.metrics.Observe(metrics.OpDecrypt, metrics.ResultError)
		return nil, wrapError(err)
	}

	if !utf8.Valid(plaintext) {
		m.metrics.Observe(metrics.OpDecrypt, metrics.ResultPayloadFormat)
		return nil, &PayloadFormatError{Stage: "utf8"}
	}
	var payload json.RawMessage
	if err := json.Unmarshal(plaintext, &payload); err != nil {
		m.metrics.Observe(metrics.OpDecrypt, metrics.ResultPayloadFormat)
		return nil, &PayloadFormatError{Stage: "json", Err: err}
	}

	m.metrics.Observe(metrics.OpDecrypt, metrics.ResultOK)
	m.metrics.ObservePayload(metrics.OpDecrypt, len(plaintext))
	m.logger.Debug("message opened", "mode", km.keyMode(), "bytes", len(plaintext))
	return payload, nil
}

// DecryptInto opens encoded with km and unmarshals the payload into v.
// A payload that does not fit v yields a *PayloadFormatError.
func (m *Messenger) DecryptInto(km KeyMaterial, encoded string, v any) error {
	payload, err := m.Decrypt(km, encoded)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return &PayloadFormatError{Stage: "unmarshal", Err: err}
	}
	return nil
}

// marshalPayload encodes payload as compact JSON. HTML characters are not
// escaped, so '<', '>' and '&' are sealed as-is.
func marshalPayload(payload any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// resolveKeyMaterial dereferences pointer variants and rejects nil.
func resolveKeyMaterial(km KeyMaterial) (KeyMaterial, error) {
	switch k := km.(type) {
	case SharedKey, KeyAgreement:
		return km, nil
	case *SharedKey:
		if k != nil {
			return *k, nil
		}
	case *KeyAgreement:
		if k != nil {
			return *k, nil
		}
	}
	return nil, fmt.Errorf("%w: got %T", ErrMissingKeyMaterial, km)
}
