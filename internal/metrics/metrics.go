// Package metrics records counters for key generation, encryption and
// decryption on a caller-supplied prometheus registerer.
//
// A nil *Collector is valid and records nothing.
package metrics

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Operation labels.
const (
	OpKeygen   = "keygen"
	OpEncrypt  = "encrypt"
	OpDecrypt  = "decrypt"
	OpRegister = "register"
	OpLookup   = "lookup"
)

// Result labels.
const (
	ResultOK            = "ok"
	ResultSerialization = "serialization_error"
	ResultEntropy       = "entropy_error"
	ResultMalformed     = "malformed"
	ResultAuthFailed    = "auth_failed"
	ResultPayloadFormat = "payload_format"
	ResultError         = "error"
)

// Collector holds the sealbox metric vectors.
type Collector struct {
	operations *prometheus.CounterVec
	payload    *prometheus.HistogramVec
}

// New registers the sealbox metrics on reg. Registering twice on the same
// registerer returns a collector sharing the existing vectors.
func New(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		return nil, nil
	}

	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sealbox",
		Name:      "operations_total",
		Help:      "Cryptographic operations by operation and result.",
	}, []string{"op", "result"})

	payload := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "sealbox",
		Name:      "payload_bytes",
		Help:      "Plaintext payload size in bytes.",
		Buckets:   prometheus.ExponentialBuckets(64, 4, 8),
	}, []string{"op"})

	var err error
	if operations, err = register(reg, operations); err != nil {
		return nil, err
	}
	if payload, err = register(reg, payload); err != nil {
		return nil, err
	}

	return &Collector{operations: operations, payload: payload}, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		var zero T
		return zero, fmt.Errorf("metrics: register: %w", err)
	}
	return c, nil
}

// Observe counts one operation with its result.
func (c *Collector) Observe(op, result string) {
	if c == nil {
		return
	}
	c.operations.WithLabelValues(op, result).Inc()
}

// ObservePayload records a plaintext size.
func (c *Collector) ObservePayload(op string, n int) {
	if c == nil {
		return
	}
	c.payload.WithLabelValues(op).Observe(float64(n))
}
