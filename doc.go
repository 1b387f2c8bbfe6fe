// Package sealbox provides per-identity key management and authenticated
// encryption of JSON payloads using the NaCl box construction
// (X25519 key agreement with XSalsa20-Poly1305).
//
// Each identity owns one key pair. The secret key stays in a local key
// store; the public key is published to a directory where peers look it up.
//
// Basic usage:
//
//	client, err := sealbox.New(
//	    sealbox.WithKeyStoreDir("/var/lib/sealbox/keys"),
//	    sealbox.WithDirectoryURL("https://keys.example.com", token),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Create and publish a key pair
//	if _, err := client.Register(ctx, "alice@example.com"); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Seal a payload for a peer
//	msg, err := client.EncryptFor(ctx, "alice@example.com", "bob@example.com", map[string]any{"hi": 1})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Messages can also be sealed directly with a [Messenger] and explicit
// [KeyMaterial]: either a [KeyAgreement] carrying a secret key and a peer
// public key, or a [SharedKey] precomputed once per peer with [Precompute].
// Both modes produce and accept identical encoded messages.
//
// # Wire Format
//
// An encoded message is standard base64, with padding, of
//
//	nonce (24 bytes) || box (len(payload) + 16 bytes)
//
// where payload is the UTF-8 JSON serialization of the value passed to
// Encrypt. Every call draws a fresh random nonce.
//
// # Errors
//
// Failures are reported with typed errors that match sentinel values via
// errors.Is: [ErrSerialization], [ErrMalformedMessage], [ErrDecryptionFailed],
// [ErrPayloadFormat], [ErrKeyNotFound] and [ErrEntropyUnavailable]. Decryption
// never returns a zero value in place of an error.
package sealbox
