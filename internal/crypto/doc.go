// Package crypto provides the cryptographic primitives behind sealbox.
// It wraps the NaCl box construction and the encodings used to move keys and
// sealed payloads around as text.
//
// # Algorithm Suite
//
//   - X25519 (RFC 7748): Diffie-Hellman key agreement between a local secret
//     key and a peer public key.
//
//   - XSalsa20-Poly1305: authenticated encryption. Box output is the
//     ciphertext followed by a 16-byte Poly1305 tag ([Overhead]).
//
// Both are provided by golang.org/x/crypto/nacl/box, which is wire compatible
// with TweetNaCl and libsodium's crypto_box.
//
// # Message Layout
//
// A sealed message is the 24-byte nonce followed by the box output:
//
//	nonce (24 bytes) || ciphertext || tag (16 bytes)
//
// Nonces MUST be fresh random values for every message. Reusing a nonce with
// the same key pair or shared key breaks both confidentiality and integrity.
// [Seal] and [SealPrecomputed] always draw the nonce from the supplied reader.
//
// # Key Management
//
// Use [GenerateKeypair] to create a new key pair. The public key can always
// be recomputed from the secret key with [KeypairFromSecretKey], so only the
// secret key needs to be persisted locally.
//
// [Precompute] derives the shared key for a (secret key, peer public key)
// pair once. Callers that exchange many messages with the same peer can keep
// it and use [SealPrecomputed]/[OpenPrecomputed] to skip the scalar
// multiplication on every message.
//
// # Encodings
//
//   - [ToBase64]/[DecodeBase64]: standard base64 with padding for sealed
//     messages, with a lenient decoder that also accepts the URL alphabet.
//
//   - [BytesToDecimalList]/[DecimalListToBytes]: comma-separated decimal
//     byte lists ("12,250,3") used to store keys as plain strings.
package crypto
