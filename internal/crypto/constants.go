package crypto

const (
	// KeySize is the size of an X25519 public or secret key in bytes.
	KeySize = 32
	// SharedKeySize is the size of a precomputed box shared key in bytes.
	SharedKeySize = 32
	// NonceSize is the size of a box nonce in bytes.
	NonceSize = 24
	// Overhead is the number of bytes the Poly1305 tag adds to a box.
	Overhead = 16
)
