package directory

import "context"

// Store is the contract shared by [Client] and [Memory].
type Store interface {
	GetPublicKey(ctx context.Context, identity string) ([]byte, error)
	SetPublicKey(ctx context.Context, identity string, key []byte) error
}

// PublicKeyRecord is the JSON body of the public-key endpoint.
type PublicKeyRecord struct {
	Identity  string `json:"identity"`
	PublicKey string `json:"publicKey"`
}

// errorResponse is the JSON body of an error response.
type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func publicKeyPath(identity string) string {
	return "/api/users/" + pathEscape(identity) + "/public-key"
}
