// Package directory implements the public-key directory: an HTTP client, an
// in-memory store, and an HTTP handler that serves the store.
//
// # Wire Contract
//
//	GET /api/users/{identity}/public-key
//	PUT /api/users/{identity}/public-key
//
// Both carry the same JSON document:
//
//	{"identity": "alice", "publicKey": "12,250,3,..."}
//
// The public key is a comma-separated list of decimal byte values, the same
// textual form used for locally stored secret keys. A GET for an unknown
// identity answers 404.
//
// Requests carry "Authorization: Bearer <token>" when a token is configured.
// Error responses are {"error": "...", "request_id": "..."}.
//
// # Retries
//
// [Client] retries 408, 429 and 5xx responses and transport errors with
// exponential backoff and jitter (see [RetryPolicy]). A client-side token
// bucket bounds the request rate.
package directory
