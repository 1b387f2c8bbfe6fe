// Package kv provides textual key-value stores used to persist secret keys
// locally.
//
// Both stores satisfy the same two-operation contract:
//
//	Set(ctx, key, value string) error
//	Get(ctx, key string) (value string, ok bool, err error)
//
// Set overwrites any previous value. Get reports ok=false for a missing key
// with a nil error.
//
// # Stores
//
//   - [Memory]: a map guarded by a RWMutex. Values vanish with the process.
//
//   - [File]: one file per key below a root directory, named by the hex
//     SHA-256 of the key. Writes go to a temporary file in the same
//     directory which is synced and renamed over the target, so a concurrent Get sees either the old value or the new
//     one, never a partial write. Files are created with mode 0600 and the
//     directory with mode 0700.
//
// # Thread Safety
//
// Both stores are safe for concurrent use. A Set for a key is visible to any
// Get for that key that starts after Set returns.
package kv
