package kv

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	fileSuffix = ".key"
	tempPrefix = ".tmp-"
	fileMode   = 0o600
	dirMode    = 0o700
)

// ErrEmptyKey is returned when a key is the empty string.
var ErrEmptyKey = errors.New("kv: key is empty")

// File stores each key in its own file below Dir.
type File struct {
	dir string
}

// NewFile creates a file store rooted at dir, creating dir if needed.
func NewFile(dir string) (*File, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, fmt.Errorf("kv: directory is required")
	}
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return nil, fmt.Errorf("kv: create directory %s: %w", dir, err)
	}
	return &File{dir: dir}, nil
}

// Dir returns the root directory of the store.
func (f *File) Dir() string {
	return f.dir
}

// Set writes value under key atomically.
func (f *File) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target, err := f.path(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.dir, tempPrefix+"*")
	if err != nil {
		return fmt.Errorf("kv: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		// No-op once the rename succeeded
		_ = os.Remove(tmpName)
	}()

	if err := tmp.Chmod(fileMode); err != nil {
		tmp.Close()
		return fmt.Errorf("kv: chmod temp file: %w", err)
	}
	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		return fmt.Errorf("kv: write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("kv: sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("kv: close temp file: %w", err)
	}

	if err := os.Rename(tmpName, target); err != nil {
		return fmt.Errorf("kv: replace %s: %w", filepath.Base(target), err)
	}
	return nil
}

// Get reads the value stored under key.
func (f *File) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	target, err := f.path(key)
	if err != nil {
		return "", false, err
	}

	data, err := os.ReadFile(target)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("kv: read %s: %w", filepath.Base(target), err)
	}
	return string(data), true, nil
}

// path maps key to a file name. The name is the hex SHA-256 of the key, so
// any key, including ones with separators or of any length, gives a fixed
// size name inside dir.
func (f *File) path(key string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(f.dir, hex.EncodeToString(sum[:])+fileSuffix), nil
}
