// Package storage implements the persistence adapter for taskpad: a
// file-backed key-value store, the codecs used to serialise the task
// collection, and an ordered asynchronous writer.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/valter-silva-au/taskpad/pkg/models"
)

// ErrKeyNotFound is returned by Get when nothing is stored under the key.
var ErrKeyNotFound = errors.New("key not found")

// KVStore is a minimal key-value store of opaque byte values.
type KVStore interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
}

type fileKVStore struct {
	dir string
	ext string
}

// NewFileKVStore creates a KVStore that keeps each key in dir/<key>.<ext>.
// Writes are atomic and serialised across processes with a lock file.
func NewFileKVStore(dir, ext string) KVStore {
	return &fileKVStore{dir: dir, ext: ext}
}

func (s *fileKVStore) path(key string) (string, error) {
	if !models.ValidStorageKey(key) {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(s.dir, key+"."+s.ext), nil
}

func (s *fileKVStore) Get(key string) ([]byte, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(s.dir); errors.Is(err, os.ErrNotExist) {
		return nil, ErrKeyNotFound
	}
	unlock, err := lockStore(s.dir, false)
	if err != nil {
		return nil, fmt.Errorf("locking store: %w", err)
	}
	defer func() { _ = unlock() }()

	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("reading key %s: %w", key, err)
	}
	return data, nil
}

func (s *fileKVStore) Set(key string, value []byte) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return fmt.Errorf("creating store directory: %w", err)
	}

	unlock, err := lockStore(s.dir, true)
	if err != nil {
		return fmt.Errorf("locking store: %w", err)
	}
	defer func() { _ = unlock() }()

	tmp, err := os.CreateTemp(s.dir, "."+key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("writing key %s: %w", key, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing key %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing key %s: %w", key, err)
	}
	if err := os.Rename(tmpName, p); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing key %s: %w", key, err)
	}
	return nil
}
