// Package localstore is a small file-backed key-value store for client
// state snapshots (carts, favorites). One JSON blob per key, whole-value
// overwrite on every save. A blob that no longer parses is dropped on
// load so a schema change degrades to an empty state instead of an error.
package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

type Store struct {
	dir string
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("localstore: mkdir %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Load unmarshals the blob stored under key into v. It reports false when
// the key is absent or its content is corrupt; a corrupt blob is removed
// so a later raw read finds nothing. An error is returned only for real
// I/O failures.
func (s *Store) Load(key string, v any) (bool, error) {
	path := s.path(key)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("localstore: read %s: %w", key, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		os.Remove(path)
		return false, nil
	}
	return true, nil
}

// Save overwrites the blob under key. The write goes to a temp file first
// and is renamed into place so a crash never leaves a half-written blob.
func (s *Store) Save(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("localstore: marshal %s: %w", key, err)
	}

	path := s.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("localstore: write %s: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("localstore: rename %s: %w", key, err)
	}
	return nil
}

// Delete removes the blob under key. Missing keys are fine.
func (s *Store) Delete(key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("localstore: delete %s: %w", key, err)
	}
	return nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, sanitize(key)+".json")
}

func sanitize(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
