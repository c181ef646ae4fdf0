package statestore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	reload "github.com/goliatone/go-reload"
)

// FileStore persists snapshots as one raw-bytes file per key inside a root
// directory. The bytes on disk are exactly the snapshot's bytes; no header or
// framing is added, so files stay readable by anything the caller pairs the
// engine with.
type FileStore struct {
	root string
}

// NewFileStore creates root if needed and returns a store writing into it.
func NewFileStore(root string) (*FileStore, error) {
	if root == "" {
		return nil, fmt.Errorf("statestore: root directory must not be empty")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("statestore: ensure root %q: %w", root, err)
	}
	return &FileStore{root: root}, nil
}

func (s *FileStore) Save(_ context.Context, key string, snapshot reload.SaveState) error {
	path, err := s.keyPath(key)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, snapshot.Bytes(), 0o644); err != nil {
		return fmt.Errorf("statestore: write %q: %w", key, err)
	}
	return nil
}

func (s *FileStore) Load(_ context.Context, key string) (reload.SaveState, bool, error) {
	path, err := s.keyPath(key)
	if err != nil {
		return reload.SaveState{}, false, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return reload.SaveState{}, false, nil
		}
		return reload.SaveState{}, false, fmt.Errorf("statestore: read %q: %w", key, err)
	}
	return reload.NewSaveState(data), true, nil
}

func (s *FileStore) keyPath(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("%w: %q", ErrBadKey, key)
	}
	return filepath.Join(s.root, key+".state"), nil
}
