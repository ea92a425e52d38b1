package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/stockkeep/backend/internal/domain"
)

// FileStore keeps snapshots as files. Relative names resolve against dir.
type FileStore struct {
	dir string
}

// NewFileStore creates a file store rooted at dir
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Path returns the file a snapshot name maps to
func (s *FileStore) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.dir, name)
}

// Save writes data to the snapshot file, creating parent directories as needed
func (s *FileStore) Save(ctx context.Context, name string, data []byte) error {
	if name == "" {
		return fmt.Errorf("storage: snapshot name is required")
	}
	path := s.Path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("storage: create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("storage: write %s: %w", path, err)
	}
	return nil
}

// Load reads the snapshot file
func (s *FileStore) Load(ctx context.Context, name string) ([]byte, error) {
	if name == "" {
		return nil, fmt.Errorf("storage: snapshot name is required")
	}
	path := s.Path(name)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", domain.ErrSnapshotNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", path, err)
	}
	return data, nil
}
