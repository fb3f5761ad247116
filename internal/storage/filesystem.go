package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"reportvault/internal/config"
)

// filesystemStore implements ContentStore on the local filesystem. Blobs are
// laid out as <root>/<namespace>/<hash>[.<ext>]; the returned location is the
// slash-joined path relative to the root.
//
// There is no in-memory state beyond the resolved root path: writes are
// keyed by content hash, so concurrent identical writes are safe, and all
// safety comes from input validation rather than locking.
type filesystemStore struct {
	root string
}

// NewFilesystem creates a filesystem-backed ContentStore rooted at
// cfg.Root. The root directory is created if absent.
func NewFilesystem(cfg config.StorageConfig) (ContentStore, error) {
	if cfg.Root == "" {
		return nil, fmt.Errorf("storage root is required")
	}
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve storage root: %w", err)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &filesystemStore{root: root}, nil
}

func (s *filesystemStore) Put(ctx context.Context, namespace, hash, extension string, data []byte) (string, error) {
	if err := validateNamespace(namespace); err != nil {
		return "", err
	}
	if err := validateHash(hash); err != nil {
		return "", err
	}

	name := objectName(hash, extension)
	dir := filepath.Join(s.root, namespace)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create namespace dir: %v", ErrWriteFailed, err)
	}

	// Write through a uniquely named temp file so a racing identical upload
	// can never observe or produce a torn blob.
	tmp, err := os.CreateTemp(dir, name+".tmp*")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(dir, name)); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	return path.Join(namespace, name), nil
}

func (s *filesystemStore) Get(ctx context.Context, location string) ([]byte, error) {
	full, err := s.resolve(location)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read object: %w", err)
	}
	return data, nil
}

func (s *filesystemStore) Delete(ctx context.Context, location string) error {
	full, err := s.resolve(location)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("remove object: %w", err)
	}
	return nil
}

// resolve validates a locator and maps it to an absolute path, guaranteeing
// the result stays under the storage root.
func (s *filesystemStore) resolve(location string) (string, error) {
	if err := validateLocation(location); err != nil {
		return "", err
	}
	full := filepath.Join(s.root, filepath.FromSlash(location))
	if !strings.HasPrefix(full, s.root+string(filepath.Separator)) {
		return "", ErrInvalidLocation
	}
	return full, nil
}
