// Package filestore implements storage.Storage as one JSON file per key.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"

	"todo/internal/storage"
)

// Store keeps each key in <dir>/<key>.json.
// Every access holds an exclusive flock on the file.
type Store struct {
	dir    string
	logger *zap.Logger
}

// New creates a Store rooted at dir. The directory is created on first Put.
func New(dir string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{dir: dir, logger: logger}
}

// Path returns the file that holds key.
func (s *Store) Path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Get implements storage.Storage.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	path := s.Path(key)
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, storage.ErrNotExist
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var data []byte
	err = withLock(file, func() error {
		var err error
		data, err = io.ReadAll(file)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	// An empty file is what a crashed first write leaves behind.
	if len(data) == 0 {
		return nil, storage.ErrNotExist
	}

	s.logger.Debug("read file", zap.String("path", path), zap.Int("bytes", len(data)))
	return data, nil
}

// Put implements storage.Storage.
// Lock → Truncate → Write → Unlock
func (s *Store) Put(ctx context.Context, key string, data []byte) error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}

	path := s.Path(key)
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	err = withLock(file, func() error {
		if err := file.Truncate(0); err != nil {
			return fmt.Errorf("failed to truncate file: %w", err)
		}
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			return fmt.Errorf("failed to seek: %w", err)
		}
		if _, err := file.Write(data); err != nil {
			return fmt.Errorf("failed to write file: %w", err)
		}
		return file.Sync()
	})
	if err != nil {
		return err
	}

	s.logger.Debug("wrote file", zap.String("path", path), zap.Int("bytes", len(data)))
	return nil
}

// Close implements storage.Storage.
func (s *Store) Close() error { return nil }

func withLock(file *os.File, fn func() error) error {
	if err := syscall.Flock(int(file.Fd()), syscall.LOCK_EX); err != nil {
		return fmt.Errorf("failed to lock file: %w", err)
	}
	defer syscall.Flock(int(file.Fd()), syscall.LOCK_UN)
	return fn()
}
