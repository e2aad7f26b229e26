package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidPath rejects names that would resolve outside the base directory.
var ErrInvalidPath = errors.New("storage: invalid path")

// LocalStorage keeps uploaded receipt files on local disk under a base directory.
type LocalStorage struct {
	baseDir string
}

// NewLocalStorage ensures the base directory exists and returns a handle.
func NewLocalStorage(baseDir string) (*LocalStorage, error) {
	if baseDir == "" {
		baseDir = "./receipts"
	}
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("resolve storage directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &LocalStorage{baseDir: abs}, nil
}

// SaveStream copies r into name, creating parent directories, and returns the
// number of bytes written.
func (s *LocalStorage) SaveStream(name string, r io.Reader) (int64, error) {
	path, err := s.resolve(name)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("prepare storage directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create stored file: %w", err)
	}
	written, copyErr := io.Copy(file, r)
	closeErr := file.Close()
	if copyErr != nil {
		_ = os.Remove(path)
		return 0, fmt.Errorf("write stored file: %w", copyErr)
	}
	if closeErr != nil {
		return 0, fmt.Errorf("close stored file: %w", closeErr)
	}
	return written, nil
}

// Open returns a read-only handle for a stored file.
func (s *LocalStorage) Open(name string) (*os.File, error) {
	path, err := s.resolve(name)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open stored file: %w", err)
	}
	return file, nil
}

// Delete removes a stored file if present.
func (s *LocalStorage) Delete(name string) error {
	path, err := s.resolve(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete stored file: %w", err)
	}
	return nil
}

func (s *LocalStorage) resolve(name string) (string, error) {
	if name == "" || filepath.IsAbs(name) {
		return "", ErrInvalidPath
	}
	path := filepath.Join(s.baseDir, filepath.Clean(name))
	if path != s.baseDir && !strings.HasPrefix(path, s.baseDir+string(filepath.Separator)) {
		return "", ErrInvalidPath
	}
	return path, nil
}
