package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type LocalStore struct {
	root string
}

func NewLocalStore(root string) (*LocalStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve storage dir failed: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir failed: %w", err)
	}
	return &LocalStore{root: abs}, nil
}

func (s *LocalStore) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) (string, error) {
	path, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create object dir failed: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp object failed: %w", err)
	}
	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write object failed: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("close object failed: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("commit object failed: %w", err)
	}
	return key, nil
}

func (s *LocalStore) Open(_ context.Context, ref string) (io.ReadCloser, error) {
	path, err := s.resolve(ref)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("open object failed: %w", err)
	}
	return f, nil
}

func (s *LocalStore) Delete(_ context.Context, ref string) error {
	path, err := s.resolve(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete object failed: %w", err)
	}
	return nil
}

// resolve maps a key into root and rejects anything escaping it.
func (s *LocalStore) resolve(key string) (string, error) {
	clean := filepath.Clean("/" + filepath.FromSlash(key))
	path := filepath.Join(s.root, clean)
	if path == s.root || !strings.HasPrefix(path, s.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return path, nil
}
