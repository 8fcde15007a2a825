package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
)

const (
	tempDirName   = ".tmp"
	maxNameLength = 255
)

// LocalStore implements Store for a local directory
type LocalStore struct {
	root string
}

func NewLocalStore(root string) (*LocalStore, error) {
	root = filepath.Clean(root)
	if err := os.MkdirAll(filepath.Join(root, tempDirName), 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalStore{
		root: root,
	}, nil
}

// Root returns the directory blobs are stored in.
func (s *LocalStore) Root() string {
	return s.root
}

func (s *LocalStore) Put(ctx context.Context, name string, r io.Reader) (int64, error) {
	if err := validateName(name); err != nil {
		return 0, err
	}

	tmp, err := os.CreateTemp(filepath.Join(s.root, tempDirName), uuid.NewString())
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = os.Remove(tmpPath)
	}()

	size, err := io.Copy(tmp, r)
	if err == nil {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return 0, fmt.Errorf("failed to write blob %q: %w", name, err)
	}

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	if err := os.Rename(tmpPath, s.path(name)); err != nil {
		return 0, fmt.Errorf("failed to commit blob %q: %w", name, err)
	}

	return size, nil
}

func (s *LocalStore) Rename(ctx context.Context, from, to string) error {
	if err := validateName(from); err != nil {
		return err
	}
	if err := validateName(to); err != nil {
		return err
	}
	if from == to {
		return nil
	}

	src, dst := s.path(from), s.path(to)

	// A hard link fails atomically when dst exists, which os.Rename would not.
	err := os.Link(src, dst)
	switch {
	case err == nil:
		if err := os.Remove(src); err != nil {
			_ = os.Remove(dst)
			return fmt.Errorf("failed to remove old blob %q: %w", from, err)
		}
		return nil
	case errors.Is(err, fs.ErrExist):
		return fmt.Errorf("blob %q: %w", to, ErrExists)
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("blob %q: %w", from, ErrNotFound)
	}

	// Filesystems without hard links fall back to a checked rename.
	if _, statErr := os.Stat(dst); statErr == nil {
		return fmt.Errorf("blob %q: %w", to, ErrExists)
	}
	if err := os.Rename(src, dst); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("blob %q: %w", from, ErrNotFound)
		}
		return fmt.Errorf("failed to rename blob %q to %q: %w", from, to, err)
	}
	return nil
}

func (s *LocalStore) Remove(ctx context.Context, name string) error {
	if err := validateName(name); err != nil {
		return err
	}

	if err := os.Remove(s.path(name)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("blob %q: %w", name, ErrNotFound)
		}
		return fmt.Errorf("failed to remove blob %q: %w", name, err)
	}
	return nil
}

func (s *LocalStore) Exists(ctx context.Context, name string) (bool, error) {
	if err := validateName(name); err != nil {
		return false, err
	}

	_, err := os.Stat(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// List returns the names of all blobs, sorted. Hidden entries are skipped.
func (s *LocalStore) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("failed to read storage directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		names = append(names, entry.Name())
	}

	sort.Strings(names)
	return names, nil
}

func (s *LocalStore) path(name string) string {
	return filepath.Join(s.root, name)
}

func validateName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidKey)
	case len(name) > maxNameLength:
		return fmt.Errorf("%w: name exceeds %d bytes", ErrInvalidKey, maxNameLength)
	case strings.HasPrefix(name, "."):
		return fmt.Errorf("%w: %q starts with a dot", ErrInvalidKey, name)
	case strings.ContainsAny(name, "/\\\x00"):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidKey, name)
	}
	return nil
}
