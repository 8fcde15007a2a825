// Package blob stores image files in a flat directory, one file per photo,
// named by the photo's logical name plus extension.
package blob

import (
	"context"
	"errors"
	"io"
)

var (
	ErrNotFound   = errors.New("blob not found")
	ErrExists     = errors.New("blob already exists")
	ErrInvalidKey = errors.New("invalid blob name")
)

// Store abstracts the directory holding photo blobs
type Store interface {
	// Put writes the blob atomically, replacing any previous blob with the same name.
	Put(ctx context.Context, name string, r io.Reader) (int64, error)
	// Rename moves from to to. It never overwrites: an existing target yields ErrExists.
	Rename(ctx context.Context, from, to string) error
	Remove(ctx context.Context, name string) error
	Exists(ctx context.Context, name string) (bool, error)
	List(ctx context.Context) ([]string, error)
}
