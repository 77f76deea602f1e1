// Package objstore is the flat-namespace object storage used to stage inputs
// and publish results. Paths beginning with gs:// live on Google Storage;
// anything else is treated as a local file.
package objstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNotExist is wrapped by NewReader when the requested object is absent.
var ErrNotExist = errors.New("object does not exist")

type Store interface {
	// Exists reports whether an object is present at path. A missing object
	// is not an error.
	Exists(ctx context.Context, path string) (bool, error)

	NewReader(ctx context.Context, path string) (io.ReadCloser, error)

	// NewWriter returns a writer whose content becomes visible at path only
	// once Close returns without error. Existing objects are replaced.
	NewWriter(ctx context.Context, path string) (io.WriteCloser, error)

	// List returns the full paths of all objects whose path begins with
	// prefix, in lexical order.
	List(ctx context.Context, prefix string) ([]string, error)

	Remove(ctx context.Context, path string) error
}

// Copy streams srcPath from src into dstPath on dst, returning the number of
// bytes written. The destination is only committed if the full copy succeeds.
func Copy(ctx context.Context, src Store, srcPath string, dst Store, dstPath string) (int64, error) {
	r, err := src.NewReader(ctx, srcPath)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	w, err := dst.NewWriter(ctx, dstPath)
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(w, r)
	if err != nil {
		Discard(w)
		return n, fmt.Errorf("copying %s to %s: %w", srcPath, dstPath, err)
	}

	if err := w.Close(); err != nil {
		return n, fmt.Errorf("committing %s: %w", dstPath, err)
	}

	return n, nil
}

// Aborter is implemented by writers that can discard partially written
// content instead of committing it.
type Aborter interface {
	Abort() error
}

// Discard abandons a writer obtained from NewWriter. Writers that cannot abort
// are closed, which may commit whatever was written so far.
func Discard(w io.WriteCloser) error {
	if ab, ok := w.(Aborter); ok {
		return ab.Abort()
	}

	return w.Close()
}

// Listed reports whether path shows up in a listing of its folder, the way
// `gsutil ls <folder>/ | grep <path>` would find it.
func Listed(ctx context.Context, s Store, path string) (bool, error) {
	folder := Folder(path)

	listed, err := s.List(ctx, folder)
	if err != nil {
		return false, fmt.Errorf("listing %s: %w", folder, err)
	}

	for _, candidate := range listed {
		if candidate == path {
			return true, nil
		}
	}

	return false, nil
}

// Folder is everything in path up to and including the last slash.
func Folder(path string) string {
	return path[:strings.LastIndex(path, "/")+1]
}
