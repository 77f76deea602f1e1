package objstore

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Local is a Store over the local filesystem. Writes go to a temporary file in
// the destination directory and are renamed into place on Close, mirroring
// the all-or-nothing commit of a Google Storage upload.
type Local struct{}

func (Local) Exists(ctx context.Context, path string) (bool, error) {
	fi, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	} else if err != nil {
		return false, err
	}

	return !fi.IsDir(), nil
}

func (Local) NewReader(ctx context.Context, path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: %w", path, ErrNotExist)
	}

	return f, err
}

func (Local) NewWriter(ctx context.Context, path string) (io.WriteCloser, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	tmp, err := ioutil.TempFile(dir, "."+filepath.Base(path)+".tmp-")
	if err != nil {
		return nil, err
	}

	return &localWriter{File: tmp, dest: path}, nil
}

type localWriter struct {
	*os.File
	dest string
}

func (w *localWriter) Close() error {
	if err := w.File.Close(); err != nil {
		os.Remove(w.File.Name())
		return err
	}

	// Match the permissions of a plainly created file.
	if err := os.Chmod(w.File.Name(), 0644); err != nil {
		os.Remove(w.File.Name())
		return err
	}

	return os.Rename(w.File.Name(), w.dest)
}

func (w *localWriter) Abort() error {
	w.File.Close()
	return os.Remove(w.File.Name())
}

func (Local) List(ctx context.Context, prefix string) ([]string, error) {
	root := prefix
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		root = filepath.Dir(prefix)
	}

	out := make([]string, 0)
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if os.IsNotExist(err) && path == root {
			return filepath.SkipDir
		} else if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasPrefix(path, prefix) {
			return nil
		}
		out = append(out, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(out)

	return out, nil
}

func (Local) Remove(ctx context.Context, path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}

	return nil
}
