package objstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"sort"
	"strings"
)

// Memory is a Store held in a map. It is not safe for concurrent use.
type Memory struct {
	Objects map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{Objects: make(map[string][]byte)}
}

func (m *Memory) Exists(ctx context.Context, path string) (bool, error) {
	_, exists := m.Objects[path]
	return exists, nil
}

func (m *Memory) NewReader(ctx context.Context, path string) (io.ReadCloser, error) {
	data, exists := m.Objects[path]
	if !exists {
		return nil, fmt.Errorf("%s: %w", path, ErrNotExist)
	}

	return ioutil.NopCloser(bytes.NewReader(data)), nil
}

func (m *Memory) NewWriter(ctx context.Context, path string) (io.WriteCloser, error) {
	return &memoryWriter{store: m, path: path}, nil
}

type memoryWriter struct {
	bytes.Buffer
	store   *Memory
	path    string
	aborted bool
}

func (w *memoryWriter) Close() error {
	if !w.aborted {
		w.store.Objects[w.path] = append([]byte(nil), w.Bytes()...)
	}

	return nil
}

func (w *memoryWriter) Abort() error {
	w.aborted = true
	return nil
}

func (m *Memory) List(ctx context.Context, prefix string) ([]string, error) {
	out := make([]string, 0)
	for path := range m.Objects {
		if strings.HasPrefix(path, prefix) {
			out = append(out, path)
		}
	}
	sort.Strings(out)

	return out, nil
}

func (m *Memory) Remove(ctx context.Context, path string) error {
	delete(m.Objects, path)
	return nil
}
