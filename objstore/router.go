package objstore

import (
	"context"
	"io"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
	pwas "github.com/ckrueger2/mesa-pwas"
)

// Router sends gs:// paths to Google Storage and everything else to the local
// filesystem. The storage client is only created the first time a gs:// path
// is touched, so purely local runs need no credentials. Router is not safe for
// concurrent use.
type Router struct {
	UserProject string

	Local Local
	gcs   *GCS
}

func (r *Router) pick(ctx context.Context, path string) (Store, error) {
	if !pwas.IsGSPath(path) {
		return r.Local, nil
	}

	if r.gcs == nil {
		client, err := storage.NewClient(ctx)
		if err != nil {
			return nil, pfx.Err(err)
		}
		r.gcs = &GCS{Client: client, UserProject: r.UserProject}
	}

	return r.gcs, nil
}

func (r *Router) Exists(ctx context.Context, path string) (bool, error) {
	s, err := r.pick(ctx, path)
	if err != nil {
		return false, err
	}

	return s.Exists(ctx, path)
}

func (r *Router) NewReader(ctx context.Context, path string) (io.ReadCloser, error) {
	s, err := r.pick(ctx, path)
	if err != nil {
		return nil, err
	}

	return s.NewReader(ctx, path)
}

func (r *Router) NewWriter(ctx context.Context, path string) (io.WriteCloser, error) {
	s, err := r.pick(ctx, path)
	if err != nil {
		return nil, err
	}

	return s.NewWriter(ctx, path)
}

func (r *Router) List(ctx context.Context, prefix string) ([]string, error) {
	s, err := r.pick(ctx, prefix)
	if err != nil {
		return nil, err
	}

	return s.List(ctx, prefix)
}

func (r *Router) Remove(ctx context.Context, path string) error {
	s, err := r.pick(ctx, path)
	if err != nil {
		return err
	}

	return s.Remove(ctx, path)
}

// Close releases the storage client, if one was created.
func (r *Router) Close() error {
	if r.gcs == nil {
		return nil
	}

	return r.gcs.Client.Close()
}
