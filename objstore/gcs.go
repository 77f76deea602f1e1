package objstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
	pwas "github.com/ckrueger2/mesa-pwas"
	"google.golang.org/api/iterator"
)

// GCS is a Store over Google Storage. If UserProject is set, requests are
// billed to that project, which is required for requester-pays buckets such as
// the All of Us controlled tier.
type GCS struct {
	Client      *storage.Client
	UserProject string
}

func (g *GCS) bucket(name string) *storage.BucketHandle {
	bkt := g.Client.Bucket(name)
	if g.UserProject != "" {
		bkt = bkt.UserProject(g.UserProject)
	}

	return bkt
}

func (g *GCS) handle(path string) (*storage.ObjectHandle, error) {
	bucketName, objectName, err := pwas.SplitGSPath(path)
	if err != nil {
		return nil, err
	}

	return g.bucket(bucketName).Object(objectName), nil
}

func (g *GCS) Exists(ctx context.Context, path string) (bool, error) {
	handle, err := g.handle(path)
	if err != nil {
		return false, err
	}

	// Make a hard call to get the attributes
	if _, err := handle.Attrs(ctx); errors.Is(err, storage.ErrObjectNotExist) {
		return false, nil
	} else if err != nil {
		return false, pfx.Err(fmt.Errorf("%s: %w", path, err))
	}

	return true, nil
}

func (g *GCS) NewReader(ctx context.Context, path string) (io.ReadCloser, error) {
	handle, err := g.handle(path)
	if err != nil {
		return nil, err
	}

	rc, err := handle.NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, fmt.Errorf("%s: %w", path, ErrNotExist)
	} else if err != nil {
		return nil, pfx.Err(fmt.Errorf("%s: %w", path, err))
	}

	return rc, nil
}

func (g *GCS) NewWriter(ctx context.Context, path string) (io.WriteCloser, error) {
	handle, err := g.handle(path)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	w := handle.NewWriter(ctx)
	w.ContentType = ContentType(path)

	return &gcsWriter{Writer: w, cancel: cancel}, nil
}

// gcsWriter lets Copy abandon an upload: cancelling the writer's context
// before Close prevents the object from being created.
type gcsWriter struct {
	*storage.Writer
	cancel context.CancelFunc
}

func (w *gcsWriter) Close() error {
	defer w.cancel()
	return w.Writer.Close()
}

func (w *gcsWriter) Abort() error {
	w.cancel()
	w.Writer.Close()
	return nil
}

func (g *GCS) List(ctx context.Context, prefix string) ([]string, error) {
	bucketName, objectPrefix, err := pwas.SplitGSPath(prefix)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0)
	it := g.bucket(bucketName).Objects(ctx, &storage.Query{Prefix: objectPrefix})
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, pfx.Err(err)
		}
		out = append(out, pwas.GSPrefix+bucketName+"/"+attrs.Name)
	}
	sort.Strings(out)

	return out, nil
}

func (g *GCS) Remove(ctx context.Context, path string) error {
	handle, err := g.handle(path)
	if err != nil {
		return err
	}

	if err := handle.Delete(ctx); err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return pfx.Err(err)
	}

	return nil
}

// ContentType guesses a MIME type for the summary statistics and results files
// this tool writes.
func ContentType(path string) string {
	switch {
	case strings.HasSuffix(path, ".tsv"):
		return "text/tab-separated-values"
	case strings.HasSuffix(path, ".csv"):
		return "text/csv"
	case strings.HasSuffix(path, ".json"):
		return "application/json"
	case strings.HasSuffix(path, ".gz"), strings.HasSuffix(path, ".bgz"):
		return "application/gzip"
	}

	return "application/octet-stream"
}
