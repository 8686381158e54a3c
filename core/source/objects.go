package source

import (
	"context"
	"fmt"
	"io"

	"relation-matcher/core/matcher"
	"relation-matcher/core/storage"

	"github.com/goccy/go-yaml"
	"github.com/minio/minio-go/v7"
	"golang.org/x/sync/singleflight"
)

// Objects reads one object per identifier from a bucket. The object name is
// prefix + identifier + ext.
type Objects[I comparable, D any] struct {
	client storage.Client
	bucket string
	prefix string
	ext    string
	group  singleflight.Group
}

// NewObjects returns an object source over bucket.
func NewObjects[I comparable, D any](client storage.Client, bucket, prefix, ext string) *Objects[I, D] {
	return &Objects[I, D]{client: client, bucket: bucket, prefix: prefix, ext: ext}
}

// Key returns the object name of id.
func (o *Objects[I, D]) Key(id I) string {
	return o.prefix + fmt.Sprint(id) + o.ext
}

// Check verifies that the bucket is reachable.
func (o *Objects[I, D]) Check(ctx context.Context) error {
	exists, err := o.client.BucketExists(ctx, o.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", o.bucket, err)
	}
	if !exists {
		return fmt.Errorf("bucket %s does not exist", o.bucket)
	}
	return nil
}

// One fetches and decodes the object of id. A missing object yields
// matcher.ErrNotFound.
func (o *Objects[I, D]) One(ctx context.Context, id I) (D, error) {
	key := o.Key(id)
	v, err, _ := o.group.Do(key, func() (any, error) {
		return o.fetch(ctx, key)
	})
	if err != nil {
		var zero D
		return zero, err
	}
	return v.(D), nil
}

func (o *Objects[I, D]) fetch(ctx context.Context, key string) (D, error) {
	var out D
	obj, err := o.client.GetObject(ctx, o.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		if storage.IsNotFound(err) {
			return out, matcher.ErrNotFound
		}
		return out, fmt.Errorf("failed to get object %s: %w", key, err)
	}
	defer obj.Close()

	b, err := io.ReadAll(obj)
	if err != nil {
		if storage.IsNotFound(err) {
			return out, matcher.ErrNotFound
		}
		return out, fmt.Errorf("failed to read object %s: %w", key, err)
	}
	if err := yaml.Unmarshal(b, &out); err != nil {
		return out, fmt.Errorf("failed to decode object %s: %w", key, err)
	}
	return out, nil
}
