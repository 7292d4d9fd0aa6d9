package storage

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
	"github.com/airbusgeo/geocube-stac/service"
	"google.golang.org/api/iterator"
)

// GSLister implements Lister for Google Storage
type GSLister struct {
	client *storage.Client
}

// NewGSLister creates a new GSLister using the default credentials
func NewGSLister(ctx context.Context) (*GSLister, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("NewGSLister: %w", err)
	}
	return &GSLister{client: client}, nil
}

// ListFiles implements Lister
func (l *GSLister) ListFiles(ctx context.Context, dir, ext string) ([]string, error) {
	bucket, prefix, err := splitBucket(dir)
	if err != nil {
		return nil, fmt.Errorf("GSLister.%w", err)
	}
	q := &storage.Query{Prefix: prefix, Delimiter: "/", Versions: false}
	q.SetAttrSelection([]string{"Name"})
	it := l.client.Bucket(bucket).Objects(ctx, q)
	var files []string
	found := false
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			if service.NotFound(err) {
				return nil, service.ErrFileNotFound{File: dir}
			}
			return nil, service.MakeTemporary(fmt.Errorf("GSLister.iterate[%s/%s]: %w", bucket, prefix, err))
		}
		found = true
		// Sub-directories and directory placeholders
		if attrs.Prefix != "" || attrs.Name == prefix {
			continue
		}
		files = append(files, "gs://"+bucket+"/"+attrs.Name)
	}
	if !found {
		return nil, service.ErrFileNotFound{File: dir}
	}
	return filterSort(files, ext), nil
}
