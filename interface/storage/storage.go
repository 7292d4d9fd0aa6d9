package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/airbusgeo/geocube-stac/service"
	"github.com/airbusgeo/geocube/interface/storage/uri"
)

// Lister lists the files of a directory
type Lister interface {
	// ListFiles returns the files of the directory (non-recursive) having the extension, sorted.
	// An empty extension returns all the files.
	// Returns service.ErrFileNotFound if the directory does not exist.
	ListFiles(ctx context.Context, dir, ext string) ([]string, error)
}

// URILister implements Lister for local directories, gs:// and s3:// prefixes
type URILister struct {
	local LocalLister
	gs    *GSLister
	s3    *S3Lister
	s3Cfg S3Config

	mu sync.Mutex
}

// NewURILister creates a new URILister. The object-storage clients are created on first use.
func NewURILister(s3Cfg S3Config) *URILister {
	return &URILister{s3Cfg: s3Cfg}
}

// ListFiles implements Lister
func (l *URILister) ListFiles(ctx context.Context, dir, ext string) ([]string, error) {
	// Paths without scheme are local, relative or absolute
	protocol := ""
	if strings.Contains(dir, "://") {
		u, err := uri.ParseUri(dir)
		if err != nil {
			return nil, fmt.Errorf("ListFiles.ParseURI: %w", err)
		}
		protocol = strings.ToLower(u.Protocol())
	}
	switch protocol {
	case "file", "":
		return l.local.ListFiles(ctx, strings.TrimPrefix(dir, "file://"), ext)
	case "gs":
		gs, err := l.gsLister(ctx)
		if err != nil {
			return nil, err
		}
		return gs.ListFiles(ctx, dir, ext)
	case "s3":
		s3, err := l.s3Lister(ctx)
		if err != nil {
			return nil, err
		}
		return s3.ListFiles(ctx, dir, ext)
	default:
		return nil, fmt.Errorf("ListFiles: cannot list '%s' (unsupported protocol: %s)", dir, protocol)
	}
}

func (l *URILister) gsLister(ctx context.Context) (*GSLister, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.gs == nil {
		gs, err := NewGSLister(ctx)
		if err != nil {
			return nil, err
		}
		l.gs = gs
	}
	return l.gs, nil
}

func (l *URILister) s3Lister(ctx context.Context) (*S3Lister, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.s3 == nil {
		s3, err := NewS3Lister(ctx, l.s3Cfg)
		if err != nil {
			return nil, err
		}
		l.s3 = s3
	}
	return l.s3, nil
}

// splitBucket splits "scheme://bucket/prefix" into bucket and prefix, the prefix ending with "/" if not empty
func splitBucket(dir string) (bucket, prefix string, err error) {
	i := strings.Index(dir, "://")
	if i == -1 {
		return "", "", fmt.Errorf("invalid uri: %s", dir)
	}
	bucket, prefix, _ = strings.Cut(dir[i+3:], "/")
	if bucket == "" {
		return "", "", fmt.Errorf("missing bucket: %s", dir)
	}
	if prefix = strings.Trim(prefix, "/"); prefix != "" {
		prefix += "/"
	}
	return bucket, prefix, nil
}

// filterSort keeps the files having the extension and sorts them
func filterSort(files []string, ext string) []string {
	res := make([]string, 0, len(files))
	for _, f := range files {
		if service.HasExt(f, service.Extension(ext)) {
			res = append(res, f)
		}
	}
	sort.Strings(res)
	return res
}
