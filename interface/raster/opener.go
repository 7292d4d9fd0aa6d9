package raster

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/airbusgeo/geocube/interface/storage/uri"
	"github.com/airbusgeo/osio"
	osioGcs "github.com/airbusgeo/osio/gcs"
	osioS3 "github.com/airbusgeo/osio/s3"
)

// DefaultHeaderSize is the number of bytes read at the beginning of a raster to decode its header.
// A COG stores all its image directories before the first tile.
const DefaultHeaderSize = 1 << 20

// DefaultHTTPTimeout bounds every request of the http(s) opener
const DefaultHTTPTimeout = 30 * time.Second

// URIOpener implements Opener for local paths, gs://, s3:// and http(s):// uris
type URIOpener struct {
	headerSize int64
	httpClient *http.Client

	gsOnce   sync.Once
	gsHandle osio.KeyStreamerAt
	gsErr    error
	s3Once   sync.Once
	s3Handle osio.KeyStreamerAt
	s3Err    error
}

// Option configures an URIOpener
type Option func(*URIOpener)

// WithHeaderSize sets the number of bytes read to decode the header
func WithHeaderSize(n int64) Option {
	return func(o *URIOpener) {
		if n > 0 {
			o.headerSize = n
		}
	}
}

// WithHTTPClient sets the client used for http(s) uris
func WithHTTPClient(c *http.Client) Option {
	return func(o *URIOpener) {
		o.httpClient = c
	}
}

// WithHTTPTimeout sets the timeout of the default http client
func WithHTTPTimeout(d time.Duration) Option {
	return func(o *URIOpener) {
		o.httpClient = &http.Client{Timeout: d}
	}
}

// NewURIOpener creates a new URIOpener
func NewURIOpener(opts ...Option) *URIOpener {
	o := &URIOpener{
		headerSize: DefaultHeaderSize,
		httpClient: &http.Client{Timeout: DefaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Open implements Opener. One read of at most headerSize bytes is done per call.
func (o *URIOpener) Open(ctx context.Context, fileID string) (*Dataset, error) {
	// Paths without scheme are local, relative or absolute
	var u uri.DefaultUri
	protocol := ""
	if strings.Contains(fileID, "://") {
		var err error
		if u, err = uri.ParseUri(fileID); err != nil {
			return nil, fmt.Errorf("Open.ParseURI: %w", err)
		}
		protocol = strings.ToLower(u.Protocol())
	}

	var reader io.ReaderAt
	var size int64
	switch protocol {
	case "file", "":
		f, err := os.Open(strings.TrimPrefix(fileID, "file://"))
		if err != nil {
			return nil, fmt.Errorf("Open: %w", err)
		}
		defer f.Close()
		stat, err := f.Stat()
		if err != nil {
			return nil, fmt.Errorf("Open.Stat: %w", err)
		}
		if stat.IsDir() {
			return nil, fmt.Errorf("Open: %s is a directory", fileID)
		}
		reader, size = f, stat.Size()
	case "gs", "s3", "http", "https":
		var handler osio.KeyStreamerAt
		var err error
		key := path.Join(u.Bucket(), u.Path())
		switch protocol {
		case "gs":
			o.gsOnce.Do(func() { o.gsHandle, o.gsErr = osioGcs.Handle(context.Background()) })
			if handler, err = o.gsHandle, o.gsErr; err != nil {
				return nil, fmt.Errorf("Open.GSHandle: %w", err)
			}
		case "s3":
			o.s3Once.Do(func() { o.s3Handle, o.s3Err = osioS3.Handle(context.Background()) })
			if handler, err = o.s3Handle, o.s3Err; err != nil {
				return nil, fmt.Errorf("Open.S3Handle: %w", err)
			}
		default:
			handler = &httpStreamer{ctx: ctx, client: o.httpClient}
			key = fileID
		}
		// A new adapter per call: no block is cached from one call to another.
		// A single attempt: failures are reported to the caller, never retried.
		adapter, err := osio.NewAdapter(handler, osio.Retries(0))
		if err != nil {
			return nil, fmt.Errorf("Open.NewAdapter: %w", err)
		}
		obj, err := adapter.Reader(key)
		if err != nil {
			return nil, fmt.Errorf("Open.Reader[%s]: %w", key, err)
		}
		reader, size = obj, obj.Size()
	default:
		return nil, fmt.Errorf("Open: unsupported protocol '%s' (%s)", protocol, fileID)
	}

	if size > o.headerSize {
		size = o.headerSize
	}
	ds, err := DecodeGeoTIFF(reader, size)
	if err != nil {
		return nil, fmt.Errorf("Open[%s].%w", fileID, err)
	}
	return ds, nil
}
