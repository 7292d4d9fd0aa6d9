package raster

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/airbusgeo/geocube-stac/service"
)

// httpStreamer implements osio.KeyStreamerAt with ranged GET requests. The key is the url.
type httpStreamer struct {
	ctx    context.Context
	client *http.Client
}

// StreamAt implements osio.KeyStreamerAt
func (h *httpStreamer) StreamAt(key string, off int64, n int64) (io.ReadCloser, int64, error) {
	req, err := http.NewRequestWithContext(h.ctx, http.MethodGet, key, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("StreamAt.NewRequest: %w", err)
	}
	req.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", off, off+n-1))
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("StreamAt[%s]: %w", key, err)
	}

	switch resp.StatusCode {
	case http.StatusPartialContent:
		size, err := contentRangeSize(resp.Header.Get("Content-Range"))
		if err != nil {
			resp.Body.Close()
			return nil, 0, fmt.Errorf("StreamAt[%s]: %w", key, err)
		}
		return resp.Body, size, nil
	case http.StatusOK:
		// Range not supported: skip the first bytes
		if resp.ContentLength < 0 {
			resp.Body.Close()
			return nil, 0, fmt.Errorf("StreamAt[%s]: range not supported and unknown content length", key)
		}
		if _, err := io.CopyN(io.Discard, resp.Body, off); err != nil {
			resp.Body.Close()
			if err == io.EOF {
				return nil, resp.ContentLength, io.EOF
			}
			return nil, 0, fmt.Errorf("StreamAt[%s].Discard: %w", key, err)
		}
		return struct {
			io.Reader
			io.Closer
		}{io.LimitReader(resp.Body, n), resp.Body}, resp.ContentLength, nil
	case http.StatusRequestedRangeNotSatisfiable:
		resp.Body.Close()
		size, _ := contentRangeSize(resp.Header.Get("Content-Range"))
		return nil, size, io.EOF
	case http.StatusNotFound, http.StatusGone:
		resp.Body.Close()
		return nil, 0, service.ErrFileNotFound{File: key}
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	resp.Body.Close()
	err = fmt.Errorf("StreamAt[%s]: %s: %s", key, resp.Status, body)
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, 0, service.MakeTemporary(err)
	}
	return nil, 0, err
}

// contentRangeSize returns the complete length of the object from a "bytes a-b/size" header
func contentRangeSize(contentRange string) (int64, error) {
	i := strings.LastIndex(contentRange, "/")
	if i == -1 {
		return 0, fmt.Errorf("invalid Content-Range: '%s'", contentRange)
	}
	size, err := strconv.ParseInt(contentRange[i+1:], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid Content-Range: '%s': %w", contentRange, err)
	}
	return size, nil
}
