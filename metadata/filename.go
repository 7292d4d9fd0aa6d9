package metadata

import (
	"path"
	"strings"
)

// FileName returns the last segment of a path, an object-storage uri or an http(s) url.
// The scheme, the host or bucket, the query and the fragment are discarded,
// as well as a trailing separator: "gs://bucket/product/" returns "product".
func FileName(fileID string) string {
	p := fileID
	if i := strings.Index(p, "://"); i != -1 {
		p = p[i+3:]
		if j := strings.IndexAny(p, "/?#"); j == -1 {
			// Only a host or a bucket
			return ""
		} else {
			p = p[j:]
		}
		if j := strings.IndexAny(p, "?#"); j != -1 {
			p = p[:j]
		}
	}
	p = strings.TrimRight(strings.ReplaceAll(p, "\\", "/"), "/")
	if p == "" {
		return ""
	}
	return path.Base(p)
}
