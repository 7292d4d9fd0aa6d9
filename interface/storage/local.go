package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/airbusgeo/geocube-stac/service"
)

// LocalLister implements Lister for the local file system
type LocalLister struct{}

// ListFiles implements Lister
func (LocalLister) ListFiles(ctx context.Context, dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, service.ErrFileNotFound{File: dir}
		}
		return nil, fmt.Errorf("LocalLister.ReadDir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return filterSort(files, ext), nil
}
