package metadata

import (
	"context"

	"github.com/airbusgeo/geocube-stac/interface/raster"
	"github.com/airbusgeo/geocube-stac/service"
	"github.com/airbusgeo/geocube-stac/service/log"
	"github.com/go-spatial/geom"
	"go.uber.org/zap"
)

// Reader reads the footprint and the grid of a raster from its header
type Reader struct {
	opener raster.Opener
}

// NewReader creates a new Reader using the opener to read the headers
func NewReader(opener raster.Opener) *Reader {
	return &Reader{opener: opener}
}

// ReadFootprint returns the bounding box of the raster as a closed ring of 5 points
// (bottom-right, top-right, top-left, bottom-left, bottom-right) in the native CRS of the raster, and this CRS.
// CRS is nil if the raster is not associated with a coordinate system.
// If the raster cannot be opened, ReadFootprint returns nil, nil.
func (r *Reader) ReadFootprint(ctx context.Context, fileID string) (geom.Polygon, *raster.CRS) {
	ds := r.open(ctx, fileID)
	if ds == nil {
		return nil, nil
	}
	return service.Footprint(ds.Bounds()), ds.CRS
}

// ReadGrid returns the shape of the raster [rows, cols] and its affine transform (9 coefficients).
// If the raster cannot be opened, ReadGrid returns nil, nil.
func (r *Reader) ReadGrid(ctx context.Context, fileID string) ([]int, []float64) {
	ds := r.open(ctx, fileID)
	if ds == nil {
		return nil, nil
	}
	return ds.Shape(), ds.Transform()
}

// open makes a single attempt, the failure is logged and nil is returned
func (r *Reader) open(ctx context.Context, fileID string) *raster.Dataset {
	ds, err := r.opener.Open(ctx, fileID)
	if err == nil {
		return ds
	}
	if service.NotFound(err) {
		log.Logger(ctx).Debug("raster not found", zap.String("uri", fileID), zap.Error(err))
	} else {
		log.Logger(ctx).Warn("unable to read raster", zap.String("uri", fileID), zap.Error(err))
	}
	return nil
}
