package raster

import (
	"context"
	"fmt"
	"math"
)

// CRS is the coordinate reference system reported by a raster
type CRS struct {
	// EPSG code, 0 if the CRS is user-defined
	EPSG int `json:"epsg"`
	// Citation is the free-text description found in the raster, if any
	Citation string `json:"citation,omitempty"`
}

// String returns the authority representation of the CRS (e.g. EPSG:32701)
func (c CRS) String() string {
	if c.EPSG == 0 {
		if c.Citation != "" {
			return c.Citation
		}
		return "user-defined"
	}
	return fmt.Sprintf("EPSG:%d", c.EPSG)
}

// Equal returns true if both CRS refer to the same authority code (or the same citation for user-defined ones)
func (c CRS) Equal(o CRS) bool {
	if c.EPSG != 0 || o.EPSG != 0 {
		return c.EPSG == o.EPSG
	}
	return c.Citation == o.Citation
}

// Dataset is the header of an opened raster
type Dataset struct {
	Width  int
	Height int
	// GeoTransform in GDAL order: originX, pixelWidth, rowRotation, originY, columnRotation, pixelHeight
	GeoTransform [6]float64
	// CRS is nil if the raster does not carry any
	CRS *CRS
}

// Shape returns the size of the raster as [rows, columns]
func (ds *Dataset) Shape() []int {
	return []int{ds.Height, ds.Width}
}

// Transform returns the affine transform as 9 row-major coefficients:
// scale-x, shear-x, origin-x, shear-y, scale-y, origin-y, 0, 0, 1
func (ds *Dataset) Transform() []float64 {
	gt := ds.GeoTransform
	return []float64{gt[1], gt[2], gt[0], gt[4], gt[5], gt[3], 0, 0, 1}
}

// Apply maps the pixel coordinates (col, row) to ground coordinates
func (ds *Dataset) Apply(col, row float64) (x, y float64) {
	gt := ds.GeoTransform
	return gt[0] + col*gt[1] + row*gt[2], gt[3] + col*gt[4] + row*gt[5]
}

// Bounds returns the bounding box of the four corners of the raster, in its CRS
func (ds *Dataset) Bounds() (minx, miny, maxx, maxy float64) {
	minx, miny = math.Inf(1), math.Inf(1)
	maxx, maxy = math.Inf(-1), math.Inf(-1)
	for _, c := range [][2]float64{{0, 0}, {float64(ds.Width), 0}, {0, float64(ds.Height)}, {float64(ds.Width), float64(ds.Height)}} {
		x, y := ds.Apply(c[0], c[1])
		minx, maxx = math.Min(minx, x), math.Max(maxx, x)
		miny, maxy = math.Min(miny, y), math.Max(maxy, y)
	}
	return
}

// Opener opens a raster given its path or uri and returns its header
type Opener interface {
	// Open reads the header of the raster.
	// Returns service.ErrFileNotFound (or an error satisfying service.NotFound) if the raster does not exist
	Open(ctx context.Context, fileID string) (*Dataset, error)
}
