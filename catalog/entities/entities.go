package entities

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/airbusgeo/geocube-stac/common"
	"github.com/airbusgeo/geocube-stac/interface/raster"
	"github.com/airbusgeo/geocube-stac/service"
	"github.com/go-spatial/geom"
)

// Item gathers the spatiotemporal metadata of a product, to be registered in a catalog
type Item struct {
	ID            string               `json:"id"`
	Constellation common.Constellation `json:"constellation"`
	Datetime      time.Time            `json:"datetime"`
	Bands         []string             `json:"bands"`
	Assets        map[string]string    `json:"assets"`
	// Geometry is the GeoJSON footprint in the native CRS (null if the raster cannot be read)
	Geometry  json.RawMessage `json:"geometry"`
	CRS       string          `json:"crs,omitempty"`
	EPSG      *int            `json:"proj:epsg"`
	Shape     []int           `json:"proj:shape"`
	Transform []float64       `json:"proj:transform"`

	Footprint geom.Polygon `json:"-"`
}

// SetFootprint sets Footprint, Geometry, CRS and EPSG
// footprint and crs may be nil
func (it *Item) SetFootprint(footprint geom.Polygon, crs *raster.CRS) error {
	it.Footprint, it.Geometry, it.CRS, it.EPSG = nil, nil, "", nil
	if footprint != nil {
		g, err := service.ToGeoJSON(footprint)
		if err != nil {
			return fmt.Errorf("SetFootprint.%w", err)
		}
		it.Footprint, it.Geometry = footprint, g
	}
	if crs != nil {
		it.CRS = crs.String()
		if crs.EPSG != 0 {
			epsg := crs.EPSG
			it.EPSG = &epsg
		}
	}
	return nil
}

// HasRasterMetadata returns true if the footprint and the grid of the item are known
func (it *Item) HasRasterMetadata() bool {
	return it.Footprint != nil && it.Shape != nil
}

// ItemCollection is the result of an inventory
// Geometry and CRS are the union of the footprints of the features, when they share a CRS
type ItemCollection struct {
	Type     string          `json:"type"`
	Geometry json.RawMessage `json:"geometry,omitempty"`
	CRS      string          `json:"crs,omitempty"`
	Features []*Item         `json:"features"`
}

// NewItemCollection creates an ItemCollection
func NewItemCollection(items []*Item) ItemCollection {
	if items == nil {
		items = []*Item{}
	}
	return ItemCollection{Type: "FeatureCollection", Features: items}
}

// SetExtent sets the geometry covering all the features. g may be nil
func (c *ItemCollection) SetExtent(g geom.Geometry, crs string) error {
	c.Geometry, c.CRS = nil, ""
	if g == nil {
		return nil
	}
	b, err := service.ToGeoJSON(g)
	if err != nil {
		return fmt.Errorf("SetExtent.%w", err)
	}
	c.Geometry, c.CRS = b, crs
	return nil
}
