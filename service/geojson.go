package service

import (
	"encoding/json"
	"fmt"

	"github.com/go-spatial/geom"
	"github.com/go-spatial/geom/encoding/geojson"
)

// Footprint returns the closed ring of the bounding box, starting at the bottom-right corner:
// (maxx,miny), (maxx,maxy), (minx,maxy), (minx,miny), (maxx,miny).
// Consumers rely on this vertex order: do not reorder.
func Footprint(minx, miny, maxx, maxy float64) geom.Polygon {
	return geom.Polygon{{
		{maxx, miny},
		{maxx, maxy},
		{minx, maxy},
		{minx, miny},
		{maxx, miny},
	}}
}

// ToGeoJSON encodes the geometry as a GeoJSON geometry object
func ToGeoJSON(g geom.Geometry) (json.RawMessage, error) {
	b, err := json.Marshal(geojson.Geometry{Geometry: g})
	if err != nil {
		return nil, fmt.Errorf("ToGeoJSON: %w", err)
	}
	return b, nil
}
