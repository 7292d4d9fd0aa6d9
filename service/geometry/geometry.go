package geometry

import (
	"fmt"

	"github.com/go-spatial/geom"
	geomwkt "github.com/go-spatial/geom/encoding/wkt"
	"github.com/paulsmith/gogeos/geos"
)

// GeosToGeom generates a geom.Geometry from a geos.Geometry
func GeosToGeom(g *geos.Geometry) (geom.Geometry, error) {
	wkt, err := g.ToWKT()
	if err != nil {
		return nil, fmt.Errorf("GeosToGeom.ToWKT: %w", err)
	}
	geometry, err := geomwkt.DecodeString(wkt)
	if err != nil {
		return nil, fmt.Errorf("GeosToGeom.DecodeString: %w", err)
	}

	return geometry, nil
}

// PolygonToGeos generates a geos.Geometry from a geom.Polygon (first ring is the shell)
func PolygonToGeos(p geom.Polygon) (*geos.Geometry, error) {
	if len(p) == 0 {
		return nil, fmt.Errorf("PolygonToGeos: empty polygon")
	}
	rings := make([][]geos.Coord, len(p))
	for i, ring := range p {
		for _, pt := range ring {
			rings[i] = append(rings[i], geos.NewCoord(pt[0], pt[1]))
		}
	}
	g, err := geos.NewPolygon(rings[0], rings[1:]...)
	if err != nil {
		return nil, fmt.Errorf("PolygonToGeos.NewPolygon: %w", err)
	}
	return g, nil
}

// TOLERANCE_PROJECTED is the simplification tolerance for geometries in projected (metric) CRS
var TOLERANCE_PROJECTED = 0.01

// FootprintUnion merges the footprints (expressed in the same CRS)
func FootprintUnion(footprints []geom.Polygon, tolerance float64) (geom.Geometry, error) {
	var geoms []*geos.Geometry
	for _, fp := range footprints {
		g, err := PolygonToGeos(fp)
		if err != nil {
			return nil, fmt.Errorf("FootprintUnion.%w", err)
		}
		geoms = append(geoms, g)
	}
	if len(geoms) == 0 {
		return nil, fmt.Errorf("FootprintUnion: no footprint")
	}
	union, err := Union(geoms, tolerance)
	if err != nil {
		return nil, fmt.Errorf("FootprintUnion.%w", err)
	}
	return GeosToGeom(union)
}

func Union(geoms []*geos.Geometry, tolerance float64) (*geos.Geometry, error) {
	aoi, err := UnaryUnion(geoms)
	if err == nil {
		if aoi, err = aoi.Simplify(tolerance); err != nil {
			return nil, fmt.Errorf("Union.Simplify: %w", err)
		}
		return aoi, nil
	}
	// Union all failed, retry one by one with simplify
	aoi = geoms[0]
	for _, geom := range geoms[1:] {
		if geom, err = geom.Simplify(tolerance); err != nil {
			return nil, fmt.Errorf("Union.Simplify: %w", err)
		}
		if aoi, err = geom.Union(aoi); err != nil {
			return nil, fmt.Errorf("Union: %w", err)
		}
	}
	return aoi, nil
}

func UnaryUnion(geoms []*geos.Geometry) (*geos.Geometry, error) {
	aoi, err := geos.NewCollection(geos.MULTIPOLYGON, geoms...)
	if err != nil {
		return nil, fmt.Errorf("UnaryUnion.NewCollection: %w", err)
	}
	if aoi, err = aoi.UnaryUnion(); err != nil {
		return nil, fmt.Errorf("UnaryUnion.UnaryUnion: %w", err)
	}
	return aoi, nil
}
