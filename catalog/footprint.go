package catalog

import (
	"context"
	"fmt"

	"github.com/airbusgeo/geocube-stac/catalog/entities"
	"github.com/airbusgeo/geocube-stac/service/geometry"
	"github.com/airbusgeo/geocube-stac/service/log"
	"github.com/go-spatial/geom"
	"go.uber.org/zap"
)

// Footprint returns the union of the footprints of the items, and their common CRS.
// Items without footprint are ignored. Returns nil if no item has a footprint.
// The footprints are not reprojected: all the items must share the same CRS.
func Footprint(items []*entities.Item) (geom.Geometry, string, error) {
	var footprints []geom.Polygon
	crs := ""
	for _, item := range items {
		if item == nil || item.Footprint == nil {
			continue
		}
		if len(footprints) == 0 {
			crs = item.CRS
		} else if item.CRS != crs {
			return nil, "", fmt.Errorf("Footprint: items with different CRS: %s (%s) and %s", crs, item.ID, item.CRS)
		}
		footprints = append(footprints, item.Footprint)
	}
	if len(footprints) == 0 {
		return nil, "", nil
	}
	if len(footprints) == 1 {
		return footprints[0], crs, nil
	}
	g, err := geometry.FootprintUnion(footprints, geometry.TOLERANCE_PROJECTED)
	if err != nil {
		return nil, "", fmt.Errorf("Footprint.%w", err)
	}
	return g, crs, nil
}

// Collection gathers the items in an ItemCollection whose extent is the union of their footprints.
// The extent is left empty if the items do not share a CRS.
func Collection(ctx context.Context, items []*entities.Item) (entities.ItemCollection, error) {
	collection := entities.NewItemCollection(items)
	g, crs, err := Footprint(items)
	if err != nil {
		log.Logger(ctx).Warn("no common footprint", zap.Error(err))
		return collection, nil
	}
	if err := collection.SetExtent(g, crs); err != nil {
		return entities.ItemCollection{}, fmt.Errorf("Collection.%w", err)
	}
	return collection, nil
}
