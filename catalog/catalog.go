package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/airbusgeo/geocube-stac/catalog/entities"
	"github.com/airbusgeo/geocube-stac/common"
	"github.com/airbusgeo/geocube-stac/interface/storage"
	"github.com/airbusgeo/geocube-stac/metadata"
	"github.com/airbusgeo/geocube-stac/service"
	"github.com/airbusgeo/geocube-stac/service/log"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers is the default number of products processed concurrently by Inventory
const DefaultWorkers = 10

// Catalog is the main class of this package
type Catalog struct {
	Lister  storage.Lister
	Reader  *metadata.Reader
	Workers int
}

// ProductOptions overrides the naming convention of the constellation
type ProductOptions struct {
	// Constellation (Unknown: deduced from the name of the product)
	Constellation common.Constellation
	// DatePattern and DateFormat override the date convention of the constellation
	DatePattern string
	DateFormat  string
	// Datetime overrides the acquisition date (ignored if zero)
	Datetime time.Time
}

// ProductItem creates the item of a product stored in productDir, whose assets are COGs.
// The footprint and the grid are read from the first asset. If it cannot be read, these fields are left empty.
// Configuration errors are fatal.
func (c *Catalog) ProductItem(ctx context.Context, productDir string, opts ProductOptions) (*entities.Item, error) {
	productName := metadata.FileName(productDir)
	ctx = log.With(ctx, zap.String("product", productName))

	files, err := c.Lister.ListFiles(ctx, productDir, string(service.ExtensionGTiff))
	if err != nil {
		return nil, fmt.Errorf("ProductItem.%w", err)
	}
	if len(files) == 0 {
		return nil, service.MakeFatal(fmt.Errorf("ProductItem: no asset found in %s", productDir))
	}

	constellation := opts.Constellation
	if constellation == common.Unknown {
		constellation = common.GetConstellationFromProductId(productName)
	}
	conv, _ := common.GetConvention(constellation)

	item := &entities.Item{
		ID:            productName,
		Constellation: constellation,
		Assets:        map[string]string{},
	}

	// Datetime
	if !opts.Datetime.IsZero() {
		item.Datetime = opts.Datetime.UTC()
	} else if item.Datetime, err = c.productDate(productDir, files[0], conv, opts); err != nil {
		return nil, fmt.Errorf("ProductItem.%w", err)
	}

	// Bands
	if conv.BandPrefixFields > 0 {
		item.Bands, err = metadata.ExtractBandsWithPrefix(files, conv.BandPrefixFields)
	} else {
		item.Bands, err = metadata.ExtractBands(files)
	}
	if err != nil {
		return nil, service.MakeFatal(fmt.Errorf("ProductItem.ExtractBands: %w", err))
	}
	if dup := service.Duplicates(item.Bands); len(dup) > 0 {
		log.Logger(ctx).Warn("duplicated bands", zap.Strings("bands", dup))
	}
	for i, band := range item.Bands {
		if _, ok := item.Assets[band]; !ok {
			item.Assets[band] = files[i]
		}
	}

	// Footprint & grid from a representative asset
	footprint, crs := c.Reader.ReadFootprint(ctx, files[0])
	if err := item.SetFootprint(footprint, crs); err != nil {
		return nil, fmt.Errorf("ProductItem.%w", err)
	}
	item.Shape, item.Transform = c.Reader.ReadGrid(ctx, files[0])
	if !item.HasRasterMetadata() {
		log.Logger(ctx).Warn("raster metadata unavailable", zap.String("asset", files[0]))
	}

	return item, nil
}

// productDate extracts the date from the name of the product, falling back to the name of the asset
func (c *Catalog) productDate(productDir, asset string, conv common.Convention, opts ProductOptions) (time.Time, error) {
	pattern, format := conv.DateRegexp, conv.DateFormat
	if opts.DatePattern != "" {
		pattern = opts.DatePattern
	}
	if opts.DateFormat != "" {
		format = opts.DateFormat
	}
	if pattern == "" || format == "" {
		return time.Time{}, service.MakeFatal(fmt.Errorf("productDate: no date convention for '%s': a date pattern and a date format must be provided", metadata.FileName(productDir)))
	}
	p, err := metadata.NewDatePattern(pattern, format)
	if err != nil {
		return time.Time{}, service.MakeFatal(fmt.Errorf("productDate.%w", err))
	}
	date, err := p.Extract(productDir)
	var noMatch *metadata.NoMatchError
	if errors.As(err, &noMatch) {
		date, err = p.Extract(asset)
	}
	if err != nil {
		return time.Time{}, service.MakeFatal(fmt.Errorf("productDate.%w", err))
	}
	return date, nil
}

func productItemWorker(ctx context.Context, c *Catalog, jobs <-chan int, productDirs []string, opts ProductOptions, items []*entities.Item) error {
	for i := range jobs {
		select {
		case <-ctx.Done():
		default:
			item, err := c.ProductItem(ctx, productDirs[i], opts)
			if err != nil {
				return err
			}
			items[i] = item
		}
	}
	return nil
}

// Inventory creates the items of several products concurrently.
// Items are returned in the order of productDirs. The first error cancels the inventory.
func (c *Catalog) Inventory(ctx context.Context, productDirs []string, opts ProductOptions) ([]*entities.Item, error) {
	items := make([]*entities.Item, len(productDirs))
	workers := c.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	// Create group
	wg, gctx := errgroup.WithContext(ctx)
	jobChan := make(chan int, len(productDirs))

	// Start workers
	for i := 0; i < workers && i < len(productDirs); i++ {
		wg.Go(func() error { return productItemWorker(gctx, c, jobChan, productDirs, opts, items) })
	}

	// Push jobs
	for i := range productDirs {
		jobChan <- i
	}
	close(jobChan)

	// Wait
	if err := wg.Wait(); err != nil {
		return nil, fmt.Errorf("Inventory.%w", err)
	}
	// Some jobs may have been skipped
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("Inventory: %w", err)
	}
	log.Logger(ctx).Sugar().Debugf("%d items created", len(items))
	return items, nil
}
