package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/airbusgeo/geocube-stac/catalog"
	"github.com/airbusgeo/geocube-stac/common"
	"github.com/airbusgeo/geocube-stac/interface/raster"
	"github.com/airbusgeo/geocube-stac/interface/storage"
	"github.com/airbusgeo/geocube-stac/metadata"
	"github.com/airbusgeo/geocube-stac/service"
	"github.com/airbusgeo/geocube-stac/service/log"
	"github.com/araddon/dateparse"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type config struct {
	Products      string
	Constellation string
	DatePattern   string
	DateFormat    string
	Datetime      string
	Workers       int
	OutputDir     string

	S3Endpoint        string
	S3Region          string
	S3AccessKeyID     string
	S3SecretAccessKey string

	HTTPTimeout time.Duration
	HeaderSize  int64
	Listen      string
}

func newAppConfig() (*config, error) {
	config := config{}
	flag.StringVar(&config.Products, "products", "", "comma-separated list of product directories (local path, gs:// or s3:// uri). If empty, an http server is started")
	flag.StringVar(&config.Constellation, "constellation", "", "constellation of the products (sentinel1, sentinel2, landsat89, phr, spot). Deduced from the product name if empty")
	flag.StringVar(&config.DatePattern, "date-pattern", "", "regular expression with one capturing group matching the acquisition date (optional, overrides the constellation convention)")
	flag.StringVar(&config.DateFormat, "date-format", "", "strftime-like format of the captured date (e.g. %Y%m%dT%H%M%S)")
	flag.StringVar(&config.Datetime, "datetime", "", "acquisition date of the products (optional, any layout, overrides the date found in the names)")
	flag.IntVar(&config.Workers, "workers", catalog.DefaultWorkers, "number of products processed concurrently")
	flag.StringVar(&config.OutputDir, "output", "", "directory where <product>.json are written (stdout if empty)")

	flag.StringVar(&config.S3Endpoint, "s3-endpoint", "", "endpoint of an S3-compatible storage (optional)")
	flag.StringVar(&config.S3Region, "s3-region", "", "S3 region (optional)")
	flag.StringVar(&config.S3AccessKeyID, "s3-access-key", "", "S3 access key id (optional, default credentials chain if empty)")
	flag.StringVar(&config.S3SecretAccessKey, "s3-secret-key", "", "S3 secret access key (optional)")

	flag.DurationVar(&config.HTTPTimeout, "http-timeout", raster.DefaultHTTPTimeout, "timeout of the requests to read a raster over http(s)")
	flag.Int64Var(&config.HeaderSize, "header-size", raster.DefaultHeaderSize, "number of bytes read to decode the header of a raster")
	flag.StringVar(&config.Listen, "listen", ":8080", "address of the http server")
	flag.Parse()

	if config.Workers <= 0 {
		return nil, fmt.Errorf("workers must be positive: %d", config.Workers)
	}
	if (config.DatePattern == "") != (config.DateFormat == "") {
		return nil, fmt.Errorf("date-pattern and date-format must be provided together")
	}
	return &config, nil
}

func main() {
	ctx, cncl := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cncl()
	err := run(ctx)
	log.Sync()
	if err != nil {
		log.Fatal("error", zap.Error(err))
	}
}

func run(ctx context.Context) error {
	config, err := newAppConfig()
	if err != nil {
		return err
	}

	opener := raster.NewURIOpener(raster.WithHTTPTimeout(config.HTTPTimeout), raster.WithHeaderSize(config.HeaderSize))
	c := catalog.Catalog{
		Lister: storage.NewURILister(storage.S3Config{
			Endpoint:        config.S3Endpoint,
			Region:          config.S3Region,
			AccessKeyID:     config.S3AccessKeyID,
			SecretAccessKey: config.S3SecretAccessKey,
		}),
		Reader:  metadata.NewReader(opener),
		Workers: config.Workers,
	}

	if config.Products != "" {
		opts := catalog.ProductOptions{
			DatePattern: config.DatePattern,
			DateFormat:  config.DateFormat,
		}
		if config.Constellation != "" {
			if opts.Constellation = common.GetConstellationFromString(config.Constellation); opts.Constellation == common.Unknown {
				return fmt.Errorf("unknown constellation: %s", config.Constellation)
			}
		}
		if config.Datetime != "" {
			if opts.Datetime, err = dateparse.ParseIn(config.Datetime, time.UTC); err != nil {
				return fmt.Errorf("datetime: %w", err)
			}
		}
		return inventory(ctx, &c, splitProducts(config.Products), opts, config.OutputDir)
	}

	// HTTP Server
	r := mux.NewRouter()
	c.AddHandler(r)
	headersOk := handlers.AllowedHeaders([]string{"*"})
	originsOk := handlers.AllowedOrigins([]string{"*"})
	methodsOk := handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"})
	s := http.Server{
		Addr:    config.Listen,
		Handler: handlers.CORS(originsOk, headersOk, methodsOk)(handlers.LoggingHandler(os.Stdout, r)),
	}

	go func() {
		log.Logger(ctx).Info("stacmeta listening on " + config.Listen)
		if err := s.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Logger(ctx).Fatal("stacmeta.ListenAndServe", zap.Error(err))
		}
	}()

	<-ctx.Done()
	sctx, cncl := context.WithTimeout(context.Background(), 30*time.Second)
	defer cncl()
	return s.Shutdown(sctx)
}

func splitProducts(products string) []string {
	var res []string
	for _, p := range strings.Split(products, ",") {
		if p = strings.TrimSpace(p); p != "" {
			res = append(res, p)
		}
	}
	return res
}

func inventory(ctx context.Context, c *catalog.Catalog, productDirs []string, opts catalog.ProductOptions, outputDir string) error {
	items, err := c.Inventory(ctx, productDirs, opts)
	if err != nil {
		if service.Fatal(err) || metadata.IsConfigurationError(err) {
			return fmt.Errorf("configuration error: %w", err)
		}
		return err
	}

	if outputDir == "" {
		collection, err := catalog.Collection(ctx, items)
		if err != nil {
			return fmt.Errorf("inventory.%w", err)
		}
		log.Logger(ctx).Sugar().Infof("%d items (%s)", len(items), collection.CRS)
		return service.WriteJSON(os.Stdout, collection)
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("inventory.MkdirAll: %w", err)
	}
	for _, item := range items {
		if err := service.ToJSON(item, outputDir, string(service.WithExt(item.ID, service.ExtensionJSON))); err != nil {
			return fmt.Errorf("inventory.%w", err)
		}
	}
	return nil
}
