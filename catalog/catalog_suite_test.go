package catalog_test

import (
	"context"
	"testing"

	"github.com/airbusgeo/geocube-stac/catalog"
	"github.com/airbusgeo/geocube-stac/interface/raster"
	"github.com/airbusgeo/geocube-stac/metadata"
	"github.com/airbusgeo/geocube-stac/service"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

// MockLister implements storage.Lister
type MockLister struct {
	dirs map[string][]string
}

// ListFiles implements storage.Lister
func (l *MockLister) ListFiles(ctx context.Context, dir, ext string) ([]string, error) {
	files, ok := l.dirs[dir]
	if !ok {
		return nil, service.ErrFileNotFound{File: dir}
	}
	return files, nil
}

// MockOpener implements raster.Opener
type MockOpener struct {
	datasets map[string]raster.Dataset
}

// Open implements raster.Opener
func (o *MockOpener) Open(ctx context.Context, fileID string) (*raster.Dataset, error) {
	ds, ok := o.datasets[fileID]
	if !ok {
		return nil, service.ErrFileNotFound{File: fileID}
	}
	return &ds, nil
}

const (
	s2Product = "S2A_MSIL2A_20151022T222102_T01KBU"
	s2Dir     = "s3://public-eo-data/common_sensing/fiji/sentinel_2/" + s2Product + "/"
	l8Product = "LC08_L1TP_076071_20200622_20200707_01_T1"
	l8Dir     = "s3://public-eo-data/common_sensing/fiji/landsat_8/" + l8Product
)

var s2Bands = []string{"B01_60m", "B03_10m", "SCL_20m", "B09_60m", "B02_10m", "B11_20m", "B12_20m", "B08_10m",
	"B04_10m", "B07_20m", "B8A_20m", "AOT_10m", "B06_20m", "WVP_10m", "B05_20m"}

func s2Files() []string {
	files := make([]string, len(s2Bands))
	for i, b := range s2Bands {
		files[i] = s2Dir + s2Product + "_" + b + ".tif"
	}
	return files
}

var ctx context.Context
var lister *MockLister
var opener *MockOpener
var cat *catalog.Catalog

var _ = BeforeSuite(func() {
	ctx = context.Background()
})

var _ = BeforeEach(func() {
	lister = &MockLister{dirs: map[string][]string{
		s2Dir: s2Files(),
		l8Dir: {
			l8Dir + "/" + l8Product + "_B4.TIF",
			l8Dir + "/" + l8Product + "_B10.TIF",
			l8Dir + "/" + l8Product + "_BQA.TIF",
		},
		"/data/empty": {},
		"/data/custom_20210304": {
			"/data/custom_20210304/custom_20210304_red.tif",
		},
	}}
	opener = &MockOpener{datasets: map[string]raster.Dataset{
		s2Files()[0]: {
			Width:        1830,
			Height:       1830,
			GeoTransform: [6]float64{199980, 60, 0, 7900000, 0, -60},
			CRS:          &raster.CRS{EPSG: 32701},
		},
		"/data/custom_20210304/custom_20210304_red.tif": {
			Width:        100,
			Height:       100,
			GeoTransform: [6]float64{300000, 60, 0, 7900000, 0, -60},
			CRS:          &raster.CRS{EPSG: 32701},
		},
	}}
	cat = &catalog.Catalog{Lister: lister, Reader: metadata.NewReader(opener), Workers: 2}
})

func TestCatalog(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Catalog Suite")
}
