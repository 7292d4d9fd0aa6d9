package catalog_test

import (
	"time"

	"github.com/airbusgeo/geocube-stac/catalog"
	"github.com/airbusgeo/geocube-stac/catalog/entities"
	"github.com/airbusgeo/geocube-stac/common"
	"github.com/airbusgeo/geocube-stac/metadata"
	"github.com/airbusgeo/geocube-stac/service"
	"github.com/go-spatial/geom"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("ProductItem", func() {
	var item *entities.Item
	var err error
	var productDir string
	var opts catalog.ProductOptions

	JustBeforeEach(func() {
		item, err = cat.ProductItem(ctx, productDir, opts)
	})

	BeforeEach(func() {
		opts = catalog.ProductOptions{}
	})

	Context("Sentinel-2 product", func() {
		BeforeEach(func() {
			productDir = s2Dir
		})
		It("should create the item", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(item.ID).To(Equal(s2Product))
			Expect(item.Constellation).To(Equal(common.Sentinel2))
			Expect(item.Datetime).To(Equal(time.Date(2015, 10, 22, 22, 21, 2, 0, time.UTC)))
			Expect(item.Bands).To(Equal(s2Bands))
			Expect(item.Assets).To(HaveLen(15))
			Expect(item.Assets["B8A_20m"]).To(Equal(s2Dir + s2Product + "_B8A_20m.tif"))
		})
		It("should read the raster metadata of the first asset", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(item.HasRasterMetadata()).To(BeTrue())
			Expect(item.Footprint).To(Equal(geom.Polygon{{{309780, 7790200}, {309780, 7900000}, {199980, 7900000}, {199980, 7790200}, {309780, 7790200}}}))
			Expect(item.CRS).To(Equal("EPSG:32701"))
			Expect(*item.EPSG).To(Equal(32701))
			Expect(item.Shape).To(Equal([]int{1830, 1830}))
			Expect(item.Transform).To(Equal([]float64{60.0, 0.0, 199980.0, 0.0, -60.0, 7900000.0, 0.0, 0.0, 1.0}))
		})
	})

	Context("duplicated assets", func() {
		BeforeEach(func() {
			productDir = s2Dir
			lister.dirs[s2Dir] = append(s2Files(), s2Files()[0])
		})
		It("should keep the duplicates", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(item.Bands).To(HaveLen(16))
			Expect(item.Assets).To(HaveLen(15))
		})
	})

	Context("unreadable raster", func() {
		BeforeEach(func() {
			productDir = l8Dir
		})
		It("should leave the raster metadata empty", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(item.Constellation).To(Equal(common.Landsat89))
			Expect(item.Datetime).To(Equal(time.Date(2020, 6, 22, 0, 0, 0, 0, time.UTC)))
			Expect(item.Bands).To(Equal([]string{"B4", "B10", "BQA"}))
			Expect(item.HasRasterMetadata()).To(BeFalse())
			Expect(item.Geometry).To(BeNil())
			Expect(item.EPSG).To(BeNil())
			Expect(item.Shape).To(BeNil())
			Expect(item.Transform).To(BeNil())
		})
	})

	Context("overridden datetime", func() {
		BeforeEach(func() {
			productDir = l8Dir
			opts.Datetime = time.Date(2020, 6, 22, 10, 30, 0, 0, time.FixedZone("UTC+2", 7200))
		})
		It("should use the datetime in UTC", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(item.Datetime).To(Equal(time.Date(2020, 6, 22, 8, 30, 0, 0, time.UTC)))
		})
	})

	Context("unknown constellation", func() {
		BeforeEach(func() {
			productDir = "/data/custom_20210304"
		})
		It("should require a date pattern", func() {
			Expect(err).To(HaveOccurred())
			Expect(service.Fatal(err)).To(BeTrue())
		})
		Context("with a date pattern", func() {
			BeforeEach(func() {
				opts.DatePattern = `(\d{8})`
				opts.DateFormat = "%Y%m%d"
			})
			It("should create the item", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(item.Constellation).To(Equal(common.Unknown))
				Expect(item.Datetime).To(Equal(time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC)))
				Expect(item.Bands).To(Equal([]string{"red"}))
				Expect(item.HasRasterMetadata()).To(BeTrue())
			})
		})
	})

	Context("wrong date convention", func() {
		BeforeEach(func() {
			productDir = s2Dir
			opts.DatePattern = `(\d{14})`
		})
		It("should return a fatal configuration error", func() {
			Expect(err).To(HaveOccurred())
			Expect(service.Fatal(err)).To(BeTrue())
			Expect(metadata.IsConfigurationError(err)).To(BeTrue())
		})
	})

	Context("empty product", func() {
		BeforeEach(func() {
			productDir = "/data/empty"
		})
		It("should return a fatal error", func() {
			Expect(err).To(HaveOccurred())
			Expect(service.Fatal(err)).To(BeTrue())
		})
	})

	Context("missing product", func() {
		BeforeEach(func() {
			productDir = "/data/missing"
		})
		It("should return a not found error", func() {
			Expect(err).To(HaveOccurred())
			Expect(service.NotFound(err)).To(BeTrue())
			Expect(service.Fatal(err)).To(BeFalse())
		})
	})
})

var _ = Describe("Inventory", func() {
	var items []*entities.Item
	var err error
	var productDirs []string

	JustBeforeEach(func() {
		items, err = cat.Inventory(ctx, productDirs, catalog.ProductOptions{})
	})

	Context("several products", func() {
		BeforeEach(func() {
			productDirs = []string{l8Dir, s2Dir, l8Dir}
		})
		It("should keep the order of the products", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(items).To(HaveLen(3))
			Expect(items[0].ID).To(Equal(l8Product))
			Expect(items[1].ID).To(Equal(s2Product))
			Expect(items[2].ID).To(Equal(l8Product))
		})
		It("should compute the union of the footprints", func() {
			Expect(err).NotTo(HaveOccurred())
			g, crs, err := catalog.Footprint(items)
			Expect(err).NotTo(HaveOccurred())
			Expect(crs).To(Equal("EPSG:32701"))
			Expect(g).To(Equal(items[1].Footprint))
		})
	})

	Context("one product fails", func() {
		BeforeEach(func() {
			productDirs = []string{s2Dir, "/data/missing", l8Dir}
		})
		It("should return an error", func() {
			Expect(err).To(HaveOccurred())
			Expect(items).To(BeNil())
		})
	})

	Context("no product", func() {
		BeforeEach(func() {
			productDirs = nil
		})
		It("should return an empty inventory", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(items).To(BeEmpty())
		})
	})
})

var _ = Describe("Footprint", func() {
	It("should merge the footprints sharing a CRS", func() {
		s2, err := cat.ProductItem(ctx, s2Dir, catalog.ProductOptions{})
		Expect(err).NotTo(HaveOccurred())
		custom, err := cat.ProductItem(ctx, "/data/custom_20210304", catalog.ProductOptions{DatePattern: `(\d{8})`, DateFormat: "%Y%m%d"})
		Expect(err).NotTo(HaveOccurred())

		g, crs, err := catalog.Footprint([]*entities.Item{s2, custom})
		Expect(err).NotTo(HaveOccurred())
		Expect(crs).To(Equal("EPSG:32701"))
		Expect(g).NotTo(BeNil())
	})

	It("should reject different CRS", func() {
		a := &entities.Item{ID: "a", CRS: "EPSG:32701", Footprint: geom.Polygon{{{1, 0}, {1, 1}, {0, 1}, {0, 0}, {1, 0}}}}
		b := &entities.Item{ID: "b", CRS: "EPSG:32601", Footprint: geom.Polygon{{{1, 0}, {1, 1}, {0, 1}, {0, 0}, {1, 0}}}}
		_, _, err := catalog.Footprint([]*entities.Item{a, b})
		Expect(err).To(HaveOccurred())
	})

	It("should ignore items without footprint", func() {
		g, crs, err := catalog.Footprint([]*entities.Item{{ID: "a"}, nil})
		Expect(err).NotTo(HaveOccurred())
		Expect(g).To(BeNil())
		Expect(crs).To(BeEmpty())
	})
})

var _ = Describe("Collection", func() {
	It("should set the union of the footprints as extent", func() {
		items, err := cat.Inventory(ctx, []string{s2Dir, l8Dir}, catalog.ProductOptions{})
		Expect(err).NotTo(HaveOccurred())
		collection, err := catalog.Collection(ctx, items)
		Expect(err).NotTo(HaveOccurred())
		Expect(collection.Features).To(HaveLen(2))
		Expect(collection.CRS).To(Equal("EPSG:32701"))
		Expect(string(collection.Geometry)).To(Equal(string(items[0].Geometry)))
	})

	It("should leave the extent empty for different CRS", func() {
		a := &entities.Item{ID: "a", CRS: "EPSG:32701", Footprint: geom.Polygon{{{1, 0}, {1, 1}, {0, 1}, {0, 0}, {1, 0}}}}
		b := &entities.Item{ID: "b", CRS: "EPSG:32601", Footprint: geom.Polygon{{{1, 0}, {1, 1}, {0, 1}, {0, 0}, {1, 0}}}}
		collection, err := catalog.Collection(ctx, []*entities.Item{a, b})
		Expect(err).NotTo(HaveOccurred())
		Expect(collection.Features).To(HaveLen(2))
		Expect(collection.Geometry).To(BeNil())
		Expect(collection.CRS).To(BeEmpty())
	})
})
