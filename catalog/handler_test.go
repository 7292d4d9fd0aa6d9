package catalog_test

import (
	"encoding/json"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/gorilla/mux"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Handler", func() {
	var router *mux.Router
	var rec *httptest.ResponseRecorder

	BeforeEach(func() {
		router = mux.NewRouter()
		cat.AddHandler(router)
		rec = httptest.NewRecorder()
	})

	get := func(path string, params url.Values) {
		req := httptest.NewRequest("GET", path+"?"+params.Encode(), nil)
		router.ServeHTTP(rec, req)
	}
	decode := func(v interface{}) {
		Expect(json.Unmarshal(rec.Body.Bytes(), v)).To(Succeed())
	}

	Describe("date", func() {
		It("should return the date", func() {
			get("/metadata/date", url.Values{"uri": {s2Files()[0]}, "pattern": {`(\d{8}T\d{6})`}, "format": {"%Y%m%dT%H%M%S"}})
			Expect(rec.Code).To(Equal(200))
			Expect(rec.Header().Get("X-Request-Id")).NotTo(BeEmpty())
			var resp map[string]string
			decode(&resp)
			Expect(resp["datetime"]).To(Equal("2015-10-22T22:21:02Z"))
		})
		It("should reject a wrong pattern", func() {
			get("/metadata/date", url.Values{"uri": {s2Files()[0]}, "pattern": {`(\d{14})`}, "format": {"%Y%m%d%H%M%S"}})
			Expect(rec.Code).To(Equal(400))
		})
		It("should require the parameters", func() {
			get("/metadata/date", url.Values{"uri": {s2Files()[0]}})
			Expect(rec.Code).To(Equal(400))
		})
	})

	Describe("bands", func() {
		post := func(body string) {
			req := httptest.NewRequest("POST", "/metadata/bands", strings.NewReader(body))
			req.Header.Set("X-Request-Id", "my-request")
			router.ServeHTTP(rec, req)
		}
		It("should return the bands", func() {
			files, _ := json.Marshal(map[string][]string{"files": s2Files()})
			post(string(files))
			Expect(rec.Code).To(Equal(200))
			Expect(rec.Header().Get("X-Request-Id")).To(Equal("my-request"))
			var resp map[string][]string
			decode(&resp)
			Expect(resp["bands"]).To(Equal(s2Bands))
		})
		It("should reject malformed names", func() {
			post(`{"files": ["/data/noextension"]}`)
			Expect(rec.Code).To(Equal(400))
		})
		It("should reject an invalid body", func() {
			post(`{"files": `)
			Expect(rec.Code).To(Equal(400))
		})
	})

	Describe("footprint", func() {
		It("should return the footprint", func() {
			get("/metadata/footprint", url.Values{"uri": {s2Files()[0]}})
			Expect(rec.Code).To(Equal(200))
			var resp struct {
				Geometry struct {
					Type        string         `json:"type"`
					Coordinates [][][2]float64 `json:"coordinates"`
				} `json:"geometry"`
				CRS *string `json:"crs"`
			}
			decode(&resp)
			Expect(resp.Geometry.Type).To(Equal("Polygon"))
			Expect(resp.Geometry.Coordinates).To(Equal([][][2]float64{{{309780, 7790200}, {309780, 7900000}, {199980, 7900000}, {199980, 7790200}, {309780, 7790200}}}))
			Expect(*resp.CRS).To(Equal("EPSG:32701"))
		})
		It("should return null for an unreachable raster", func() {
			get("/metadata/footprint", url.Values{"uri": {"https://s3-uk-1.sa-catapult.co.uk/public-eo-data/nothing/here"}})
			Expect(rec.Code).To(Equal(200))
			var resp map[string]interface{}
			decode(&resp)
			Expect(resp).To(HaveKeyWithValue("geometry", BeNil()))
			Expect(resp).To(HaveKeyWithValue("crs", BeNil()))
		})
	})

	Describe("grid", func() {
		It("should return the grid", func() {
			get("/metadata/grid", url.Values{"uri": {s2Files()[0]}})
			Expect(rec.Code).To(Equal(200))
			var resp struct {
				Shape     []int     `json:"shape"`
				Transform []float64 `json:"transform"`
			}
			decode(&resp)
			Expect(resp.Shape).To(Equal([]int{1830, 1830}))
			Expect(resp.Transform).To(Equal([]float64{60.0, 0.0, 199980.0, 0.0, -60.0, 7900000.0, 0.0, 0.0, 1.0}))
		})
		It("should return null for an unreachable raster", func() {
			get("/metadata/grid", url.Values{"uri": {"/does/not/exist.tif"}})
			Expect(rec.Code).To(Equal(200))
			var resp map[string]interface{}
			decode(&resp)
			Expect(resp).To(HaveKeyWithValue("shape", BeNil()))
			Expect(resp).To(HaveKeyWithValue("transform", BeNil()))
		})
	})

	Describe("item", func() {
		It("should return the item", func() {
			get("/catalog/item", url.Values{"product": {s2Dir}, "constellation": {"sentinel-2"}})
			Expect(rec.Code).To(Equal(200))
			var resp map[string]interface{}
			decode(&resp)
			Expect(resp["id"]).To(Equal(s2Product))
			Expect(resp["constellation"]).To(Equal("Sentinel2"))
			Expect(resp["proj:epsg"]).To(BeNumerically("==", 32701))
			Expect(resp["bands"]).To(HaveLen(15))
		})
		It("should return 404 for a missing product", func() {
			get("/catalog/item", url.Values{"product": {"/data/missing"}})
			Expect(rec.Code).To(Equal(404))
		})
		It("should reject an unknown constellation", func() {
			get("/catalog/item", url.Values{"product": {s2Dir}, "constellation": {"meteosat"}})
			Expect(rec.Code).To(Equal(400))
		})
		It("should reject a product without date convention", func() {
			get("/catalog/item", url.Values{"product": {"/data/custom_20210304"}})
			Expect(rec.Code).To(Equal(400))
		})
	})
})
