package catalog

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/airbusgeo/geocube-stac/common"
	"github.com/airbusgeo/geocube-stac/metadata"
	"github.com/airbusgeo/geocube-stac/service"
	"github.com/airbusgeo/geocube-stac/service/log"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-Id"

// AddHandler adds the routes of the catalog to the router
func (c *Catalog) AddHandler(r *mux.Router) {
	r.Use(requestIDMiddleware)
	r.HandleFunc("/metadata/date", c.DateHandler).Methods("GET")
	r.HandleFunc("/metadata/bands", c.BandsHandler).Methods("POST")
	r.HandleFunc("/metadata/footprint", c.FootprintHandler).Methods("GET")
	r.HandleFunc("/metadata/grid", c.GridHandler).Methods("GET")
	r.HandleFunc("/catalog/item", c.ItemHandler).Methods("GET")
}

// requestIDMiddleware attaches a request id to the logger of the request
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		id := req.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := log.With(req.Context(), zap.String("request_id", id))
		next.ServeHTTP(w, req.WithContext(ctx))
	})
}

func requiredParam(w http.ResponseWriter, req *http.Request, name string) (string, bool) {
	v := req.FormValue(name)
	if v == "" {
		w.WriteHeader(400)
		fmt.Fprintf(w, "missing required parameter: '%s'", name)
		return "", false
	}
	return v, true
}

func writeJSON(w http.ResponseWriter, req *http.Request, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := service.WriteJSON(w, v); err != nil {
		log.Logger(req.Context()).Sugar().Warnf("writeJSON: %v", err)
	}
}

func writeError(w http.ResponseWriter, req *http.Request, err error) {
	status := 500
	switch {
	case metadata.IsConfigurationError(err), service.Fatal(err):
		status = 400
	case service.NotFound(err):
		status = 404
	case service.Temporary(err):
		status = 503
	}
	if status >= 500 {
		log.Logger(req.Context()).Sugar().Warnf("%s: %v", req.URL.Path, err)
	}
	w.WriteHeader(status)
	fmt.Fprintf(w, "%v", err)
}

// DateHandler returns the date extracted from the name of the file
func (c *Catalog) DateHandler(w http.ResponseWriter, req *http.Request) {
	fileID, ok := requiredParam(w, req, "uri")
	if !ok {
		return
	}
	pattern, ok := requiredParam(w, req, "pattern")
	if !ok {
		return
	}
	format, ok := requiredParam(w, req, "format")
	if !ok {
		return
	}
	date, err := metadata.ExtractDate(fileID, pattern, format)
	if err != nil {
		writeError(w, req, err)
		return
	}
	writeJSON(w, req, struct {
		Datetime time.Time `json:"datetime"`
	}{date})
}

// BandsHandler returns the bands of the files given in the body: {"files": [...]}
func (c *Catalog) BandsHandler(w http.ResponseWriter, req *http.Request) {
	var body struct {
		Files        []string `json:"files"`
		PrefixFields int      `json:"prefix_fields"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		w.WriteHeader(400)
		fmt.Fprintf(w, "BandsHandler: %v", err)
		return
	}
	var bands []string
	var err error
	if body.PrefixFields > 0 {
		bands, err = metadata.ExtractBandsWithPrefix(body.Files, body.PrefixFields)
	} else {
		bands, err = metadata.ExtractBands(body.Files)
	}
	if err != nil {
		writeError(w, req, err)
		return
	}
	writeJSON(w, req, struct {
		Bands []string `json:"bands"`
	}{bands})
}

// FootprintHandler returns the footprint of the raster and its CRS, or null if the raster cannot be read
func (c *Catalog) FootprintHandler(w http.ResponseWriter, req *http.Request) {
	fileID, ok := requiredParam(w, req, "uri")
	if !ok {
		return
	}
	resp := struct {
		Geometry json.RawMessage `json:"geometry"`
		CRS      *string         `json:"crs"`
	}{}
	footprint, crs := c.Reader.ReadFootprint(req.Context(), fileID)
	if footprint != nil {
		g, err := service.ToGeoJSON(footprint)
		if err != nil {
			writeError(w, req, err)
			return
		}
		resp.Geometry = g
	}
	if crs != nil {
		s := crs.String()
		resp.CRS = &s
	}
	writeJSON(w, req, resp)
}

// GridHandler returns the shape and the transform of the raster, or null if the raster cannot be read
func (c *Catalog) GridHandler(w http.ResponseWriter, req *http.Request) {
	fileID, ok := requiredParam(w, req, "uri")
	if !ok {
		return
	}
	shape, transform := c.Reader.ReadGrid(req.Context(), fileID)
	writeJSON(w, req, struct {
		Shape     []int     `json:"shape"`
		Transform []float64 `json:"transform"`
	}{shape, transform})
}

// ItemHandler returns the item of a product
func (c *Catalog) ItemHandler(w http.ResponseWriter, req *http.Request) {
	product, ok := requiredParam(w, req, "product")
	if !ok {
		return
	}
	opts := ProductOptions{
		DatePattern: req.FormValue("pattern"),
		DateFormat:  req.FormValue("format"),
	}
	if cs := req.FormValue("constellation"); cs != "" {
		if opts.Constellation = common.GetConstellationFromString(cs); opts.Constellation == common.Unknown {
			w.WriteHeader(400)
			fmt.Fprintf(w, "unknown constellation: '%s'", cs)
			return
		}
	}
	item, err := c.ProductItem(req.Context(), product, opts)
	if err != nil {
		writeError(w, req, err)
		return
	}
	writeJSON(w, req, item)
}
