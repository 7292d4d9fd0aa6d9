package raster

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/rwcarlsen/goexif/tiff"
)

// TIFF and GeoTIFF tags
const (
	tagImageWidth          = 256
	tagImageLength         = 257
	tagModelPixelScale     = 33550
	tagModelTiepoint       = 33922
	tagModelTransformation = 34264
	tagGeoKeyDirectory     = 34735
	tagGeoDoubleParams     = 34736
	tagGeoAsciiParams      = 34737
)

// GeoKeys
const (
	keyGTRasterType     = 1025
	keyGTCitation       = 1026
	keyGeographicType   = 2048
	keyGeogCitation     = 2049
	keyProjectedCSType  = 3072
	keyPCSCitation      = 3073
	rasterPixelIsPoint  = 2
	geoKeyUserDefined   = 32767
	geoKeyDirHeaderSize = 4
)

// ErrNotGeoreferenced is returned when the raster has neither a tiepoint/scale pair nor a transformation
var ErrNotGeoreferenced = errors.New("raster is not georeferenced")

type geoKey struct {
	short  int
	ascii  string
	double []float64
}

// DecodeGeoTIFF reads the first image directory of the (Geo)TIFF available in r[0:size]
func DecodeGeoTIFF(r io.ReaderAt, size int64) (*Dataset, error) {
	t, err := tiff.Decode(io.NewSectionReader(r, 0, size))
	if err != nil {
		return nil, fmt.Errorf("DecodeGeoTIFF.Decode: %w", err)
	}
	if len(t.Dirs) == 0 {
		return nil, fmt.Errorf("DecodeGeoTIFF: no image directory")
	}
	tags := map[uint16]*tiff.Tag{}
	for _, tag := range t.Dirs[0].Tags {
		tags[tag.Id] = tag
	}

	ds := Dataset{}
	if ds.Width, err = firstInt(tags, tagImageWidth, t.Order); err != nil {
		return nil, fmt.Errorf("DecodeGeoTIFF.ImageWidth: %w", err)
	}
	if ds.Height, err = firstInt(tags, tagImageLength, t.Order); err != nil {
		return nil, fmt.Errorf("DecodeGeoTIFF.ImageLength: %w", err)
	}

	keys, err := geoKeys(tags, t.Order)
	if err != nil {
		return nil, fmt.Errorf("DecodeGeoTIFF.%w", err)
	}

	if ds.GeoTransform, err = geoTransform(tags, t.Order); err != nil {
		return nil, fmt.Errorf("DecodeGeoTIFF.%w", err)
	}
	if k, ok := keys[keyGTRasterType]; ok && k.short == rasterPixelIsPoint {
		// Tiepoints address pixel centers: move the origin to the corner of the first pixel
		gt := &ds.GeoTransform
		gt[0] -= 0.5*gt[1] + 0.5*gt[2]
		gt[3] -= 0.5*gt[4] + 0.5*gt[5]
	}

	ds.CRS = crsFromKeys(keys)
	return &ds, nil
}

func crsFromKeys(keys map[int]geoKey) *CRS {
	var crs *CRS
	for _, k := range []struct{ code, citation int }{
		{keyProjectedCSType, keyPCSCitation},
		{keyGeographicType, keyGeogCitation},
	} {
		if v, ok := keys[k.code]; ok {
			crs = &CRS{Citation: keys[k.citation].ascii}
			if v.short != geoKeyUserDefined {
				crs.EPSG = v.short
			}
			break
		}
	}
	if crs != nil && crs.Citation == "" {
		crs.Citation = keys[keyGTCitation].ascii
	}
	return crs
}

func geoTransform(tags map[uint16]*tiff.Tag, order binary.ByteOrder) ([6]float64, error) {
	if tag, ok := tags[tagModelTransformation]; ok {
		m, err := tagFloats(tag, order)
		if err != nil {
			return [6]float64{}, fmt.Errorf("ModelTransformation: %w", err)
		}
		if len(m) < 16 {
			return [6]float64{}, fmt.Errorf("ModelTransformation: expecting 16 values, got %d", len(m))
		}
		return [6]float64{m[3], m[0], m[1], m[7], m[4], m[5]}, nil
	}

	tpTag, okTp := tags[tagModelTiepoint]
	scaleTag, okScale := tags[tagModelPixelScale]
	if !okTp || !okScale {
		return [6]float64{}, ErrNotGeoreferenced
	}
	tp, err := tagFloats(tpTag, order)
	if err != nil {
		return [6]float64{}, fmt.Errorf("ModelTiepoint: %w", err)
	}
	scale, err := tagFloats(scaleTag, order)
	if err != nil {
		return [6]float64{}, fmt.Errorf("ModelPixelScale: %w", err)
	}
	if len(tp) < 6 || len(scale) < 2 {
		return [6]float64{}, fmt.Errorf("ModelTiepoint/ModelPixelScale: not enough values")
	}
	i, j, x, y := tp[0], tp[1], tp[3], tp[4]
	sx, sy := scale[0], scale[1]
	return [6]float64{x - i*sx, sx, 0, y + j*sy, 0, -sy}, nil
}

func geoKeys(tags map[uint16]*tiff.Tag, order binary.ByteOrder) (map[int]geoKey, error) {
	keys := map[int]geoKey{}
	dirTag, ok := tags[tagGeoKeyDirectory]
	if !ok {
		return keys, nil
	}
	dir, err := tagInts(dirTag, order)
	if err != nil {
		return nil, fmt.Errorf("GeoKeyDirectory: %w", err)
	}
	if len(dir) < geoKeyDirHeaderSize {
		return nil, fmt.Errorf("GeoKeyDirectory: truncated header")
	}
	var ascii string
	if tag, ok := tags[tagGeoAsciiParams]; ok {
		ascii = string(tag.Val)
	}
	var doubles []float64
	if tag, ok := tags[tagGeoDoubleParams]; ok {
		if doubles, err = tagFloats(tag, order); err != nil {
			return nil, fmt.Errorf("GeoDoubleParams: %w", err)
		}
	}

	n := dir[3]
	for k := 0; k < n; k++ {
		e := geoKeyDirHeaderSize * (k + 1)
		if e+4 > len(dir) {
			return nil, fmt.Errorf("GeoKeyDirectory: truncated entry %d", k)
		}
		id, location, count, value := dir[e], dir[e+1], dir[e+2], dir[e+3]
		switch location {
		case 0:
			keys[id] = geoKey{short: value}
		case tagGeoAsciiParams:
			if value+count <= len(ascii) {
				keys[id] = geoKey{ascii: strings.TrimRight(ascii[value:value+count], "|\x00")}
			}
		case tagGeoDoubleParams:
			if value+count <= len(doubles) {
				keys[id] = geoKey{double: doubles[value : value+count]}
			}
		}
	}
	return keys, nil
}

func firstInt(tags map[uint16]*tiff.Tag, id uint16, order binary.ByteOrder) (int, error) {
	tag, ok := tags[id]
	if !ok {
		return 0, fmt.Errorf("tag %d not found", id)
	}
	v, err := tagInts(tag, order)
	if err != nil {
		return 0, err
	}
	if len(v) == 0 {
		return 0, fmt.Errorf("tag %d is empty", id)
	}
	return v[0], nil
}

func tagInts(tag *tiff.Tag, order binary.ByteOrder) ([]int, error) {
	var v []int
	switch tag.Type {
	case tiff.DTShort:
		for i := 0; i+2 <= len(tag.Val); i += 2 {
			v = append(v, int(order.Uint16(tag.Val[i:])))
		}
	case tiff.DTLong:
		for i := 0; i+4 <= len(tag.Val); i += 4 {
			v = append(v, int(order.Uint32(tag.Val[i:])))
		}
	default:
		return nil, fmt.Errorf("tag %d: unexpected type %d for an integer", tag.Id, tag.Type)
	}
	return v, nil
}

func tagFloats(tag *tiff.Tag, order binary.ByteOrder) ([]float64, error) {
	var v []float64
	switch tag.Type {
	case tiff.DTDouble:
		for i := 0; i+8 <= len(tag.Val); i += 8 {
			v = append(v, math.Float64frombits(order.Uint64(tag.Val[i:])))
		}
	case tiff.DTFloat:
		for i := 0; i+4 <= len(tag.Val); i += 4 {
			v = append(v, float64(math.Float32frombits(order.Uint32(tag.Val[i:]))))
		}
	default:
		return nil, fmt.Errorf("tag %d: unexpected type %d for a float", tag.Id, tag.Type)
	}
	return v, nil
}
