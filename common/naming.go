package common

import (
	"fmt"
	"regexp"
	"strings"
)

//go:generate go run github.com/dmarkham/enumer -json -type Constellation

// Constellation defines the kind of satellites
type Constellation int

const (
	Unknown   Constellation = iota
	Sentinel1               // MMM_BB_TTTR_LFPP_YYYYMMDDTHHMMSS_YYYMMDDTHHMMSS_OOOOOO_DDDDDD_CCCC
	Sentinel2               // MMM_MSIXXX_YYYYMMDDTHHMMSS_Txxxxx/MMM_MSIXXX_YYYYMMDDTHHMMSS_Txxxxx_<BAND>_<RES>.tif
	PHR                     // DS_PHR1B_201706161037358_XXX_XX_XXXXXXX_XXXX_XXXXX
	SPOT                    // DS_SPOT7_201806232333174_XXX_XXX_XXX_XXX_XXXXXXX_XXXXX
	Landsat89               // LXSS_LLLL_PPPRRR_YYYYMMDD_yyyymmdd_CX_TX/LXSS_LLLL_PPPRRR_YYYYMMDD_yyyymmdd_CX_TX_<BAND>.TIF
)

// GetConstellationFromString returns the constellation from the user input
func GetConstellationFromString(input string) Constellation {
	switch strings.ToLower(input) {
	case "sentinel1", "sentinel-1", "sentinel_1":
		return Sentinel1
	case "sentinel2", "sentinel-2", "sentinel_2":
		return Sentinel2
	case "landsat89", "landsat8", "landsat9", "landsat_8", "landsat_9":
		return Landsat89
	case "phr", "pleiades":
		return PHR
	case "spot":
		return SPOT
	}
	return GetConstellationFromProductId(input)
}

var landsat89Regexp = regexp.MustCompile("^L[OTC]0[89]")

// GetConstellationFromProductId returns the constellation of a product, using its name
func GetConstellationFromProductId(productName string) Constellation {
	if strings.HasPrefix(productName, "S1") {
		return Sentinel1
	}
	if strings.HasPrefix(productName, "S2") {
		return Sentinel2
	}
	if strings.HasPrefix(productName, "DS_PHR") {
		return PHR
	}
	if strings.HasPrefix(productName, "DS_SPOT") {
		return SPOT
	}
	if landsat89Regexp.MatchString(productName) {
		return Landsat89
	}
	return Unknown
}

// Convention describes how a constellation names its products and assets
type Convention struct {
	// DateRegexp has exactly one capturing group matching the acquisition date
	DateRegexp string
	// DateFormat is the strftime-like format of the captured date
	DateFormat string
	// BandPrefixFields is the number of "_"-separated fields of the product name
	// preceding the band token in an asset file name (0 if unknown)
	BandPrefixFields int
}

var conventions = map[Constellation]Convention{
	Sentinel1: {DateRegexp: `(\d{8}T\d{6})`, DateFormat: "%Y%m%dT%H%M%S"},
	Sentinel2: {DateRegexp: `(\d{8}T\d{6})`, DateFormat: "%Y%m%dT%H%M%S", BandPrefixFields: 4},
	PHR:       {DateRegexp: `_(\d{14})\d`, DateFormat: "%Y%m%d%H%M%S"},
	SPOT:      {DateRegexp: `_(\d{14})\d`, DateFormat: "%Y%m%d%H%M%S"},
	Landsat89: {DateRegexp: `_\d{6}_(\d{8})`, DateFormat: "%Y%m%d", BandPrefixFields: 7},
}

// GetConvention returns the naming convention of the constellation
func GetConvention(c Constellation) (Convention, error) {
	conv, ok := conventions[c]
	if !ok {
		return Convention{}, fmt.Errorf("GetConvention: no naming convention for constellation %s", c)
	}
	return conv, nil
}
