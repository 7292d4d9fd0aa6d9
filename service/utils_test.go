package service

import (
	"reflect"
	"testing"
)

func TestStringSet(t *testing.T) {
	ss := StringSet{}
	ss.Push("B01_60m")
	ss.Push("B02_10m")
	ss.Push("B01_60m")
	if !ss.Exists("B01_60m") || !ss.Exists("B02_10m") {
		t.Error("expected both bands in the set")
	}
	if len(ss) != 2 || ss.Exists("B03_10m") {
		t.Errorf("unexpected set %v", ss)
	}
}

func TestDuplicates(t *testing.T) {
	dups := Duplicates([]string{"B01_60m", "B02_10m", "B01_60m", "B03_10m", "B01_60m", "B02_10m"})
	if !reflect.DeepEqual(dups, []string{"B01_60m", "B02_10m"}) {
		t.Errorf("unexpected duplicates %v", dups)
	}
	if dups := Duplicates([]string{"B01_60m", "B02_10m"}); len(dups) != 0 {
		t.Errorf("expected no duplicates, got %v", dups)
	}
}

func TestExtensions(t *testing.T) {
	if !HasExt("dir/S2A_B01_60m.TIF", ExtensionGTiff) {
		t.Error("expected .TIF to match tif")
	}
	if !HasExt("dir/S2A_B01_60m.tif", ".tif") {
		t.Error("expected .tif to match .tif")
	}
	if HasExt("dir/S2A_MTD.xml", ExtensionGTiff) {
		t.Error("xml must not match tif")
	}
	if !HasExt("dir/S2A_MTD.xml", NoExtension) {
		t.Error("empty extension must match everything")
	}
	if GetExt("a/b/c.json") != ExtensionJSON {
		t.Errorf("unexpected extension %s", GetExt("a/b/c.json"))
	}
	if w := WithExt("out/S2A_MSIL2A_20151022T222102_T01KBU.tif", ExtensionJSON); w != "out/S2A_MSIL2A_20151022T222102_T01KBU.json" {
		t.Errorf("unexpected %s", w)
	}
	if w := WithExt("out/product", ExtensionJSON); w != "out/product.json" {
		t.Errorf("unexpected %s", w)
	}
}
