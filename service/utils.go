package service

import (
	"path"
	"strings"
)

// StringSet is a set of strings (all elements are unique)
type StringSet map[string]struct{}

// Push adds the string to the set if not already exists
func (ss StringSet) Push(s string) {
	ss[s] = struct{}{}
}

// Exists returns true if the string already exists in the Set
func (ss StringSet) Exists(s string) bool {
	_, ok := ss[s]
	return ok
}

// Duplicates returns the strings appearing more than once, in order of their second occurrence
func Duplicates(sl []string) []string {
	seen := StringSet{}
	reported := StringSet{}
	var dups []string
	for _, s := range sl {
		if seen.Exists(s) && !reported.Exists(s) {
			dups = append(dups, s)
			reported.Push(s)
		}
		seen.Push(s)
	}
	return dups
}

// Extension of a file, without the leading dot (e.g. "tif")
type Extension string

const (
	NoExtension    Extension = ""
	ExtensionGTiff Extension = "tif"
	ExtensionJSON  Extension = "json"
)

// NormalizeExt returns the extension without the leading dot, lower case
func NormalizeExt(ext string) Extension {
	return Extension(strings.ToLower(strings.TrimPrefix(ext, ".")))
}

// GetExt returns the extension of the file (without the leading dot)
func GetExt(filePath string) Extension {
	return Extension(strings.TrimPrefix(path.Ext(filePath), "."))
}

// HasExt returns true if the file has the extension (case insensitive).
// An empty extension matches every file.
func HasExt(filePath string, ext Extension) bool {
	ext = NormalizeExt(string(ext))
	return ext == NoExtension || NormalizeExt(string(GetExt(filePath))) == ext
}

// WithExt replaces the extension of the file
func WithExt(filePath string, ext Extension) string {
	filePath = strings.TrimSuffix(filePath, path.Ext(filePath))
	if ext != "" {
		return filePath + "." + string(ext)
	}
	return filePath
}
