package metadata

import (
	"strings"
)

// ExtractBands returns the band token of each file of a product, in the same order.
// Files are named <product>_<band>.<ext>. The product name is the name of the parent directory
// if the file name starts with it, otherwise everything before the last "_".
// Duplicates are returned as is.
func ExtractBands(fileIDs []string) ([]string, error) {
	bands := make([]string, 0, len(fileIDs))
	for _, fileID := range fileIDs {
		name, err := trimExtension(fileID)
		if err != nil {
			return nil, err
		}
		var band string
		if dir := parentName(fileID); dir != "" && strings.HasPrefix(name, dir+"_") {
			band = name[len(dir)+1:]
		} else if i := strings.LastIndex(name, "_"); i != -1 {
			band = name[i+1:]
		} else {
			return nil, &MalformedNameError{FileName: FileName(fileID), Reason: "no separator before the band"}
		}
		if band == "" {
			return nil, &MalformedNameError{FileName: FileName(fileID), Reason: "empty band"}
		}
		bands = append(bands, band)
	}
	return bands, nil
}

// ExtractBandsWithPrefix returns the band token of each file of a product, in the same order,
// the product name being made of the prefixFields first "_"-separated fields of the file name.
func ExtractBandsWithPrefix(fileIDs []string, prefixFields int) ([]string, error) {
	bands := make([]string, 0, len(fileIDs))
	for _, fileID := range fileIDs {
		name, err := trimExtension(fileID)
		if err != nil {
			return nil, err
		}
		fields := strings.SplitN(name, "_", prefixFields+1)
		if len(fields) <= prefixFields {
			return nil, &MalformedNameError{FileName: FileName(fileID), Reason: "no separator before the band"}
		}
		if fields[prefixFields] == "" {
			return nil, &MalformedNameError{FileName: FileName(fileID), Reason: "empty band"}
		}
		bands = append(bands, fields[prefixFields])
	}
	return bands, nil
}

// trimExtension returns the file name without its extension
func trimExtension(fileID string) (string, error) {
	name := FileName(fileID)
	i := strings.LastIndex(name, ".")
	if i <= 0 || i == len(name)-1 {
		return "", &MalformedNameError{FileName: name, Reason: "no extension"}
	}
	return name[:i], nil
}

// parentName returns the name of the directory holding the file
func parentName(fileID string) string {
	name := FileName(fileID)
	if name == "" {
		return ""
	}
	p := fileID
	if strings.Contains(p, "://") {
		if i := strings.IndexAny(p, "?#"); i != -1 {
			p = p[:i]
		}
	}
	p = strings.TrimSuffix(strings.TrimRight(strings.ReplaceAll(p, "\\", "/"), "/"), name)
	return FileName(p)
}
