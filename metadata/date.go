package metadata

import (
	"fmt"
	"regexp"
	"time"

	"github.com/ncruces/go-strftime"
)

// DatePattern extracts an acquisition date from a file name.
// The expression must have exactly one capturing group, parsed with a strftime-like format (%Y%m%dT%H%M%S).
type DatePattern struct {
	re     *regexp.Regexp
	format string
	layout string
}

// NewDatePattern compiles the pattern and converts the format to a time layout
func NewDatePattern(pattern, dateFormat string) (DatePattern, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return DatePattern{}, &PatternError{Pattern: pattern, Err: err}
	}
	if n := re.NumSubexp(); n != 1 {
		return DatePattern{}, &PatternError{Pattern: pattern, Err: fmt.Errorf("expecting exactly one capturing group, got %d", n)}
	}
	layout, err := strftime.Layout(dateFormat)
	if err != nil {
		return DatePattern{}, &FormatError{Format: dateFormat, Err: err}
	}
	return DatePattern{re: re, format: dateFormat, layout: layout}, nil
}

// Extract returns the date found in the name of the file.
// The date has no timezone: it is returned in UTC with the digits of the file name.
func (p DatePattern) Extract(fileID string) (time.Time, error) {
	if p.re == nil {
		return time.Time{}, &PatternError{Err: fmt.Errorf("uninitialized date pattern")}
	}
	name := FileName(fileID)
	m := p.re.FindStringSubmatch(name)
	if m == nil {
		return time.Time{}, &NoMatchError{FileName: name, Pattern: p.re.String()}
	}
	t, err := time.Parse(p.layout, m[1])
	if err != nil {
		return time.Time{}, &FormatError{Value: m[1], Format: p.format, Err: err}
	}
	return t, nil
}

// ExtractDate returns the date found in the name of the file using the pattern and the dateFormat.
// See DatePattern.
func ExtractDate(fileID, pattern, dateFormat string) (time.Time, error) {
	p, err := NewDatePattern(pattern, dateFormat)
	if err != nil {
		return time.Time{}, err
	}
	return p.Extract(fileID)
}
