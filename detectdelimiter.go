package pwas

import (
	"bytes"

	"github.com/csimplestring/go-csv/detector"
)

// DetermineDelimiter returns the single most likely rune that would delimit the
// values in sample, assuming a CSV-like file. Hail exports are tab-delimited
// and their values routinely contain commas (e.g., ["A","G"]), so a tab in the
// header line wins outright.
func DetermineDelimiter(sample []byte) rune {
	header := sample
	if i := bytes.IndexByte(sample, '\n'); i >= 0 {
		header = sample[:i]
	}
	if bytes.IndexByte(header, '\t') >= 0 {
		return '\t'
	}

	d := detector.New()
	delimiters := d.DetectDelimiter(bytes.NewReader(sample), '"')
	if len(delimiters) > 0 && len(delimiters[0]) > 0 {
		return rune(delimiters[0][0])
	}

	if bytes.IndexByte(header, ' ') >= 0 && bytes.IndexByte(header, ',') < 0 {
		return ' '
	}

	return ','
}
