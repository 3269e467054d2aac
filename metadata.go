package asticlip

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Metadata represents the speaker information encoded in an input file name.
// Base names look like <country>_<city>_<gender>_<age>_whatever.wav; only the
// first four underscore-delimited fields are parsed.
type Metadata struct {
	Age     string
	City    string
	Country string
	Gender  string
}

// NewMetadata parses metadata out of an input file path
func NewMetadata(path string) (m Metadata, err error) {
	// Get base name without extension
	n := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	// Split fields
	ps := strings.Split(n, "_")

	// Not enough fields
	if len(ps) < 4 {
		err = errors.Errorf("asticlip: invalid file name %s: expected at least 4 underscore-delimited fields, got %d", filepath.Base(path), len(ps))
		return
	}

	// Create metadata
	m = Metadata{
		Age:     ps[3],
		City:    ps[1],
		Country: ps[0],
		Gender:  ps[2],
	}
	return
}
