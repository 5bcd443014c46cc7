// Package fontload cross-checks binary fonts with font parsers which are
// independent of this module. It is used by tests only.
package fontload

import (
	"bytes"
	"fmt"
	"os"

	"github.com/go-text/typesetting/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// CheckedFont is a font binary as seen by third-party parsers.
type CheckedFont struct {
	Binary   []byte
	Tables   map[string][]byte // raw table data by tag, as loaded by go-text
	Tags     []string          // table tags in directory order
	Fontname string            // full font name, if golang.org/x/image/font/sfnt can parse the font
	SFNT     *sfnt.Font        // nil if golang.org/x/image/font/sfnt cannot parse the font
}

// LoadFile loads and checks a font file.
func LoadFile(fontfile string) (*CheckedFont, error) {
	bytez, err := os.ReadFile(fontfile)
	if err != nil {
		return nil, err
	}
	return Check(bytez)
}

// Check loads the table directory of an sfnt font or collection with go-text's
// loader and reads every table through it. A collection is checked by its
// first font.
//
// golang.org/x/image/font/sfnt is stricter, requiring a complete set of
// tables with plausible content. Failing it is not an error; SFNT remains nil.
func Check(fbytes []byte) (*CheckedFont, error) {
	loaders, err := opentype.NewLoaders(bytes.NewReader(fbytes))
	if err != nil {
		return nil, fmt.Errorf("go-text loader: %w", err)
	}
	if len(loaders) == 0 {
		return nil, fmt.Errorf("go-text loader: no font found")
	}
	ld := loaders[0]
	f := &CheckedFont{Binary: fbytes, Tables: make(map[string][]byte)}
	for _, tag := range ld.Tables() {
		data, err := ld.RawTable(tag)
		if err != nil {
			return nil, fmt.Errorf("go-text loader: table %s: %w", tag, err)
		}
		f.Tags = append(f.Tags, tag.String())
		f.Tables[tag.String()] = data
	}
	if sf, err := sfnt.Parse(fbytes); err == nil {
		f.SFNT = sf
		f.Fontname, _ = sf.Name(nil, sfnt.NameIDFull)
	}
	return f, nil
}
