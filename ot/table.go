package ot

import (
	"sync"

	"github.com/npillmayer/ttx/ttxml"
)

// Table represents one of the tables of a font, identified by its tag.
//
// A table knows how to decode itself from binary data and encode itself
// back, and how to render itself as TTX and re-create itself from a TTX
// element. Tables which refer to glyphs do so by glyph index internally;
// the glyph order translates between indices and glyph names at the XML
// boundary.
//
// Decoding must not retain b: tables own their data.
type Table interface {
	Tag() Tag
	Decode(b []byte) error                               // binary -> table
	Encode() ([]byte, error)                             // table -> binary
	WriteXML(w *ttxml.Writer, glyphs *GlyphOrder) error  // table -> TTX
	ReadXML(el *ttxml.Element, glyphs *GlyphOrder) error // TTX -> table
}

// TableFactory creates an empty table for a tag.
type TableFactory func(tag Tag) Table

var registry = struct {
	sync.RWMutex
	factories map[Tag]TableFactory
}{
	factories: map[Tag]TableFactory{
		T("head"): func(Tag) Table { return &HeadTable{} },
		T("hhea"): func(Tag) Table { return &HHeaTable{} },
		T("maxp"): func(Tag) Table { return &MaxPTable{} },
		T("name"): func(Tag) Table { return &NameTable{} },
		T("cmap"): func(Tag) Table { return &CMapTable{} },
		T("post"): func(Tag) Table { return &PostTable{} },
	},
}

// RegisterTable installs a codec for tag, replacing any previous one.
// Tags without a registered codec are handled by GenericTable.
func RegisterTable(tag Tag, factory TableFactory) {
	registry.Lock()
	defer registry.Unlock()
	registry.factories[tag] = factory
}

// NewTable creates an empty table of the appropriate type for tag.
func NewTable(tag Tag) Table {
	registry.RLock()
	factory, ok := registry.factories[tag]
	registry.RUnlock()
	if !ok {
		return &GenericTable{tag: tag}
	}
	return factory(tag)
}

// IsDecoded returns true if tables with tag are decoded into fields, as
// opposed to being handled as opaque binary data.
func IsDecoded(tag Tag) bool {
	registry.RLock()
	defer registry.RUnlock()
	_, ok := registry.factories[tag]
	return ok
}
