package ot

import (
	"fmt"

	"github.com/npillmayer/ttx/ttxml"
)

// GenericTable is the fallback for all tables without a dedicated codec.
// It holds the table's bytes unchanged, renders them as a hex dump and
// reads the hex dump back.
type GenericTable struct {
	tag  Tag
	Data []byte
}

// NewGenericTable creates an opaque table for tag holding a copy of data.
func NewGenericTable(tag Tag, data []byte) *GenericTable {
	return &GenericTable{tag: tag, Data: copyBytes(data)}
}

func (t *GenericTable) Tag() Tag {
	return t.tag
}

func (t *GenericTable) Decode(b []byte) error {
	t.Data = copyBytes(b)
	return nil
}

func (t *GenericTable) Encode() ([]byte, error) {
	return t.Data, nil
}

func (t *GenericTable) WriteXML(w *ttxml.Writer, _ *GlyphOrder) error {
	w.Comment(fmt.Sprintf("table '%s' is not decoded, %d bytes of binary data follow", t.tag, len(t.Data)))
	w.Newline()
	w.BeginTag("hexdata")
	w.Newline()
	w.Indent()
	w.DumpHex(t.Data)
	w.Dedent()
	w.EndTag("hexdata")
	w.Newline()
	return w.Err()
}

func (t *GenericTable) ReadXML(el *ttxml.Element, _ *GlyphOrder) error {
	hd := el.Child("hexdata")
	if hd == nil {
		return fmt.Errorf("%s: missing <hexdata>", t.tag)
	}
	data, err := parseHexData(hd.Text)
	if err != nil {
		return fmt.Errorf("%s: %w", t.tag, err)
	}
	t.Data = data
	return nil
}
