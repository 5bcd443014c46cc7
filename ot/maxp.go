package ot

import (
	"fmt"

	"github.com/npillmayer/ttx/ttxml"
	"github.com/tdewolff/parse/v2"
)

// MaxPTable is the maximum profile table 'maxp'.
//
// Fonts with CFF data use version 0.5 of this table, specifying only the
// numGlyphs field. Fonts with TrueType outlines use version 1.0, where
// all fields are present.
type MaxPTable struct {
	Version               uint32
	NumGlyphs             uint16
	MaxPoints             uint16
	MaxContours           uint16
	MaxCompositePoints    uint16
	MaxCompositeContours  uint16
	MaxZones              uint16
	MaxTwilightPoints     uint16
	MaxStorage            uint16
	MaxFunctionDefs       uint16
	MaxInstructionDefs    uint16
	MaxStackElements      uint16
	MaxSizeOfInstructions uint16
	MaxComponentElements  uint16
	MaxComponentDepth     uint16
}

const (
	maxpVersion05 = 0x00005000
	maxpVersion10 = 0x00010000
)

func (t *MaxPTable) Tag() Tag {
	return T("maxp")
}

// the version 1.0 fields, in binary order
func (t *MaxPTable) v1Fields() []struct {
	name string
	ptr  *uint16
} {
	return []struct {
		name string
		ptr  *uint16
	}{
		{"maxPoints", &t.MaxPoints},
		{"maxContours", &t.MaxContours},
		{"maxCompositePoints", &t.MaxCompositePoints},
		{"maxCompositeContours", &t.MaxCompositeContours},
		{"maxZones", &t.MaxZones},
		{"maxTwilightPoints", &t.MaxTwilightPoints},
		{"maxStorage", &t.MaxStorage},
		{"maxFunctionDefs", &t.MaxFunctionDefs},
		{"maxInstructionDefs", &t.MaxInstructionDefs},
		{"maxStackElements", &t.MaxStackElements},
		{"maxSizeOfInstructions", &t.MaxSizeOfInstructions},
		{"maxComponentElements", &t.MaxComponentElements},
		{"maxComponentDepth", &t.MaxComponentDepth},
	}
}

func (t *MaxPTable) Decode(data []byte) error {
	if len(data) < 6 {
		return fmt.Errorf("%w: maxp table has %d bytes (need 6)", ErrTableTooShort, len(data))
	}
	b := binarySegm(data)
	t.Version = b.U32(0)
	t.NumGlyphs = b.U16(4)
	if t.Version < maxpVersion10 {
		return nil
	}
	if len(data) < 32 {
		return fmt.Errorf("%w: maxp version 1.0 table has %d bytes (need 32)", ErrTableTooShort, len(data))
	}
	for i, f := range t.v1Fields() {
		*f.ptr = b.U16(6 + 2*i)
	}
	return nil
}

func (t *MaxPTable) Encode() ([]byte, error) {
	w := parse.NewBinaryWriter(make([]byte, 0, 32))
	w.WriteUint32(t.Version)
	w.WriteUint16(t.NumGlyphs)
	if t.Version >= maxpVersion10 {
		for _, f := range t.v1Fields() {
			w.WriteUint16(*f.ptr)
		}
	}
	return w.Bytes(), nil
}

func (t *MaxPTable) WriteXML(w *ttxml.Writer, _ *GlyphOrder) error {
	w.Comment("Most of this table will be recalculated by the compiler")
	w.Newline()
	w.Value("tableVersion", fmt.Sprintf("0x%x", t.Version))
	w.Value("numGlyphs", t.NumGlyphs)
	if t.Version >= maxpVersion10 {
		for _, f := range t.v1Fields() {
			w.Value(f.name, *f.ptr)
		}
	}
	return w.Err()
}

func (t *MaxPTable) ReadXML(el *ttxml.Element, _ *GlyphOrder) error {
	fr := fieldReader{el: el, tag: t.Tag()}
	t.Version = uint32(fr.uint("tableVersion", 32))
	t.NumGlyphs = uint16(fr.uint("numGlyphs", 16))
	if t.Version >= maxpVersion10 {
		for _, f := range t.v1Fields() {
			*f.ptr = uint16(fr.uint(f.name, 16))
		}
	}
	return fr.err
}
