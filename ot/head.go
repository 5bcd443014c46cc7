package ot

import (
	"fmt"

	"github.com/npillmayer/ttx/ttxml"
	"github.com/tdewolff/parse/v2"
)

// HeadTable is the font header table 'head'. It carries global information
// about the font, most notably the units per em and the format of 'loca'.
//
// Created and Modified are seconds since the Macintosh epoch of 1904-01-01.
type HeadTable struct {
	Version            uint32 // 16.16 fixed
	FontRevision       int32  // 16.16 fixed
	CheckSumAdjustment uint32
	MagicNumber        uint32
	Flags              uint16
	UnitsPerEm         uint16
	Created            int64
	Modified           int64
	XMin               int16
	YMin               int16
	XMax               int16
	YMax               int16
	MacStyle           uint16
	LowestRecPPEM      uint16
	FontDirectionHint  int16
	IndexToLocFormat   int16 // 0 for short offsets, 1 for long
	GlyphDataFormat    int16
}

// HeadTableSize is the size of a 'head' table in bytes.
const HeadTableSize = 54

// headMagic is the value of field magicNumber of every valid 'head' table.
const headMagic = 0x5F0F3CF5

// offset of field checkSumAdjustment
const headCheckSumAdjustmentOffset = 8

func (t *HeadTable) Tag() Tag {
	return T("head")
}

func (t *HeadTable) Decode(data []byte) error {
	if len(data) < HeadTableSize {
		return fmt.Errorf("%w: head table has %d bytes (need %d)", ErrTableTooShort, len(data), HeadTableSize)
	}
	b := binarySegm(data)
	t.Version = b.U32(0)
	t.FontRevision = int32(b.U32(4))
	t.CheckSumAdjustment = b.U32(8)
	t.MagicNumber = b.U32(12)
	t.Flags = b.U16(16)
	t.UnitsPerEm = b.U16(18)
	t.Created, _ = b.i64(20)
	t.Modified, _ = b.i64(28)
	t.XMin, _ = b.i16(36)
	t.YMin, _ = b.i16(38)
	t.XMax, _ = b.i16(40)
	t.YMax, _ = b.i16(42)
	t.MacStyle = b.U16(44)
	t.LowestRecPPEM = b.U16(46)
	t.FontDirectionHint, _ = b.i16(48)
	t.IndexToLocFormat, _ = b.i16(50)
	t.GlyphDataFormat, _ = b.i16(52)
	if t.MagicNumber != headMagic {
		tracer().Infof("head table has unexpected magic number 0x%08x", t.MagicNumber)
	}
	return nil
}

func (t *HeadTable) Encode() ([]byte, error) {
	w := parse.NewBinaryWriter(make([]byte, 0, HeadTableSize))
	w.WriteUint32(t.Version)
	w.WriteUint32(uint32(t.FontRevision))
	w.WriteUint32(t.CheckSumAdjustment)
	w.WriteUint32(t.MagicNumber)
	w.WriteUint16(t.Flags)
	w.WriteUint16(t.UnitsPerEm)
	w.WriteInt64(t.Created)
	w.WriteInt64(t.Modified)
	w.WriteInt16(t.XMin)
	w.WriteInt16(t.YMin)
	w.WriteInt16(t.XMax)
	w.WriteInt16(t.YMax)
	w.WriteUint16(t.MacStyle)
	w.WriteUint16(t.LowestRecPPEM)
	w.WriteInt16(t.FontDirectionHint)
	w.WriteInt16(t.IndexToLocFormat)
	w.WriteInt16(t.GlyphDataFormat)
	return w.Bytes(), nil
}

func (t *HeadTable) WriteXML(w *ttxml.Writer, _ *GlyphOrder) error {
	w.Comment("Most of this table will be recalculated by the compiler")
	w.Newline()
	w.Value("tableVersion", FixedToString(int32(t.Version), 16))
	w.Value("fontRevision", FixedToString(t.FontRevision, 16))
	w.Value("checkSumAdjustment", fmt.Sprintf("0x%08x", t.CheckSumAdjustment))
	w.Value("magicNumber", fmt.Sprintf("0x%08x", t.MagicNumber))
	w.Value("flags", BinaryFlags(t.Flags))
	w.Value("unitsPerEm", t.UnitsPerEm)
	w.Value("created", TimestampToString(t.Created))
	w.Value("modified", TimestampToString(t.Modified))
	w.Value("xMin", t.XMin)
	w.Value("yMin", t.YMin)
	w.Value("xMax", t.XMax)
	w.Value("yMax", t.YMax)
	w.Value("macStyle", BinaryFlags(t.MacStyle))
	w.Value("lowestRecPPEM", t.LowestRecPPEM)
	w.Value("fontDirectionHint", t.FontDirectionHint)
	w.Value("indexToLocFormat", t.IndexToLocFormat)
	w.Value("glyphDataFormat", t.GlyphDataFormat)
	return w.Err()
}

func (t *HeadTable) ReadXML(el *ttxml.Element, _ *GlyphOrder) error {
	fr := fieldReader{el: el, tag: t.Tag()}
	t.Version = uint32(fr.fixed("tableVersion"))
	t.FontRevision = fr.fixed("fontRevision")
	t.CheckSumAdjustment = uint32(fr.uint("checkSumAdjustment", 32))
	t.MagicNumber = uint32(fr.uint("magicNumber", 32))
	if _, ok := el.ChildValue("magicNumber"); !ok {
		t.MagicNumber = headMagic
	}
	t.Flags = fr.flags("flags")
	t.UnitsPerEm = uint16(fr.uint("unitsPerEm", 16))
	t.Created = fr.timestamp("created")
	t.Modified = fr.timestamp("modified")
	t.XMin = int16(fr.int("xMin", 16))
	t.YMin = int16(fr.int("yMin", 16))
	t.XMax = int16(fr.int("xMax", 16))
	t.YMax = int16(fr.int("yMax", 16))
	t.MacStyle = fr.flags("macStyle")
	t.LowestRecPPEM = uint16(fr.uint("lowestRecPPEM", 16))
	t.FontDirectionHint = int16(fr.int("fontDirectionHint", 16))
	t.IndexToLocFormat = int16(fr.int("indexToLocFormat", 16))
	t.GlyphDataFormat = int16(fr.int("glyphDataFormat", 16))
	return fr.err
}
