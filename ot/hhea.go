package ot

import (
	"fmt"

	"github.com/npillmayer/ttx/ttxml"
	"github.com/tdewolff/parse/v2"
)

// HHeaTable is the horizontal header table 'hhea'. NumberOfHMetrics is
// needed to interpret 'hmtx'.
type HHeaTable struct {
	Version             uint32
	Ascent              int16
	Descent             int16
	LineGap             int16
	AdvanceWidthMax     uint16
	MinLeftSideBearing  int16
	MinRightSideBearing int16
	XMaxExtent          int16
	CaretSlopeRise      int16
	CaretSlopeRun       int16
	CaretOffset         int16
	Reserved            [4]int16
	MetricDataFormat    int16
	NumberOfHMetrics    uint16
}

const hheaTableSize = 36

func (t *HHeaTable) Tag() Tag {
	return T("hhea")
}

func (t *HHeaTable) Decode(data []byte) error {
	if len(data) < hheaTableSize {
		return fmt.Errorf("%w: hhea table has %d bytes (need %d)", ErrTableTooShort, len(data), hheaTableSize)
	}
	b := binarySegm(data)
	t.Version = b.U32(0)
	i16 := func(at int) int16 { return int16(b.U16(at)) }
	t.Ascent = i16(4)
	t.Descent = i16(6)
	t.LineGap = i16(8)
	t.AdvanceWidthMax = b.U16(10)
	t.MinLeftSideBearing = i16(12)
	t.MinRightSideBearing = i16(14)
	t.XMaxExtent = i16(16)
	t.CaretSlopeRise = i16(18)
	t.CaretSlopeRun = i16(20)
	t.CaretOffset = i16(22)
	for i := range t.Reserved {
		t.Reserved[i] = i16(24 + 2*i)
	}
	t.MetricDataFormat = i16(32)
	t.NumberOfHMetrics = b.U16(34)
	return nil
}

func (t *HHeaTable) Encode() ([]byte, error) {
	w := parse.NewBinaryWriter(make([]byte, 0, hheaTableSize))
	w.WriteUint32(t.Version)
	w.WriteInt16(t.Ascent)
	w.WriteInt16(t.Descent)
	w.WriteInt16(t.LineGap)
	w.WriteUint16(t.AdvanceWidthMax)
	w.WriteInt16(t.MinLeftSideBearing)
	w.WriteInt16(t.MinRightSideBearing)
	w.WriteInt16(t.XMaxExtent)
	w.WriteInt16(t.CaretSlopeRise)
	w.WriteInt16(t.CaretSlopeRun)
	w.WriteInt16(t.CaretOffset)
	for _, r := range t.Reserved {
		w.WriteInt16(r)
	}
	w.WriteInt16(t.MetricDataFormat)
	w.WriteUint16(t.NumberOfHMetrics)
	return w.Bytes(), nil
}

func (t *HHeaTable) WriteXML(w *ttxml.Writer, _ *GlyphOrder) error {
	w.Value("tableVersion", Version16Dot16(t.Version))
	w.Value("ascent", t.Ascent)
	w.Value("descent", t.Descent)
	w.Value("lineGap", t.LineGap)
	w.Value("advanceWidthMax", t.AdvanceWidthMax)
	w.Value("minLeftSideBearing", t.MinLeftSideBearing)
	w.Value("minRightSideBearing", t.MinRightSideBearing)
	w.Value("xMaxExtent", t.XMaxExtent)
	w.Value("caretSlopeRise", t.CaretSlopeRise)
	w.Value("caretSlopeRun", t.CaretSlopeRun)
	w.Value("caretOffset", t.CaretOffset)
	for i, r := range t.Reserved {
		w.Value(fmt.Sprintf("reserved%d", i), r)
	}
	w.Value("metricDataFormat", t.MetricDataFormat)
	w.Value("numberOfHMetrics", t.NumberOfHMetrics)
	return w.Err()
}

func (t *HHeaTable) ReadXML(el *ttxml.Element, _ *GlyphOrder) error {
	fr := fieldReader{el: el, tag: t.Tag()}
	t.Version = uint32(fr.uint("tableVersion", 32))
	t.Ascent = int16(fr.int("ascent", 16))
	t.Descent = int16(fr.int("descent", 16))
	t.LineGap = int16(fr.int("lineGap", 16))
	t.AdvanceWidthMax = uint16(fr.uint("advanceWidthMax", 16))
	t.MinLeftSideBearing = int16(fr.int("minLeftSideBearing", 16))
	t.MinRightSideBearing = int16(fr.int("minRightSideBearing", 16))
	t.XMaxExtent = int16(fr.int("xMaxExtent", 16))
	t.CaretSlopeRise = int16(fr.int("caretSlopeRise", 16))
	t.CaretSlopeRun = int16(fr.int("caretSlopeRun", 16))
	t.CaretOffset = int16(fr.int("caretOffset", 16))
	for i := range t.Reserved {
		t.Reserved[i] = int16(fr.int(fmt.Sprintf("reserved%d", i), 16))
	}
	t.MetricDataFormat = int16(fr.int("metricDataFormat", 16))
	t.NumberOfHMetrics = uint16(fr.uint("numberOfHMetrics", 16))
	return fr.err
}
