package ot

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/ttx/ttxml"
	"github.com/tdewolff/parse/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// renderXML renders table as a TTX table element.
func renderXML(t *testing.T, table Table, glyphs *GlyphOrder) string {
	t.Helper()
	var buf bytes.Buffer
	w := ttxml.NewWriter(&buf)
	name := table.Tag().XMLName()
	w.BeginTag(name)
	w.Newline()
	w.Indent()
	require.NoError(t, table.WriteXML(w, glyphs))
	w.Dedent()
	w.EndTag(name)
	w.Newline()
	require.NoError(t, w.Flush())
	return buf.String()
}

// readXML parses a TTX table element into a fresh table for its tag.
func readXML(t *testing.T, doc string, glyphs *GlyphOrder) Table {
	t.Helper()
	el, err := ttxml.Parse(strings.NewReader(doc))
	require.NoError(t, err)
	tag, err := TagFromXML(el.Name)
	require.NoError(t, err)
	table := NewTable(tag)
	require.NoError(t, table.ReadXML(el, glyphs))
	return table
}

func TestHeadBoundaryValues(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ttx.ot")
	defer teardown()
	//
	for _, v := range []uint16{0, 1, 0x7FFF, 0xFFFF} {
		head := makeTestFont().Head()
		head.UnitsPerEm = v
		head.CheckSumAdjustment = 0x80000000
		head.XMin = -32768
		head.Created = 0
		data := mustEncode(t, head)
		require.Len(t, data, HeadTableSize)
		decoded := &HeadTable{}
		require.NoError(t, decoded.Decode(data))
		assert.Equal(t, *head, *decoded, "binary round trip of unitsPerEm=%d", v)

		doc := renderXML(t, head, nil)
		assert.Contains(t, doc, `<checkSumAdjustment value="0x80000000"/>`)
		back := readXML(t, doc, nil).(*HeadTable)
		assert.Equal(t, *head, *back, "XML round trip of unitsPerEm=%d", v)
	}
}

func TestHeadExtremeTimestamps(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ttx.ot")
	defer teardown()
	//
	head := makeTestFont().Head()
	head.Created = 0x7FFFFFFFFFFFFFFF
	head.Modified = -0x8000000000000000
	doc := renderXML(t, head, nil)
	assert.Contains(t, doc, `<created value="9223372036854775807"/>`)
	back := readXML(t, doc, nil).(*HeadTable)
	assert.Equal(t, *head, *back)
}

func TestHeadTooShort(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ttx.ot")
	defer teardown()
	//
	err := (&HeadTable{}).Decode(make([]byte, HeadTableSize-1))
	assert.ErrorIs(t, err, ErrTableTooShort)
}

func TestHeadXMLRendering(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ttx.ot")
	defer teardown()
	//
	doc := renderXML(t, makeTestFont().Head(), nil)
	for _, line := range []string{
		`<tableVersion value="1.0"/>`,
		`<fontRevision value="1.5"/>`,
		`<magicNumber value="0x5f0f3cf5"/>`,
		`<flags value="00000000 00001011"/>`,
		`<unitsPerEm value="1000"/>`,
		`<created value="Thu Jan  1 00:00:00 2015"/>`,
	} {
		assert.Contains(t, doc, line)
	}
}

func TestMaxPAndHHea(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ttx.ot")
	defer teardown()
	//
	maxp := &MaxPTable{Version: maxpVersion10, NumGlyphs: 42, MaxPoints: 300, MaxComponentDepth: 1}
	data := mustEncode(t, maxp)
	assert.Len(t, data, 32)
	decoded := &MaxPTable{}
	require.NoError(t, decoded.Decode(data))
	assert.Equal(t, *maxp, *decoded)
	assert.Equal(t, *maxp, *readXML(t, renderXML(t, maxp, nil), nil).(*MaxPTable))

	short := &MaxPTable{Version: maxpVersion05, NumGlyphs: 7}
	assert.Len(t, mustEncode(t, short), 6)
	assert.Equal(t, *short, *readXML(t, renderXML(t, short, nil), nil).(*MaxPTable))

	hhea := &HHeaTable{Version: 0x00010000, Ascent: 800, Descent: -200, LineGap: 90, NumberOfHMetrics: 3}
	data = mustEncode(t, hhea)
	assert.Len(t, data, hheaTableSize)
	hdecoded := &HHeaTable{}
	require.NoError(t, hdecoded.Decode(data))
	assert.Equal(t, *hhea, *hdecoded)
	assert.Equal(t, *hhea, *readXML(t, renderXML(t, hhea, nil), nil).(*HHeaTable))
}

func TestNameEscaping(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ttx.ot")
	defer teardown()
	//
	const s = `Fish & Chips <Bold>`
	name := &NameTable{Records: []NameRecord{winName(4, s)}}
	doc := renderXML(t, name, nil)
	escaped := `Fish &amp; Chips &lt;Bold&gt;`
	assert.Contains(t, doc, escaped)
	assert.Equal(t, len(s)+4+3+3, len(escaped))
	back := readXML(t, doc, nil).(*NameTable)
	require.Len(t, back.Records, 1)
	text, ok := back.Records[0].Text()
	assert.True(t, ok)
	assert.Equal(t, s, text)
}

func TestNameBinaryRoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ttx.ot")
	defer teardown()
	//
	mac, err := encodeNameString(PlatformMac, macEncodingRoman, "Café", true)
	require.NoError(t, err)
	name := &NameTable{Records: []NameRecord{
		winName(2, "Regular"),
		{PlatformID: PlatformMac, EncodingID: macEncodingRoman, NameID: 1, Raw: mac},
		winName(1, "Test Sans"),
		winName(3, "Test Sans"), // shares storage with nameID 1
	}}
	data := mustEncode(t, name)
	decoded := &NameTable{}
	require.NoError(t, decoded.Decode(data))
	require.Len(t, decoded.Records, 4)
	assert.Equal(t, uint16(PlatformMac), decoded.Records[0].PlatformID, "records are sorted by platform")
	text, ok := decoded.Records[0].Text()
	assert.True(t, ok)
	assert.Equal(t, "Café", text)
	family, ok := decoded.Lookup(1)
	assert.True(t, ok)
	assert.Equal(t, "Test Sans", family, "Windows records are preferred")
	// 6 header + 4*12 records + "Café" (4) + UTF-16 "Regular" (14) + "Test Sans" once (18)
	assert.Len(t, data, 6+48+4+14+18)
}

func TestNameDropsOutOfBoundsRecord(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ttx.ot")
	defer teardown()
	//
	name := &NameTable{Records: []NameRecord{winName(1, "AB")}}
	data := mustEncode(t, name)
	putU16(data[6+8:], 200) // length of record 0
	decoded := &NameTable{}
	require.NoError(t, decoded.Decode(data))
	assert.Empty(t, decoded.Records)
	assert.Len(t, decoded.Warnings(), 1)
}

func TestNameNonUnicode(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ttx.ot")
	defer teardown()
	//
	rec := NameRecord{PlatformID: PlatformMac, EncodingID: 1, NameID: 1, Raw: []byte("abc")}
	name := &NameTable{Records: []NameRecord{rec}}
	doc := renderXML(t, name, nil)
	assert.Contains(t, doc, `unicode="False"`)
	back := readXML(t, doc, nil).(*NameTable)
	require.Len(t, back.Records, 1)
	assert.Equal(t, rec.Raw, back.Records[0].Raw)
}

func TestCMapRoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ttx.ot")
	defer teardown()
	//
	mapping := map[uint32]int{0x20: 1, 0x41: 2, 0x42: 3, 0x43: 4, 0x3B1: 5, 0xFFFE: 6}
	wide := map[uint32]int{0x41: 2, 0x1F600: 7, 0x1F601: 8}
	low := map[uint32]int{0x41: 2, 0x42: 3}
	cmap := &CMapTable{Subtables: []*CMapSubtable{
		{PlatformID: PlatformWindows, EncodingID: 10, Format: 12, Mapping: wide},
		{PlatformID: PlatformWindows, EncodingID: 1, Format: 4, Mapping: mapping},
		{PlatformID: PlatformUnicode, EncodingID: 3, Format: 4, Mapping: mapping},
		{PlatformID: PlatformMac, EncodingID: 0, Format: 0, Mapping: low},
		{PlatformID: PlatformMac, EncodingID: 1, Format: 6, Mapping: low},
	}}
	data := mustEncode(t, cmap)
	decoded := &CMapTable{}
	require.NoError(t, decoded.Decode(data))
	assert.Empty(t, decoded.Warnings())
	require.Len(t, decoded.Subtables, 5)
	formats := map[uint16]map[uint32]int{}
	for _, sub := range decoded.Subtables {
		formats[sub.Format*100+sub.PlatformID*10+sub.EncodingID] = sub.Mapping
	}
	assert.Equal(t, mapping, formats[431])
	assert.Equal(t, mapping, formats[403])
	assert.Equal(t, wide, formats[1240])
	assert.Equal(t, low, formats[10])
	assert.Equal(t, low, formats[611])
	gid, ok := decoded.Lookup(0x1F600)
	assert.True(t, ok)
	assert.Equal(t, 7, gid)

	names := make([]string, 9)
	for i := range names {
		names[i] = syntheticGlyphName(i)
	}
	glyphs := NewGlyphOrder(names)
	doc := renderXML(t, cmap, glyphs)
	assert.Contains(t, doc, `<map code="0x41" name="glyph00002"/><!-- LATIN CAPITAL LETTER A -->`)
	back := readXML(t, doc, glyphs).(*CMapTable)
	require.Len(t, back.Subtables, 5)
	assert.Equal(t, wide, back.Subtables[0].Mapping)
	assert.Equal(t, uint16(12), back.Subtables[0].Format)
}

func TestCMapUnknownFormat(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ttx.ot")
	defer teardown()
	//
	raw := []byte{0, 14, 0, 0, 0, 10, 0, 0, 0, 0}
	cmap := &CMapTable{Subtables: []*CMapSubtable{
		{PlatformID: PlatformUnicode, EncodingID: 5, Format: 14, Raw: raw},
	}}
	data := mustEncode(t, cmap)
	decoded := &CMapTable{}
	require.NoError(t, decoded.Decode(data))
	require.Len(t, decoded.Subtables, 1)
	assert.Equal(t, raw, decoded.Subtables[0].Raw)
	doc := renderXML(t, decoded, nil)
	assert.Contains(t, doc, "cmap_format_unknown")
	back := readXML(t, doc, nil).(*CMapTable)
	require.Len(t, back.Subtables, 1)
	assert.Equal(t, raw, back.Subtables[0].Raw)
}

func TestCMapDropsBrokenSubtable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ttx.ot")
	defer teardown()
	//
	cmap := &CMapTable{Subtables: []*CMapSubtable{
		{PlatformID: PlatformWindows, EncodingID: 1, Format: 4, Mapping: map[uint32]int{0x41: 1}},
	}}
	data := mustEncode(t, cmap)
	data = append(data[:4:4], 0, 3, 0, 1, 0, 0, 0xFF, 0xFF) // offset out of bounds
	decoded := &CMapTable{}
	require.NoError(t, decoded.Decode(data))
	assert.Empty(t, decoded.Subtables)
	assert.Len(t, decoded.Warnings(), 1)
}

// cmapWithRecords builds a cmap table from raw sub-tables. Each encoding
// record i points to subtables[index[i]].
func cmapWithRecords(index []int, subtables ...[]byte) []byte {
	header := 4 + 8*len(index)
	offsets := make([]uint32, len(subtables))
	pos := header
	for i, sub := range subtables {
		offsets[i] = uint32(pos)
		pos += len(sub)
	}
	w := parse.NewBinaryWriter(make([]byte, 0, pos))
	w.WriteUint16(0)
	w.WriteUint16(uint16(len(index)))
	for _, k := range index {
		w.WriteUint16(PlatformWindows)
		w.WriteUint16(10)
		w.WriteUint32(offsets[k])
	}
	for _, sub := range subtables {
		w.WriteBytes(sub)
	}
	return w.Bytes()
}

// cmap4Segments builds a format 4 sub-table with the given segment ranges,
// all with delta 1 and without glyph ID array.
func cmap4Segments(ranges ...[2]uint16) []byte {
	n := len(ranges)
	w := parse.NewBinaryWriter(make([]byte, 0, 16+8*n))
	w.WriteUint16(4)
	w.WriteUint16(uint16(16 + 8*n))
	w.WriteUint16(0) // language
	w.WriteUint16(uint16(2 * n))
	w.WriteUint16(0)
	w.WriteUint16(0)
	w.WriteUint16(0)
	for _, r := range ranges {
		w.WriteUint16(r[1])
	}
	w.WriteUint16(0) // reserved pad
	for _, r := range ranges {
		w.WriteUint16(r[0])
	}
	for range ranges {
		w.WriteUint16(1)
	}
	for range ranges {
		w.WriteUint16(0)
	}
	return w.Bytes()
}

// cmap12Group builds a format 12 sub-table with a single group.
func cmap12Group(start, end, gid uint32) []byte {
	w := parse.NewBinaryWriter(make([]byte, 0, 28))
	w.WriteUint16(12)
	w.WriteUint16(0)
	w.WriteUint32(28)
	w.WriteUint32(0) // language
	w.WriteUint32(1)
	w.WriteUint32(start)
	w.WriteUint32(end)
	w.WriteUint32(gid)
	return w.Bytes()
}

func TestCMap4RejectsOverlappingSegments(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ttx.ot")
	defer teardown()
	//
	ranges := make([][2]uint16, 4000)
	for i := range ranges {
		ranges[i] = [2]uint16{0, 0xFFFE}
	}
	data := cmapWithRecords([]int{0}, cmap4Segments(ranges...))
	start := time.Now()
	decoded := &CMapTable{}
	require.NoError(t, decoded.Decode(data))
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Empty(t, decoded.Subtables)
	require.Len(t, decoded.Warnings(), 1)
	assert.Contains(t, decoded.Warnings()[0], "overlaps")
}

func TestCMap4RejectsInvertedSegment(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ttx.ot")
	defer teardown()
	//
	data := cmapWithRecords([]int{0, 1},
		cmap4Segments([2]uint16{0x41, 0x42}, [2]uint16{0x50, 0x4F}, [2]uint16{0xFFFF, 0xFFFF}),
		cmap4Segments([2]uint16{0x41, 0x42}, [2]uint16{0x43, 0x44}, [2]uint16{0xFFFF, 0xFFFF}),
	)
	decoded := &CMapTable{}
	require.NoError(t, decoded.Decode(data))
	require.Len(t, decoded.Subtables, 1)
	assert.Equal(t, map[uint32]int{0x41: 0x42, 0x42: 0x43, 0x43: 0x44, 0x44: 0x45}, decoded.Subtables[0].Mapping)
	require.Len(t, decoded.Warnings(), 1)
	assert.Contains(t, decoded.Warnings()[0], "invalid range")
}

func TestCMapSharedOffsetDecodedOnce(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ttx.ot")
	defer teardown()
	//
	index := make([]int, 2000)
	data := cmapWithRecords(index, cmap12Group(0, 0x10FFFF, 1))
	start := time.Now()
	decoded := &CMapTable{}
	require.NoError(t, decoded.Decode(data))
	assert.Less(t, time.Since(start), 5*time.Second)
	// the first record pays for walking all groups, every other record for
	// the mappings it shares
	kept := 1 + (maxCMapTableEntries-0x110000)/0xFFFF
	require.Len(t, decoded.Subtables, kept)
	assert.Len(t, decoded.Warnings(), len(index)-kept)
	first := decoded.Subtables[0]
	assert.Len(t, first.Mapping, 0xFFFF)
	for _, sub := range decoded.Subtables[1:] {
		assert.Equal(t, first.Format, sub.Format)
		assert.Len(t, sub.Mapping, 0xFFFF)
	}
}

func TestCMapTableBudget(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ttx.ot")
	defer teardown()
	//
	group := cmap12Group(0, 0x10FFFF, 0x10000) // walks every code, maps none
	data := cmapWithRecords([]int{0, 1, 2}, group, group, group)
	decoded := &CMapTable{}
	require.NoError(t, decoded.Decode(data))
	assert.Len(t, decoded.Subtables, 2)
	require.Len(t, decoded.Warnings(), 1)
	assert.Contains(t, decoded.Warnings()[0], "too many characters")
}

func TestCMapRawSubtablesCountAgainstBudget(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ttx.ot")
	defer teardown()
	//
	raw := make([]byte, 0xFFF0) // format 14 with a length of 0xFFF0
	putU16(raw, 14)
	putU32(raw[2:], uint32(len(raw)))
	index := make([]int, 100)
	decoded := &CMapTable{}
	require.NoError(t, decoded.Decode(cmapWithRecords(index, raw)))
	kept := maxCMapTableEntries / len(raw)
	require.Len(t, decoded.Subtables, kept)
	assert.Len(t, decoded.Warnings(), len(index)-kept)
	assert.Equal(t, raw, decoded.Subtables[kept-1].Raw)
}

func TestNameRecordsShareTableCopy(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ttx.ot")
	defer teardown()
	//
	const count, length = 2000, 0xFFFF
	strOffset := 6 + 12*count
	w := parse.NewBinaryWriter(make([]byte, 0, strOffset+length))
	w.WriteUint16(0)
	w.WriteUint16(count)
	w.WriteUint16(uint16(strOffset))
	for i := 0; i < count; i++ {
		w.WriteUint16(PlatformMac)
		w.WriteUint16(0)
		w.WriteUint16(0)
		w.WriteUint16(uint16(i))
		w.WriteUint16(length)
		w.WriteUint16(0)
	}
	w.WriteBytes(bytes.Repeat([]byte{'x'}, length))
	data := w.Bytes()
	decoded := &NameTable{}
	require.NoError(t, decoded.Decode(data))
	require.Len(t, decoded.Records, maxNameText/length)
	require.Len(t, decoded.Warnings(), 1)
	assert.Same(t, &decoded.Records[0].Raw[0], &decoded.Records[1].Raw[0])
	data[strOffset] = 'y'
	assert.Equal(t, byte('x'), decoded.Records[0].Raw[0], "records do not alias the input")
}

func TestPostFormat2(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ttx.ot")
	defer teardown()
	//
	post := &PostTable{
		Version:            postFormat2,
		ItalicAngle:        -0x000C0000,
		UnderlinePosition:  -75,
		UnderlineThickness: 50,
		names:              []string{".notdef", "A", "Aring.alt", "A", "dollar.oldstyle"},
	}
	data := mustEncode(t, post)
	decoded := &PostTable{}
	require.NoError(t, decoded.Decode(data))
	assert.Equal(t, post.names, decoded.glyphNames())
	assert.Equal(t, []string{"Aring.alt", "dollar.oldstyle"}, decoded.extraNames)

	glyphs := NewGlyphOrder(decoded.glyphNames())
	assert.Equal(t, "A#1", glyphs.Name(3))
	doc := renderXML(t, decoded, glyphs)
	assert.Contains(t, doc, `<italicAngle value="-12.0"/>`)
	assert.Contains(t, doc, `<psName name="A#1" psName="A"/>`)
	assert.Contains(t, doc, `<psName name="dollar.oldstyle"/>`)
	back := readXML(t, doc, glyphs).(*PostTable)
	assert.Equal(t, post.names, back.glyphNames())
	assert.Equal(t, data, mustEncode(t, back))
}

func TestPostFormat3HasNoNames(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ttx.ot")
	defer teardown()
	//
	post := &PostTable{Version: postFormat3, IsFixedPitch: 1}
	data := mustEncode(t, post)
	assert.Len(t, data, postHeaderSize)
	decoded := &PostTable{}
	require.NoError(t, decoded.Decode(data))
	assert.Nil(t, decoded.glyphNames())
	assert.Equal(t, *post, *readXML(t, renderXML(t, post, nil), nil).(*PostTable))
}

func TestGenericTableRoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ttx.ot")
	defer teardown()
	//
	data := make([]byte, 37)
	for i := range data {
		data[i] = byte(i * 7)
	}
	table := NewGenericTable(T("fpgm"), data)
	doc := renderXML(t, table, nil)
	assert.Contains(t, doc, "37 bytes of binary data follow")
	assert.Contains(t, doc, "00070e15 1c232a31")
	back := readXML(t, doc, nil)
	enc, err := back.Encode()
	require.NoError(t, err)
	assert.Equal(t, data, enc)

	el, err := ttxml.Parse(strings.NewReader("<fpgm/>"))
	require.NoError(t, err)
	assert.Error(t, NewTable(T("fpgm")).ReadXML(el, nil), "missing hex data is an error")
}

func TestGlyphOrderDerivation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ttx.ot")
	defer teardown()
	//
	f := makeTestFont()
	assert.Equal(t, []string{".notdef", "uni0041", "uni0042"}, f.GlyphOrder().Names())

	f.SetTable(&MaxPTable{Version: maxpVersion05, NumGlyphs: 4})
	assert.Equal(t, []string{".notdef", "uni0041", "uni0042", "glyph00003"}, f.GlyphOrder().Names())

	f.SetTable(&PostTable{Version: postFormat2, names: []string{".notdef", "A", "B", "A"}})
	assert.Equal(t, []string{".notdef", "A", "B", "A#1"}, f.GlyphOrder().Names())

	f.SetTable(&PostTable{Version: postFormat1})
	f.SetTable(&MaxPTable{Version: maxpVersion05, NumGlyphs: 3})
	assert.Equal(t, []string{".notdef", ".null", "nonmarkingreturn"}, f.GlyphOrder().Names())

	g := NewGlyphOrder([]string{".notdef", "a"})
	id, ok := g.ID("glyph00017")
	assert.True(t, ok)
	assert.Equal(t, 17, id)
	_, ok = g.ID("b")
	assert.False(t, ok)
	assert.Equal(t, "glyph00005", g.Name(5))
}
