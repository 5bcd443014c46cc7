package ot

import (
	"bytes"
	"cmp"
	"encoding/hex"
	"fmt"
	"slices"
	"strings"

	"github.com/npillmayer/ttx/ttxml"
	"github.com/tdewolff/parse/v2"
	"golang.org/x/text/unicode/runenames"
)

// CMapSubtable is one character-to-glyph mapping of table 'cmap'.
//
// Formats 0, 4, 6 and 12 are decoded into Mapping. Sub-tables of any other
// format are kept as raw bytes in Raw, including their header.
type CMapSubtable struct {
	PlatformID uint16
	EncodingID uint16
	Format     uint16
	Language   uint32
	Mapping    map[uint32]int // character code -> glyph index
	Raw        []byte
}

// IsUnicode returns true for sub-tables mapping Unicode code points.
func (sub *CMapSubtable) IsUnicode() bool {
	return sub.PlatformID == PlatformUnicode ||
		sub.PlatformID == PlatformWindows && (sub.EncodingID == 1 || sub.EncodingID == 10)
}

func (sub *CMapSubtable) decoded() bool {
	switch sub.Format {
	case 0, 4, 6, 12:
		return true
	}
	return false
}

// sortedCodes returns the character codes of sub in ascending order.
func (sub *CMapSubtable) sortedCodes() []uint32 {
	codes := make([]uint32, 0, len(sub.Mapping))
	for c := range sub.Mapping {
		codes = append(codes, c)
	}
	slices.Sort(codes)
	return codes
}

// CMapTable is the character to glyph index mapping table 'cmap'.
type CMapTable struct {
	Version   uint16
	Subtables []*CMapSubtable
	warnings  []string
}

func (t *CMapTable) Tag() Tag {
	return T("cmap")
}

// Warnings lists sub-tables and mappings which have been dropped.
func (t *CMapTable) Warnings() []string {
	return t.warnings
}

func (t *CMapTable) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	tracer().Infof("cmap: %s", msg)
	t.warnings = append(t.warnings, msg)
}

// Lookup maps a Unicode code point to a glyph index, using the best
// Unicode sub-table of the font.
func (t *CMapTable) Lookup(r rune) (int, bool) {
	sub := t.bestSubtable(unicodeCMapPreference)
	if sub == nil {
		return 0, false
	}
	gid, ok := sub.Mapping[uint32(r)]
	return gid, ok
}

func (t *CMapTable) bestSubtable(preference [][2]uint16) *CMapSubtable {
	for _, pref := range preference {
		for _, sub := range t.Subtables {
			if sub.PlatformID == pref[0] && sub.EncodingID == pref[1] && sub.decoded() {
				return sub
			}
		}
	}
	return nil
}

func (t *CMapTable) maxGlyphID() int {
	m := 0
	for _, sub := range t.Subtables {
		for _, gid := range sub.Mapping {
			m = max(m, gid)
		}
	}
	return m
}

// --- Decoding --------------------------------------------------------------

func (t *CMapTable) Decode(data []byte) error {
	b := binarySegm(data)
	if len(b) < 4 {
		return fmt.Errorf("%w: cmap table has %d bytes (need 4)", ErrTableTooShort, len(b))
	}
	t.Version = b.U16(0)
	n := int(b.U16(2))
	tracer().Debugf("font cmap has %d sub-tables in %d bytes", n, len(b))
	const headerSize, entrySize = 4, 8
	if _, err := b.view(headerSize, entrySize*n); err != nil {
		return fmt.Errorf("%w: cmap table with %d encoding records has %d bytes", ErrTableTooShort, n, len(b))
	}
	t.Subtables = t.Subtables[:0]
	t.warnings = nil
	budget := &cmapBudget{left: maxCMapTableEntries}
	shared := make(map[int]*CMapSubtable) // offset -> decoded sub-table
	failed := make(map[int]error)         // offset -> decoding error
	for i := 0; i < n; i++ {
		rec := b[headerSize+entrySize*i:]
		platform, encoding := u16(rec), u16(rec[2:])
		offset := int(u32(rec[4:]))
		if err, ok := failed[offset]; ok {
			t.warn("sub-table %d (platform=%d, encoding=%d) dropped: %v", i, platform, encoding, err)
			continue
		}
		if first, ok := shared[offset]; ok {
			if err := budget.charge(len(first.Mapping) + len(first.Raw)); err != nil {
				t.warn("sub-table %d (platform=%d, encoding=%d) dropped: %v", i, platform, encoding, err)
				continue
			}
			sub := *first
			sub.PlatformID, sub.EncodingID = platform, encoding
			t.Subtables = append(t.Subtables, &sub)
			continue
		}
		sub := &CMapSubtable{PlatformID: platform, EncodingID: encoding}
		raw, err := cmapSubtableBytes(b, offset)
		if err != nil {
			failed[offset] = err
			t.warn("sub-table %d (platform=%d, encoding=%d) dropped: %v", i, platform, encoding, err)
			continue
		}
		sub.Format = u16(raw)
		if err := t.decodeSubtable(sub, binarySegm(raw), budget); err != nil {
			failed[offset] = fmt.Errorf("format %d: %w", sub.Format, err)
			t.warn("sub-table %d (platform=%d, encoding=%d, format %d) dropped: %v",
				i, platform, encoding, sub.Format, err)
			continue
		}
		shared[offset] = sub
		t.Subtables = append(t.Subtables, sub)
	}
	return nil
}

// Bounds for decoding sub-tables. Encoding records pointing to the same
// offset share a single decoded sub-table, but still count against the
// table's budget with its size. Sub-tables kept raw count with their
// bytes.
const (
	maxCMapEntries      = 0x110000     // codes walked by a single sub-table
	maxCMap4Codes       = 0x10000      // codes walked by a format 4 sub-table
	maxCMapTableEntries = 2 * 0x110000 // codes walked, bytes kept or shared by all sub-tables
)

// cmapBudget counts down the work left for decoding a cmap table.
type cmapBudget struct {
	left int
}

func (bg *cmapBudget) charge(n int) error {
	if n > bg.left {
		return errFontFormat("cmap table maps too many characters")
	}
	bg.left -= n
	return nil
}

// cmapSubtableBytes isolates a sub-table, using the length field of its header.
func cmapSubtableBytes(b binarySegm, offset int) (binarySegm, error) {
	format, err := b.u16(offset)
	if err != nil {
		return nil, fmt.Errorf("offset %d out of bounds", offset)
	}
	var length int
	switch format {
	case 0, 2, 4, 6:
		n, err := b.u16(offset + 2)
		if err != nil {
			return nil, err
		}
		length = int(n)
	case 8, 10, 12, 13:
		n, err := b.u32(offset + 4)
		if err != nil {
			return nil, err
		}
		length = int(n)
	case 14:
		n, err := b.u32(offset + 2)
		if err != nil {
			return nil, err
		}
		length = int(n)
	default:
		length = len(b) - offset
	}
	sub, err := b.view(offset, length)
	if err != nil && format == 4 {
		// some fonts have a wrong length for format 4; fontTools is lenient, too
		sub, err = b.view(offset, len(b)-offset)
	}
	if err != nil {
		return nil, fmt.Errorf("length %d at offset %d exceeds table", length, offset)
	}
	return sub, nil
}

func (t *CMapTable) decodeSubtable(sub *CMapSubtable, b binarySegm, budget *cmapBudget) error {
	switch sub.Format {
	case 0:
		return decodeCMap0(sub, b, budget)
	case 4:
		return decodeCMap4(sub, b, budget)
	case 6:
		return decodeCMap6(sub, b, budget)
	case 12:
		return decodeCMap12(sub, b, budget)
	}
	if err := budget.charge(len(b)); err != nil {
		return err
	}
	sub.Raw = copyBytes(b)
	return nil
}

func decodeCMap0(sub *CMapSubtable, b binarySegm, budget *cmapBudget) error {
	glyphs, err := b.view(6, 256)
	if err != nil {
		return fmt.Errorf("%w: format 0", ErrTableTooShort)
	}
	if err := budget.charge(len(glyphs)); err != nil {
		return err
	}
	sub.Language = uint32(b.U16(4))
	sub.Mapping = make(map[uint32]int)
	for c, g := range glyphs {
		if g != 0 {
			sub.Mapping[uint32(c)] = int(g)
		}
	}
	return nil
}

// Format 4 is a two-byte encoding format with segments of contiguous
// character ranges. Glyph indices are either computed from the character
// code plus a delta, or looked up in a glyph ID array. Segments have to be
// sorted and must not overlap.
func decodeCMap4(sub *CMapSubtable, b binarySegm, budget *cmapBudget) error {
	if len(b) < 14 {
		return fmt.Errorf("%w: format 4", ErrTableTooShort)
	}
	sub.Language = uint32(b.U16(4))
	segX2 := int(b.U16(6))
	segCount := segX2 / 2
	endCodes, e1 := b.view(14, segX2)
	startCodes, e2 := b.view(16+segX2, segX2)
	deltas, e3 := b.view(16+2*segX2, segX2)
	rangeOffsPos := 16 + 3*segX2
	_, e4 := b.view(rangeOffsPos, segX2)
	if e1 != nil || e2 != nil || e3 != nil || e4 != nil {
		return fmt.Errorf("%w: format 4 with %d segments", ErrTableTooShort, segCount)
	}
	sub.Mapping = make(map[uint32]int)
	prevEnd, walked := -1, 0
	for i := 0; i < segCount; i++ {
		start, end := int(u16(startCodes[2*i:])), int(u16(endCodes[2*i:]))
		if end < start {
			return errFontFormat("cmap format 4 segment %d has invalid range [%#x, %#x]", i, start, end)
		}
		if start <= prevEnd {
			return errFontFormat("cmap format 4 segment %d [%#x, %#x] overlaps its predecessor", i, start, end)
		}
		prevEnd = end
		last := min(end, 0xFFFE) // 0xFFFF is never mapped
		if last < start {
			continue
		}
		walked += last - start + 1
		if walked > maxCMap4Codes {
			return errFontFormat("cmap format 4 maps too many characters")
		}
		if err := budget.charge(last - start + 1); err != nil {
			return err
		}
		delta := int(u16(deltas[2*i:]))
		roPos := rangeOffsPos + 2*i
		ro := int(b.U16(roPos))
		for c := start; c <= last; c++ {
			var g int
			if ro == 0 {
				g = (c + delta) & 0xFFFF
			} else {
				g = int(b.U16(roPos + ro + 2*(c-start)))
				if g != 0 {
					g = (g + delta) & 0xFFFF
				}
			}
			if g != 0 {
				sub.Mapping[uint32(c)] = g
			}
		}
	}
	return nil
}

func decodeCMap6(sub *CMapSubtable, b binarySegm, budget *cmapBudget) error {
	if len(b) < 10 {
		return fmt.Errorf("%w: format 6", ErrTableTooShort)
	}
	sub.Language = uint32(b.U16(4))
	first, count := int(b.U16(6)), int(b.U16(8))
	glyphs, err := b.view(10, 2*count)
	if err != nil {
		return fmt.Errorf("%w: format 6 with %d entries", ErrTableTooShort, count)
	}
	if err := budget.charge(count); err != nil {
		return err
	}
	sub.Mapping = make(map[uint32]int, count)
	for i := 0; i < count; i++ {
		if g := u16(glyphs[2*i:]); g != 0 {
			sub.Mapping[uint32(first+i)] = int(g)
		}
	}
	return nil
}

func decodeCMap12(sub *CMapSubtable, b binarySegm, budget *cmapBudget) error {
	if len(b) < 16 {
		return fmt.Errorf("%w: format 12", ErrTableTooShort)
	}
	sub.Language = b.U32(8)
	nGroups := int(b.U32(12))
	groupsSize, err := checkedMulInt(12, nGroups)
	if err != nil {
		return errFontFormat("cmap format 12 group count %d", nGroups)
	}
	groups, err := b.view(16, groupsSize)
	if err != nil {
		return fmt.Errorf("%w: format 12 with %d groups", ErrTableTooShort, nGroups)
	}
	sub.Mapping = make(map[uint32]int)
	walked := 0
	for i := 0; i < nGroups; i++ {
		grp := groups[12*i:]
		start, end, gid := u32(grp), u32(grp[4:]), u32(grp[8:])
		if end < start || end > 0x10FFFF {
			return errFontFormat("cmap format 12 group %d has invalid range [%#x, %#x]", i, start, end)
		}
		walked += int(end-start) + 1
		if walked > maxCMapEntries {
			return errFontFormat("cmap format 12 maps too many characters")
		}
		if err := budget.charge(int(end-start) + 1); err != nil {
			return err
		}
		for c := start; c <= end; c++ {
			g := int(gid + (c - start))
			if g != 0 && g <= 0xFFFF {
				sub.Mapping[c] = g
			}
		}
	}
	return nil
}

// --- Encoding --------------------------------------------------------------

// Encode writes the sub-tables ordered by platform, encoding and language.
// Sub-tables with identical binary representation share their data.
func (t *CMapTable) Encode() ([]byte, error) {
	subs := slices.Clone(t.Subtables)
	slices.SortStableFunc(subs, func(a, b *CMapSubtable) int {
		return cmp.Or(
			cmp.Compare(a.PlatformID, b.PlatformID),
			cmp.Compare(a.EncodingID, b.EncodingID),
			cmp.Compare(a.Language, b.Language),
		)
	})
	w := parse.NewBinaryWriter(make([]byte, 0, 1024))
	w.WriteUint16(t.Version)
	w.WriteUint16(uint16(len(subs)))
	data := parse.NewBinaryWriter(make([]byte, 0, 1024))
	var blobs [][]byte
	var offsets []uint32
	base := uint32(4 + 8*len(subs))
	for _, sub := range subs {
		blob, err := encodeCMapSubtable(sub)
		if err != nil {
			return nil, fmt.Errorf("cmap sub-table platform=%d encoding=%d format %d: %w",
				sub.PlatformID, sub.EncodingID, sub.Format, err)
		}
		offset := base + data.Len()
		for i, other := range blobs {
			if bytes.Equal(blob, other) {
				offset = offsets[i]
				blob = nil
				break
			}
		}
		if blob != nil {
			blobs = append(blobs, blob)
			offsets = append(offsets, offset)
			data.WriteBytes(blob)
		}
		w.WriteUint16(sub.PlatformID)
		w.WriteUint16(sub.EncodingID)
		w.WriteUint32(offset)
	}
	w.WriteBytes(data.Bytes())
	return w.Bytes(), nil
}

func encodeCMapSubtable(sub *CMapSubtable) ([]byte, error) {
	switch sub.Format {
	case 0:
		return encodeCMap0(sub)
	case 4:
		return encodeCMap4(sub)
	case 6:
		return encodeCMap6(sub)
	case 12:
		return encodeCMap12(sub), nil
	}
	if len(sub.Raw) < 2 {
		return nil, fmt.Errorf("no data for undecoded format")
	}
	return sub.Raw, nil
}

func encodeCMap0(sub *CMapSubtable) ([]byte, error) {
	w := parse.NewBinaryWriter(make([]byte, 0, 262))
	w.WriteUint16(0)   // format
	w.WriteUint16(262) // length
	w.WriteUint16(uint16(sub.Language))
	var glyphs [256]byte
	for c, g := range sub.Mapping {
		if c > 0xFF || g > 0xFF {
			return nil, fmt.Errorf("mapping %#x -> %d exceeds format 0", c, g)
		}
		glyphs[c] = byte(g)
	}
	w.WriteBytes(glyphs[:])
	return w.Bytes(), nil
}

type cmap4Segment struct {
	start, end uint16
	delta      uint16
	glyphs     []uint16 // nil for delta-only segments
}

// segmentsForCMap4 groups consecutive character codes into segments. A run of
// codes whose glyph indices increase in step gets an idDelta, other runs get
// their glyph indices stored in the glyph ID array.
func segmentsForCMap4(sub *CMapSubtable) []cmap4Segment {
	var codes []uint32
	for _, c := range sub.sortedCodes() {
		if c < 0xFFFF {
			codes = append(codes, c)
		}
	}
	var segs []cmap4Segment
	for i := 0; i < len(codes); {
		j := i + 1
		for j < len(codes) && codes[j] == codes[j-1]+1 {
			j++
		}
		run := codes[i:j]
		delta := uint16(sub.Mapping[run[0]] - int(run[0]))
		uniform := true
		for _, c := range run {
			if uint16(sub.Mapping[c]-int(c)) != delta {
				uniform = false
				break
			}
		}
		seg := cmap4Segment{start: uint16(run[0]), end: uint16(run[len(run)-1])}
		if uniform {
			seg.delta = delta
		} else {
			seg.glyphs = make([]uint16, len(run))
			for k, c := range run {
				seg.glyphs[k] = uint16(sub.Mapping[c])
			}
		}
		segs = append(segs, seg)
		i = j
	}
	return append(segs, cmap4Segment{start: 0xFFFF, end: 0xFFFF, delta: 1})
}

func encodeCMap4(sub *CMapSubtable) ([]byte, error) {
	segs := segmentsForCMap4(sub)
	segCount := len(segs)
	searchRange, entrySelector, rangeShift := searchParams(segCount, 2)
	w := parse.NewBinaryWriter(make([]byte, 0, 16+8*segCount))
	w.WriteUint16(4) // format
	w.WriteUint16(0) // length (set later)
	w.WriteUint16(uint16(sub.Language))
	w.WriteUint16(uint16(2 * segCount))
	w.WriteUint16(searchRange)
	w.WriteUint16(entrySelector)
	w.WriteUint16(rangeShift)
	for _, s := range segs {
		w.WriteUint16(s.end)
	}
	w.WriteUint16(0) // reservedPad
	for _, s := range segs {
		w.WriteUint16(s.start)
	}
	for _, s := range segs {
		w.WriteUint16(s.delta)
	}
	arrayIndex := 0
	for i, s := range segs {
		if s.glyphs == nil {
			w.WriteUint16(0)
			continue
		}
		// distance from this idRangeOffset entry to the segment's first glyph
		w.WriteUint16(uint16(2*(segCount-i) + 2*arrayIndex))
		arrayIndex += len(s.glyphs)
	}
	for _, s := range segs {
		for _, g := range s.glyphs {
			w.WriteUint16(g)
		}
	}
	b := w.Bytes()
	if len(b) > 0xFFFF {
		return nil, fmt.Errorf("format 4 sub-table too large: %d bytes", len(b))
	}
	putU16(b[2:], uint16(len(b)))
	return b, nil
}

func encodeCMap6(sub *CMapSubtable) ([]byte, error) {
	codes := sub.sortedCodes()
	var first, count uint32
	if len(codes) > 0 {
		first, count = codes[0], codes[len(codes)-1]-codes[0]+1
	}
	if first+count > 0x10000 {
		return nil, fmt.Errorf("character codes exceed format 6")
	}
	w := parse.NewBinaryWriter(make([]byte, 0, 10+2*count))
	w.WriteUint16(6)
	w.WriteUint16(uint16(10 + 2*count))
	w.WriteUint16(uint16(sub.Language))
	w.WriteUint16(uint16(first))
	w.WriteUint16(uint16(count))
	for c := first; c < first+count; c++ {
		w.WriteUint16(uint16(sub.Mapping[c]))
	}
	return w.Bytes(), nil
}

// cmap12Groups returns groups of consecutive codes mapped to consecutive glyphs.
func cmap12Groups(sub *CMapSubtable) [][3]uint32 {
	var groups [][3]uint32
	for _, c := range sub.sortedCodes() {
		g := uint32(sub.Mapping[c])
		if n := len(groups); n > 0 {
			last := &groups[n-1]
			if c == last[1]+1 && g == last[2]+(c-last[0]) {
				last[1] = c
				continue
			}
		}
		groups = append(groups, [3]uint32{c, c, g})
	}
	return groups
}

func encodeCMap12(sub *CMapSubtable) []byte {
	groups := cmap12Groups(sub)
	length := uint32(16 + 12*len(groups))
	w := parse.NewBinaryWriter(make([]byte, 0, length))
	w.WriteUint16(12) // format
	w.WriteUint16(0)  // reserved
	w.WriteUint32(length)
	w.WriteUint32(sub.Language)
	w.WriteUint32(uint32(len(groups)))
	for _, grp := range groups {
		w.WriteUint32(grp[0]) // startCharCode
		w.WriteUint32(grp[1]) // endCharCode
		w.WriteUint32(grp[2]) // startGlyphID
	}
	return w.Bytes()
}

// --- TTX -------------------------------------------------------------------

func (t *CMapTable) WriteXML(w *ttxml.Writer, glyphs *GlyphOrder) error {
	w.SimpleTag("tableVersion", ttxml.A("version", t.Version))
	w.Newline()
	for _, sub := range t.Subtables {
		if !sub.decoded() {
			w.BeginTag("cmap_format_unknown",
				ttxml.A("platformID", sub.PlatformID),
				ttxml.A("platEncID", sub.EncodingID),
				ttxml.A("format", sub.Format))
			w.Newline()
			w.Indent()
			w.DumpHex(sub.Raw)
			w.Dedent()
			w.EndTag("cmap_format_unknown")
			w.Newline()
			continue
		}
		name := fmt.Sprintf("cmap_format_%d", sub.Format)
		attrs := []ttxml.Attr{
			ttxml.A("platformID", sub.PlatformID),
			ttxml.A("platEncID", sub.EncodingID),
		}
		if sub.Format == 12 {
			nGroups := len(cmap12Groups(sub))
			attrs = append(attrs,
				ttxml.A("format", 12),
				ttxml.A("reserved", 0),
				ttxml.A("length", 16+12*nGroups),
				ttxml.A("language", sub.Language),
				ttxml.A("nGroups", nGroups))
		} else {
			attrs = append(attrs, ttxml.A("language", sub.Language))
		}
		w.BeginTag(name, attrs...)
		w.Newline()
		w.Indent()
		for _, c := range sub.sortedCodes() {
			w.SimpleTag("map", ttxml.A("code", fmt.Sprintf("0x%x", c)), ttxml.A("name", glyphs.Name(sub.Mapping[c])))
			if sub.IsUnicode() {
				w.Comment(unicodeCharName(rune(c)))
			}
			w.Newline()
		}
		w.Dedent()
		w.EndTag(name)
		w.Newline()
	}
	return w.Err()
}

func unicodeCharName(r rune) string {
	if n := runenames.Name(r); n != "" {
		return n
	}
	return "????"
}

func (t *CMapTable) ReadXML(el *ttxml.Element, glyphs *GlyphOrder) error {
	t.Version = 0
	if tv := el.Child("tableVersion"); tv != nil {
		if v, ok := tv.Attr("version"); ok {
			n, err := ParseNumber(v)
			if err != nil {
				return fmt.Errorf("cmap: invalid table version %q", v)
			}
			t.Version = uint16(n)
		}
	}
	t.Subtables = t.Subtables[:0]
	t.warnings = nil
	for _, c := range el.Children {
		if !strings.HasPrefix(c.Name, "cmap_format_") {
			continue
		}
		fr := fieldReader{el: c, tag: t.Tag()}
		sub := &CMapSubtable{
			PlatformID: uint16(attrNumber(&fr, c, "platformID", 16)),
			EncodingID: uint16(attrNumber(&fr, c, "platEncID", 16)),
		}
		if c.Name == "cmap_format_unknown" {
			sub.Format = uint16(attrNumber(&fr, c, "format", 16))
			if fr.err != nil {
				return fr.err
			}
			raw, err := parseHexData(c.Text)
			if err != nil {
				return fmt.Errorf("cmap: sub-table format %d: %w", sub.Format, err)
			}
			sub.Raw = raw
			t.Subtables = append(t.Subtables, sub)
			continue
		}
		format, err := ParseNumber(strings.TrimPrefix(c.Name, "cmap_format_"))
		if err != nil {
			return fmt.Errorf("cmap: unknown sub-table element <%s>", c.Name)
		}
		sub.Format = uint16(format)
		if !sub.decoded() {
			return fmt.Errorf("cmap: sub-table format %d not supported in TTX", format)
		}
		sub.Language = uint32(attrNumber(&fr, c, "language", 32))
		if fr.err != nil {
			return fr.err
		}
		sub.Mapping = make(map[uint32]int)
		for _, m := range c.ChildrenNamed("map") {
			code := attrNumber(&fr, m, "code", 32)
			if fr.err != nil {
				return fr.err
			}
			name := m.AttrOr("name", "")
			gid, ok := glyphs.ID(name)
			if !ok {
				t.warn("character code %#x maps to unknown glyph %q, dropped", code, name)
				continue
			}
			sub.Mapping[uint32(code)] = gid
		}
		t.Subtables = append(t.Subtables, sub)
	}
	return nil
}

// parseHexData decodes hex digits, ignoring any white space in between.
func parseHexData(s string) ([]byte, error) {
	s = strings.Join(strings.Fields(s), "")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex data: %w", err)
	}
	return b, nil
}
