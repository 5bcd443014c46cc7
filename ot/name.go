package ot

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/npillmayer/ttx/ttxml"
	"github.com/tdewolff/parse/v2"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Platform IDs of name records and cmap sub-tables.
const (
	PlatformUnicode   = 0
	PlatformMac       = 1
	PlatformISO       = 2
	PlatformWindows   = 3
	PlatformCustom    = 4
	macEncodingRoman  = 0
	winEncodingSymbol = 0
)

// NameRecord is a single string of the 'name' table. The string is kept
// in its binary encoding, which depends on platform and encoding IDs.
type NameRecord struct {
	PlatformID uint16
	EncodingID uint16
	LanguageID uint16
	NameID     uint16
	Raw        []byte
}

// Text decodes the record's string. If the encoding is not supported,
// the bytes are interpreted as ISO 8859-1 and ok is false.
func (r NameRecord) Text() (s string, ok bool) {
	if enc := nameEncoding(r.PlatformID, r.EncodingID); enc != nil {
		if b, err := enc.NewDecoder().Bytes(r.Raw); err == nil {
			return string(b), true
		}
	}
	b, _ := charmap.ISO8859_1.NewDecoder().Bytes(r.Raw)
	return string(b), false
}

// nameEncoding returns the text encoding for strings of a platform/encoding
// combination, or nil if we do not know how to decode them.
func nameEncoding(platformID, encodingID uint16) encoding.Encoding {
	switch platformID {
	case PlatformUnicode, PlatformWindows:
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	case PlatformISO:
		if encodingID == 1 {
			return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
		}
	case PlatformMac:
		if encodingID == macEncodingRoman {
			return charmap.Macintosh
		}
	}
	return nil
}

// encodeNameString is the inverse of NameRecord.Text.
func encodeNameString(platformID, encodingID uint16, s string, isUnicode bool) ([]byte, error) {
	enc := nameEncoding(platformID, encodingID)
	if enc == nil || !isUnicode {
		enc = charmap.ISO8859_1
	}
	return enc.NewEncoder().Bytes([]byte(s))
}

// NameTable is the naming table 'name', a list of strings for font names,
// copyright notices, and so on, in several languages and encodings.
type NameTable struct {
	Format   uint16
	Records  []NameRecord
	warnings []string
}

func (t *NameTable) Tag() Tag {
	return T("name")
}

// Warnings lists records which have been dropped during decoding.
func (t *NameTable) Warnings() []string {
	return t.warnings
}

// Lookup returns the decoded string of the first record for nameID,
// preferring Windows English (US), then any Windows record, then Mac Roman.
func (t *NameTable) Lookup(nameID uint16) (string, bool) {
	rank := func(r NameRecord) int {
		switch {
		case r.PlatformID == PlatformWindows && r.LanguageID == 0x409:
			return 0
		case r.PlatformID == PlatformWindows:
			return 1
		case r.PlatformID == PlatformMac && r.EncodingID == macEncodingRoman:
			return 2
		}
		return 3
	}
	best, found := NameRecord{}, false
	for _, r := range t.Records {
		if r.NameID != nameID {
			continue
		}
		if !found || rank(r) < rank(best) {
			best, found = r, true
		}
	}
	if !found {
		return "", false
	}
	s, _ := best.Text()
	return s, true
}

// upper bound for the text of all records of a name table, counting strings
// shared between records once per record
const maxNameText = 1 << 20

func (t *NameTable) Decode(data []byte) error {
	b := binarySegm(data)
	if len(b) < 6 {
		return fmt.Errorf("%w: name table has %d bytes (need 6)", ErrTableTooShort, len(b))
	}
	t.Format = b.U16(0)
	count := int(b.U16(2))
	strOffset := int(b.U16(4))
	if t.Format > 1 {
		tracer().Infof("name table has unknown format %d, decoding records anyway", t.Format)
	}
	recsSize, err := checkedMulInt(12, count)
	if err != nil {
		return errFontFormat("name table record size: %v", err)
	}
	recs, err := b.view(6, recsSize)
	if err != nil {
		return fmt.Errorf("%w: name table with %d records has %d bytes", ErrTableTooShort, count, len(b))
	}
	t.Records = t.Records[:0]
	t.warnings = nil
	owned := binarySegm(copyBytes(b)) // records share a single copy of the table
	text := 0
	for i := 0; i < count; i++ {
		rec := recs[12*i : 12*i+12]
		r := NameRecord{
			PlatformID: u16(rec),
			EncodingID: u16(rec[2:]),
			LanguageID: u16(rec[4:]),
			NameID:     u16(rec[6:]),
		}
		length, offset := int(u16(rec[8:])), int(u16(rec[10:]))
		str, err := owned.view(strOffset+offset, length)
		if err != nil {
			t.warnings = append(t.warnings, fmt.Sprintf("name record %d (nameID %d) out of bounds, dropped",
				i, r.NameID))
			continue
		}
		if text += length; text > maxNameText {
			t.warnings = append(t.warnings, fmt.Sprintf("name records from %d on exceed %d bytes of text, dropped",
				i, maxNameText))
			break
		}
		r.Raw = str[:length:length]
		t.Records = append(t.Records, r)
	}
	return nil
}

// Encode writes the records in format 0, sorted by platform, encoding,
// language and name ID. Identical strings share storage.
func (t *NameTable) Encode() ([]byte, error) {
	recs := slices.Clone(t.Records)
	slices.SortStableFunc(recs, compareNameRecords)
	if len(recs) > 0xFFFF {
		return nil, fmt.Errorf("name table has too many records: %d", len(recs))
	}
	strOffset := 6 + 12*len(recs)
	storage := parse.NewBinaryWriter(make([]byte, 0, 256))
	offsets := make(map[string]uint16)
	w := parse.NewBinaryWriter(make([]byte, 0, strOffset))
	w.WriteUint16(0)
	w.WriteUint16(uint16(len(recs)))
	w.WriteUint16(uint16(strOffset))
	for _, r := range recs {
		if len(r.Raw) > 0xFFFF {
			return nil, fmt.Errorf("name record %d too long: %d bytes", r.NameID, len(r.Raw))
		}
		off, ok := offsets[string(r.Raw)]
		if !ok {
			if storage.Len() > 0xFFFF {
				return nil, fmt.Errorf("name table string storage overflow")
			}
			off = uint16(storage.Len())
			offsets[string(r.Raw)] = off
			storage.WriteBytes(r.Raw)
		}
		w.WriteUint16(r.PlatformID)
		w.WriteUint16(r.EncodingID)
		w.WriteUint16(r.LanguageID)
		w.WriteUint16(r.NameID)
		w.WriteUint16(uint16(len(r.Raw)))
		w.WriteUint16(off)
	}
	w.WriteBytes(storage.Bytes())
	return w.Bytes(), nil
}

func compareNameRecords(a, b NameRecord) int {
	return cmp.Or(
		cmp.Compare(a.PlatformID, b.PlatformID),
		cmp.Compare(a.EncodingID, b.EncodingID),
		cmp.Compare(a.LanguageID, b.LanguageID),
		cmp.Compare(a.NameID, b.NameID),
	)
}

func (t *NameTable) WriteXML(w *ttxml.Writer, _ *GlyphOrder) error {
	for _, r := range t.Records {
		s, isUnicode := r.Text()
		attrs := []ttxml.Attr{
			ttxml.A("nameID", r.NameID),
			ttxml.A("platformID", r.PlatformID),
			ttxml.A("platEncID", r.EncodingID),
			ttxml.A("langID", fmt.Sprintf("0x%X", r.LanguageID)),
		}
		if !isUnicode {
			attrs = append(attrs, ttxml.A("unicode", "False"))
		}
		w.BeginTag("namerecord", attrs...)
		w.Newline()
		w.Indent()
		w.Text(s)
		w.Newline()
		w.Dedent()
		w.EndTag("namerecord")
		w.Newline()
	}
	return w.Err()
}

func (t *NameTable) ReadXML(el *ttxml.Element, _ *GlyphOrder) error {
	t.Records = t.Records[:0]
	for _, rec := range el.ChildrenNamed("namerecord") {
		fr := fieldReader{el: rec, tag: t.Tag()}
		r := NameRecord{
			NameID:     uint16(attrNumber(&fr, rec, "nameID", 16)),
			PlatformID: uint16(attrNumber(&fr, rec, "platformID", 16)),
			EncodingID: uint16(attrNumber(&fr, rec, "platEncID", 16)),
			LanguageID: uint16(attrNumber(&fr, rec, "langID", 16)),
		}
		if fr.err != nil {
			return fr.err
		}
		isUnicode := rec.AttrOr("unicode", "True") != "False"
		raw, err := encodeNameString(r.PlatformID, r.EncodingID, rec.TrimmedText(), isUnicode)
		if err != nil {
			return fmt.Errorf("name: cannot encode record %d for platform %d/%d: %w",
				r.NameID, r.PlatformID, r.EncodingID, err)
		}
		r.Raw = raw
		t.Records = append(t.Records, r)
	}
	return nil
}

// attrNumber reads a numeric attribute. Missing attributes are an error.
func attrNumber(fr *fieldReader, el *ttxml.Element, name string, bits int) uint64 {
	if fr.err != nil {
		return 0
	}
	v, ok := el.Attr(name)
	if !ok {
		fr.err = fmt.Errorf("%s: <%s> lacks attribute %s", fr.tag, el.Name, name)
		return 0
	}
	n, err := ParseNumber(v)
	if err == nil && (n < 0 || (bits < 64 && n >= int64(1)<<bits)) {
		err = fmt.Errorf("out of range for %d bits", bits)
	}
	if err != nil {
		fr.fail(name, v, err)
		return 0
	}
	return uint64(n)
}
