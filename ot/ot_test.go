package ot

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/tdewolff/parse/v2"
)

func TestTags(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ttx.ot")
	defer teardown()
	//
	tag := Tag(0x636d6170)
	if tag.String() != "cmap" {
		t.Errorf("expected tag 0x636d6170 to be 'cmap', is %s", tag.String())
	}
	tag = MakeTag([]byte("cmap"))
	if tag.String() != "cmap" {
		t.Errorf("expected tag MakeTag(cmap) to be 'cmap', is %s", tag.String())
	}
	tag = T("cmap")
	if tag.String() != "cmap" {
		t.Errorf("expected tag T(cmap) to be 'cmap', is %s", tag.String())
	}
	if T("cvt") != T("cvt ") {
		t.Errorf("expected short tag to be padded with blanks")
	}
}

func TestTagXMLNames(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ttx.ot")
	defer teardown()
	//
	tests := []struct {
		tag  string
		name string
	}{
		{"head", "head"},
		{"cvt ", "cvt"},
		{"CFF ", "CFF"},
		{"OS/2", "OS_2"},
		{"D S ", "D_20S_20"},
		{"1abc", "_1_a_b_c"},
		{"a/  ", "_a2f2020"},
		{"\x00   ", "_00202020"},
		{"\x00\x01\x02\x03", "_00010203"},
		{"Ab?x", "A__b3f_x"},
	}
	for _, tt := range tests {
		if name := T(tt.tag).XMLName(); name != tt.name {
			t.Errorf("expected XML name of '%s' to be %q, is %q", tt.tag, tt.name, name)
		}
		tag, err := TagFromXML(tt.name)
		if err != nil {
			t.Errorf("cannot read back XML name %q: %v", tt.name, err)
			continue
		}
		if tag != T(tt.tag) {
			t.Errorf("expected XML name %q to map to '%s', is '%s'", tt.name, tt.tag, tag)
		}
	}
	if _, err := TagFromXML("notATable"); err == nil {
		t.Errorf("expected element name 'notATable' to be rejected")
	}
	// escapes with stripped trailing blanks
	if tag, err := TagFromXML("D_20S_"); err != nil || tag != T("D S ") {
		t.Errorf("expected 'D_20S_' to be read as 'D S ', is '%s' (%v)", tag, err)
	}
}

func TestChecksum(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ttx.ot")
	defer teardown()
	//
	if sum := Checksum([]byte{0, 0, 0, 1, 0, 0, 0, 2}); sum != 3 {
		t.Errorf("expected checksum 3, is %d", sum)
	}
	// trailing bytes are padded with zeros
	if sum := Checksum([]byte{0, 0, 0, 1, 1}); sum != 0x01000001 {
		t.Errorf("expected checksum 0x01000001, is 0x%08x", sum)
	}
	if sum := Checksum([]byte{0xff, 0xff, 0xff, 0xff, 0, 0, 0, 2}); sum != 1 {
		t.Errorf("expected checksum to wrap around, is %d", sum)
	}
}

// ---------------------------------------------------------------------------

// makeTestFont creates a small TrueType font with glyphs .notdef, A and B.
func makeTestFont() *Font {
	f := NewFont(SfntVersionTrueType)
	f.SetTable(&HeadTable{
		Version:      0x00010000,
		FontRevision: 0x00018000,
		MagicNumber:  headMagic,
		Flags:        0x000B,
		UnitsPerEm:   1000,
		Created:      UnixToMac(1420070400), // 2015-01-01
		Modified:     UnixToMac(1420070400),
		XMax:         800,
		YMax:         700,
	})
	f.SetTable(&HHeaTable{Version: 0x00010000, Ascent: 800, Descent: -200, NumberOfHMetrics: 3})
	f.SetTable(&MaxPTable{Version: maxpVersion05, NumGlyphs: 3})
	f.SetTable(&CMapTable{Subtables: []*CMapSubtable{{
		PlatformID: PlatformWindows,
		EncodingID: 1,
		Format:     4,
		Mapping:    map[uint32]int{'A': 1, 'B': 2},
	}}})
	f.SetTable(&NameTable{Records: []NameRecord{
		winName(1, "Test Sans"),
		winName(2, "Regular"),
		winName(5, "Version 1.500"),
	}})
	f.SetTable(&PostTable{Version: postFormat3, UnderlinePosition: -100, UnderlineThickness: 50})
	f.SetTable(NewGenericTable(T("DSIG"), []byte{0, 0, 0, 1, 0, 0, 0, 0}))
	return f
}

func winName(nameID uint16, s string) NameRecord {
	raw, _ := encodeNameString(PlatformWindows, 1, s, true)
	return NameRecord{PlatformID: PlatformWindows, EncodingID: 1, LanguageID: 0x409, NameID: nameID, Raw: raw}
}

// tableSpec describes a table directory entry of a hand-made sfnt.
type tableSpec struct {
	tag    string
	data   []byte
	offset int // if > 0, overrides the computed offset
	length int // if > 0, overrides the data length
}

// buildSfnt assembles an sfnt font by hand, allowing for broken directory
// entries.
func buildSfnt(version uint32, tables []tableSpec) []byte {
	pos := sfntHeaderSize + sfntDirEntrySize*len(tables)
	w := parse.NewBinaryWriter(make([]byte, 0, 256))
	w.WriteUint32(version)
	w.WriteUint16(uint16(len(tables)))
	w.WriteUint16(0)
	w.WriteUint16(0)
	w.WriteUint16(0)
	for _, ts := range tables {
		offset, length := pos, len(ts.data)
		if ts.offset > 0 {
			offset = ts.offset
		}
		if ts.length > 0 {
			length = ts.length
		}
		w.WriteUint32(uint32(T(ts.tag)))
		w.WriteUint32(tableChecksum(T(ts.tag), ts.data))
		w.WriteUint32(uint32(offset))
		w.WriteUint32(uint32(length))
		pos += pad4(len(ts.data))
	}
	for _, ts := range tables {
		w.WriteBytes(ts.data)
		w.WriteBytes(make([]byte, pad4(len(ts.data))-len(ts.data)))
	}
	return w.Bytes()
}

func mustEncode(t *testing.T, table Table) []byte {
	t.Helper()
	data, err := table.Encode()
	if err != nil {
		t.Fatalf("cannot encode table '%s': %v", table.Tag(), err)
	}
	return data
}
