package ttx

import (
	"testing"

	"github.com/npillmayer/ttx/ot"
	"golang.org/x/text/encoding/unicode"
)

// test fonts are made from scratch

func headTable(unitsPerEm uint16) *ot.HeadTable {
	return &ot.HeadTable{
		Version:      0x00010000,
		FontRevision: 0x00010000,
		MagicNumber:  0x5F0F3CF5,
		UnitsPerEm:   unitsPerEm,
		Created:      ot.UnixToMac(1420070400),
		Modified:     ot.UnixToMac(1420070400),
	}
}

func nameRecord(t *testing.T, nameID uint16, s string) ot.NameRecord {
	t.Helper()
	raw, err := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewEncoder().Bytes([]byte(s))
	if err != nil {
		t.Fatal(err)
	}
	return ot.NameRecord{
		PlatformID: ot.PlatformWindows,
		EncodingID: 1,
		LanguageID: 0x409,
		NameID:     nameID,
		Raw:        raw,
	}
}

// makeFont creates a font with glyphs .notdef, A and B.
func makeFont(t *testing.T, style string) *ot.Font {
	t.Helper()
	f := ot.NewFont(ot.SfntVersionTrueType)
	f.SetTable(headTable(1000))
	f.SetTable(&ot.HHeaTable{Version: 0x00010000, Ascent: 800, Descent: -200, NumberOfHMetrics: 3})
	f.SetTable(&ot.MaxPTable{Version: 0x00005000, NumGlyphs: 3})
	f.SetTable(&ot.CMapTable{Subtables: []*ot.CMapSubtable{{
		PlatformID: ot.PlatformWindows,
		EncodingID: 1,
		Format:     4,
		Mapping:    map[uint32]int{'A': 1, 'B': 2},
	}}})
	f.SetTable(&ot.NameTable{Records: []ot.NameRecord{
		nameRecord(t, 1, "Test Sans"),
		nameRecord(t, 2, style),
		nameRecord(t, 5, "Version 1.000"),
	}})
	f.SetTable(&ot.PostTable{Version: 0x00030000, UnderlinePosition: -100, UnderlineThickness: 50})
	f.SetTable(ot.NewGenericTable(ot.T("DSIG"), []byte{0, 0, 0, 1, 0, 0, 0, 0}))
	return f
}

func compileFont(t *testing.T, f *ot.Font) []byte {
	t.Helper()
	data, err := ot.Compile(f)
	if err != nil {
		t.Fatalf("cannot compile test font: %v", err)
	}
	return data
}

// minimalFont is a TrueType font consisting of a 'head' table only.
func minimalFont(t *testing.T) []byte {
	t.Helper()
	f := ot.NewFont(ot.SfntVersionTrueType)
	f.SetTable(headTable(1000))
	return compileFont(t, f)
}
