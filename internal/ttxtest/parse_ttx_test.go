package ttxtest

import (
	"testing"
)

const sampleTTX = `<?xml version="1.0" encoding="UTF-8"?>
<ttFont sfntVersion="\x00\x01\x00\x00" ttLibVersion="4.0">

  <GlyphOrder>
    <!-- The 'id' attribute is only for humans; it is ignored when parsed. -->
    <GlyphID id="0" name=".notdef"/>
    <GlyphID id="1" name="A"/>
  </GlyphOrder>

  <head>
    <!-- Most of this table will be recalculated by the compiler -->
    <tableVersion value="1.0"/>
    <unitsPerEm value="1000"/>
  </head>

  <cmap>
    <tableVersion version="0"/>
    <cmap_format_4 platformID="3" platEncID="1" language="0">
      <map code="0x41" name="A"/><!-- LATIN CAPITAL LETTER A -->
    </cmap_format_4>
  </cmap>

  <name>
    <namerecord nameID="1" platformID="3" platEncID="1" langID="0x409">
      Fish &amp; Chips
    </namerecord>
  </name>

  <DSIG>
    <!-- table 'DSIG' is not decoded, 8 bytes of binary data follow -->
    <hexdata>
      00000001 00000000
    </hexdata>
  </DSIG>

</ttFont>
`

func TestParseTTX(t *testing.T) {
	exp, err := ParseTTX([]byte(sampleTTX))
	if err != nil {
		t.Fatalf("ParseTTX: %v", err)
	}
	if exp.SfntVersion != `\x00\x01\x00\x00` {
		t.Errorf("unexpected sfntVersion %q", exp.SfntVersion)
	}
	if len(exp.GlyphOrder) != 2 || exp.GlyphOrder[1] != "A" {
		t.Errorf("unexpected glyph order %v", exp.GlyphOrder)
	}
	if len(exp.Tables) != 4 || exp.Tables[0] != "head" || exp.Tables[3] != "DSIG" {
		t.Errorf("unexpected tables %v", exp.Tables)
	}
	if exp.Head["unitsPerEm"] != "1000" {
		t.Errorf("expected unitsPerEm 1000, got %q", exp.Head["unitsPerEm"])
	}
	if len(exp.CMap) != 1 || exp.CMap[0].Format != 4 || exp.CMap[0].Map[0x41] != "A" {
		t.Errorf("unexpected cmap %+v", exp.CMap)
	}
	if len(exp.Names) != 1 || exp.Names[0].Text != "Fish & Chips" || exp.Names[0].LanguageID != 0x409 {
		t.Errorf("unexpected name records %+v", exp.Names)
	}
	if hex := exp.HexTables["DSIG"]; len(hex) != 8 || hex[3] != 1 {
		t.Errorf("unexpected DSIG data %v", hex)
	}
}

func TestParseTTXRejectsCollection(t *testing.T) {
	_, err := ParseTTX([]byte(`<ttCollection><ttFont/></ttCollection>`))
	if err == nil {
		t.Fatalf("expected error for collection document")
	}
}
