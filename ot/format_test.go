package ot

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestDetectFormat(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ttx.ot")
	defer teardown()
	//
	tests := []struct {
		name   string
		data   []byte
		format Format
	}{
		{"empty", nil, FormatUnknown},
		{"3 bytes", []byte{0, 1, 0}, FormatUnknown},
		{"TrueType", []byte{0, 1, 0, 0, 0xde, 0xad}, FormatTTF},
		{"TrueType alias", []byte{0, 0, 1, 0}, FormatTTF},
		{"CFF", []byte("OTTO garbage"), FormatOTF},
		{"collection", []byte("ttcf"), FormatTTC},
		{"WOFF", []byte("wOFF"), FormatWOFF},
		{"WOFF2", []byte("wOF2"), FormatWOFF2},
		{"TTX", []byte(`<?xml version="1.0"?>`), FormatTTX},
		{"XML prefix only", []byte("<?xm"), FormatUnknown},
		{"text", []byte("hello world"), FormatUnknown},
	}
	for _, tt := range tests {
		if f := Detect(tt.data); f != tt.format {
			t.Errorf("%s: expected format %s, got %s", tt.name, tt.format, f)
		}
	}
}

func TestFormatCodesAreStable(t *testing.T) {
	codes := map[Format]int{
		FormatUnknown: 0, FormatTTF: 1, FormatOTF: 2, FormatWOFF: 3,
		FormatWOFF2: 4, FormatTTC: 5, FormatTTX: 6,
	}
	for f, code := range codes {
		if int(f) != code {
			t.Errorf("expected format %s to have code %d, has %d", f, code, int(f))
		}
	}
}

func TestFormatFromFlavor(t *testing.T) {
	tests := map[string]Format{
		"":      FormatTTF,
		"ttf":   FormatTTF,
		"otf":   FormatOTF,
		"woff":  FormatWOFF,
		"woff2": FormatWOFF2,
		"ttc":   FormatTTC,
		"pdf":   FormatUnknown,
	}
	for flavor, format := range tests {
		if f := FormatFromFlavor(flavor); f != format {
			t.Errorf("expected flavor %q to select %s, got %s", flavor, format, f)
		}
	}
}
