package ot

import (
	"math"
	"testing"
	"time"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestFixedToString(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ttx.ot")
	defer teardown()
	//
	tests := []struct {
		value int32
		s     string
	}{
		{0, "0.0"},
		{0x00010000, "1.0"},
		{0x00018000, "1.5"},
		{-0x00010000, "-1.0"},
		{0x0000FFFF, "0.99998"},
		{0x00011000, "1.0625"},
		{0x7FFF0000, "32767.0"},
		{-0x000C0000, "-12.0"},
	}
	for _, tt := range tests {
		if s := FixedToString(tt.value, 16); s != tt.s {
			t.Errorf("expected 0x%08x to render as %q, got %q", tt.value, tt.s, s)
		}
	}
}

func TestFixedRoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ttx.ot")
	defer teardown()
	//
	for _, v := range []int32{0, 1, 0x1999, 0x00008000, 0x00011000, -0x00004000, 0x7FFFFFFF} {
		s := FixedToString(v, 16)
		back, err := StringToFixed(s, 16)
		if err != nil {
			t.Fatalf("cannot parse %q: %v", s, err)
		}
		if back != v {
			t.Errorf("expected %q to read back as 0x%08x, got 0x%08x", s, v, back)
		}
	}
}

func TestTimestamps(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ttx.ot")
	defer teardown()
	//
	if MacToUnix(MacEpochOffset) != 0 {
		t.Errorf("expected Mac epoch offset to map to Unix epoch")
	}
	if UnixToMac(0) != 2082844800 {
		t.Errorf("expected Unix epoch to be 2082844800 seconds after Mac epoch")
	}
	mac := UnixToMac(1420070400)
	s := TimestampToString(mac)
	if s != "Thu Jan  1 00:00:00 2015" {
		t.Errorf("unexpected timestamp rendering %q", s)
	}
	back, err := TimestampFromString(s)
	if err != nil || back != mac {
		t.Errorf("expected %q to read back as %d, got %d (%v)", s, mac, back, err)
	}
	if n, err := TimestampFromString("3502828800"); err != nil || n != 3502828800 {
		t.Errorf("expected plain number to be taken as Mac seconds, got %d (%v)", n, err)
	}
	if _, err := TimestampFromString("yesterday"); err == nil {
		t.Errorf("expected invalid timestamp to be rejected")
	}
}

func TestTimestampsBeyondAsctime(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ttx.ot")
	defer teardown()
	//
	last := UnixToMac(time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC).Unix())
	for _, mac := range []int64{math.MaxInt64, math.MinInt64, last + 1, minAsctime - 1, last, minAsctime} {
		s := TimestampToString(mac)
		back, err := TimestampFromString(s)
		if err != nil || back != mac {
			t.Errorf("expected %d to round trip, rendered as %q, read back as %d (%v)", mac, s, back, err)
		}
	}
	if s := TimestampToString(math.MaxInt64); s != "9223372036854775807" {
		t.Errorf("expected timestamp after year 9999 to be rendered as integer, is %q", s)
	}
	if s := TimestampToString(last); s != "Fri Dec 31 23:59:59 9999" {
		t.Errorf("unexpected rendering of last asctime timestamp: %q", s)
	}
	if _, err := TimestampFromString("9223372036854775808"); err == nil {
		t.Errorf("expected timestamp overflowing int64 to be rejected")
	}
}

func TestBinaryFlags(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ttx.ot")
	defer teardown()
	//
	if s := BinaryFlags(0x000B); s != "00000000 00001011" {
		t.Errorf("unexpected flags rendering %q", s)
	}
	v, err := ParseBinaryFlags("10000000 00000001")
	if err != nil || v != 0x8001 {
		t.Errorf("expected 0x8001, got 0x%04x (%v)", v, err)
	}
	if n, err := ParseNumber("0x1F"); err != nil || n != 31 {
		t.Errorf("expected hex number 31, got %d (%v)", n, err)
	}
	if n, err := ParseNumber("-42"); err != nil || n != -42 {
		t.Errorf("expected -42, got %d (%v)", n, err)
	}
}

func TestSfntVersionString(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ttx.ot")
	defer teardown()
	//
	tests := []struct {
		v uint32
		s string
	}{
		{SfntVersionTrueType, `\x00\x01\x00\x00`},
		{SfntVersionCFF, "OTTO"},
		{0x74727565, "true"},
		{0x5C0A0000, `\\\n\x00\x00`},
	}
	for _, tt := range tests {
		s := SfntVersionString(tt.v)
		if s != tt.s {
			t.Errorf("expected 0x%08x to render as %q, got %q", tt.v, tt.s, s)
		}
		v, err := ParseSfntVersion(s)
		if err != nil || v != tt.v {
			t.Errorf("expected %q to read back as 0x%08x, got 0x%08x (%v)", s, tt.v, v, err)
		}
	}
	for _, bad := range []string{"OTT", `\x0`, `\q000`, "OTTOO"} {
		if _, err := ParseSfntVersion(bad); err == nil {
			t.Errorf("expected %q to be rejected", bad)
		}
	}
}
