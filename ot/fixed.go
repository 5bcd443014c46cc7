package ot

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Numeric conventions of font files and their textual rendering in TTX.

// FixedScale is the divisor of 16.16 fixed-point numbers.
const FixedScale = 1 << 16

// MacEpochOffset is the number of seconds between the Macintosh epoch
// (1904-01-01) and the Unix epoch (1970-01-01).
const MacEpochOffset = 2082844800

// FixedToString renders a signed fixed-point number with precisionBits
// fractional bits, choosing the shortest decimal which converts back to
// the same fixed-point value. Integral values are written with a trailing
// ".0", as in "1.0".
func FixedToString(value int32, precisionBits uint) string {
	if value == 0 {
		return "0.0"
	}
	scale := float64(int64(1) << precisionBits)
	v := float64(value) / scale
	eps := .5 / scale
	lo, hi := v-eps, v+eps
	if int64(lo) != int64(hi) {
		return strconv.FormatFloat(math.RoundToEven(v), 'f', 1, 64)
	}
	los, his := fmt.Sprintf("%.8f", lo), fmt.Sprintf("%.8f", hi)
	i := 0
	for i < len(los) && i < len(his) && los[i] == his[i] {
		i++
	}
	period := strings.IndexByte(los, '.')
	digits := i - period
	if period < 0 || digits < 1 {
		digits = 1
	}
	return strconv.FormatFloat(v, 'f', digits, 64)
}

// StringToFixed parses a decimal number into a fixed-point value with
// precisionBits fractional bits, rounding half up.
func StringToFixed(s string, precisionBits uint) (int32, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	return int32(math.Floor(f*float64(int64(1)<<precisionBits) + 0.5)), nil
}

// Version16Dot16 renders a table version in 16.16 format as hex, e.g. "0x00010000".
func Version16Dot16(v uint32) string {
	return fmt.Sprintf("0x%08x", v)
}

// ParseNumber reads an integer in decimal or 0x-prefixed hex notation.
func ParseNumber(s string) (int64, error) {
	s = strings.TrimSpace(s)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var n uint64
	var err error
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		n, err = strconv.ParseUint(s[2:], 16, 64)
	} else {
		n, err = strconv.ParseUint(s, 10, 64)
	}
	if err != nil {
		return 0, err
	}
	if neg {
		if n > 1<<63 {
			return 0, fmt.Errorf("number -%s out of range", s)
		}
		return -int64(n), nil
	}
	if n > 1<<63-1 {
		return 0, fmt.Errorf("number %s out of range", s)
	}
	return int64(n), nil
}

// --- Timestamps ------------------------------------------------------------

const asctimeLayout = "Mon Jan _2 15:04:05 2006"

// MacToUnix converts seconds since the Macintosh epoch to seconds since the Unix epoch.
func MacToUnix(mac int64) int64 {
	return mac - MacEpochOffset
}

// UnixToMac converts seconds since the Unix epoch to seconds since the Macintosh epoch.
func UnixToMac(unix int64) int64 {
	return unix + MacEpochOffset
}

// Range of timestamps with a four-digit year, in Macintosh-epoch seconds.
var (
	minAsctime = UnixToMac(time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC).Unix())
	maxAsctime = UnixToMac(time.Date(10000, time.January, 1, 0, 0, 0, 0, time.UTC).Unix() - 1)
)

// TimestampToString renders a Macintosh-epoch timestamp as UTC time in
// asctime notation, e.g. "Thu Jan  1 00:00:00 2015". Timestamps outside
// the years 1 to 9999 are rendered as plain integers.
func TimestampToString(mac int64) string {
	if mac < minAsctime || mac > maxAsctime {
		return strconv.FormatInt(mac, 10)
	}
	return time.Unix(MacToUnix(mac), 0).UTC().Format(asctimeLayout)
}

// TimestampFromString is the inverse of TimestampToString. It accepts
// plain integers as well, which are taken as Macintosh-epoch seconds.
func TimestampFromString(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if n, err := ParseNumber(s); err == nil {
		return n, nil
	}
	t, err := time.Parse(asctimeLayout, s)
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return UnixToMac(t.Unix()), nil
}

// --- Bit fields ------------------------------------------------------------

// BinaryFlags renders a 16-bit field as two groups of 8 binary digits,
// as in "00000000 00001011".
func BinaryFlags(v uint16) string {
	s := fmt.Sprintf("%016b", v)
	return s[:8] + " " + s[8:]
}

// ParseBinaryFlags is the inverse of BinaryFlags. Blanks are ignored.
func ParseBinaryFlags(s string) (uint16, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	n, err := strconv.ParseUint(s, 2, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid bit field %q: %w", s, err)
	}
	return uint16(n), nil
}
