package ot

// Format is the container format of a font file, as identified by its
// leading signature bytes. The numeric values are stable and used for
// integer format codes at API boundaries.
type Format int

const (
	FormatUnknown Format = iota
	FormatTTF
	FormatOTF
	FormatWOFF
	FormatWOFF2
	FormatTTC
	FormatTTX
)

// Signatures at offset 0 of a font file.
const (
	sigTrueType     uint32 = 0x00010000
	sigTrueTypeAlt  uint32 = 0x00000100 // historical alias
	sigOpenType     uint32 = 0x4F54544F // 'OTTO'
	sigCollection   uint32 = 0x74746366 // 'ttcf'
	sigWOFF         uint32 = 0x774F4646 // 'wOFF'
	sigWOFF2        uint32 = 0x774F4632 // 'wOF2'
	xmlDeclaration         = "<?xml"
)

func (f Format) String() string {
	switch f {
	case FormatTTF:
		return "TTF"
	case FormatOTF:
		return "OTF"
	case FormatWOFF:
		return "WOFF"
	case FormatWOFF2:
		return "WOFF2"
	case FormatTTC:
		return "TTC"
	case FormatTTX:
		return "TTX"
	}
	return "UNKNOWN"
}

// Detect classifies font data by looking at no more than its first 5 bytes.
// It never fails; unrecognized data is FormatUnknown.
func Detect(b []byte) Format {
	if len(b) < 4 {
		return FormatUnknown
	}
	switch u32(b) {
	case sigTrueType, sigTrueTypeAlt:
		return FormatTTF
	case sigOpenType:
		return FormatOTF
	case sigCollection:
		return FormatTTC
	case sigWOFF:
		return FormatWOFF
	case sigWOFF2:
		return FormatWOFF2
	}
	if len(b) >= 5 && string(b[:5]) == xmlDeclaration {
		return FormatTTX
	}
	return FormatUnknown
}

// FormatFromFlavor maps a flavor name such as "woff" or "ttf" to a Format.
// An empty flavor means plain sfnt output.
func FormatFromFlavor(flavor string) Format {
	switch flavor {
	case "", "ttf", "TTF", "sfnt":
		return FormatTTF
	case "otf", "OTF":
		return FormatOTF
	case "woff", "WOFF":
		return FormatWOFF
	case "woff2", "WOFF2":
		return FormatWOFF2
	case "ttc", "TTC":
		return FormatTTC
	}
	return FormatUnknown
}
