package ttxtest

// ExpectedFont is a normalized model of a TTX document of a single font.
// It intentionally only covers the subset of fields needed for tests.
type ExpectedFont struct {
	SfntVersion  string
	LibVersion   string
	GlyphOrder   []string
	Tables       []string          // element names of the tables, in document order
	Head         map[string]string // field name -> value attribute
	Names        []ExpectedNameRecord
	CMap         []ExpectedCMapSubtable
	HexTables    map[string][]byte // tables rendered as <hexdata>
	PostFormat   string
	PostPSNames  map[string]string // glyph name -> PostScript name
	PostExtra    []string
	MaxPFields   map[string]string
	HHeaFields   map[string]string
}

// ExpectedNameRecord mirrors a <namerecord>.
type ExpectedNameRecord struct {
	NameID     int
	PlatformID int
	EncodingID int
	LanguageID int
	Unicode    bool
	Text       string
}

// ExpectedCMapSubtable mirrors a <cmap_format_N> element.
type ExpectedCMapSubtable struct {
	Format     int
	PlatformID int
	EncodingID int
	Language   int
	Map        map[int]string // code point -> glyph name
}
