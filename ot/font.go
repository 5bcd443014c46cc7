package ot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/emirpasic/gods/maps/treemap"
	"golang.org/x/image/font/sfnt"
)

// Well-known sfnt versions.
const (
	SfntVersionTrueType = 0x00010000
	SfntVersionCFF      = 0x4F54544F // 'OTTO'
)

// Font is a single font of a container: its sfnt version and its tables.
//
// A font owns its tables. Tables are kept sorted by tag, which is the order
// of the binary table directory; use SortTags for the canonical TTX order.
type Font struct {
	SfntVersion uint32
	tables      *treemap.Map // Tag -> Table
	glyphs      *GlyphOrder  // derived lazily if nil
}

// NewFont creates an empty font.
func NewFont(sfntVersion uint32) *Font {
	return &Font{
		SfntVersion: sfntVersion,
		tables:      treemap.NewWith(byTagValue),
	}
}

// Table returns the font table for a given tag, or nil if the font does not
// contain it.
func (f *Font) Table(tag Tag) Table {
	if v, found := f.tables.Get(tag); found {
		return v.(Table)
	}
	return nil
}

// HasTable returns true if the font contains a table for tag.
func (f *Font) HasTable(tag Tag) bool {
	_, found := f.tables.Get(tag)
	return found
}

// SetTable adds t to the font, replacing any table with the same tag.
// Changing 'post', 'maxp' or 'cmap' invalidates a derived glyph order.
func (f *Font) SetTable(t Table) {
	f.tables.Put(t.Tag(), t)
	f.invalidateGlyphOrder(t.Tag())
}

// RemoveTable deletes the table for tag, if present.
func (f *Font) RemoveTable(tag Tag) {
	f.tables.Remove(tag)
	f.invalidateGlyphOrder(tag)
}

func (f *Font) invalidateGlyphOrder(tag Tag) {
	switch tag {
	case T("post"), T("maxp"), T("cmap"):
		f.glyphs = nil
	}
}

// TableCount returns the number of tables.
func (f *Font) TableCount() int {
	return f.tables.Size()
}

// TableTags returns the tags of all tables, sorted by tag.
func (f *Font) TableTags() []Tag {
	tags := make([]Tag, 0, f.tables.Size())
	for _, k := range f.tables.Keys() {
		tags = append(tags, k.(Tag))
	}
	return tags
}

// IsCFF returns true if the font has PostScript outlines.
func (f *Font) IsCFF() bool {
	return f.SfntVersion == SfntVersionCFF || f.HasTable(T("CFF "))
}

// GlyphOrder returns the names of the glyphs of the font. If no glyph order
// has been set explicitly, it is derived from the font's tables.
func (f *Font) GlyphOrder() *GlyphOrder {
	if f.glyphs == nil {
		f.glyphs = deriveGlyphOrder(f.Table)
	}
	return f.glyphs
}

// SetGlyphOrder sets the glyph names explicitly, as done when reading TTX.
func (f *Font) SetGlyphOrder(g *GlyphOrder) {
	f.glyphs = g
}

// Head returns the typed 'head' table, or nil.
func (f *Font) Head() *HeadTable {
	t, _ := f.Table(T("head")).(*HeadTable)
	return t
}

// Names returns the typed 'name' table, or nil.
func (f *Font) Names() *NameTable {
	t, _ := f.Table(T("name")).(*NameTable)
	return t
}

// Metadata is a snapshot of descriptive information about a font.
// Timestamps are seconds since the Unix epoch.
type Metadata struct {
	Family     string `json:"family"`
	Style      string `json:"style"`
	Version    string `json:"version"`
	UnitsPerEm int    `json:"unitsPerEm"`
	Created    int64  `json:"created"`
	Modified   int64  `json:"modified"`
}

// Metadata derives descriptive information from the 'head' and 'name'
// tables. Fields default to zero values if the tables are missing.
func (f *Font) Metadata() Metadata {
	var md Metadata
	if head := f.Head(); head != nil {
		md.UnitsPerEm = int(head.UnitsPerEm)
		md.Created = MacToUnix(head.Created)
		md.Modified = MacToUnix(head.Modified)
	}
	if names := f.Names(); names != nil {
		md.Family, _ = names.Lookup(uint16(sfnt.NameIDFamily))
		md.Style, _ = names.Lookup(uint16(sfnt.NameIDSubfamily))
		md.Version, _ = names.Lookup(uint16(sfnt.NameIDVersion))
	}
	return md
}

// SfntVersionString renders an sfnt version the way TTX documents do:
// printable ASCII characters as is, other bytes as "\xNN" escapes.
// TrueType fonts therefore show as `\x00\x01\x00\x00`, CFF fonts as "OTTO".
func SfntVersionString(v uint32) string {
	var sb strings.Builder
	for _, c := range Tag(v).Bytes() {
		switch {
		case c == '\\':
			sb.WriteString(`\\`)
		case c == '\t':
			sb.WriteString(`\t`)
		case c == '\n':
			sb.WriteString(`\n`)
		case c == '\r':
			sb.WriteString(`\r`)
		case c >= 0x20 && c < 0x7f:
			sb.WriteByte(c)
		default:
			fmt.Fprintf(&sb, `\x%02x`, c)
		}
	}
	return sb.String()
}

// ParseSfntVersion is the inverse of SfntVersionString.
func ParseSfntVersion(s string) (uint32, error) {
	var b []byte
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' {
			b = append(b, s[i])
			continue
		}
		if i+1 >= len(s) {
			return 0, fmt.Errorf("sfnt version %q: dangling escape", s)
		}
		i++
		switch s[i] {
		case '\\':
			b = append(b, '\\')
		case 't':
			b = append(b, '\t')
		case 'n':
			b = append(b, '\n')
		case 'r':
			b = append(b, '\r')
		case 'x':
			if i+2 >= len(s) {
				return 0, fmt.Errorf("sfnt version %q: truncated hex escape", s)
			}
			n, err := strconv.ParseUint(s[i+1:i+3], 16, 8)
			if err != nil {
				return 0, fmt.Errorf("sfnt version %q: %w", s, err)
			}
			b = append(b, byte(n))
			i += 2
		default:
			return 0, fmt.Errorf("sfnt version %q: unknown escape \\%c", s, s[i])
		}
	}
	if len(b) != 4 {
		return 0, fmt.Errorf("sfnt version %q does not have 4 bytes", s)
	}
	return u32(b), nil
}
