package ot

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
)

// GlyphOrder maps glyph indices to glyph names and back.
// Names are unique; the name of glyph 0 is ".notdef" by convention.
type GlyphOrder struct {
	names []string
	ids   map[string]int
}

// NewGlyphOrder creates a glyph order from a list of names.
// Duplicate names are made unique by appending "#1", "#2", …
func NewGlyphOrder(names []string) *GlyphOrder {
	g := &GlyphOrder{names: make([]string, len(names)), ids: make(map[string]int, len(names))}
	next := make(map[string]int)
	for i, name := range names {
		if _, dup := g.ids[name]; dup {
			n := max(next[name], 1)
			for {
				candidate := name + "#" + strconv.Itoa(n)
				n++
				if _, taken := g.ids[candidate]; !taken {
					next[name] = n
					name = candidate
					break
				}
			}
		}
		g.names[i] = name
		g.ids[name] = i
	}
	return g
}

// Len returns the number of glyphs.
func (g *GlyphOrder) Len() int {
	if g == nil {
		return 0
	}
	return len(g.names)
}

// Names returns a copy of the glyph names in glyph index order.
func (g *GlyphOrder) Names() []string {
	if g == nil {
		return nil
	}
	return slices.Clone(g.names)
}

// Name returns the name of glyph gid. Glyphs outside the glyph order are
// given synthetic names of the form "glyph00042".
func (g *GlyphOrder) Name(gid int) string {
	if g != nil && gid >= 0 && gid < len(g.names) {
		return g.names[gid]
	}
	return syntheticGlyphName(gid)
}

var syntheticGlyphPattern = regexp.MustCompile(`^glyph(\d+)$`)

// ID returns the index of the glyph called name. Synthetic names of the form
// "glyph00042" are understood even if the name is not part of the glyph order.
func (g *GlyphOrder) ID(name string) (int, bool) {
	if g != nil {
		if id, ok := g.ids[name]; ok {
			return id, true
		}
	}
	if m := syntheticGlyphPattern.FindStringSubmatch(name); m != nil {
		if id, err := strconv.Atoi(m[1]); err == nil && id < 0x10000 {
			return id, true
		}
	}
	return 0, false
}

func syntheticGlyphName(gid int) string {
	return fmt.Sprintf("glyph%05d", gid)
}

// --- Deriving the glyph order from font tables -----------------------------

// preferred Unicode cmap sub-tables for naming glyphs, best first
var unicodeCMapPreference = [][2]uint16{
	{3, 10}, {0, 6}, {0, 4}, {3, 1}, {0, 3}, {0, 2}, {0, 1}, {0, 0},
}

// deriveGlyphOrder constructs glyph names for a font: from the 'post' table,
// if it carries names, else from the Unicode values of the best Unicode cmap
// sub-table ("uni0041", "u1F600"), else synthetic ("glyph00042").
// The number of glyphs is taken from 'maxp'.
func deriveGlyphOrder(tables func(Tag) Table) *GlyphOrder {
	numGlyphs := -1
	if t, ok := tables(T("maxp")).(*MaxPTable); ok {
		numGlyphs = int(t.NumGlyphs)
	}
	if t, ok := tables(T("post")).(*PostTable); ok {
		if names := t.glyphNames(); names != nil {
			if numGlyphs >= 0 && len(names) != numGlyphs {
				tracer().Infof("post table names %d glyphs, maxp has %d", len(names), numGlyphs)
			}
			if numGlyphs < 0 || len(names) >= numGlyphs {
				if numGlyphs >= 0 {
					names = names[:numGlyphs]
				}
				return NewGlyphOrder(names)
			}
			// too few names: fill the rest synthetically
			for i := len(names); i < numGlyphs; i++ {
				names = append(names, syntheticGlyphName(i))
			}
			return NewGlyphOrder(names)
		}
	}
	cmap, _ := tables(T("cmap")).(*CMapTable)
	if numGlyphs < 0 {
		numGlyphs = 1
		if cmap != nil {
			numGlyphs = max(numGlyphs, cmap.maxGlyphID()+1)
		}
	}
	names := make([]string, numGlyphs)
	for i := range names {
		names[i] = syntheticGlyphName(i)
	}
	if numGlyphs > 0 {
		names[0] = ".notdef"
	}
	if cmap != nil {
		if sub := cmap.bestSubtable(unicodeCMapPreference); sub != nil {
			lowest := make(map[int]rune)
			for code, gid := range sub.Mapping {
				if gid <= 0 || gid >= numGlyphs {
					continue
				}
				if r, ok := lowest[gid]; !ok || rune(code) < r {
					lowest[gid] = rune(code)
				}
			}
			for gid, r := range lowest {
				names[gid] = unicodeGlyphName(r)
			}
		}
	}
	return NewGlyphOrder(names)
}

func unicodeGlyphName(r rune) string {
	if r <= 0xFFFF {
		return fmt.Sprintf("uni%04X", r)
	}
	return fmt.Sprintf("u%X", r)
}
