package ot

import (
	"slices"

	"github.com/emirpasic/gods/utils"
)

// Preferred table order for TrueType and CFF flavoured fonts. TTX documents
// and binary table data follow this order; remaining tables follow in tag
// order, with DSIG last.
var (
	ttfTableOrder = tagList("head", "hhea", "maxp", "OS/2", "hmtx", "LTSH", "VDMX", "hdmx", "cmap",
		"fpgm", "prep", "cvt ", "loca", "glyf", "kern", "name", "post", "gasp", "PCLT")
	otfTableOrder = tagList("head", "hhea", "maxp", "OS/2", "name", "cmap", "post", "CFF ")
)

func tagList(tags ...string) []Tag {
	l := make([]Tag, len(tags))
	for i, t := range tags {
		l[i] = T(t)
	}
	return l
}

// SortTags sorts tags into canonical TTX order. The preferred order depends
// on whether tags contains a 'CFF ' table.
func SortTags(tags []Tag) []Tag {
	cmp := TagComparator(slices.Contains(tags, T("CFF ")))
	sorted := slices.Clone(tags)
	slices.SortFunc(sorted, func(a, b Tag) int { return cmp(a, b) })
	return sorted
}

// TagComparator returns a comparator for canonical table order, suitable
// for ordered containers. It compares Tag values.
func TagComparator(cff bool) utils.Comparator {
	order := ttfTableOrder
	if cff {
		order = otfTableOrder
	}
	rank := func(t Tag) int {
		if i := slices.Index(order, t); i >= 0 {
			return i
		}
		if t == T("DSIG") {
			return len(order) + 1
		}
		return len(order)
	}
	return func(a, b interface{}) int {
		ta, tb := a.(Tag), b.(Tag)
		ra, rb := rank(ta), rank(tb)
		switch {
		case ra < rb:
			return -1
		case ra > rb:
			return 1
		}
		return byTagValue(ta, tb)
	}
}

// byTagValue orders tags by their byte values, as required for sfnt table
// directories.
func byTagValue(a, b interface{}) int {
	ta, tb := a.(Tag), b.(Tag)
	switch {
	case ta < tb:
		return -1
	case ta > tb:
		return 1
	}
	return 0
}
