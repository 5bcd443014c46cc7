package ot

import (
	"fmt"
	"math"
	"slices"

	"github.com/tdewolff/parse/v2"
)

const checkSumAdjustmentMagic = 0xB1B0AFBA

// Compile assembles a binary sfnt font from the tables of f.
//
// Table data is laid out in canonical order, each table padded to a
// multiple of 4 bytes. The table directory is sorted by tag. If the font has
// a 'head' table, its checkSumAdjustment is set so that the checksum of the
// whole file is 0xB1B0AFBA.
func Compile(f *Font) ([]byte, error) {
	return compileAt(f, 0)
}

type compiledTable struct {
	tag      Tag
	data     []byte
	checksum uint32
	offset   uint32
}

// compileAt compiles f as if it were located at byte position base of a
// file, which is relevant for collections: table offsets are absolute.
func compileAt(f *Font, base int) ([]byte, error) {
	if f == nil || f.TableCount() == 0 {
		return nil, fmt.Errorf("cannot compile a font without tables")
	}
	if f.TableCount() > 0xFFFF {
		return nil, fmt.Errorf("too many tables: %d", f.TableCount())
	}
	layout := SortTags(f.TableTags())
	tables := make([]*compiledTable, 0, len(layout))
	pos := sfntHeaderSize + sfntDirEntrySize*len(layout)
	headPos := -1
	for _, tag := range layout {
		data, err := f.Table(tag).Encode()
		if err != nil {
			return nil, fmt.Errorf("compiling table '%s': %w", tag, err)
		}
		if tag == T("head") && len(data) >= HeadTableSize {
			data = copyBytes(data)
			putU32(data[headCheckSumAdjustmentOffset:], 0)
			headPos = pos
		}
		if !fitsOffset32(base, pos, len(data)) {
			return nil, fmt.Errorf("font too large")
		}
		tables = append(tables, &compiledTable{
			tag:      tag,
			data:     data,
			checksum: Checksum(data),
			offset:   uint32(base + pos),
		})
		pos += pad4(len(data))
	}
	tracer().Debugf("compiling %d tables into %d bytes", len(tables), pos)
	w := parse.NewBinaryWriter(make([]byte, 0, pos))
	searchRange, entrySelector, rangeShift := searchParams(len(tables), sfntDirEntrySize)
	w.WriteUint32(f.SfntVersion)
	w.WriteUint16(uint16(len(tables)))
	w.WriteUint16(searchRange)
	w.WriteUint16(entrySelector)
	w.WriteUint16(rangeShift)
	directory := slices.Clone(tables)
	slices.SortFunc(directory, func(a, b *compiledTable) int { return byTagValue(a.tag, b.tag) })
	for _, t := range directory {
		w.WriteUint32(uint32(t.tag))
		w.WriteUint32(t.checksum)
		w.WriteUint32(t.offset)
		w.WriteUint32(uint32(len(t.data)))
	}
	for _, t := range tables {
		w.WriteBytes(t.data)
		w.WriteBytes(make([]byte, pad4(len(t.data))-len(t.data)))
	}
	out := w.Bytes()
	if headPos >= 0 {
		putU32(out[headPos+headCheckSumAdjustmentOffset:], checkSumAdjustmentMagic-Checksum(out))
	}
	return out, nil
}

// fitsOffset32 is true if a table of n bytes at base+pos ends within the
// range of 32-bit file offsets.
func fitsOffset32(base, pos, n int) bool {
	if base < 0 || pos < 0 || n < 0 {
		return false
	}
	return uint64(base)+uint64(pos)+uint64(n) <= math.MaxUint32
}

// CompileCollection assembles a TrueType collection from fonts. Tables are
// not shared between fonts.
func CompileCollection(fonts []*Font) ([]byte, error) {
	if len(fonts) == 0 {
		return nil, fmt.Errorf("cannot compile an empty collection")
	}
	// first pass determines the sizes of the fonts, which do not depend
	// on their position
	sizes := make([]int, len(fonts))
	for i, f := range fonts {
		b, err := compileAt(f, 0)
		if err != nil {
			return nil, fmt.Errorf("font %d of collection: %w", i, err)
		}
		sizes[i] = len(b)
	}
	w := parse.NewBinaryWriter(make([]byte, 0, 1024))
	w.WriteUint32(sigCollection)
	w.WriteUint32(0x00010000)
	w.WriteUint32(uint32(len(fonts)))
	pos := ttcHeaderSize + 4*len(fonts)
	bases := make([]int, len(fonts))
	for i := range fonts {
		bases[i] = pos
		w.WriteUint32(uint32(pos))
		pos += pad4(sizes[i])
	}
	for i, f := range fonts {
		b, err := compileAt(f, bases[i])
		if err != nil {
			return nil, fmt.Errorf("font %d of collection: %w", i, err)
		}
		w.WriteBytes(b)
		w.WriteBytes(make([]byte, pad4(len(b))-len(b)))
	}
	return w.Bytes(), nil
}
