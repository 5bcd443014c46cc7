package ot

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
	"slices"

	"github.com/tdewolff/parse/v2"
)

// WOFF 1.0 layout, see https://www.w3.org/TR/WOFF/
const (
	woffHeaderSize   = 44
	woffDirEntrySize = 20
)

// readWOFF reads a WOFF 1.0 file. Tables are zlib compressed if their
// compressed length is smaller than their original length.
func (r *Reader) readWOFF(src binarySegm) (*Font, error) {
	hdr, err := src.view(0, woffHeaderSize)
	if err != nil {
		return nil, errFontFormat("WOFF header truncated")
	}
	numTables := int(hdr.U16(12))
	if numTables > maxTableCount {
		return nil, errFontFormat("implausible table count %d", numTables)
	}
	if length := hdr.U32(8); length != uint32(len(src)) {
		r.diag.warn(T(""), 8, "WOFF header states length %d, file has %d bytes", length, len(src))
	}
	dir, err := src.view(woffHeaderSize, woffDirEntrySize*numTables)
	if err != nil {
		return nil, errFontFormat("WOFF table directory with %d entries exceeds file size %d", numTables, len(src))
	}
	f := NewFont(hdr.U32(4))
	tracer().Debugf("WOFF with flavor 0x%08x and %d tables", f.SfntVersion, numTables)
	for i := 0; i < numTables; i++ {
		e := dir[woffDirEntrySize*i:]
		tag := MakeTag(e)
		off, compLength, origLength, checksum := u32(e[4:]), u32(e[8:]), u32(e[12:]), u32(e[16:])
		end, err := checkedAddUint32(off, compLength)
		if err == nil && end > uint32(len(src)) {
			err = fmt.Errorf("bounds [%d:%d] exceed file size %d", off, end, len(src))
		}
		var data []byte
		if err == nil {
			data, err = woffTableData(src[off:end], origLength)
		}
		if err != nil {
			r.diag.drop(tag, "WOFF Directory", off, err)
			continue
		}
		if sum := tableChecksum(tag, data); sum != checksum {
			r.diag.warn(tag, off, "checksum mismatch: 0x%08x in directory, 0x%08x computed", checksum, sum)
		}
		r.decodeTable(f, tag, data, off)
	}
	return f, nil
}

// woffTableData returns the uncompressed data of a WOFF table.
func woffTableData(data []byte, origLength uint32) ([]byte, error) {
	switch {
	case uint32(len(data)) == origLength:
		return data, nil
	case uint32(len(data)) > origLength:
		return nil, fmt.Errorf("compressed length %d exceeds original length %d", len(data), origLength)
	}
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("zlib: %w", err)
	}
	defer zr.Close()
	out, err := io.ReadAll(io.LimitReader(zr, int64(origLength)+1))
	if err != nil {
		return nil, fmt.Errorf("zlib: %w", err)
	}
	if uint32(len(out)) != origLength {
		return nil, fmt.Errorf("decompressed to %d bytes, expected %d", len(out), origLength)
	}
	return out, nil
}

// EncodeWOFF compiles f and wraps the result as WOFF 1.0.
func EncodeWOFF(f *Font) ([]byte, error) {
	font, err := Compile(f)
	if err != nil {
		return nil, err
	}
	var major, minor uint16
	if head := f.Head(); head != nil {
		major = uint16(head.FontRevision >> 16)
		minor = uint16((int64(head.FontRevision&0xFFFF)*1000 + 0x8000) >> 16)
	}
	return WrapWOFF(font, major, minor)
}

type woffEntry struct {
	tag                            Tag
	checksum, origLength, sfntOffs uint32
	data                           []byte // possibly compressed
}

// WrapWOFF converts a binary sfnt font to WOFF 1.0. Each table is zlib
// compressed if that makes it smaller. Table data keeps the order of the
// sfnt, the directory is sorted by tag.
func WrapWOFF(font []byte, majorVersion, minorVersion uint16) ([]byte, error) {
	src := binarySegm(font)
	hdr, err := src.view(0, sfntHeaderSize)
	if err != nil {
		return nil, errFontFormat("sfnt header truncated")
	}
	numTables := int(hdr.U16(4))
	dir, err := src.view(sfntHeaderSize, sfntDirEntrySize*numTables)
	if err != nil {
		return nil, errFontFormat("table directory truncated")
	}
	entries := make([]woffEntry, numTables)
	totalSfntSize := sfntHeaderSize + sfntDirEntrySize*numTables
	for i := range entries {
		e := dir[sfntDirEntrySize*i:]
		off, length := u32(e[8:]), u32(e[12:])
		data, err := src.view(int(off), int(length))
		if err != nil {
			return nil, errFontFormat("table '%s' exceeds font size", MakeTag(e))
		}
		entries[i] = woffEntry{tag: MakeTag(e), checksum: u32(e[4:]), origLength: length, sfntOffs: off}
		if entries[i].data, err = compressTable(data); err != nil {
			return nil, err
		}
		totalSfntSize += pad4(int(length))
	}
	// lay out data in sfnt order
	layout := slices.Clone(entries)
	slices.SortStableFunc(layout, func(a, b woffEntry) int { return int(a.sfntOffs) - int(b.sfntOffs) })
	offsets := make(map[Tag]uint32, numTables)
	pos := woffHeaderSize + woffDirEntrySize*numTables
	for _, e := range layout {
		offsets[e.tag] = uint32(pos)
		pos += pad4(len(e.data))
	}
	w := parse.NewBinaryWriter(make([]byte, 0, pos))
	w.WriteUint32(sigWOFF)
	w.WriteUint32(hdr.U32(0)) // flavor
	w.WriteUint32(uint32(pos))
	w.WriteUint16(uint16(numTables))
	w.WriteUint16(0) // reserved
	w.WriteUint32(uint32(totalSfntSize))
	w.WriteUint16(majorVersion)
	w.WriteUint16(minorVersion)
	for range 5 { // no metadata, no private data
		w.WriteUint32(0)
	}
	slices.SortFunc(entries, func(a, b woffEntry) int { return byTagValue(a.tag, b.tag) })
	for _, e := range entries {
		w.WriteUint32(uint32(e.tag))
		w.WriteUint32(offsets[e.tag])
		w.WriteUint32(uint32(len(e.data)))
		w.WriteUint32(e.origLength)
		w.WriteUint32(e.checksum)
	}
	for _, e := range layout {
		w.WriteBytes(e.data)
		w.WriteBytes(make([]byte, pad4(len(e.data))-len(e.data)))
	}
	return w.Bytes(), nil
}

func compressTable(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	if buf.Len() < len(data) {
		return buf.Bytes(), nil
	}
	return data, nil
}
