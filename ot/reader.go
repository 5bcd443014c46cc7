package ot

import (
	"fmt"
)

// Reader loads binary fonts: plain sfnt files (TrueType or CFF flavoured),
// font collections and WOFF 1.0 files.
//
// Loading follows a drop-and-continue policy. The container structure has to
// be intact, but table directory entries pointing outside the data and tables
// failing to decode are left out. Every dropped table is reported as a
// FontError of severity SeverityMajor.
//
// A Reader is re-used by calling Load again, which discards the previous
// state. It must not be used from more than one goroutine at a time.
type Reader struct {
	// IgnoreDecompileErrors keeps tables which fail to decode as opaque
	// binary data instead of dropping them.
	IgnoreDecompileErrors bool
	format                Format
	fontCount             int
	fonts                 []*Font
	diag                  diagnostics
}

// NewReader creates an empty reader.
func NewReader() *Reader {
	return &Reader{}
}

const (
	sfntHeaderSize     = 12
	sfntDirEntrySize   = 16
	ttcHeaderSize      = 12
	maxTableCount      = 0x1000
	maxCollectionCount = 0x1000
)

// Load parses font data. For font collections, fontNumber selects a single
// font; -1 loads all of them. Other formats ignore fontNumber.
//
// An error is returned if the format is not supported (wrapping
// ErrUnsupportedFormat) or the container structure is broken (wrapping
// ErrCorruptFont). Dropped tables do not produce an error.
func (r *Reader) Load(data []byte, fontNumber int) error {
	r.format = Detect(data)
	r.fonts = nil
	r.fontCount = 0
	r.diag = diagnostics{}
	tracer().Debugf("loading %d bytes of %s data", len(data), r.format)
	var err error
	switch r.format {
	case FormatTTF, FormatOTF:
		var f *Font
		if f, err = r.readSfnt(binarySegm(data), 0); err == nil {
			r.fonts = append(r.fonts, f)
			r.fontCount = 1
		}
	case FormatTTC:
		err = r.readCollection(binarySegm(data), fontNumber)
	case FormatWOFF:
		var f *Font
		if f, err = r.readWOFF(binarySegm(data)); err == nil {
			r.fonts = append(r.fonts, f)
			r.fontCount = 1
		}
	case FormatWOFF2:
		err = fmt.Errorf("%w: WOFF2 decoding is not implemented", ErrUnsupportedFormat)
	case FormatTTX:
		err = fmt.Errorf("%w: data is a TTX document, not a binary font", ErrUnsupportedFormat)
	default:
		err = fmt.Errorf("%w: unrecognized signature", ErrUnsupportedFormat)
	}
	if err != nil {
		r.fonts = nil
		r.diag.fatal("Header", err)
	}
	return err
}

// readSfnt reads the offset table and table directory at offset, and decodes
// every table. Table offsets are relative to the start of src.
func (r *Reader) readSfnt(src binarySegm, offset int) (*Font, error) {
	hdr, err := src.view(offset, sfntHeaderSize)
	if err != nil {
		return nil, errFontFormat("sfnt header truncated at offset %d", offset)
	}
	numTables := int(hdr.U16(4))
	if numTables > maxTableCount {
		return nil, errFontFormat("implausible table count %d", numTables)
	}
	dir, err := src.view(offset+sfntHeaderSize, sfntDirEntrySize*numTables)
	if err != nil {
		return nil, errFontFormat("table directory with %d entries exceeds font size %d", numTables, len(src))
	}
	f := NewFont(hdr.U32(0))
	tracer().Debugf("sfnt version 0x%08x with %d tables", f.SfntVersion, numTables)
	for i := 0; i < numTables; i++ {
		e := dir[sfntDirEntrySize*i:]
		tag := MakeTag(e)
		checksum, off, length := u32(e[4:]), u32(e[8:]), u32(e[12:])
		end, err := checkedAddUint32(off, length)
		if err == nil && end > uint32(len(src)) {
			err = fmt.Errorf("bounds [%d:%d] exceed font size %d", off, end, len(src))
		}
		if err != nil {
			r.diag.drop(tag, "Directory", off, err)
			continue
		}
		data := src[off:end]
		if sum := tableChecksum(tag, data); sum != checksum {
			r.diag.warn(tag, off, "checksum mismatch: 0x%08x in directory, 0x%08x computed", checksum, sum)
		}
		r.decodeTable(f, tag, data, off)
	}
	return f, nil
}

// decodeTable decodes data into a table for tag and adds it to f.
// Failing tables are dropped.
func (r *Reader) decodeTable(f *Font, tag Tag, data []byte, offset uint32) {
	if f.HasTable(tag) {
		r.diag.warn(tag, offset, "duplicate table directory entry ignored")
		return
	}
	t := NewTable(tag)
	if err := t.Decode(data); err != nil {
		if !r.IgnoreDecompileErrors {
			r.diag.drop(tag, "Decode", offset, err)
			return
		}
		r.diag.warn(tag, offset, "kept as binary data: %v", err)
		t = NewGenericTable(tag, data)
	}
	if d, ok := t.(interface{ Warnings() []string }); ok {
		for _, w := range d.Warnings() {
			r.diag.warn(tag, offset, "%s", w)
		}
	}
	if !IsDecoded(tag) {
		tracer().Infof("table '%s' is not decoded, keeping %d bytes", tag, len(data))
	}
	f.SetTable(t)
}

// tableChecksum is the directory checksum of a table. For 'head' it is
// calculated with checkSumAdjustment set to zero.
func tableChecksum(tag Tag, data []byte) uint32 {
	if tag == T("head") && len(data) >= headCheckSumAdjustmentOffset+4 {
		sum := Checksum(data)
		return sum - u32(data[headCheckSumAdjustmentOffset:])
	}
	return Checksum(data)
}

// readCollection reads the TTC header and the selected fonts.
func (r *Reader) readCollection(src binarySegm, fontNumber int) error {
	hdr, err := src.view(0, ttcHeaderSize)
	if err != nil {
		return errFontFormat("collection header truncated")
	}
	numFonts := int(hdr.U32(8))
	if numFonts > maxCollectionCount {
		return errFontFormat("implausible collection size %d", numFonts)
	}
	offsets, err := src.view(ttcHeaderSize, 4*numFonts)
	if err != nil {
		return errFontFormat("collection with %d fonts has truncated offset table", numFonts)
	}
	r.fontCount = numFonts
	tracer().Debugf("collection version 0x%08x with %d fonts", hdr.U32(4), numFonts)
	first, last := 0, numFonts-1
	if fontNumber >= 0 {
		if fontNumber >= numFonts {
			return fmt.Errorf("font number %d out of range, collection has %d fonts", fontNumber, numFonts)
		}
		first, last = fontNumber, fontNumber
	}
	for i := first; i <= last; i++ {
		f, err := r.readSfnt(src, int(u32(offsets[4*i:])))
		if err != nil {
			return fmt.Errorf("font %d of collection: %w", i, err)
		}
		r.fonts = append(r.fonts, f)
	}
	return nil
}

// Format returns the format detected by the last call to Load.
func (r *Reader) Format() Format {
	return r.format
}

// FontCount returns the number of fonts in the loaded file. For collections
// this may be larger than the number of loaded fonts.
func (r *Reader) FontCount() int {
	return r.fontCount
}

// Fonts returns the loaded fonts.
func (r *Reader) Fonts() []*Font {
	return r.fonts
}

// Font returns the first loaded font, or nil.
func (r *Reader) Font() *Font {
	if len(r.fonts) == 0 {
		return nil
	}
	return r.fonts[0]
}

// Tables returns the tags of the first font's tables in canonical TTX order.
func (r *Reader) Tables() []Tag {
	if f := r.Font(); f != nil {
		return SortTags(f.TableTags())
	}
	return nil
}

// Table returns a table of the first font, or nil.
func (r *Reader) Table(tag Tag) Table {
	if f := r.Font(); f != nil {
		return f.Table(tag)
	}
	return nil
}

// Errors returns all errors encountered during the last load.
func (r *Reader) Errors() []FontError {
	return r.diag.errors
}

// Warnings returns all warnings encountered during the last load.
func (r *Reader) Warnings() []FontWarning {
	return r.diag.warnings
}

// Messages returns errors and warnings of the last load as text.
func (r *Reader) Messages() []string {
	return r.diag.lines()
}
