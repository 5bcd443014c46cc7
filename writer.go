package ttx

import (
	"bytes"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/npillmayer/ttx/ot"
	"github.com/npillmayer/ttx/ttxml"
)

// DefaultLibVersion is the value of the ttLibVersion attribute of TTX
// documents unless configured otherwise.
const DefaultLibVersion = "4.0"

// Writer renders fonts as TTX documents.
//
// A table which cannot be rendered is left out of the document and
// reported in Warnings. A Writer is re-used by calling ConvertToXML again;
// it must not be used from more than one goroutine at a time.
type Writer struct {
	LibVersion string // value of attribute ttLibVersion
	warnings   []string
	written    int
}

// NewWriter creates a TTX writer. An empty libVersion selects DefaultLibVersion.
func NewWriter(libVersion string) *Writer {
	if libVersion == "" {
		libVersion = DefaultLibVersion
	}
	return &Writer{LibVersion: libVersion}
}

// Warnings lists the problems of the last conversion.
func (tw *Writer) Warnings() []string {
	return tw.warnings
}

// TablesWritten is the number of tables in the last conversion's output.
// The glyph order does not count as a table.
func (tw *Writer) TablesWritten() int {
	return tw.written
}

// ConvertToXML renders the fonts of a loaded reader as a TTX document.
func (tw *Writer) ConvertToXML(r *ot.Reader, opts Options) (string, error) {
	var buf strings.Builder
	if err := tw.WriteTTX(&buf, r.Fonts(), opts); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteTTX writes fonts as a TTX document to w. A single font becomes a
// <ttFont> document, more than one font a <ttCollection>.
func (tw *Writer) WriteTTX(w io.Writer, fonts []*ot.Font, opts Options) error {
	tw.warnings, tw.written = nil, 0
	if len(fonts) == 0 {
		return fmt.Errorf("no font to convert")
	}
	xw := ttxml.NewWriter(w)
	xw.Declaration()
	if len(fonts) == 1 {
		tw.writeFont(xw, fonts[0], opts)
	} else {
		xw.BeginTag("ttCollection")
		xw.Newline()
		xw.Newline()
		xw.Indent()
		for _, f := range fonts {
			tw.writeFont(xw, f, opts)
			xw.Newline()
		}
		xw.Dedent()
		xw.EndTag("ttCollection")
		xw.Newline()
	}
	if n := xw.Replaced(); n > 0 {
		tw.warnings = append(tw.warnings,
			fmt.Sprintf("%d character(s) of glyph names not allowed in XML replaced by '?'", n))
	}
	return xw.Flush()
}

func (tw *Writer) writeFont(xw *ttxml.Writer, f *ot.Font, opts Options) {
	xw.BeginTag("ttFont",
		ttxml.A("sfntVersion", ot.SfntVersionString(f.SfntVersion)),
		ttxml.A("ttLibVersion", tw.LibVersion))
	xw.Newline()
	xw.Newline()
	xw.Indent()
	glyphs := f.GlyphOrder()
	if !slices.Contains(opts.SkipTables, "GlyphOrder") {
		writeGlyphOrder(xw, glyphs)
		xw.Newline()
	}
	for _, tag := range ot.SortTags(f.TableTags()) {
		if !opts.IncludeTable(tag) {
			tracer().Debugf("table '%s' filtered out", tag)
			continue
		}
		if err := tw.writeTable(xw, f.Table(tag), glyphs); err != nil {
			tw.warnings = append(tw.warnings, fmt.Sprintf("table '%s' left out: %v", tag, err))
			tracer().Errorf("table '%s' left out: %v", tag, err)
			continue
		}
		tw.written++
	}
	xw.Dedent()
	xw.EndTag("ttFont")
	xw.Newline()
}

// writeTable renders a table into a buffer first, so that a failing table
// does not leave a partial element in the document.
func (tw *Writer) writeTable(xw *ttxml.Writer, t ot.Table, glyphs *ot.GlyphOrder) error {
	var buf bytes.Buffer
	tx := xw.Fork(&buf)
	name := t.Tag().XMLName()
	tx.BeginTag(name)
	tx.Newline()
	tx.Indent()
	if err := t.WriteXML(tx, glyphs); err != nil {
		return err
	}
	tx.Dedent()
	tx.EndTag(name)
	tx.Newline()
	tx.Newline()
	if err := tx.Flush(); err != nil {
		return err
	}
	if n := tx.Replaced(); n > 0 {
		tw.warnings = append(tw.warnings,
			fmt.Sprintf("table '%s': %d character(s) not allowed in XML replaced by '?'", t.Tag(), n))
	}
	xw.WriteRaw(buf.Bytes())
	return nil
}

func writeGlyphOrder(xw *ttxml.Writer, glyphs *ot.GlyphOrder) {
	xw.BeginTag("GlyphOrder")
	xw.Newline()
	xw.Indent()
	xw.Comment("The 'id' attribute is only for humans; it is ignored when parsed.")
	xw.Newline()
	for id, name := range glyphs.Names() {
		xw.SimpleTag("GlyphID", ttxml.A("id", id), ttxml.A("name", name))
		xw.Newline()
	}
	xw.Dedent()
	xw.EndTag("GlyphOrder")
	xw.Newline()
}
