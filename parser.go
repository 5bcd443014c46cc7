package ttx

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/npillmayer/ttx/ot"
	"github.com/npillmayer/ttx/ttxml"
)

// Parser reads TTX documents and compiles them into binary fonts.
//
// Tables which cannot be read are left out and reported in Warnings.
// A Parser is re-used by calling ParseXML again, which discards the previous
// state. It must not be used from more than one goroutine at a time.
type Parser struct {
	Now      func() time.Time // clock for recalculated timestamps
	fonts    []*ot.Font
	warnings []string
}

// NewParser creates a parser using the system clock.
func NewParser() *Parser {
	return &Parser{Now: time.Now}
}

// Fonts returns the fonts of the last parsed document.
func (p *Parser) Fonts() []*ot.Font {
	return p.fonts
}

// Warnings lists the problems found since the last call to ParseXML.
func (p *Parser) Warnings() []string {
	return p.warnings
}

func (p *Parser) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	tracer().Infof("%s", msg)
	p.warnings = append(p.warnings, msg)
}

// ParseXML reads a TTX document containing a <ttFont> or a <ttCollection>.
// Tables excluded by opts are skipped. An error is returned if the document
// is not well-formed or does not contain a font.
func (p *Parser) ParseXML(r io.Reader, opts Options) error {
	return p.parseXML(r, nil, opts)
}

// MergeXML reads a TTX document containing a single <ttFont> on top of base:
// tables of the document replace those of base, all other tables of base
// are kept. Glyph names are resolved with the glyph order of the document,
// or else with the glyph order of base. base is modified and becomes the
// parsed font.
func (p *Parser) MergeXML(r io.Reader, base *ot.Font, opts Options) error {
	if base == nil {
		return errors.New("no font to merge into")
	}
	return p.parseXML(r, base, opts)
}

func (p *Parser) parseXML(r io.Reader, base *ot.Font, opts Options) error {
	p.fonts, p.warnings = nil, nil
	root, err := ttxml.Parse(r)
	if err != nil {
		return err
	}
	if root.Name != "ttFont" && root.Name != "ttCollection" {
		return fmt.Errorf("not a TTX document: root element is <%s>", root.Name)
	}
	fontElements := ttxml.MustSelect(root, "/ttFont | /ttCollection/ttFont")
	if len(fontElements) == 0 {
		return errors.New("TTX document does not contain a font")
	}
	if base != nil && len(fontElements) > 1 {
		return fmt.Errorf("cannot merge a collection of %d fonts into a single font", len(fontElements))
	}
	for i, el := range fontElements {
		f, err := p.parseFont(el, base, opts)
		if err != nil {
			return fmt.Errorf("font %d: %w", i, err)
		}
		p.fonts = append(p.fonts, f)
	}
	return nil
}

func (p *Parser) parseFont(el *ttxml.Element, base *ot.Font, opts Options) (*ot.Font, error) {
	version := uint32(ot.SfntVersionTrueType)
	v, hasVersion := el.Attr("sfntVersion")
	if hasVersion {
		var err error
		if version, err = ot.ParseSfntVersion(v); err != nil {
			return nil, err
		}
	}
	f := base
	var glyphs *ot.GlyphOrder
	if f == nil {
		f = ot.NewFont(version)
	} else {
		if hasVersion {
			f.SfntVersion = version
		}
		glyphs = f.GlyphOrder()
		tracer().Debugf("merging into font with %d tables", f.TableCount())
	}
	if ids := ttxml.MustSelect(el, "GlyphOrder/GlyphID"); len(ids) > 0 {
		names := make([]string, len(ids))
		for i, id := range ids {
			names[i] = id.AttrOr("name", "")
		}
		glyphs = ot.NewGlyphOrder(names)
	}
	// collect table elements in canonical order
	isCFF := el.Child("CFF") != nil || f.IsCFF()
	tables := treemap.NewWith(ot.TagComparator(isCFF))
	for _, child := range el.Children {
		if child.Name == "GlyphOrder" {
			continue
		}
		tag, err := ot.TagFromXML(child.Name)
		if err != nil {
			p.warn("element <%s> ignored: %v", child.Name, err)
			continue
		}
		if !opts.IncludeTable(tag) {
			continue
		}
		if _, dup := tables.Get(tag); dup {
			p.warn("duplicate table '%s' ignored", tag)
			continue
		}
		tables.Put(tag, child)
	}
	it := tables.Iterator()
	for it.Next() {
		tag, tel := it.Key().(ot.Tag), it.Value().(*ttxml.Element)
		t := ot.NewTable(tag)
		if err := t.ReadXML(tel, glyphs); err != nil {
			p.warn("table '%s' left out: %v", tag, err)
			continue
		}
		if d, ok := t.(interface{ Warnings() []string }); ok {
			for _, w := range d.Warnings() {
				p.warn("%s: %s", tag, w)
			}
		}
		f.SetTable(t)
	}
	if glyphs != nil {
		f.SetGlyphOrder(glyphs)
	}
	tracer().Debugf("parsed font with %d tables", f.TableCount())
	return f, nil
}

// GenerateFont compiles the parsed fonts into the binary format selected by
// opts.Flavor. More than one font always yields a collection.
func (p *Parser) GenerateFont(opts Options) ([]byte, ot.Format, error) {
	if len(p.fonts) == 0 {
		return nil, ot.FormatUnknown, errors.New("no font parsed")
	}
	for i, f := range p.fonts {
		if f.TableCount() == 0 {
			return nil, ot.FormatUnknown, fmt.Errorf("font %d has no tables", i)
		}
		if opts.RecalcTimestamp {
			if head := f.Head(); head != nil {
				head.Modified = ot.UnixToMac(p.Now().Unix())
			} else {
				p.warn("font %d has no 'head' table, timestamp not recalculated", i)
			}
		}
	}
	format := ot.FormatFromFlavor(opts.Flavor)
	if len(p.fonts) > 1 {
		if format != ot.FormatTTC && format != ot.FormatTTF && format != ot.FormatOTF {
			return nil, format, fmt.Errorf("%w: flavor %q for a collection", ot.ErrUnsupportedFormat, opts.Flavor)
		}
		data, err := ot.CompileCollection(p.fonts)
		return data, ot.FormatTTC, err
	}
	f := p.fonts[0]
	switch format {
	case ot.FormatTTF, ot.FormatOTF:
		data, err := ot.Compile(f)
		if f.IsCFF() {
			format = ot.FormatOTF
		} else {
			format = ot.FormatTTF
		}
		return data, format, err
	case ot.FormatWOFF:
		data, err := ot.EncodeWOFF(f)
		return data, format, err
	case ot.FormatTTC:
		data, err := ot.CompileCollection(p.fonts)
		return data, format, err
	}
	return nil, format, fmt.Errorf("%w: flavor %q", ot.ErrUnsupportedFormat, opts.Flavor)
}
