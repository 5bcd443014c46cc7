package ot

import (
	"fmt"

	"github.com/npillmayer/ttx/ttxml"
	"github.com/tdewolff/parse/v2"
)

// PostTable is the PostScript table 'post'. Formats 1 and 2 carry glyph
// names, format 3 does not. Other formats keep their glyph data as raw bytes.
type PostTable struct {
	Version            uint32 // 16.16 fixed: 0x00010000, 0x00020000, 0x00030000, …
	ItalicAngle        int32  // 16.16 fixed
	UnderlinePosition  int16
	UnderlineThickness int16
	IsFixedPitch       uint32
	MinMemType42       uint32
	MaxMemType42       uint32
	MinMemType1        uint32
	MaxMemType1        uint32
	Data               []byte // trailing data of formats other than 1, 2 and 3
	names              []string
	extraNames         []string
}

const (
	postFormat1      = 0x00010000
	postFormat2      = 0x00020000
	postFormat3      = 0x00030000
	postHeaderSize   = 32
	postMaxNameLen   = 255
	numStandardNames = len(standardMacGlyphNames)
)

func (t *PostTable) Tag() Tag {
	return T("post")
}

// glyphNames returns the PostScript names of all glyphs, or nil if the table
// does not carry glyph names. Names are not necessarily unique.
func (t *PostTable) glyphNames() []string {
	switch t.Version {
	case postFormat1:
		return standardMacGlyphNames[:]
	case postFormat2:
		return append([]string(nil), t.names...)
	}
	return nil
}

func (t *PostTable) Decode(data []byte) error {
	if len(data) < postHeaderSize {
		return fmt.Errorf("%w: post table has %d bytes (need %d)", ErrTableTooShort, len(data), postHeaderSize)
	}
	b := binarySegm(data)
	t.Version = b.U32(0)
	t.ItalicAngle = int32(b.U32(4))
	t.UnderlinePosition = int16(b.U16(8))
	t.UnderlineThickness = int16(b.U16(10))
	t.IsFixedPitch = b.U32(12)
	t.MinMemType42 = b.U32(16)
	t.MaxMemType42 = b.U32(20)
	t.MinMemType1 = b.U32(24)
	t.MaxMemType1 = b.U32(28)
	t.names, t.extraNames, t.Data = nil, nil, nil
	switch t.Version {
	case postFormat1, postFormat3:
		return nil
	case postFormat2:
		return t.decodeNames(b)
	}
	tracer().Infof("post table format 0x%08x, keeping glyph data as binary", t.Version)
	t.Data = copyBytes(b[postHeaderSize:])
	return nil
}

func (t *PostTable) decodeNames(b binarySegm) error {
	numGlyphs, err := b.u16(postHeaderSize)
	if err != nil {
		return fmt.Errorf("%w: post format 2 lacks glyph count", ErrTableTooShort)
	}
	indices, err := b.view(postHeaderSize+2, 2*int(numGlyphs))
	if err != nil {
		return fmt.Errorf("%w: post format 2 with %d glyphs", ErrTableTooShort, numGlyphs)
	}
	// string data: Pascal strings
	for s := b[postHeaderSize+2+len(indices):]; len(s) > 0; {
		n := int(s[0])
		if n+1 > len(s) {
			return errFontFormat("post: string data truncated")
		}
		t.extraNames = append(t.extraNames, string(s[1:1+n]))
		s = s[1+n:]
	}
	t.names = make([]string, numGlyphs)
	for i := range t.names {
		switch inx := int(u16(indices[2*i:])); {
		case inx < numStandardNames:
			t.names[i] = standardMacGlyphNames[inx]
		case inx-numStandardNames < len(t.extraNames):
			t.names[i] = t.extraNames[inx-numStandardNames]
		default:
			tracer().Infof("post: glyph %d has name index %d out of range", i, inx)
			t.names[i] = syntheticGlyphName(i)
		}
	}
	return nil
}

func (t *PostTable) Encode() ([]byte, error) {
	w := parse.NewBinaryWriter(make([]byte, 0, postHeaderSize))
	w.WriteUint32(t.Version)
	w.WriteUint32(uint32(t.ItalicAngle))
	w.WriteInt16(t.UnderlinePosition)
	w.WriteInt16(t.UnderlineThickness)
	w.WriteUint32(t.IsFixedPitch)
	w.WriteUint32(t.MinMemType42)
	w.WriteUint32(t.MaxMemType42)
	w.WriteUint32(t.MinMemType1)
	w.WriteUint32(t.MaxMemType1)
	switch t.Version {
	case postFormat1, postFormat3:
	case postFormat2:
		if err := t.encodeNames(w); err != nil {
			return nil, err
		}
	default:
		w.WriteBytes(t.Data)
	}
	return w.Bytes(), nil
}

func (t *PostTable) encodeNames(w *parse.BinaryWriter) error {
	if len(t.names) > 0xFFFF {
		return fmt.Errorf("post: too many glyphs: %d", len(t.names))
	}
	extra := append([]string(nil), t.extraNames...)
	extraIndex := make(map[string]int, len(extra))
	for i, name := range extra {
		if _, ok := extraIndex[name]; !ok {
			extraIndex[name] = i
		}
	}
	indices := make([]uint16, len(t.names))
	for i, name := range t.names {
		if inx, ok := standardMacGlyphIndex[name]; ok {
			indices[i] = uint16(inx)
			continue
		}
		inx, ok := extraIndex[name]
		if !ok {
			inx = len(extra)
			extra = append(extra, name)
			extraIndex[name] = inx
		}
		if numStandardNames+inx > 0xFFFF {
			return fmt.Errorf("post: too many glyph names")
		}
		indices[i] = uint16(numStandardNames + inx)
	}
	w.WriteUint16(uint16(len(t.names)))
	for _, inx := range indices {
		w.WriteUint16(inx)
	}
	for _, name := range extra {
		if len(name) > postMaxNameLen {
			return fmt.Errorf("post: glyph name too long: %q", name)
		}
		w.WriteUint8(uint8(len(name)))
		w.WriteString(name)
	}
	return nil
}

func (t *PostTable) WriteXML(w *ttxml.Writer, glyphs *GlyphOrder) error {
	w.Value("formatType", FixedToString(int32(t.Version), 16))
	w.Value("italicAngle", FixedToString(t.ItalicAngle, 16))
	w.Value("underlinePosition", t.UnderlinePosition)
	w.Value("underlineThickness", t.UnderlineThickness)
	w.Value("isFixedPitch", t.IsFixedPitch)
	w.Value("minMemType42", t.MinMemType42)
	w.Value("maxMemType42", t.MaxMemType42)
	w.Value("minMemType1", t.MinMemType1)
	w.Value("maxMemType1", t.MaxMemType1)
	switch t.Version {
	case postFormat2:
		w.BeginTag("psNames")
		w.Newline()
		w.Indent()
		w.Comment("Glyph names are made unique; where a PostScript name differs from its glyph name, the mapping is listed here.")
		w.Newline()
		for i, psName := range t.names {
			if name := glyphs.Name(i); name != psName {
				w.SimpleTag("psName", ttxml.A("name", name), ttxml.A("psName", psName))
				w.Newline()
			}
		}
		w.Dedent()
		w.EndTag("psNames")
		w.Newline()
		w.BeginTag("extraNames")
		w.Newline()
		w.Indent()
		w.Comment("following are the name that are not taken from the standard Mac glyph order")
		w.Newline()
		for _, name := range t.extraNames {
			w.SimpleTag("psName", ttxml.A("name", name))
			w.Newline()
		}
		w.Dedent()
		w.EndTag("extraNames")
		w.Newline()
	case postFormat1, postFormat3:
	default:
		w.BeginTag("hexdata")
		w.Newline()
		w.Indent()
		w.DumpHex(t.Data)
		w.Dedent()
		w.EndTag("hexdata")
		w.Newline()
	}
	return w.Err()
}

func (t *PostTable) ReadXML(el *ttxml.Element, glyphs *GlyphOrder) error {
	fr := fieldReader{el: el, tag: t.Tag()}
	t.Version = uint32(fr.fixed("formatType"))
	t.ItalicAngle = fr.fixed("italicAngle")
	t.UnderlinePosition = int16(fr.int("underlinePosition", 16))
	t.UnderlineThickness = int16(fr.int("underlineThickness", 16))
	t.IsFixedPitch = uint32(fr.uint("isFixedPitch", 32))
	t.MinMemType42 = uint32(fr.uint("minMemType42", 32))
	t.MaxMemType42 = uint32(fr.uint("maxMemType42", 32))
	t.MinMemType1 = uint32(fr.uint("minMemType1", 32))
	t.MaxMemType1 = uint32(fr.uint("maxMemType1", 32))
	if fr.err != nil {
		return fr.err
	}
	t.names, t.extraNames, t.Data = nil, nil, nil
	switch t.Version {
	case postFormat1, postFormat3:
	case postFormat2:
		psNames := make(map[string]string)
		if ps := el.Child("psNames"); ps != nil {
			for _, m := range ps.ChildrenNamed("psName") {
				psNames[m.AttrOr("name", "")] = m.AttrOr("psName", "")
			}
		}
		if extra := el.Child("extraNames"); extra != nil {
			for _, m := range extra.ChildrenNamed("psName") {
				t.extraNames = append(t.extraNames, m.AttrOr("name", ""))
			}
		}
		for _, name := range glyphs.Names() {
			if ps, ok := psNames[name]; ok {
				name = ps
			}
			t.names = append(t.names, name)
		}
	default:
		if hd := el.Child("hexdata"); hd != nil {
			data, err := parseHexData(hd.Text)
			if err != nil {
				return fmt.Errorf("post: %w", err)
			}
			t.Data = data
		}
	}
	return nil
}
