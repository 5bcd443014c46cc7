package ttxtest

import (
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ParseTTXFile parses a TTX file of a single font into an ExpectedFont model.
func ParseTTXFile(path string) (*ExpectedFont, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseTTX(data)
}

// ParseTTX parses a TTX document of a single font into an ExpectedFont model.
// It is independent of the TTX reader of this module and serves as a
// cross-check for documents written by it.
func ParseTTX(data []byte) (*ExpectedFont, error) {
	var font ttxFont
	if err := xml.Unmarshal(data, &font); err != nil {
		return nil, err
	}
	if font.XMLName.Local != "ttFont" {
		return nil, fmt.Errorf("ttx: root element is <%s>, expected <ttFont>", font.XMLName.Local)
	}
	exp := &ExpectedFont{
		SfntVersion: font.SfntVersion,
		LibVersion:  font.LibVersion,
		HexTables:   make(map[string][]byte),
	}
	for _, el := range font.Children {
		name := el.XMLName.Local
		if name == "GlyphOrder" {
			var g ttxGlyphOrder
			if err := el.decode(&g); err != nil {
				return nil, err
			}
			for _, id := range g.IDs {
				exp.GlyphOrder = append(exp.GlyphOrder, id.Name)
			}
			continue
		}
		exp.Tables = append(exp.Tables, name)
		var err error
		switch name {
		case "head":
			exp.Head, err = el.fieldValues()
		case "maxp":
			exp.MaxPFields, err = el.fieldValues()
		case "hhea":
			exp.HHeaFields, err = el.fieldValues()
		case "name":
			exp.Names, err = el.nameRecords()
		case "cmap":
			exp.CMap, err = el.cmapSubtables()
		case "post":
			err = el.post(exp)
		default:
			var h ttxHexTable
			if err = el.decode(&h); err == nil && h.HexData != nil {
				exp.HexTables[name], err = decodeHex(*h.HexData)
			}
		}
		if err != nil {
			return nil, fmt.Errorf("ttx: table <%s>: %w", name, err)
		}
	}
	return exp, nil
}

func decodeHex(s string) ([]byte, error) {
	return hex.DecodeString(strings.Join(strings.Fields(s), ""))
}

type ttxFont struct {
	XMLName     xml.Name
	SfntVersion string       `xml:"sfntVersion,attr"`
	LibVersion  string       `xml:"ttLibVersion,attr"`
	Children    []ttxElement `xml:",any"`
}

// ttxElement is a table element whose content is decoded on demand.
type ttxElement struct {
	XMLName xml.Name
	Inner   []byte `xml:",innerxml"`
}

func (el ttxElement) decode(v any) error {
	doc := append([]byte("<t>"), el.Inner...)
	return xml.Unmarshal(append(doc, "</t>"...), v)
}

func (el ttxElement) fieldValues() (map[string]string, error) {
	var f ttxFields
	if err := el.decode(&f); err != nil {
		return nil, err
	}
	m := make(map[string]string, len(f.Fields))
	for _, field := range f.Fields {
		m[field.XMLName.Local] = field.Value
	}
	return m, nil
}

func (el ttxElement) nameRecords() ([]ExpectedNameRecord, error) {
	var n ttxName
	if err := el.decode(&n); err != nil {
		return nil, err
	}
	recs := make([]ExpectedNameRecord, 0, len(n.Records))
	for _, r := range n.Records {
		var rec ExpectedNameRecord
		var err error
		for _, a := range []struct {
			s string
			p *int
		}{{r.NameID, &rec.NameID}, {r.PlatformID, &rec.PlatformID},
			{r.PlatEncID, &rec.EncodingID}, {r.LangID, &rec.LanguageID}} {
			if *a.p, err = ttxValue(a.s).Int(); err != nil {
				return nil, err
			}
		}
		rec.Unicode = r.Unicode != "False"
		rec.Text = strings.TrimSpace(r.Text)
		recs = append(recs, rec)
	}
	return recs, nil
}

func (el ttxElement) cmapSubtables() ([]ExpectedCMapSubtable, error) {
	var c ttxCMap
	if err := el.decode(&c); err != nil {
		return nil, err
	}
	var subs []ttxCMapSubtable
	for _, sub := range c.Subtables {
		if !strings.HasPrefix(sub.XMLName.Local, "cmap_format_") {
			continue
		}
		subs = append(subs, sub)
	}
	exp := make([]ExpectedCMapSubtable, 0, len(subs))
	for _, sub := range subs {
		var s ExpectedCMapSubtable
		var err error
		format := strings.TrimPrefix(sub.XMLName.Local, "cmap_format_")
		if format == "unknown" {
			format = sub.Format
		}
		if s.Format, err = strconv.Atoi(format); err != nil {
			return nil, err
		}
		if s.PlatformID, err = ttxValue(sub.PlatformID).Int(); err != nil {
			return nil, err
		}
		if s.EncodingID, err = ttxValue(sub.PlatEncID).Int(); err != nil {
			return nil, err
		}
		if sub.Language != "" {
			if s.Language, err = ttxValue(sub.Language).Int(); err != nil {
				return nil, err
			}
		}
		s.Map = make(map[int]string, len(sub.Maps))
		for _, m := range sub.Maps {
			code, err := ttxValue(m.Code).Int()
			if err != nil {
				return nil, err
			}
			s.Map[code] = m.Name
		}
		exp = append(exp, s)
	}
	return exp, nil
}

func (el ttxElement) post(exp *ExpectedFont) error {
	var p ttxPost
	if err := el.decode(&p); err != nil {
		return err
	}
	exp.PostFormat = p.FormatType.Value
	if len(p.PSNames) > 0 {
		exp.PostPSNames = make(map[string]string, len(p.PSNames))
		for _, n := range p.PSNames {
			exp.PostPSNames[n.Name] = n.PSName
		}
	}
	for _, n := range p.ExtraNames {
		exp.PostExtra = append(exp.PostExtra, n.Name)
	}
	return nil
}

type ttxGlyphOrder struct {
	IDs []struct {
		ID   int    `xml:"id,attr"`
		Name string `xml:"name,attr"`
	} `xml:"GlyphID"`
}

type ttxFields struct {
	Fields []ttxField `xml:",any"`
}

type ttxField struct {
	XMLName xml.Name
	Value   string `xml:"value,attr"`
}

type ttxName struct {
	Records []ttxNameRecord `xml:"namerecord"`
}

type ttxNameRecord struct {
	NameID     string `xml:"nameID,attr"`
	PlatformID string `xml:"platformID,attr"`
	PlatEncID  string `xml:"platEncID,attr"`
	LangID     string `xml:"langID,attr"`
	Unicode    string `xml:"unicode,attr"`
	Text       string `xml:",chardata"`
}

type ttxCMap struct {
	Subtables []ttxCMapSubtable `xml:",any"`
}

type ttxCMapSubtable struct {
	XMLName    xml.Name
	Format     string `xml:"format,attr"`
	PlatformID string `xml:"platformID,attr"`
	PlatEncID  string `xml:"platEncID,attr"`
	Language   string `xml:"language,attr"`
	Maps       []struct {
		Code string `xml:"code,attr"`
		Name string `xml:"name,attr"`
	} `xml:"map"`
}

type ttxPost struct {
	FormatType struct {
		Value string `xml:"value,attr"`
	} `xml:"formatType"`
	PSNames []struct {
		Name   string `xml:"name,attr"`
		PSName string `xml:"psName,attr"`
	} `xml:"psNames>psName"`
	ExtraNames []struct {
		Name string `xml:"name,attr"`
	} `xml:"extraNames>psName"`
}

type ttxHexTable struct {
	HexData *string `xml:"hexdata"`
}

// ttxValue is a numeric attribute in decimal or 0x-prefixed hex notation.
type ttxValue string

func (v ttxValue) Int() (int, error) {
	if v == "" {
		return 0, fmt.Errorf("missing value")
	}
	s := string(v)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		n, err := strconv.ParseInt(s[2:], 16, 64)
		return int(n), err
	}
	return strconv.Atoi(s)
}
