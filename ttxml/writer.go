package ttxml

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
)

// Attr is a single XML attribute. Attributes are written in the order given.
type Attr struct {
	Name  string
	Value string
}

// A creates an attribute, formatting value with fmt's default verb.
func A(name string, value any) Attr {
	switch v := value.(type) {
	case string:
		return Attr{Name: name, Value: v}
	default:
		return Attr{Name: name, Value: fmt.Sprint(v)}
	}
}

// Writer emits indented XML in the layout of TTX documents.
//
// Indentation is written lazily, on the first output after a newline.
// The first error from the underlying writer is sticky; all later calls
// are no-ops and Err reports it.
type Writer struct {
	out        *bufio.Writer
	indent     int
	indentStr  string
	needIndent bool
	stack      []string
	replaced   int
	err        error
}

// NewWriter creates a writer with an indentation of two blanks per level.
func NewWriter(w io.Writer) *Writer {
	return &Writer{out: bufio.NewWriter(w), indentStr: "  ", needIndent: true}
}

// Err returns the first error encountered.
func (w *Writer) Err() error {
	return w.err
}

// Replaced returns the number of characters which could not be represented
// in XML and have been written as '?'.
func (w *Writer) Replaced() int {
	return w.replaced
}

// Flush writes buffered output to the underlying writer.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	w.err = w.out.Flush()
	return w.err
}

func (w *Writer) raw(s string) {
	if w.err != nil {
		return
	}
	if w.needIndent && s != "" {
		_, w.err = w.out.WriteString(strings.Repeat(w.indentStr, w.indent))
		w.needIndent = false
		if w.err != nil {
			return
		}
	}
	_, w.err = w.out.WriteString(s)
}

// Declaration writes the XML declaration line.
func (w *Writer) Declaration() {
	w.raw(`<?xml version="1.0" encoding="UTF-8"?>`)
	w.Newline()
}

// Newline ends the current line.
func (w *Writer) Newline() {
	if w.err != nil {
		return
	}
	_, w.err = w.out.WriteString("\n")
	w.needIndent = true
}

// Indent increases the indentation level for subsequent lines.
func (w *Writer) Indent() {
	w.indent++
}

// Dedent decreases the indentation level for subsequent lines.
func (w *Writer) Dedent() {
	if w.indent > 0 {
		w.indent--
	}
}

// BeginTag opens an element. The caller is responsible for line breaks.
func (w *Writer) BeginTag(name string, attrs ...Attr) {
	w.stack = append(w.stack, name)
	w.raw("<" + name + w.attrString(attrs) + ">")
}

// EndTag closes the innermost open element, which has to be name.
func (w *Writer) EndTag(name string) {
	if n := len(w.stack); n > 0 && w.stack[n-1] == name {
		w.stack = w.stack[:n-1]
	} else if w.err == nil {
		w.err = fmt.Errorf("ttxml: closing tag %q does not match open element", name)
		return
	}
	w.raw("</" + name + ">")
}

// SimpleTag writes an empty element, as in <unitsPerEm value="1000"/>.
func (w *Writer) SimpleTag(name string, attrs ...Attr) {
	w.raw("<" + name + w.attrString(attrs) + "/>")
}

// Value writes the very common <name value="..."/> element on a line of its own.
func (w *Writer) Value(name string, value any) {
	w.SimpleTag(name, A("value", value))
	w.Newline()
}

// Comment writes an XML comment.
func (w *Writer) Comment(text string) {
	text = strings.ReplaceAll(text, "--", "- -")
	w.raw("<!-- " + w.escape(text, commentMode) + " -->")
}

// Text writes escaped character data.
func (w *Writer) Text(s string) {
	w.raw(w.escape(s, textMode))
}

// DumpHex writes data as lines of lowercase hex, 16 bytes per line,
// in groups of 4 bytes.
func (w *Writer) DumpHex(data []byte) {
	const lineLength, chunk = 16, 4
	for i := 0; i < len(data); i += lineLength {
		line := data[i:min(i+lineLength, len(data))]
		var sb strings.Builder
		for j := 0; j < len(line); j += chunk {
			if j > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(hex.EncodeToString(line[j:min(j+chunk, len(line))]))
		}
		w.raw(sb.String())
		w.Newline()
	}
}

func (w *Writer) attrString(attrs []Attr) string {
	if len(attrs) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, a := range attrs {
		sb.WriteByte(' ')
		sb.WriteString(a.Name)
		sb.WriteString(`="`)
		sb.WriteString(w.escape(a.Value, attrMode))
		sb.WriteByte('"')
	}
	return sb.String()
}

// --- Escaping --------------------------------------------------------------

// EscapeText escapes s for use as character data: '&', '<' and '>' are
// replaced by entities, a carriage return by a character reference.
// Characters which XML 1.0 does not allow at all, e.g. most control
// characters, are replaced by '?'.
func EscapeText(s string) string {
	e, _ := escape(s, textMode)
	return e
}

// EscapeAttr escapes s for use inside a double-quoted attribute value.
// Tabs and line breaks are written as character references, as parsers
// would normalize them to blanks otherwise.
func EscapeAttr(s string) string {
	e, _ := escape(s, attrMode)
	return e
}

type escapeMode int

const (
	textMode escapeMode = iota
	attrMode
	commentMode
)

// escape counts replaced characters and traces them.
func (w *Writer) escape(s string, mode escapeMode) string {
	e, n := escape(s, mode)
	if n > 0 {
		tracer().Infof("%d character(s) not allowed in XML replaced by '?' in %q", n, s)
		w.replaced += n
	}
	return e
}

func escape(s string, mode escapeMode) (string, int) {
	var sb strings.Builder
	replaced := 0
	for _, r := range s {
		switch {
		case !isXMLChar(r):
			sb.WriteByte('?')
			replaced++
		case mode == commentMode:
			sb.WriteRune(r)
		case r == '&':
			sb.WriteString("&amp;")
		case r == '<':
			sb.WriteString("&lt;")
		case r == '>':
			sb.WriteString("&gt;")
		case r == '\r':
			sb.WriteString("&#13;")
		case r == '"' && mode == attrMode:
			sb.WriteString("&quot;")
		case (r == '\n' || r == '\t') && mode == attrMode:
			fmt.Fprintf(&sb, "&#%d;", r)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String(), replaced
}

// isXMLChar implements production [2] Char of XML 1.0.
func isXMLChar(r rune) bool {
	switch {
	case r == 0x09 || r == 0x0A || r == 0x0D:
		return true
	case r < 0x20:
		return false
	case r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	}
	return false
}

// WriteRaw copies pre-rendered XML, usually produced by another Writer,
// to the output. p is expected to end with a newline.
func (w *Writer) WriteRaw(p []byte) {
	if w.err != nil || len(p) == 0 {
		return
	}
	_, w.err = w.out.Write(p)
	w.needIndent = p[len(p)-1] == '\n'
}

// Fork creates a writer to out which starts at the current indentation
// level of w.
func (w *Writer) Fork(out io.Writer) *Writer {
	f := NewWriter(out)
	f.indent = w.indent
	return f
}
