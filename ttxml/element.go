package ttxml

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Element is a node of a parsed XML document. Comments and processing
// instructions are not retained; character data is collected in Text.
type Element struct {
	Name     string
	Attrs    []Attr
	Children []*Element
	Text     string
	parent   *Element
}

// Parse reads an XML document and returns its root element.
// The root element has a parent node representing the document itself,
// which is the starting point of XPath navigation (see NewNavigator).
func Parse(r io.Reader) (*Element, error) {
	dec := xml.NewDecoder(r)
	doc := &Element{}
	cur := doc
	var text strings.Builder
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			tracer().Errorf("parsing XML: %v", err)
			return nil, fmt.Errorf("ttxml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			el := &Element{Name: t.Name.Local, parent: cur}
			for _, a := range t.Attr {
				el.Attrs = append(el.Attrs, Attr{Name: a.Name.Local, Value: a.Value})
			}
			cur.Text += text.String()
			text.Reset()
			cur.Children = append(cur.Children, el)
			cur = el
		case xml.EndElement:
			cur.Text += text.String()
			text.Reset()
			if cur.parent == nil {
				return nil, errors.New("ttxml: unbalanced end element")
			}
			cur = cur.parent
		case xml.CharData:
			text.Write(t)
		case xml.Directive:
			tracer().Debugf("ignoring directive <!%s>", t)
		case xml.ProcInst:
			if t.Target != "xml" {
				tracer().Debugf("ignoring processing instruction <?%s?>", t.Target)
			}
		}
	}
	if cur != doc {
		return nil, fmt.Errorf("ttxml: element <%s> not closed", cur.Name)
	}
	if len(doc.Children) != 1 {
		return nil, fmt.Errorf("ttxml: document has %d root elements", len(doc.Children))
	}
	return doc.Children[0], nil
}

// Parent returns the parent element, or nil for the document node.
func (e *Element) Parent() *Element {
	return e.parent
}

// Attr returns the value of attribute name.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// AttrOr returns the value of attribute name, or def if e has no such attribute.
func (e *Element) AttrOr(name, def string) string {
	if v, ok := e.Attr(name); ok {
		return v
	}
	return def
}

// Child returns the first child element called name, or nil.
func (e *Element) Child(name string) *Element {
	for _, c := range e.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns all child elements called name, in document order.
func (e *Element) ChildrenNamed(name string) []*Element {
	var cs []*Element
	for _, c := range e.Children {
		if c.Name == name {
			cs = append(cs, c)
		}
	}
	return cs
}

// TrimmedText returns the character data of e without surrounding white space.
func (e *Element) TrimmedText() string {
	return strings.TrimSpace(e.Text)
}

// ChildValue returns the 'value' attribute of the first child called name.
func (e *Element) ChildValue(name string) (string, bool) {
	c := e.Child(name)
	if c == nil {
		return "", false
	}
	return c.Attr("value")
}
