package ttxml

import (
	"fmt"
	"strings"

	"github.com/antchfx/xpath"
)

// Navigator implements xpath.NodeNavigator for a tree of Elements.
//
// Character data is not exposed as separate text nodes; the value of an
// element node is the concatenated character data of its subtree.
// For a description of the methods please refer to the documentation of
// github.com/antchfx/xpath.
type Navigator struct {
	root, current *Element
	attr          int // attributes index, -1 if positioned on an element
}

// NewNavigator creates a navigator for the document which el is part of.
// The navigator starts at el.
func NewNavigator(el *Element) *Navigator {
	root := el
	for root.parent != nil {
		root = root.parent
	}
	return &Navigator{root: root, current: el, attr: -1}
}

// Current returns the element the navigator is positioned on.
func (nav *Navigator) Current() *Element {
	return nav.current
}

func (nav *Navigator) NodeType() xpath.NodeType {
	if nav.attr != -1 {
		return xpath.AttributeNode
	}
	if nav.current.parent == nil {
		return xpath.RootNode
	}
	return xpath.ElementNode
}

func (nav *Navigator) LocalName() string {
	if nav.attr != -1 {
		return nav.current.Attrs[nav.attr].Name
	}
	return nav.current.Name
}

func (*Navigator) Prefix() string {
	return ""
}

func (nav *Navigator) Value() string {
	if nav.attr != -1 {
		return nav.current.Attrs[nav.attr].Value
	}
	var sb strings.Builder
	innerText(nav.current, &sb)
	return sb.String()
}

func innerText(el *Element, sb *strings.Builder) {
	sb.WriteString(el.Text)
	for _, c := range el.Children {
		innerText(c, sb)
	}
}

func (nav *Navigator) Copy() xpath.NodeNavigator {
	n := *nav
	return &n
}

func (nav *Navigator) MoveToRoot() {
	nav.current = nav.root
	nav.attr = -1
}

func (nav *Navigator) MoveToParent() bool {
	if nav.attr != -1 {
		nav.attr = -1 // move from attributes to element
		return true
	}
	if nav.current.parent == nil {
		return false
	}
	nav.current = nav.current.parent
	return true
}

func (nav *Navigator) MoveToNextAttribute() bool {
	if nav.attr >= len(nav.current.Attrs)-1 {
		return false
	}
	nav.attr++
	return true
}

func (nav *Navigator) MoveToChild() bool {
	if nav.attr != -1 || len(nav.current.Children) == 0 {
		return false
	}
	nav.current = nav.current.Children[0]
	return true
}

func (nav *Navigator) MoveToFirst() bool {
	if nav.attr != -1 || nav.current.parent == nil {
		return false
	}
	first := nav.current.parent.Children[0]
	if first == nav.current {
		return false
	}
	nav.current = first
	return true
}

func (nav *Navigator) MoveToNext() bool {
	if nav.attr != -1 {
		return false
	}
	i, siblings := nav.position()
	if i < 0 || i+1 >= len(siblings) {
		return false
	}
	nav.current = siblings[i+1]
	return true
}

func (nav *Navigator) MoveToPrevious() bool {
	if nav.attr != -1 {
		return false
	}
	i, siblings := nav.position()
	if i <= 0 {
		return false
	}
	nav.current = siblings[i-1]
	return true
}

func (nav *Navigator) MoveTo(other xpath.NodeNavigator) bool {
	o, ok := other.(*Navigator)
	if !ok || o.root != nav.root {
		return false
	}
	nav.current = o.current
	nav.attr = o.attr
	return true
}

func (nav *Navigator) String() string {
	return nav.Value()
}

// position returns the index of the current element among its siblings.
func (nav *Navigator) position() (int, []*Element) {
	p := nav.current.parent
	if p == nil {
		return -1, nil
	}
	for i, c := range p.Children {
		if c == nav.current {
			return i, p.Children
		}
	}
	return -1, nil
}

// --- Queries ---------------------------------------------------------------

// Select evaluates an XPath expression relative to el and returns the
// matching elements in document order. Attribute matches are reported
// as their owning elements.
func Select(el *Element, expr string) ([]*Element, error) {
	x, err := xpath.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("ttxml: invalid xpath %q: %w", expr, err)
	}
	var result []*Element
	iter := x.Select(NewNavigator(el))
	for iter.MoveNext() {
		nav, ok := iter.Current().(*Navigator)
		if !ok {
			continue
		}
		result = append(result, nav.current)
	}
	return result, nil
}

// MustSelect is like Select, but panics on invalid expressions. It is meant
// for expressions which are constants in the program.
func MustSelect(el *Element, expr string) []*Element {
	result, err := Select(el, expr)
	if err != nil {
		panic(err)
	}
	return result
}

// Evaluate evaluates an XPath expression yielding a scalar value, such as
// count(/ttFont/*) or string(/ttFont/@sfntVersion).
func Evaluate(el *Element, expr string) (any, error) {
	x, err := xpath.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("ttxml: invalid xpath %q: %w", expr, err)
	}
	return x.Evaluate(NewNavigator(el)), nil
}
