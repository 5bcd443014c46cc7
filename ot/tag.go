package ot

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Tag is a table identifier of four bytes, read as a big-endian uint32.
// Tags are usually printable ASCII, padded with blanks ("cvt ").
type Tag uint32

// MakeTag creates a Tag from the first four bytes of b. Shorter input is
// preceded by zero bytes.
//
//	MakeTag([]byte("cmap"))
func MakeTag(b []byte) Tag {
	if b == nil {
		b = []byte{0, 0, 0, 0}
	} else if len(b) > 4 {
		b = b[:4]
	} else if len(b) < 4 {
		b = append([]byte{0, 0, 0, 0}[:4-len(b)], b...)
	}
	return Tag(u32(b))
}

// T returns a Tag from a (4-letter) string.
// If t is shorter or longer, it will be silently extended or cut as appropriate.
// Short tags are padded with spaces, as in 'cvt '.
func T(t string) Tag {
	t = (t + "    ")[:4]
	return Tag(u32([]byte(t)))
}

func (t Tag) String() string {
	return string(t.Bytes())
}

// Bytes returns the 4 bytes of t.
func (t Tag) Bytes() []byte {
	return []byte{
		byte(t >> 24 & 0xff),
		byte(t >> 16 & 0xff),
		byte(t >> 8 & 0xff),
		byte(t & 0xff),
	}
}

// --- XML names for tags ----------------------------------------------------

var plainTagName = regexp.MustCompile(`^[A-Za-z_][A-Za-z_0-9]* *$`)

// XMLName returns the element name used for table t in TTX documents.
// Tags which are valid XML names are used as is, minus trailing blanks
// ('cvt ' becomes "cvt"). 'OS/2' is spelled "OS_2". All other tags are
// escaped character by character: lowercase letters and digits
// get an underscore prefix, uppercase letters an underscore suffix, and
// anything else, blanks included, is written as two hex digits. Escaped
// names therefore always have 8 characters, or 9 if prefixed by an
// underscore, and cannot be mistaken for a plain tag.
func (t Tag) XMLName() string {
	s := t.String()
	if s == "OS/2" {
		return "OS_2"
	}
	if plainTagName.MatchString(s) {
		return strings.TrimRight(s, " ")
	}
	return t.identifier()
}

func (t Tag) identifier() string {
	s := t.String()
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			b.WriteByte('_')
			b.WriteByte(c)
		case c >= 'A' && c <= 'Z':
			b.WriteByte(c)
			b.WriteByte('_')
		default:
			fmt.Fprintf(&b, "%02x", c)
		}
	}
	id := b.String()
	if id != "" && id[0] >= '0' && id[0] <= '9' {
		id = "_" + id
	}
	return id
}

// TagFromXML is the inverse of Tag.XMLName. Names of up to 4 characters
// are plain tags. Longer names are escaped tags; shorter escapes with
// trailing blanks stripped, as written by other tools, are accepted too.
func TagFromXML(name string) (Tag, error) {
	if name == "OS_2" {
		return T("OS/2"), nil
	}
	if len(name) <= 4 {
		return T(name), nil
	}
	return tagFromIdentifier(name)
}

func tagFromIdentifier(id string) (Tag, error) {
	if len(id)%2 == 1 && id[0] == '_' {
		id = id[1:]
	}
	if len(id)%2 == 1 || len(id) > 8 {
		return 0, fmt.Errorf("not a table identifier: %q", id)
	}
	tag := make([]byte, 0, 4)
	for i := 0; i < len(id); i += 2 {
		switch {
		case id[i] == '_':
			tag = append(tag, id[i+1])
		case id[i+1] == '_':
			tag = append(tag, id[i])
		default:
			n, err := strconv.ParseUint(id[i:i+2], 16, 8)
			if err != nil {
				return 0, fmt.Errorf("not a table identifier: %q", id)
			}
			tag = append(tag, byte(n))
		}
	}
	return T(string(tag)), nil
}
