package ot

import (
	"fmt"
	"math"

	"github.com/npillmayer/ttx/ttxml"
)

// fieldReader reads <name value="..."/> children of a table element.
// Missing fields read as zero; the first malformed value is kept in err
// and makes all further reads no-ops.
type fieldReader struct {
	el  *ttxml.Element
	tag Tag
	err error
}

func (fr *fieldReader) value(name string) (string, bool) {
	if fr.err != nil {
		return "", false
	}
	return fr.el.ChildValue(name)
}

func (fr *fieldReader) fail(name, v string, err error) {
	if fr.err == nil {
		fr.err = fmt.Errorf("%s: invalid value %q for %s: %w", fr.tag, v, name, err)
	}
}

func (fr *fieldReader) uint(name string, bits int) uint64 {
	v, ok := fr.value(name)
	if !ok {
		return 0
	}
	n, err := ParseNumber(v)
	if err == nil && (n < 0 || uint64(n) > uint64(math.MaxUint64)>>(64-bits)) {
		err = fmt.Errorf("out of range for %d bits", bits)
	}
	if err != nil {
		fr.fail(name, v, err)
		return 0
	}
	return uint64(n)
}

func (fr *fieldReader) int(name string, bits int) int64 {
	v, ok := fr.value(name)
	if !ok {
		return 0
	}
	n, err := ParseNumber(v)
	limit := int64(1) << (bits - 1)
	if err == nil && (n < -limit || n >= limit) {
		// unsigned notation of a negative value, e.g. 0xFFFF for -1, is accepted
		if n >= limit && n < 2*limit {
			n -= 2 * limit
		} else {
			err = fmt.Errorf("out of range for %d bits", bits)
		}
	}
	if err != nil {
		fr.fail(name, v, err)
		return 0
	}
	return n
}

func (fr *fieldReader) fixed(name string) int32 {
	v, ok := fr.value(name)
	if !ok {
		return 0
	}
	n, err := StringToFixed(v, 16)
	if err != nil {
		fr.fail(name, v, err)
	}
	return n
}

func (fr *fieldReader) flags(name string) uint16 {
	v, ok := fr.value(name)
	if !ok {
		return 0
	}
	n, err := ParseBinaryFlags(v)
	if err != nil {
		fr.fail(name, v, err)
	}
	return n
}

func (fr *fieldReader) timestamp(name string) int64 {
	v, ok := fr.value(name)
	if !ok {
		return 0
	}
	n, err := TimestampFromString(v)
	if err != nil {
		fr.fail(name, v, err)
	}
	return n
}
