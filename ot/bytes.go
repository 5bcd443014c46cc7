package ot

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
)

// All multi-byte values in sfnt files are big-endian.

func u16(b []byte) uint16 {
	_ = b[1]
	return uint16(b[0])<<8 | uint16(b[1])
}

func u32(b []byte) uint32 {
	_ = b[3]
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func putU16(b []byte, n uint16) {
	_ = b[1]
	b[0], b[1] = byte(n>>8), byte(n)
}

func putU32(b []byte, n uint32) {
	_ = b[3]
	b[0], b[1], b[2], b[3] = byte(n>>24), byte(n>>16), byte(n>>8), byte(n)
}

var errOutOfBounds = errors.New("read beyond end of data")

// binarySegm is a window onto font data. Decoders receive the bytes of a
// table as a binarySegm and read fields at offsets relative to its start.
// The checked accessors (lower case) report reads beyond the window as
// errors; U16 and U32 are for offsets already validated and yield 0 instead.
type binarySegm []byte

func (b binarySegm) U16(i int) uint16 {
	n, _ := b.u16(i)
	return n
}

func (b binarySegm) U32(i int) uint32 {
	n, _ := b.u32(i)
	return n
}

// view returns the n bytes at offset, sharing memory with b.
func (b binarySegm) view(offset, n int) (binarySegm, error) {
	if offset < 0 || n < 0 || offset > len(b) || n > len(b)-offset {
		return nil, fmt.Errorf("%w: [%d:+%d] of %d bytes", errOutOfBounds, offset, n, len(b))
	}
	return b[offset : offset+n], nil
}

func (b binarySegm) u16(i int) (uint16, error) {
	v, err := b.view(i, 2)
	if err != nil {
		return 0, err
	}
	return u16(v), nil
}

func (b binarySegm) i16(i int) (int16, error) {
	n, err := b.u16(i)
	return int16(n), err
}

func (b binarySegm) u32(i int) (uint32, error) {
	v, err := b.view(i, 4)
	if err != nil {
		return 0, err
	}
	return u32(v), nil
}

// i64 reads a LONGDATETIME.
func (b binarySegm) i64(i int) (int64, error) {
	v, err := b.view(i, 8)
	if err != nil {
		return 0, err
	}
	return int64(uint64(u32(v))<<32 | uint64(u32(v[4:]))), nil
}

// copyBytes returns an owned copy of b. Tables never alias the font file.
func copyBytes(b []byte) []byte {
	return append([]byte(nil), b...)
}

// --- Overflow-safe size arithmetic -----------------------------------------

// checkedMulInt multiplies a count from a font file by a record size.
func checkedMulInt(a, b int) (int, error) {
	if a < 0 || b < 0 {
		return 0, fmt.Errorf("negative size: %d * %d", a, b)
	}
	if b != 0 && a > math.MaxInt/b {
		return 0, fmt.Errorf("size overflow: %d * %d", a, b)
	}
	return a * b, nil
}

// checkedAddUint32 adds a length to an offset from a font file.
func checkedAddUint32(a, b uint32) (uint32, error) {
	sum, carry := bits.Add32(a, b, 0)
	if carry != 0 {
		return 0, fmt.Errorf("offset overflow: %d + %d", a, b)
	}
	return sum, nil
}

// --- sfnt layout helpers ---------------------------------------------------

// pad4 rounds n up to the next multiple of 4.
func pad4(n int) int {
	return (n + 3) &^ 3
}

// Checksum calculates the sfnt checksum of b: the sum of its big-endian
// uint32 words, with a shorter tail padded with zeros.
func Checksum(b []byte) uint32 {
	var sum uint32
	n := len(b) &^ 3
	for i := 0; i < n; i += 4 {
		sum += u32(b[i:])
	}
	if n < len(b) {
		var tail [4]byte
		copy(tail[:], b[n:])
		sum += u32(tail[:])
	}
	return sum
}

// searchParams returns searchRange, entrySelector and rangeShift for a binary
// search header over n items of itemSize bytes.
func searchParams(n, itemSize int) (uint16, uint16, uint16) {
	exp := 0
	if n > 0 {
		exp = bits.Len(uint(n)) - 1
	}
	searchRange := (1 << exp) * itemSize
	rangeShift := max(0, n*itemSize-searchRange)
	return uint16(searchRange), uint16(exp), uint16(rangeShift)
}
