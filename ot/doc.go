/*
Package ot reads and writes the binary tables of OpenType and TrueType fonts,
with the aim of translating them to and from TTX, the XML notation for fonts
popularized by fontTools.

Package ot covers the container level of font files:

▪︎ plain sfnt files (TrueType outlines with version 0x00010000, CFF outlines with 'OTTO')

▪︎ TrueType collections ('ttcf'), where a font number selects one of the fonts

▪︎ WOFF 1.0 web fonts, where tables are compressed with zlib

WOFF2 files are recognized, but not decoded: they need Brotli and a set of
glyph transformations, which is out of scope for this package.

For a handful of tables (head, hhea, maxp, name, cmap, post) package ot knows
the structure and will decode them into fields. Every other table is
carried along as an opaque blob of bytes, dumped as hex data in TTX.
Tables are handled by codecs registered per tag; see RegisterTable.

Fonts from the wild are often broken in small ways. Package ot will not
stop at the first problem, but rather drop the offending table, note
the reason and continue. Clients may inspect the diagnostics
after loading a font (see Reader.Errors and Reader.Warnings).

# Status

The table set is deliberately small. Glyph outlines, hinting instructions and
the advanced layout tables are passed through as binary data.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package ot

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'ttx.ot'
func tracer() tracing.Trace {
	return tracing.Select("ttx.ot")
}
