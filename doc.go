/*
Package ttx converts binary fonts to TTX, an XML representation of their
tables, and compiles TTX documents back into binary fonts.

The document format follows the one established by fontTools' ttx tool:
a <ttFont> root element, the glyph order, and one element per font table.
Tables this module knows about (head, hhea, maxp, name, cmap, post) are
rendered field by field; all other tables are rendered as hex dumps and
reconstructed from them.

The entry point is a Processor:

	p := ttx.NewProcessor(nil)
	res := p.DumpToTTX(fontBytes, ttx.DefaultOptions())
	if !res.Success {
	    // res.Warnings tells what went wrong
	}

Processor operations never panic on malformed input. Failure is reported
by Result.Success together with a list of warnings.

# Status

Reads TrueType and CFF flavoured sfnt files, TrueType collections and
WOFF 1.0. WOFF2 is recognized but not decoded. Writes sfnt, collections
and WOFF 1.0.

# Links

TTX format: https://fonttools.readthedocs.io/en/latest/ttx.html

OpenType explained:
https://docs.microsoft.com/en-us/typography/opentype/

______________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package ttx

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'ttx'
func tracer() tracing.Trace {
	return tracing.Select("ttx")
}
