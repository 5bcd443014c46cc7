/*
Package ttxml contains the XML plumbing for TTX documents.

TTX is a line-oriented XML dialect: every element sits on a line of its own,
nested elements are indented by two blanks, and most leaf values are
given as value attributes of empty elements. Writer produces exactly this
layout. For reading, documents are parsed into a small element tree which
can be queried with XPath (see Select), courtesy of

	github.com/antchfx/xpath

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package ttxml

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'ttx.xml'
func tracer() tracing.Trace {
	return tracing.Select("ttx.xml")
}
