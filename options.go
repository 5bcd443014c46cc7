package ttx

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/npillmayer/ttx/ot"
)

// Options guide a single conversion. They are usually decoded from JSON,
// see ParseOptions; unknown keys are ignored.
type Options struct {
	OnlyTables              []string `json:"onlyTables"`
	SkipTables              []string `json:"skipTables"`
	SplitTables             bool     `json:"splitTables"`             // accepted, ignored
	SplitGlyphs             bool     `json:"splitGlyphs"`             // accepted, ignored
	DisassembleInstructions bool     `json:"disassembleInstructions"` // accepted, ignored
	FontNumber              int      `json:"fontNumber"`              // font of a collection, -1 for all
	Flavor                  string   `json:"flavor"`                  // output format of compilation
	RecalcBBoxes            bool     `json:"recalcBBoxes"`            // accepted, ignored
	RecalcTimestamp         bool     `json:"recalcTimestamp"`
	IgnoreDecompileErrors   bool     `json:"ignoreDecompileErrors"`
	MergeFont               []byte   `json:"mergeFont,omitempty"` // base font for compilation, base64 in JSON
}

// DefaultOptions returns options which include all tables of all fonts.
func DefaultOptions() Options {
	return Options{FontNumber: -1}
}

// ParseOptions decodes options from JSON. Empty input yields the defaults.
func ParseOptions(js string) (Options, error) {
	opts := DefaultOptions()
	if js == "" {
		return opts, nil
	}
	if err := json.Unmarshal([]byte(js), &opts); err != nil {
		return DefaultOptions(), fmt.Errorf("invalid options: %w", err)
	}
	return opts, nil
}

// IncludeTable decides whether a table takes part in a conversion.
// SkipTables is applied first; if OnlyTables is non-empty, the remaining
// tables are intersected with it. A table named in both lists is excluded.
//
// Table names are tags as in the font ("cvt ", "OS/2"); names with trailing
// spaces stripped are accepted as well.
func (o Options) IncludeTable(tag ot.Tag) bool {
	if containsTag(o.SkipTables, tag) {
		return false
	}
	if len(o.OnlyTables) > 0 {
		return containsTag(o.OnlyTables, tag)
	}
	return true
}

func containsTag(names []string, tag ot.Tag) bool {
	return slices.ContainsFunc(names, func(name string) bool {
		return ot.T(name) == tag
	})
}
