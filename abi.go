package ttx

import (
	"encoding/json"
	"errors"
	"strings"
)

// The functions in this file form a narrow boundary for callers outside of
// Go, e.g. through cgo or WebAssembly exports. Data crosses the boundary as
// bytes, strings and JSON. Every call uses a fresh Processor with default
// configuration, so the functions are safe for concurrent use.

// DetectFormatCode returns the format of data as an integer code:
// 0=unknown, 1=TTF, 2=OTF, 3=WOFF, 4=WOFF2, 5=TTC, 6=TTX.
func DetectFormatCode(data []byte) int {
	return int(NewProcessor(nil).DetectFormat(data))
}

// FontInfoJSON describes data as a JSON object with keys format, tables,
// metadata and fontCount.
func FontInfoJSON(data []byte) string {
	info := NewProcessor(nil).FontInfo(data, DefaultOptions())
	js, err := json.Marshal(info)
	if err != nil { // cannot happen for Info
		return `{"format":0,"tables":[]}`
	}
	return string(js)
}

// DumpTTX converts a binary font to TTX. optionsJSON may be empty.
func DumpTTX(data []byte, optionsJSON string) (string, error) {
	opts, err := ParseOptions(optionsJSON)
	if err != nil {
		return "", err
	}
	res := NewProcessor(nil).DumpToTTX(data, opts)
	if !res.Success {
		return "", resultError(res)
	}
	return string(res.Data), nil
}

// CompileTTX compiles a TTX document into a binary font. optionsJSON may be
// empty.
func CompileTTX(ttx string, optionsJSON string) ([]byte, error) {
	opts, err := ParseOptions(optionsJSON)
	if err != nil {
		return nil, err
	}
	res := NewProcessor(nil).CompileFromTTX(ttx, opts)
	if !res.Success {
		return nil, resultError(res)
	}
	return res.Data, nil
}

// ListTablesJSON returns the table tags of a font as a JSON array of strings.
// Invalid options or data yield an empty array.
func ListTablesJSON(data []byte, optionsJSON string) string {
	tags := []string{}
	if opts, err := ParseOptions(optionsJSON); err == nil {
		tags = NewProcessor(nil).ListTables(data, opts)
	}
	js, _ := json.Marshal(tags)
	return string(js)
}

func resultError(res Result) error {
	if len(res.Warnings) == 0 {
		return errors.New("conversion failed")
	}
	return errors.New(strings.Join(res.Warnings, "; "))
}
