package ot

import (
	"errors"
	"fmt"
)

// Errors returned by the loading and compiling functions of this package.
// They are wrapped with additional context; test for them with errors.Is.
var (
	ErrUnsupportedFormat = errors.New("unsupported font format")
	ErrCorruptFont       = errors.New("corrupt font data")
	ErrTableTooShort     = errors.New("table too short")
)

// errFontFormat produces user level errors for corrupt font data.
func errFontFormat(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCorruptFont, fmt.Sprintf(format, args...))
}

// ErrorSeverity grades the problems found while loading a font.
type ErrorSeverity int

const (
	SeverityCritical ErrorSeverity = iota // the font could not be loaded at all
	SeverityMajor                         // a table had to be dropped
	SeverityMinor                         // a detail was repaired or ignored
)

var severityNames = [...]string{"CRITICAL", "MAJOR", "MINOR"}

func (s ErrorSeverity) String() string {
	if s < 0 || int(s) >= len(severityNames) {
		return "UNKNOWN"
	}
	return severityNames[s]
}

// FontError is a problem found while loading a font. Table is 0 for problems
// of the container as a whole. Offset is the byte position in the font file,
// if known, else 0.
type FontError struct {
	Table    Tag
	Section  string // part of the file, e.g. "Directory" or "Decode"
	Issue    string
	Severity ErrorSeverity
	Offset   uint32
	Cause    error // underlying error, if any
}

func (e FontError) Error() string {
	return fmt.Sprintf("[%s] %s/%s%s: %s", e.Severity, e.Table, e.Section, atOffset(e.Offset), e.Issue)
}

// Unwrap makes the cause of a dropped table accessible to errors.Is.
func (e FontError) Unwrap() error {
	return e.Cause
}

// FontWarning is a problem which did not cost any data, e.g. a checksum
// mismatch.
type FontWarning struct {
	Table  Tag
	Issue  string
	Offset uint32
}

func (w FontWarning) String() string {
	return fmt.Sprintf("[WARNING] %s%s: %s", w.Table, atOffset(w.Offset), w.Issue)
}

func atOffset(offset uint32) string {
	if offset == 0 {
		return ""
	}
	return fmt.Sprintf(" at offset %d", offset)
}

// diagnostics collects the problems of a single load.
type diagnostics struct {
	errors   []FontError
	warnings []FontWarning
}

// fatal records the reason why a font could not be loaded.
func (d *diagnostics) fatal(section string, err error) {
	tracer().Errorf("%s: %v", section, err)
	d.errors = append(d.errors, FontError{
		Section:  section,
		Issue:    err.Error(),
		Severity: SeverityCritical,
		Cause:    err,
	})
}

// drop records that a table had to be left out.
func (d *diagnostics) drop(table Tag, section string, offset uint32, err error) {
	tracer().Errorf("table '%s' dropped: %v", table, err)
	d.errors = append(d.errors, FontError{
		Table:    table,
		Section:  section,
		Issue:    "table dropped: " + err.Error(),
		Severity: SeverityMajor,
		Offset:   offset,
		Cause:    err,
	})
}

func (d *diagnostics) warn(table Tag, offset uint32, format string, args ...any) {
	w := FontWarning{Table: table, Issue: fmt.Sprintf(format, args...), Offset: offset}
	tracer().Infof("%s", w)
	d.warnings = append(d.warnings, w)
}

// lines renders all diagnostics, errors first.
func (d *diagnostics) lines() []string {
	lines := make([]string, 0, len(d.errors)+len(d.warnings))
	for _, e := range d.errors {
		lines = append(lines, e.Error())
	}
	for _, w := range d.warnings {
		lines = append(lines, w.String())
	}
	return lines
}
