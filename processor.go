package ttx

import (
	"fmt"
	"strings"
	"time"

	"github.com/npillmayer/schuko"
	"github.com/npillmayer/ttx/ot"
)

// Configuration keys read by NewProcessor.
const (
	ConfigLibVersion = "ttx.ttlib-version" // ttLibVersion attribute of TTX output
	ConfigFlavor     = "ttx.flavor"        // default output format of compilation
)

// Result is the outcome of a conversion. If Success is false, Warnings
// tells why; Data is empty in this case.
type Result struct {
	Data     []byte
	Format   ot.Format
	Warnings []string
	Success  bool
}

// Info describes a font file.
type Info struct {
	Format    ot.Format   `json:"format"`
	Tables    []string    `json:"tables"`
	Metadata  ot.Metadata `json:"metadata"`
	FontCount int         `json:"fontCount"`
}

// Processor combines a font reader, a TTX writer and a TTX parser into the
// operations needed for converting fonts to TTX and back.
//
// Operations never panic. Malformed input results in Success=false and
// explanatory warnings.
//
// A Processor must not be used from more than one goroutine at a time;
// create one processor per goroutine instead.
type Processor struct {
	reader *ot.Reader
	writer *Writer
	parser *Parser
	flavor string
}

// NewProcessor creates a processor. conf may be nil, selecting defaults
// for all configuration keys.
func NewProcessor(conf schuko.Configuration) *Processor {
	p := &Processor{
		reader: ot.NewReader(),
		writer: NewWriter(DefaultLibVersion),
		parser: NewParser(),
	}
	if conf != nil {
		if v := conf.GetString(ConfigLibVersion); v != "" {
			p.writer.LibVersion = v
		}
		p.flavor = conf.GetString(ConfigFlavor)
	}
	return p
}

// SetClock replaces the clock used for recalculated timestamps.
func (p *Processor) SetClock(now func() time.Time) {
	p.parser.Now = now
}

// DetectFormat identifies the format of data from its first bytes.
func (p *Processor) DetectFormat(data []byte) ot.Format {
	return ot.Detect(data)
}

// FontInfo loads a font file and describes it. If the file cannot be
// loaded, a zero Info is returned.
func (p *Processor) FontInfo(data []byte, opts Options) (info Info) {
	defer func() {
		if r := recover(); r != nil {
			tracer().Errorf("font info: recovered from panic: %v", r)
			info = Info{Tables: []string{}}
		}
	}()
	if err := p.load(data, opts); err != nil {
		return Info{Tables: []string{}}
	}
	info = Info{
		Format:    p.reader.Format(),
		Tables:    tagStrings(p.reader.Tables()),
		FontCount: p.reader.FontCount(),
	}
	if f := p.reader.Font(); f != nil {
		info.Metadata = f.Metadata()
	}
	return info
}

// DumpToTTX converts a binary font to a TTX document.
func (p *Processor) DumpToTTX(data []byte, opts Options) (res Result) {
	defer recoverResult(&res)
	res.Format = ot.FormatTTX
	if err := p.load(data, opts); err != nil {
		return failure(res.Format, p.reader.Messages(), err)
	}
	res.Warnings = append(res.Warnings, p.reader.Messages()...)
	for i, f := range p.reader.Fonts() {
		if f.TableCount() == 0 {
			return failure(res.Format, res.Warnings, fmt.Errorf("font %d has no readable tables", i))
		}
	}
	doc, err := p.writer.ConvertToXML(p.reader, opts)
	res.Warnings = append(res.Warnings, p.writer.Warnings()...)
	if err != nil {
		return failure(res.Format, res.Warnings, err)
	}
	res.Data, res.Success = []byte(doc), true
	return res
}

// CompileFromTTX compiles a TTX document into a binary font. The output
// format is selected by opts.Flavor, defaulting to the configured flavor.
//
// If opts.MergeFont holds a binary font, the document's tables are merged
// into it: tables missing from the document are taken from the merge font.
// For collections, opts.FontNumber selects the merge font, else the first
// font of the collection is used.
func (p *Processor) CompileFromTTX(doc string, opts Options) (res Result) {
	defer recoverResult(&res)
	if opts.Flavor == "" {
		opts.Flavor = p.flavor
	}
	if len(opts.MergeFont) > 0 {
		if err := p.load(opts.MergeFont, opts); err != nil {
			return failure(ot.FormatUnknown, p.reader.Messages(), fmt.Errorf("merge font: %w", err))
		}
		base := p.reader.Font()
		if err := p.parser.MergeXML(strings.NewReader(doc), base, opts); err != nil {
			return failure(ot.FormatUnknown, p.parser.Warnings(), err)
		}
		res = p.generate(opts)
		res.Warnings = append(p.reader.Messages(), res.Warnings...)
		return res
	}
	if err := p.parser.ParseXML(strings.NewReader(doc), opts); err != nil {
		return failure(ot.FormatUnknown, p.parser.Warnings(), err)
	}
	return p.generate(opts)
}

func (p *Processor) generate(opts Options) Result {
	data, format, err := p.parser.GenerateFont(opts)
	if err != nil {
		return failure(format, p.parser.Warnings(), err)
	}
	return Result{
		Data:     data,
		Format:   format,
		Warnings: p.parser.Warnings(),
		Success:  true,
	}
}

// ListTables returns the tags of the tables of a font file in canonical
// order, filtered by opts. It returns an empty list if the file cannot be
// loaded.
func (p *Processor) ListTables(data []byte, opts Options) (tags []string) {
	defer func() {
		if r := recover(); r != nil {
			tracer().Errorf("list tables: recovered from panic: %v", r)
			tags = []string{}
		}
	}()
	tags = []string{}
	if err := p.load(data, opts); err != nil {
		return tags
	}
	for _, tag := range p.reader.Tables() {
		if opts.IncludeTable(tag) {
			tags = append(tags, tag.String())
		}
	}
	return tags
}

func (p *Processor) load(data []byte, opts Options) error {
	p.reader.IgnoreDecompileErrors = opts.IgnoreDecompileErrors
	err := p.reader.Load(data, opts.FontNumber)
	if err != nil {
		tracer().Infof("cannot load font: %v", err)
	}
	return err
}

func tagStrings(tags []ot.Tag) []string {
	s := make([]string, len(tags))
	for i, t := range tags {
		s[i] = t.String()
	}
	return s
}

// failure creates an unsuccessful result. The error message is added to
// the warnings unless it is already part of them.
func failure(format ot.Format, warnings []string, err error) Result {
	msg := err.Error()
	res := Result{Format: format, Warnings: append([]string(nil), warnings...)}
	for _, w := range res.Warnings {
		if strings.Contains(w, msg) {
			return res
		}
	}
	res.Warnings = append(res.Warnings, msg)
	return res
}

// recoverResult turns a panic into an unsuccessful result.
func recoverResult(res *Result) {
	if r := recover(); r != nil {
		tracer().Errorf("recovered from panic: %v", r)
		*res = Result{
			Format:   res.Format,
			Warnings: append(res.Warnings, fmt.Sprintf("internal error: %v", r)),
		}
	}
}
