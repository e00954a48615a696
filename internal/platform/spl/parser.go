package spl

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html/charset"
)

// DefaultDataset is stamped into source.dataset unless WithDataset is used.
const DefaultDataset = "DailyMed"

// Format is the source.format value of every record.
const Format = "SPL"

// Parser converts SPL documents into normalized records. It is safe for
// concurrent use because it holds no mutable state.
type Parser struct {
	dataset string
	now     func() time.Time
}

// Option configures a Parser.
type Option func(*Parser)

// WithDataset sets the source.dataset value.
func WithDataset(name string) Option {
	return func(p *Parser) {
		if name != "" {
			p.dataset = name
		}
	}
}

// WithClock replaces the clock used for source.parsed_at. Records parsed
// with a fixed clock are byte-identical across runs.
func WithClock(now func() time.Time) Option {
	return func(p *Parser) {
		if now != nil {
			p.now = now
		}
	}
}

// NewParser creates a new SPL parser.
func NewParser(opts ...Option) *Parser {
	p := &Parser{dataset: DefaultDataset, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse reads one SPL document. filename is recorded in the source block
// and used as the classification fallback; it may be empty. The only error
// returned is *MalformedInputError: every extraction step degrades to null
// or empty values instead of failing.
func (p *Parser) Parse(xmlData []byte, filename string) (rec *Record, err error) {
	if len(bytes.TrimSpace(xmlData)) == 0 {
		return nil, &MalformedInputError{Filename: filename, Err: ErrEmptyInput}
	}

	doc, err := decode(xmlData)
	if err != nil {
		return nil, &MalformedInputError{Filename: filename, Err: err}
	}

	defer func() {
		if r := recover(); r != nil {
			rec = nil
			err = &MalformedInputError{Filename: filename, Err: fmt.Errorf("spl: extraction failed: %v", r)}
		}
	}()
	return p.assemble(doc, filename), nil
}

func decode(xmlData []byte) (*documentElement, error) {
	var doc documentElement
	dec := xml.NewDecoder(bytes.NewReader(xmlData))
	dec.CharsetReader = charset.NewReaderLabel
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("spl: failed to parse XML: %w", err)
	}
	return &doc, nil
}

func (p *Parser) assemble(doc *documentElement, filename string) *Record {
	docType := ClassifyDocument(doc.Code, filename)

	rec := &Record{
		Source: Source{
			Dataset:       p.dataset,
			Format:        Format,
			InputFilename: baseName(filename),
			ParsedAt:      p.now().UTC().Format(time.RFC3339),
			ParserVersion: ParserVersion,
		},
		SPL:      extractMetadata(doc, docType),
		Labeler:  extractLabeler(doc),
		Products: extractProducts(doc, docType),
		Sections: extractSections(doc),
	}
	rec.Derived = buildDerived(rec)
	return rec
}

func extractMetadata(doc *documentElement, docType DocumentType) SPLMetadata {
	m := SPLMetadata{DocumentType: docType}
	if doc.ID != nil {
		m.DocumentID.Root = nullable(doc.ID.Root)
		m.DocumentID.Extension = nullable(doc.ID.Extension)
	}
	if doc.SetID != nil {
		m.SetID.Root = nullable(doc.SetID.Root)
	}
	if doc.VersionNumber != nil {
		m.VersionNumber = parseVersion(doc.VersionNumber.Value)
	}
	m.EffectiveTime = effectiveDate(doc.EffectiveTime)
	m.Title = nullable(markupText(doc.Title, true))
	return m
}

// parseVersion accepts positive integers only.
func parseVersion(s string) *int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < 1 {
		return nil
	}
	return &v
}

// effectiveDate reduces an HL7 timestamp (value or low bound) to its
// 8-digit YYYYMMDD date.
func effectiveDate(t *timeElement) *string {
	if t == nil {
		return nil
	}
	v := strings.TrimSpace(t.Value)
	if v == "" && t.Low != nil {
		v = strings.TrimSpace(t.Low.Value)
	}
	if len(v) < 8 {
		return nil
	}
	date := v[:8]
	for _, c := range date {
		if c < '0' || c > '9' {
			return nil
		}
	}
	return &date
}

func baseName(filename string) string {
	if filename == "" {
		return ""
	}
	return filepath.Base(filename)
}

// MissingFields lists the optional document-level fields a record lacks,
// as dotted paths. Absent fields are not errors; callers may log them.
func MissingFields(rec *Record) []string {
	var missing []string
	check := func(path string, absent bool) {
		if absent {
			missing = append(missing, path)
		}
	}

	check("spl.document_id", rec.SPL.DocumentID.Root == nil)
	check("spl.set_id", rec.SPL.SetID.Root == nil)
	check("spl.version_number", rec.SPL.VersionNumber == nil)
	check("spl.effective_time", rec.SPL.EffectiveTime == nil)
	check("spl.title", rec.SPL.Title == nil)
	check("spl.document_type", rec.SPL.DocumentType == DocumentUnknown)
	check("labeler.name", rec.Labeler.Name == nil)

	for i, p := range rec.Products {
		prefix := fmt.Sprintf("products[%d].", i)
		check(prefix+"product_name", p.ProductName == nil)
		check(prefix+"ndc", len(p.NDC.ProductNDCs) == 0 && len(p.NDC.PackageNDCs) == 0)
		check(prefix+"ingredients", len(p.Ingredients) == 0)
	}
	return missing
}
