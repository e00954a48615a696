package label

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ehr/spl/internal/platform/kg"
	"github.com/ehr/spl/internal/platform/spl"
)

var (
	ErrNotFound = errors.New("label not found")
	ErrNoSetID  = errors.New("record has no set id")
)

// Label is the stored summary of one version of an SPL document. The full
// normalized record is kept next to it.
type Label struct {
	ID            uuid.UUID `json:"id"`
	SetID         string    `json:"set_id"`
	VersionNumber int       `json:"version_number"`
	DocumentID    *string   `json:"document_id"`
	DocumentType  string    `json:"document_type"`
	Title         *string   `json:"title"`
	EffectiveTime *string   `json:"effective_time"`
	LabelerName   *string   `json:"labeler_name"`
	InputFilename string    `json:"input_filename"`
	ProductCount  int       `json:"product_count"`
	SectionCount  int       `json:"section_count"`
	GraphRoot     string    `json:"graph_root"`
	IngestedAt    time.Time `json:"ingested_at"`
}

// NewLabel summarizes rec. A record without a set id cannot be stored
// because versions are keyed by it. A missing version number is stored as 0.
func NewLabel(rec *spl.Record) (*Label, error) {
	if rec == nil || rec.SPL.SetID.Root == nil {
		return nil, ErrNoSetID
	}
	l := &Label{
		ID:            uuid.New(),
		SetID:         *rec.SPL.SetID.Root,
		DocumentID:    rec.SPL.DocumentID.Root,
		DocumentType:  string(rec.SPL.DocumentType),
		Title:         rec.SPL.Title,
		EffectiveTime: rec.SPL.EffectiveTime,
		LabelerName:   rec.Labeler.Name,
		InputFilename: rec.Source.InputFilename,
		ProductCount:  len(rec.Products),
		SectionCount:  len(rec.Sections),
		GraphRoot:     kg.LabelVersionID(rec),
	}
	if rec.SPL.VersionNumber != nil {
		l.VersionNumber = *rec.SPL.VersionNumber
	}
	return l, nil
}

// ListFilter narrows List. Empty fields match everything.
type ListFilter struct {
	DocumentType string
}

type productRow struct {
	ID                uuid.UUID
	Position          int
	ProductName       *string
	GenericName       *string
	ProductNDC        *string
	RxOTCFlag         string
	MarketingCategory *string
	ApplicationNumber *string
}

type sectionRow struct {
	ID       uuid.UUID
	Position int
	Code     *string
	Title    *string
	Plain    string
}

func productRows(rec *spl.Record) []productRow {
	rows := make([]productRow, 0, len(rec.Products))
	for i, p := range rec.Products {
		row := productRow{
			ID:                uuid.New(),
			Position:          i,
			ProductName:       p.ProductName,
			GenericName:       p.GenericName,
			RxOTCFlag:         string(p.Regulatory.RxOTCFlag),
			MarketingCategory: p.Regulatory.MarketingCategory,
			ApplicationNumber: p.Regulatory.ApplicationNumber,
		}
		if len(p.NDC.ProductNDCs) > 0 {
			ndc := p.NDC.ProductNDCs[0]
			row.ProductNDC = &ndc
		}
		rows = append(rows, row)
	}
	return rows
}

func sectionRows(rec *spl.Record) []sectionRow {
	rows := make([]sectionRow, 0, len(rec.Sections))
	for i, s := range rec.Sections {
		row := sectionRow{ID: uuid.New(), Position: i, Code: s.Code, Title: s.Title}
		if s.TextPlain != nil {
			row.Plain = *s.TextPlain
		}
		rows = append(rows, row)
	}
	return rows
}
