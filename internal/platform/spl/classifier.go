package spl

import (
	"path/filepath"
	"strings"
)

// documentTypeCodes maps LOINC document type codes to document families.
var documentTypeCodes = map[string]DocumentType{
	"34391-3": DocumentPrescription, // HUMAN PRESCRIPTION DRUG LABEL
	"50578-4": DocumentPrescription, // PRESCRIPTION ANIMAL DRUG LABEL
	"34390-5": DocumentOTC,          // HUMAN OTC DRUG LABEL
	"50577-6": DocumentOTC,          // OTC ANIMAL DRUG LABEL
	"53409-9": DocumentOther,        // BULK INGREDIENT
	"81203-2": DocumentOther,        // BULK INGREDIENT FOR ANIMAL DRUG COMPOUNDING
	"53404-0": DocumentOther,
}

// displayNameHints are checked in order; the first substring match wins.
var displayNameHints = []struct {
	substr string
	typ    DocumentType
}{
	{"HOMEOPATHIC", DocumentHomeopathic},
	{"PRESCRIPTION", DocumentPrescription},
	{"OVER-THE-COUNTER", DocumentOTC},
	{"OVER THE COUNTER", DocumentOTC},
	{"OTC", DocumentOTC},
	{"BULK", DocumentOther},
	{"DIETARY", DocumentOther},
	{"MEDICAL FOOD", DocumentOther},
}

var filenamePrefixes = []struct {
	prefix string
	typ    DocumentType
}{
	{"prescription_", DocumentPrescription},
	{"otc_", DocumentOTC},
	{"homeopathic_", DocumentHomeopathic},
	{"other_", DocumentOther},
}

// ClassifyDocument returns the document family. The structured type code is
// consulted first; the filename is only used when it yields DocumentUnknown.
func ClassifyDocument(code *codeElement, filename string) DocumentType {
	if t := classifyByCode(code); t != DocumentUnknown {
		return t
	}
	return ClassifyByFilename(filename)
}

// ClassifyByCode classifies from a document type code and display name.
func ClassifyByCode(code, displayName string) DocumentType {
	return classifyByCode(&codeElement{Code: code, DisplayName: displayName})
}

func classifyByCode(code *codeElement) DocumentType {
	if code == nil {
		return DocumentUnknown
	}
	if t, ok := documentTypeCodes[strings.TrimSpace(code.Code)]; ok {
		return t
	}
	display := strings.ToUpper(code.DisplayName)
	for _, h := range displayNameHints {
		if strings.Contains(display, h.substr) {
			return h.typ
		}
	}
	return DocumentUnknown
}

// ClassifyByFilename is the fallback tier: it looks for a family prefix on
// the base name of the input file.
func ClassifyByFilename(filename string) DocumentType {
	if filename == "" {
		return DocumentUnknown
	}
	base := strings.ToLower(filepath.Base(filename))
	for _, p := range filenamePrefixes {
		if strings.HasPrefix(base, p.prefix) {
			return p.typ
		}
	}
	return DocumentUnknown
}
