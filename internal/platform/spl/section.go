package spl

import "strings"

// loincSections is the catalogue of LOINC section codes seen in SPL
// documents. It names untitled sections.
var loincSections = map[string]string{
	// document types
	"34391-3": "HUMAN PRESCRIPTION DRUG LABEL",
	"34390-5": "HUMAN OTC DRUG LABEL",
	"50578-4": "PRESCRIPTION ANIMAL DRUG LABEL",
	"50577-6": "OTC ANIMAL DRUG LABEL",
	"53409-9": "BULK INGREDIENT",
	"81203-2": "BULK INGREDIENT FOR ANIMAL DRUG COMPOUNDING",

	// clinical sections
	"34066-1": "BOXED WARNING SECTION",
	"34067-9": "INDICATIONS & USAGE SECTION",
	"34068-7": "DOSAGE & ADMINISTRATION SECTION",
	"34069-5": "HOW SUPPLIED SECTION",
	"34070-3": "CONTRAINDICATIONS SECTION",
	"34071-1": "WARNINGS SECTION",
	"34072-9": "GENERAL PRECAUTIONS SECTION",
	"34073-7": "DRUG INTERACTIONS SECTION",
	"34074-5": "GERIATRIC USE SECTION",
	"34075-2": "LABORATORY TESTS SECTION",
	"34076-0": "INFORMATION FOR PATIENTS SECTION",
	"34077-8": "TERATOGENIC EFFECTS SECTION",
	"34078-6": "NONTERATOGENIC EFFECTS SECTION",
	"34079-4": "DRUG & OR LABORATORY TEST INTERACTIONS SECTION",
	"34080-2": "NURSING MOTHERS SECTION",
	"34081-0": "PEDIATRIC USE SECTION",
	"34082-8": "ABUSE SECTION",
	"34083-6": "DEPENDENCE SECTION",
	"34084-4": "ADVERSE REACTIONS SECTION",
	"34085-1": "CONTROLLED SUBSTANCE SECTION",
	"34086-9": "DRUG ABUSE AND DEPENDENCE SECTION",
	"34087-7": "MECHANISM OF ACTION SECTION",
	"34088-5": "OVERDOSAGE SECTION",
	"34089-3": "DESCRIPTION SECTION",
	"34090-1": "CLINICAL PHARMACOLOGY SECTION",
	"34091-9": "ANIMAL PHARMACOLOGY & OR TOXICOLOGY SECTION",
	"34092-7": "CLINICAL STUDIES SECTION",
	"34093-5": "REFERENCES SECTION",
	"42228-7": "PREGNANCY SECTION",
	"42229-5": "SPL UNCLASSIFIED SECTION",
	"42230-3": "SPL PATIENT PACKAGE INSERT SECTION",
	"42231-1": "SPL MEDGUIDE SECTION",
	"42232-9": "PRECAUTIONS SECTION",
	"43678-2": "DOSAGE FORMS & STRENGTHS SECTION",
	"43679-0": "INDICATIONS AND USAGE SECTION",
	"43680-8": "CONTRAINDICATIONS SECTION",
	"43681-6": "PHARMACODYNAMICS SECTION",
	"43682-4": "PHARMACOKINETICS SECTION",
	"43683-2": "RECENT MAJOR CHANGES SECTION",
	"43684-0": "USE IN SPECIFIC POPULATIONS SECTION",
	"43685-7": "WARNINGS AND PRECAUTIONS SECTION",
	"44425-7": "STORAGE AND HANDLING SECTION",
	"48779-3": "SPL INDEXING DATA ELEMENTS SECTION",
	"48780-1": "SPL PRODUCT DATA ELEMENTS SECTION",
	"49489-8": "MICROBIOLOGY SECTION",
	"51727-6": "INACTIVE INGREDIENT SECTION",
	"51945-4": "PACKAGE LABEL.PRINCIPAL DISPLAY PANEL",
	"60555-0": "ACCESSORIES",
	"60561-8": "OTHER SAFETY INFORMATION",
	"69718-5": "STATEMENT OF IDENTITY SECTION",
	"71744-7": "HEALTH CARE PROVIDER LETTER SECTION",
	"88436-1": "PATIENT COUNSELING INFORMATION",

	// OTC sections
	"50565-1": "OTC - KEEP OUT OF REACH OF CHILDREN SECTION",
	"50566-9": "OTC - STOP USE SECTION",
	"50567-7": "OTC - WHEN USING SECTION",
	"50568-5": "OTC - ASK DOCTOR/PHARMACIST SECTION",
	"50569-3": "OTC - ASK DOCTOR SECTION",
	"50570-1": "OTC - DO NOT USE SECTION",
	"53412-3": "OTC - PURPOSE SECTION",
	"53413-1": "OTC - QUESTIONS SECTION",
	"53414-9": "OTC - PREGNANCY OR BREAST FEEDING SECTION",
	"55105-1": "OTC - PURPOSE SECTION",
	"55106-9": "OTC - ACTIVE INGREDIENT SECTION",

	// patient materials
	"38056-8": "SUPPLEMENTAL PATIENT MATERIAL SECTION",
	"58476-3": "SPL PATIENT PACKAGE INSERT SECTION",
	"59845-8": "INSTRUCTIONS FOR USE SECTION",
	"68498-5": "PATIENT MEDICATION INFORMATION SECTION",
	"77290-5": "SPL MEDGUIDE SECTION",
}

// SectionName returns the catalogue name of a LOINC section code.
func SectionName(code string) (string, bool) {
	name, ok := loincSections[strings.TrimSpace(code)]
	return name, ok
}

// walkSections calls fn for every section of the structured body in
// document order: a section before its subsections, subsections before the
// parent's next sibling. It uses an explicit stack so nesting depth does not
// grow the call stack.
func walkSections(doc *documentElement, fn func(*sectionElement)) {
	var stack []*sectionElement
	push := func(comps []sectionComponentElement) {
		for i := len(comps) - 1; i >= 0; i-- {
			if comps[i].Section != nil {
				stack = append(stack, comps[i].Section)
			}
		}
	}

	for i := len(doc.Components) - 1; i >= 0; i-- {
		if body := doc.Components[i].StructuredBody; body != nil {
			push(body.Components)
		}
	}

	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		fn(s)
		push(s.Components)
	}
}

// extractSections flattens the section tree into document order. Sections
// with neither a code nor a title are skipped; repeated codes are kept.
func extractSections(doc *documentElement) []Section {
	out := []Section{}
	walkSections(doc, func(s *sectionElement) {
		if sec, ok := buildSection(s); ok {
			out = append(out, sec)
		}
	})
	return out
}

func buildSection(s *sectionElement) (Section, bool) {
	var sec Section
	if s.Code != nil {
		sec.Code = nullable(s.Code.Code)
		sec.CodeSystem = nullable(s.Code.CodeSystem)
		sec.Display = nullable(s.Code.DisplayName)
	}
	sec.Title = nullable(markupText(s.Title, true))

	if sec.Code == nil && sec.Title == nil {
		return sec, false
	}
	if sec.Title == nil && sec.Code != nil {
		if name, ok := SectionName(*sec.Code); ok {
			sec.Title = &name
		}
	}

	if s.Text != nil && strings.TrimSpace(s.Text.Inner) != "" {
		raw := s.Text.Inner
		sec.TextXHTML = &raw
		sec.TextPlain = nullable(plainText(raw, false))
	}
	return sec, true
}
