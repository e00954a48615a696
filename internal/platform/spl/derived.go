package spl

// presenceCodes lists, per clinical concern, the LOINC section codes that
// establish it.
var presenceCodes = struct {
	boxedWarning      []string
	indications       []string
	contraindications []string
	warnings          []string
	storage           []string
	dosage            []string
	adverseReactions  []string
	interactions      []string
}{
	boxedWarning:      []string{"34066-1"},
	indications:       []string{"34067-9", "43679-0"},
	contraindications: []string{"34070-3", "43680-8"},
	warnings:          []string{"34071-1", "43685-7", "34072-9", "50566-9", "50567-7"},
	storage:           []string{"44425-7", "34069-5"},
	dosage:            []string{"34068-7"},
	adverseReactions:  []string{"34084-4"},
	interactions:      []string{"34073-7"},
}

// buildDerived computes merge keys and presence flags from an assembled
// record. It reads only extracted fields.
func buildDerived(rec *Record) Derived {
	return Derived{
		MergeKeys:            buildMergeKeys(rec),
		SectionPresenceFlags: buildPresenceFlags(rec.Sections),
	}
}

func buildMergeKeys(rec *Record) MergeKeys {
	keys := MergeKeys{Primary: []string{}, Secondary: []string{}}

	if rec.SPL.SetID.Root != nil {
		keys.Primary = append(keys.Primary, "set_id:"+*rec.SPL.SetID.Root)
	}
	for _, p := range rec.Products {
		for _, ndc := range p.NDC.ProductNDCs {
			keys.Primary = appendUnique(keys.Primary, "ndc:"+ndc)
		}
	}

	if rec.SPL.DocumentID.Root != nil {
		keys.Secondary = append(keys.Secondary, "doc_id:"+*rec.SPL.DocumentID.Root)
	}
	for _, p := range rec.Products {
		for _, ing := range p.Ingredients {
			if ing.UNII != nil {
				keys.Secondary = appendUnique(keys.Secondary, "unii:"+*ing.UNII)
			}
		}
	}
	return keys
}

func buildPresenceFlags(sections []Section) SectionPresenceFlags {
	present := make(map[string]bool, len(sections))
	for _, s := range sections {
		if s.Code != nil {
			present[*s.Code] = true
		}
	}
	hasAny := func(codes []string) bool {
		for _, c := range codes {
			if present[c] {
				return true
			}
		}
		return false
	}

	return SectionPresenceFlags{
		BoxedWarning:            hasAny(presenceCodes.boxedWarning),
		IndicationsAndUsage:     hasAny(presenceCodes.indications),
		Contraindications:       hasAny(presenceCodes.contraindications),
		WarningsAndPrecautions:  hasAny(presenceCodes.warnings),
		StorageAndHandling:      hasAny(presenceCodes.storage),
		DosageAndAdministration: hasAny(presenceCodes.dosage),
		AdverseReactions:        hasAny(presenceCodes.adverseReactions),
		DrugInteractions:        hasAny(presenceCodes.interactions),
	}
}
