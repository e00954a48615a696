package spl

import "strings"

// deaSchedules maps NCI Thesaurus schedule codes to schedule names.
var deaSchedules = map[string]string{
	"C48672": "CI",
	"C48675": "CII",
	"C48676": "CIII",
	"C48677": "CIV",
	"C48679": "CV",
}

// marketingCategories maps NCI marketing category codes to labels, used
// when the approval code carries no display name.
var marketingCategories = map[string]string{
	"C73594":  "NDA",
	"C73584":  "ANDA",
	"C73585":  "BLA",
	"C200263": "OTC MONOGRAPH DRUG",
	"C73604":  "OTC MONOGRAPH FINAL",
	"C73605":  "OTC MONOGRAPH NOT FINAL",
	"C73614":  "UNAPPROVED HOMEOPATHIC",
	"C73627":  "UNAPPROVED DRUG OTHER",
	"C73593":  "NDA AUTHORIZED GENERIC",
	"C73588":  "BULK INGREDIENT",
}

const deaPolicyClass = "DEADrugSchedule"

// extractRegulatory reads approval, policy and controlled-substance facts
// from a product's subjectOf entries.
func extractRegulatory(subjects []productSubjectOfElement, docType DocumentType) Regulatory {
	reg := Regulatory{RxOTCFlag: FlagUnknown}
	var appKind Kind

	for _, s := range subjects {
		a := s.Approval
		if a == nil {
			continue
		}
		if reg.MarketingCategory == nil {
			reg.MarketingCategory = marketingCategory(a.Code)
		}
		for _, id := range a.IDs {
			ext := strings.TrimSpace(id.Extension)
			if ext == "" {
				continue
			}
			switch kind := KindOf(id.Root); {
			case kind == KindApplication && reg.ApplicationNumber == nil:
				reg.ApplicationNumber = &ext
				appKind = ApplicationKind(ext)
			case kind == KindOTCMonograph && reg.OTCMonographID == nil:
				reg.OTCMonographID = &ext
			}
		}
	}

	// Monograph labels often carry the monograph id under an unlisted root.
	if reg.OTCMonographID == nil && isMonograph(reg.MarketingCategory) {
		for _, s := range subjects {
			if s.Approval == nil {
				continue
			}
			for _, id := range s.Approval.IDs {
				if KindOf(id.Root) == KindApplication {
					continue
				}
				if ext := nullable(id.Extension); ext != nil {
					reg.OTCMonographID = ext
					break
				}
			}
			if reg.OTCMonographID != nil {
				break
			}
		}
	}

	reg.DEASchedule = deaSchedule(subjects)
	reg.RxOTCFlag = rxOTCFlag(reg.MarketingCategory, docType, appKind)
	return reg
}

func marketingCategory(code *codeElement) *string {
	if code == nil {
		return nil
	}
	if d := nullable(code.DisplayName); d != nil {
		return d
	}
	if label, ok := marketingCategories[strings.TrimSpace(code.Code)]; ok {
		return &label
	}
	return nullable(code.Code)
}

func isMonograph(category *string) bool {
	return category != nil && strings.Contains(strings.ToUpper(*category), "MONOGRAPH")
}

// rxOTCFlag decides the prescription status. An explicit OTC category wins,
// then the document family, then an application-based category or number.
func rxOTCFlag(category *string, docType DocumentType, appKind Kind) RxOTCFlag {
	var cat string
	if category != nil {
		cat = strings.ToUpper(*category)
	}
	if strings.Contains(cat, "OTC") || strings.Contains(cat, "MONOGRAPH") {
		return FlagOTC
	}
	switch docType {
	case DocumentPrescription:
		return FlagRX
	case DocumentOTC, DocumentHomeopathic:
		return FlagOTC
	}
	if strings.Contains(cat, "NDA") || strings.Contains(cat, "BLA") {
		return FlagRX
	}
	switch appKind {
	case KindANDA, KindNDA, KindBLA:
		return FlagRX
	}
	return FlagUnknown
}

// deaSchedule reads the DEA schedule policy, falling back to the
// SPLCONTROLLED characteristic.
func deaSchedule(subjects []productSubjectOfElement) *string {
	for _, s := range subjects {
		p := s.Policy
		if p == nil || (p.ClassCode != "" && p.ClassCode != deaPolicyClass) {
			continue
		}
		if p.Code == nil {
			continue
		}
		if sched := normalizeSchedule(p.Code.Code, p.Code.DisplayName); sched != nil {
			return sched
		}
	}
	for _, s := range subjects {
		c := s.Characteristic
		if c == nil || c.Code == nil || c.Value == nil || c.Code.Code != CharControlled {
			continue
		}
		if sched := normalizeSchedule(c.Value.Code, c.Value.DisplayName); sched != nil {
			return sched
		}
	}
	return nil
}

// normalizeSchedule returns CI..CV for an NCI schedule code or a display
// name such as "CII" or "C-II".
func normalizeSchedule(code, displayName string) *string {
	if s, ok := deaSchedules[strings.TrimSpace(code)]; ok {
		return &s
	}
	d := strings.ToUpper(strings.TrimSpace(displayName))
	d = strings.ReplaceAll(d, "-", "")
	d = strings.ReplaceAll(d, " ", "")
	for _, s := range deaSchedules {
		if d == s {
			return &s
		}
	}
	return nil
}

// extractCharacteristics reads the physical characteristics of a product.
// The first value of each kind wins.
func extractCharacteristics(subjects []productSubjectOfElement) PhysicalCharacteristics {
	var pc PhysicalCharacteristics
	for _, s := range subjects {
		c := s.Characteristic
		if c == nil || c.Code == nil || c.Value == nil {
			continue
		}
		v := c.Value
		switch strings.TrimSpace(c.Code.Code) {
		case CharColor:
			setOnce(&pc.Color, firstNonBlank(v.DisplayName, v.Text))
		case CharShape:
			setOnce(&pc.Shape, firstNonBlank(v.DisplayName, v.Text))
		case CharSize:
			setOnce(&pc.Size, strings.TrimSpace(strings.TrimSpace(v.Value)+" "+strings.TrimSpace(v.Unit)))
		case CharImprint:
			setOnce(&pc.Imprint, firstNonBlank(collapseWhitespace(v.Text), v.Value))
		case CharFlavor:
			setOnce(&pc.Flavor, firstNonBlank(v.DisplayName, v.Text))
		}
	}
	return pc
}

func setOnce(dst **string, v string) {
	if *dst == nil {
		*dst = nullable(v)
	}
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
