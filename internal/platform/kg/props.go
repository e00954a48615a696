package kg

import "github.com/ehr/spl/internal/platform/spl"

// props collects entity properties, skipping absent values so that the
// property maps only carry facts present in the record.
type props map[string]any

func (p props) str(key string, v *string) props {
	if v != nil {
		p[key] = *v
	}
	return p
}

func (p props) num(key string, v *float64) props {
	if v != nil {
		p[key] = *v
	}
	return p
}

func (p props) list(key string, v []string) props {
	if len(v) > 0 {
		p[key] = v
	}
	return p
}

func organizationProps(org spl.Organization) map[string]any {
	p := props{}.str("name", org.Name)
	for _, id := range org.OrgIDs {
		if id.TypeHint != nil && *id.TypeHint == "DUNS" {
			p.str("duns", id.Extension)
			break
		}
	}
	return p
}

func labelProps(rec *spl.Record) map[string]any {
	p := props{"document_type": string(rec.SPL.DocumentType)}.
		str("set_id", rec.SPL.SetID.Root).
		str("document_id", rec.SPL.DocumentID.Root).
		str("effective_time", rec.SPL.EffectiveTime).
		str("title", rec.SPL.Title)
	if rec.SPL.VersionNumber != nil {
		p["version"] = *rec.SPL.VersionNumber
	}
	return p
}

func productProps(prod *spl.Product) map[string]any {
	r := prod.Regulatory
	return props{"rx_otc_flag": string(r.RxOTCFlag)}.
		str("name", prod.ProductName).
		str("generic_name", prod.GenericName).
		list("ndc", prod.NDC.ProductNDCs).
		list("package_ndcs", prod.NDC.PackageNDCs).
		list("routes", prod.Routes).
		list("dosage_forms", prod.DosageForms).
		str("application_number", r.ApplicationNumber).
		str("marketing_category", r.MarketingCategory).
		str("otc_monograph_id", r.OTCMonographID).
		str("dea_schedule", r.DEASchedule)
}

func packageProps(pkg *spl.Package) map[string]any {
	return props{}.
		str("ndc", pkg.PackageNDC).
		str("description", pkg.Description).
		num("quantity", pkg.Quantity.Value).
		str("unit", pkg.Quantity.Unit).
		str("marketing_status", pkg.MarketingStatus).
		str("marketing_start_date", pkg.MarketingStartDate)
}

func ingredientProps(ing *spl.Ingredient) map[string]any {
	return props{"role": string(ing.Role)}.
		str("name", ing.Name).
		str("unii", ing.UNII).
		num("strength_value", ing.Strength.NumeratorValue).
		str("strength_unit", ing.Strength.NumeratorUnit).
		str("potency", ing.Homeopathic.Potency)
}

func sectionProps(s *spl.Section) map[string]any {
	p := props{}.
		str("code", s.Code).
		str("code_system", s.CodeSystem).
		str("title", s.Title).
		str("display", s.Display)
	if s.TextPlain != nil {
		p["text_length"] = len(*s.TextPlain)
	} else {
		p["text_length"] = 0
	}
	return p
}
