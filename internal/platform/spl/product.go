package spl

import "strings"

// productRole pairs the outer manufacturedProduct role with the product
// entity it wraps. Labels that predate the two-level form use a single
// element for both.
type productRole struct {
	role   *productElement
	entity *productElement
}

// subjectOf returns the subjectOf entries of both levels, role first.
func (p productRole) subjectOf() []productSubjectOfElement {
	if p.entity == p.role {
		return p.role.SubjectOf
	}
	out := make([]productSubjectOfElement, 0, len(p.role.SubjectOf)+len(p.entity.SubjectOf))
	out = append(out, p.role.SubjectOf...)
	return append(out, p.entity.SubjectOf...)
}

func (p productRole) consumedIn() []consumedInElement {
	if p.entity == p.role {
		return p.role.ConsumedIn
	}
	out := make([]consumedInElement, 0, len(p.role.ConsumedIn)+len(p.entity.ConsumedIn))
	out = append(out, p.role.ConsumedIn...)
	return append(out, p.entity.ConsumedIn...)
}

// findProducts returns every section/subject/manufacturedProduct in the
// document, in document order, at any section depth.
func findProducts(doc *documentElement) []productRole {
	var out []productRole
	walkSections(doc, func(s *sectionElement) {
		for _, subj := range s.Subjects {
			role := subj.ManufacturedProduct
			if role == nil {
				continue
			}
			entity := role.ManufacturedProduct
			if entity == nil {
				entity = role
			}
			out = append(out, productRole{role: role, entity: entity})
		}
	})
	return out
}

// extractProducts builds one Product per manufacturedProduct. A document
// without products yields an empty, non-nil slice.
func extractProducts(doc *documentElement, docType DocumentType) []Product {
	roles := findProducts(doc)
	products := make([]Product, 0, len(roles))
	for _, pr := range roles {
		products = append(products, extractProduct(pr, docType))
	}
	return products
}

func extractProduct(pr productRole, docType DocumentType) Product {
	e := pr.entity
	p := Product{
		ProductName: nullable(markupText(e.Name, true)),
		GenericName: genericName(e),
		Routes:      []string{},
		DosageForms: []string{},
		NDC: NDCInfo{
			ProductNDCs: []string{},
			PackageNDCs: []string{},
		},
		Ingredients: []Ingredient{},
		Packages:    []Package{},
	}

	for _, c := range pr.consumedIn() {
		if c.SubstanceAdministration != nil {
			p.Routes = appendUnique(p.Routes, codeLabel(c.SubstanceAdministration.RouteCode))
		}
	}

	p.DosageForms = appendUnique(p.DosageForms, codeLabel(e.FormCode))
	p.NDC.add(e.Code)

	p.Ingredients = append(p.Ingredients, extractIngredients(e)...)
	// Kit parts contribute their forms and ingredients to the kit.
	for _, part := range e.Parts {
		if part.PartProduct == nil {
			continue
		}
		p.DosageForms = appendUnique(p.DosageForms, codeLabel(part.PartProduct.FormCode))
		p.Ingredients = append(p.Ingredients, extractIngredients(part.PartProduct)...)
	}

	p.Packages = extractPackages(e.AsContent)
	WalkPackages(p.Packages, func(pkg *Package) {
		if pkg.PackageNDC != nil {
			p.NDC.addValue(*pkg.PackageNDC)
		}
	})

	subjects := pr.subjectOf()
	p.Regulatory = extractRegulatory(subjects, docType)
	p.PhysicalCharacteristics = extractCharacteristics(subjects)
	p.Manufacturer = extractHolder(pr.role)
	if p.Manufacturer == nil && pr.entity != pr.role {
		p.Manufacturer = extractHolder(pr.entity)
	}
	return p
}

// genericName reads asEntityWithGeneric/genericMedicine/name.
func genericName(e *productElement) *string {
	for _, g := range e.AsEntityWithGeneric {
		if g.GenericMedicine == nil {
			continue
		}
		if name := nullable(markupText(g.GenericMedicine.Name, true)); name != nil {
			return name
		}
	}
	return nil
}

// add buckets a product or package code by NDC level. Codes from another
// code system and malformed NDCs are dropped.
func (n *NDCInfo) add(code *codeElement) {
	if code == nil || code.Code == "" {
		return
	}
	system := strings.TrimSpace(code.CodeSystem)
	if system != "" && KindOf(system) != KindNDC {
		return
	}
	n.addValue(code.Code)
}

func (n *NDCInfo) addValue(value string) {
	ndc, level := ClassifyNDC(value)
	switch level {
	case NDCProduct:
		n.ProductNDCs = appendUnique(n.ProductNDCs, ndc)
	case NDCPackage:
		n.PackageNDCs = appendUnique(n.PackageNDCs, ndc)
	}
}

// codeLabel is the display name of a code, falling back to the code value.
func codeLabel(c *codeElement) string {
	if c == nil {
		return ""
	}
	if d := strings.TrimSpace(c.DisplayName); d != "" {
		return d
	}
	return strings.TrimSpace(c.Code)
}

// appendUnique appends v unless it is blank or already present, keeping
// first-seen order.
func appendUnique(list []string, v string) []string {
	if v == "" {
		return list
	}
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
