package spl

// extractPackages converts an asContent list into packages, nesting inner
// containerPackagedProduct levels under Contents.
func extractPackages(contents []contentElement) []Package {
	out := make([]Package, 0, len(contents))
	for i := range contents {
		out = append(out, buildPackage(&contents[i]))
	}
	return out
}

func buildPackage(c *contentElement) Package {
	pkg := Package{Contents: []Package{}}

	if c.Quantity != nil && c.Quantity.Numerator != nil {
		pkg.Quantity.Value = parseNumber(c.Quantity.Numerator.Value)
		pkg.Quantity.Unit = nullable(c.Quantity.Numerator.Unit)
	}

	if cp := c.ContainerPackagedProduct; cp != nil {
		if cp.Code != nil && (cp.Code.CodeSystem == "" || KindOf(cp.Code.CodeSystem) == KindNDC) {
			// A package code must name a package; labeler-product codes here
			// would leak into the product's NDC list.
			if ndc, level := ClassifyNDC(cp.Code.Code); level == NDCPackage {
				pkg.PackageNDC = &ndc
			}
		}
		pkg.Description = nullable(codeLabel(cp.FormCode))
		pkg.Contents = extractPackages(cp.AsContent)
	}

	for _, s := range c.SubjectOf {
		act := s.MarketingAct
		if act == nil {
			continue
		}
		if act.StatusCode != nil {
			pkg.MarketingStatus = nullable(act.StatusCode.Code)
		}
		if act.EffectiveTime != nil && act.EffectiveTime.Low != nil {
			pkg.MarketingStartDate = nullable(act.EffectiveTime.Low.Value)
		}
		break
	}
	return pkg
}

// WalkPackages visits every package of a hierarchy depth-first in document
// order.
func WalkPackages(pkgs []Package, fn func(*Package)) {
	for i := range pkgs {
		fn(&pkgs[i])
		WalkPackages(pkgs[i].Contents, fn)
	}
}
