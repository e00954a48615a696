package spl

import (
	"testing"

	"github.com/ehr/spl/internal/platform/spl/spltest"
)

func TestParser_Parse_Product(t *testing.T) {
	rec := parseFixture(t, spltest.PrescriptionXML, "prescription_0001.xml")
	if len(rec.Products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(rec.Products))
	}
	p := rec.Products[0]

	if str(p.ProductName) != "Oxycodone ER" {
		t.Errorf("expected product name 'Oxycodone ER', got %q", str(p.ProductName))
	}
	if str(p.GenericName) != "oxycodone hydrochloride" {
		t.Errorf("unexpected generic name %q", str(p.GenericName))
	}
	if len(p.Routes) != 1 || p.Routes[0] != "ORAL" {
		t.Errorf("expected routes [ORAL], got %v", p.Routes)
	}
	if len(p.DosageForms) != 1 || p.DosageForms[0] != "TABLET" {
		t.Errorf("expected dosage forms [TABLET], got %v", p.DosageForms)
	}
	if len(p.NDC.ProductNDCs) != 1 || p.NDC.ProductNDCs[0] != spltest.PrescriptionNDC {
		t.Errorf("unexpected product NDCs %v", p.NDC.ProductNDCs)
	}
	if len(p.NDC.PackageNDCs) != 1 || p.NDC.PackageNDCs[0] != spltest.PrescriptionPackageNDC {
		t.Errorf("unexpected package NDCs %v", p.NDC.PackageNDCs)
	}

	reg := p.Regulatory
	if reg.RxOTCFlag != FlagRX {
		t.Errorf("expected RX, got %s", reg.RxOTCFlag)
	}
	if str(reg.ApplicationNumber) != "NDA020553" {
		t.Errorf("unexpected application number %q", str(reg.ApplicationNumber))
	}
	if str(reg.MarketingCategory) != "NDA" {
		t.Errorf("unexpected marketing category %q", str(reg.MarketingCategory))
	}
	if str(reg.DEASchedule) != "CII" {
		t.Errorf("expected DEA schedule CII, got %q", str(reg.DEASchedule))
	}
	if reg.OTCMonographID != nil {
		t.Errorf("expected nil monograph id, got %q", *reg.OTCMonographID)
	}

	pc := p.PhysicalCharacteristics
	if str(pc.Color) != "WHITE" || str(pc.Shape) != "ROUND" || str(pc.Size) != "8 mm" || str(pc.Imprint) != "OC;10" {
		t.Errorf("unexpected characteristics color=%q shape=%q size=%q imprint=%q",
			str(pc.Color), str(pc.Shape), str(pc.Size), str(pc.Imprint))
	}
	if pc.Flavor != nil {
		t.Errorf("expected nil flavor, got %q", *pc.Flavor)
	}
	if p.Manufacturer != nil {
		t.Errorf("expected no manufacturer, got %+v", p.Manufacturer)
	}
}

func TestParser_Parse_Ingredients(t *testing.T) {
	rec := parseFixture(t, spltest.PrescriptionXML, "prescription_0001.xml")
	ings := rec.Products[0].Ingredients
	if len(ings) != 2 {
		t.Fatalf("expected 2 ingredients, got %d", len(ings))
	}

	active := ings[0]
	if active.Role != RoleActive || str(active.UNII) != spltest.PrescriptionUNII {
		t.Errorf("unexpected active ingredient role=%s unii=%q", active.Role, str(active.UNII))
	}
	s := active.Strength
	if s.NumeratorValue == nil || *s.NumeratorValue != 10 || str(s.NumeratorUnit) != "mg" {
		t.Errorf("unexpected numerator %v %q", s.NumeratorValue, str(s.NumeratorUnit))
	}
	if s.DenominatorValue == nil || *s.DenominatorValue != 1 || str(s.DenominatorUnit) != "1" {
		t.Errorf("unexpected denominator %v %q", s.DenominatorValue, str(s.DenominatorUnit))
	}
	if active.Homeopathic.Potency != nil || active.Homeopathic.SourceMaterial != nil {
		t.Errorf("expected no homeopathic data, got %+v", active.Homeopathic)
	}

	inactive := ings[1]
	if inactive.Role != RoleInactive || str(inactive.Name) != "LACTOSE MONOHYDRATE" {
		t.Errorf("unexpected inactive ingredient %s %q", inactive.Role, str(inactive.Name))
	}
	if inactive.Strength.NumeratorValue != nil || inactive.Strength.DenominatorValue != nil {
		t.Errorf("expected empty strength, got %+v", inactive.Strength)
	}
}

func TestParser_Parse_Packages(t *testing.T) {
	rec := parseFixture(t, spltest.PrescriptionXML, "prescription_0001.xml")
	pkgs := rec.Products[0].Packages
	if len(pkgs) != 1 {
		t.Fatalf("expected 1 package, got %d", len(pkgs))
	}
	pkg := pkgs[0]
	if str(pkg.PackageNDC) != spltest.PrescriptionPackageNDC {
		t.Errorf("unexpected package NDC %q", str(pkg.PackageNDC))
	}
	if str(pkg.Description) != "BOTTLE" {
		t.Errorf("unexpected description %q", str(pkg.Description))
	}
	if pkg.Quantity.Value == nil || *pkg.Quantity.Value != 100 || str(pkg.Quantity.Unit) != "1" {
		t.Errorf("unexpected quantity %+v", pkg.Quantity)
	}
	if str(pkg.MarketingStatus) != "active" || str(pkg.MarketingStartDate) != "20200101" {
		t.Errorf("unexpected marketing status=%q start=%q", str(pkg.MarketingStatus), str(pkg.MarketingStartDate))
	}
	if pkg.Contents == nil || len(pkg.Contents) != 0 {
		t.Errorf("expected empty contents, got %v", pkg.Contents)
	}
}

func TestParser_Parse_Homeopathic(t *testing.T) {
	rec := parseFixture(t, spltest.HomeopathicXML, "homeopathic_arnica.xml")
	if rec.SPL.DocumentType != DocumentOTC {
		t.Errorf("expected otc from the type code, got %s", rec.SPL.DocumentType)
	}
	if len(rec.Products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(rec.Products))
	}
	p := rec.Products[0]

	if len(p.Ingredients) != 2 {
		t.Fatalf("expected 2 ingredients, got %d", len(p.Ingredients))
	}
	arnica := p.Ingredients[0]
	if str(arnica.Homeopathic.Potency) != "6X" {
		t.Errorf("expected potency '6X', got %q", str(arnica.Homeopathic.Potency))
	}
	if str(arnica.Homeopathic.SourceMaterial) != "ARNICA MONTANA WHOLE" {
		t.Errorf("unexpected source material %q", str(arnica.Homeopathic.SourceMaterial))
	}
	if arnica.Strength.NumeratorValue == nil || *arnica.Strength.NumeratorValue != 6 {
		t.Errorf("expected numerator 6, got %v", arnica.Strength.NumeratorValue)
	}
	if arnica.Strength.DenominatorValue != nil || arnica.Strength.DenominatorUnit != nil {
		t.Error("expected no denominator for a numerator-only quantity")
	}

	bare := p.Ingredients[1]
	if bare.Role != RoleOther || bare.Name != nil || bare.UNII != nil {
		t.Errorf("expected an empty 'other' ingredient, got %+v", bare)
	}

	reg := p.Regulatory
	if str(reg.MarketingCategory) != "UNAPPROVED HOMEOPATHIC" {
		t.Errorf("expected category from the code table, got %q", str(reg.MarketingCategory))
	}
	if str(reg.OTCMonographID) != "M012" {
		t.Errorf("expected monograph id 'M012', got %q", str(reg.OTCMonographID))
	}
	if reg.RxOTCFlag != FlagOTC {
		t.Errorf("expected OTC, got %s", reg.RxOTCFlag)
	}
	if len(p.NDC.ProductNDCs) != 0 || len(p.NDC.PackageNDCs) != 0 {
		t.Errorf("expected no NDCs, got %+v", p.NDC)
	}
	if len(rec.Derived.MergeKeys.Primary) != 1 {
		t.Errorf("expected only the set id key, got %v", rec.Derived.MergeKeys.Primary)
	}
}

func TestParser_Parse_ProductVariants(t *testing.T) {
	body := `<component><section>
  <code code="48780-1" codeSystem="2.16.840.1.113883.6.1"/>
  <subject>
    <manufacturedProduct>
      <manufacturedProduct>
        <code code="1234-56" codeSystem="2.16.840.1.113883.6.69"/>
        <name>Kit</name>
        <formCode displayName="KIT"/>
        <part>
          <partProduct>
            <formCode displayName="INJECTION, SOLUTION"/>
            <ingredient classCode="ACTIM">
              <ingredientSubstance><code code="abc123XYZ0" codeSystem="2.16.840.1.113883.4.9"/><name>Part Drug</name></ingredientSubstance>
            </ingredient>
          </partProduct>
        </part>
        <activeIngredient>
          <activeIngredientSubstance><name>Legacy Active</name></activeIngredientSubstance>
        </activeIngredient>
        <inactiveIngredient>
          <inactiveIngredientSubstance><name>Legacy Inactive</name></inactiveIngredientSubstance>
        </inactiveIngredient>
        <asContent>
          <quantity><numerator value="2" unit="1"/></quantity>
          <containerPackagedProduct>
            <code code="55555-4444-3" codeSystem="2.16.840.1.113883.6.69"/>
            <formCode displayName="CARTON"/>
            <asContent>
              <quantity><numerator value="5" unit="mL"/></quantity>
              <containerPackagedProduct>
                <code code="55555444401"/>
                <formCode displayName="VIAL"/>
              </containerPackagedProduct>
            </asContent>
          </containerPackagedProduct>
        </asContent>
      </manufacturedProduct>
      <subjectOf>
        <approval>
          <id root="2.16.840.1.113883.3.150" extension="ANDA076543"/>
          <code code="C73584"/>
          <holder><role><playingOrganization>
            <id root="1.3.6.1.4.1.519.1" extension="111111111"/>
            <name>Holder Corp</name>
          </playingOrganization></role></holder>
        </approval>
      </subjectOf>
      <subjectOf>
        <characteristic>
          <code code="SPLCONTROLLED"/>
          <value code="C48677" displayName="CIV"/>
        </characteristic>
      </subjectOf>
      <subjectOf>
        <characteristic>
          <code code="SPLFLAVOR"/>
          <value displayName="MINT"/>
        </characteristic>
      </subjectOf>
    </manufacturedProduct>
  </subject>
  <subject>
    <manufacturedProduct>
      <name>Single Level</name>
      <code code="99999-1111" codeSystem="2.16.840.1.113883.6.69"/>
    </manufacturedProduct>
  </subject>
</section></component>`
	rec := parseFixture(t, spltest.Document("", body), "label.xml")

	if len(rec.Products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(rec.Products))
	}
	kit := rec.Products[0]

	if len(kit.NDC.ProductNDCs) != 0 {
		t.Errorf("expected malformed product NDC to be dropped, got %v", kit.NDC.ProductNDCs)
	}
	wantPkgNDCs := []string{"55555-4444-3", "55555-4444-01"}
	if len(kit.NDC.PackageNDCs) != 2 || kit.NDC.PackageNDCs[0] != wantPkgNDCs[0] || kit.NDC.PackageNDCs[1] != wantPkgNDCs[1] {
		t.Errorf("expected package NDCs %v, got %v", wantPkgNDCs, kit.NDC.PackageNDCs)
	}
	if len(kit.DosageForms) != 2 || kit.DosageForms[1] != "INJECTION, SOLUTION" {
		t.Errorf("expected kit and part forms, got %v", kit.DosageForms)
	}

	if len(kit.Ingredients) != 3 {
		t.Fatalf("expected 3 ingredients, got %d", len(kit.Ingredients))
	}
	roles := []Role{RoleActive, RoleInactive, RoleActive}
	names := []string{"Legacy Active", "Legacy Inactive", "Part Drug"}
	for i, ing := range kit.Ingredients {
		if ing.Role != roles[i] || str(ing.Name) != names[i] {
			t.Errorf("ingredient %d: expected %s %q, got %s %q", i, roles[i], names[i], ing.Role, str(ing.Name))
		}
	}
	if str(kit.Ingredients[2].UNII) != "ABC123XYZ0" {
		t.Errorf("expected upper-cased UNII, got %q", str(kit.Ingredients[0].UNII))
	}

	if len(kit.Packages) != 1 || len(kit.Packages[0].Contents) != 1 {
		t.Fatalf("expected one carton holding one vial, got %+v", kit.Packages)
	}
	vial := kit.Packages[0].Contents[0]
	if str(vial.Description) != "VIAL" || str(vial.PackageNDC) != "55555-4444-01" {
		t.Errorf("unexpected nested package %q %q", str(vial.Description), str(vial.PackageNDC))
	}
	if vial.Quantity.Value == nil || *vial.Quantity.Value != 5 || str(vial.Quantity.Unit) != "mL" {
		t.Errorf("unexpected nested quantity %+v", vial.Quantity)
	}

	reg := kit.Regulatory
	if str(reg.MarketingCategory) != "ANDA" || str(reg.ApplicationNumber) != "ANDA076543" {
		t.Errorf("unexpected regulatory %+v", reg)
	}
	if reg.RxOTCFlag != FlagRX {
		t.Errorf("expected RX from the ANDA category, got %s", reg.RxOTCFlag)
	}
	if str(reg.DEASchedule) != "CIV" {
		t.Errorf("expected CIV from SPLCONTROLLED, got %q", str(reg.DEASchedule))
	}
	if str(kit.PhysicalCharacteristics.Flavor) != "MINT" {
		t.Errorf("expected flavor MINT, got %q", str(kit.PhysicalCharacteristics.Flavor))
	}
	if kit.Manufacturer == nil || str(kit.Manufacturer.Name) != "Holder Corp" {
		t.Fatalf("expected holder as manufacturer, got %+v", kit.Manufacturer)
	}
	if len(kit.Manufacturer.OrgIDs) != 1 || str(kit.Manufacturer.OrgIDs[0].TypeHint) != "DUNS" {
		t.Errorf("unexpected manufacturer ids %+v", kit.Manufacturer.OrgIDs)
	}

	single := rec.Products[1]
	if str(single.ProductName) != "Single Level" || len(single.NDC.ProductNDCs) != 1 {
		t.Errorf("unexpected single-level product %q %v", str(single.ProductName), single.NDC.ProductNDCs)
	}
	if single.Ingredients == nil || len(single.Ingredients) != 0 {
		t.Errorf("expected empty ingredients, got %v", single.Ingredients)
	}
	if single.Regulatory.RxOTCFlag != FlagUnknown {
		t.Errorf("expected UNKNOWN flag, got %s", single.Regulatory.RxOTCFlag)
	}
}

func TestParser_Parse_PackageIgnoresProductLevelCode(t *testing.T) {
	body := `<component><section>
  <code code="48780-1" codeSystem="2.16.840.1.113883.6.1"/>
  <subject>
    <manufacturedProduct>
      <manufacturedProduct>
        <name>Tablets</name>
        <asContent>
          <quantity><numerator value="30" unit="1"/></quantity>
          <containerPackagedProduct>
            <code code="99999-1234" codeSystem="2.16.840.1.113883.6.69"/>
            <formCode displayName="BOTTLE"/>
          </containerPackagedProduct>
        </asContent>
      </manufacturedProduct>
    </manufacturedProduct>
  </subject>
</section></component>`
	header := `<setId root="abc"/>`
	rec := parseFixture(t, spltest.Document(header, body), "label.xml")

	if len(rec.Products) != 1 || len(rec.Products[0].Packages) != 1 {
		t.Fatalf("expected one product with one package, got %+v", rec.Products)
	}
	p := rec.Products[0]
	if p.Packages[0].PackageNDC != nil {
		t.Errorf("expected no package NDC for a labeler-product code, got %q", *p.Packages[0].PackageNDC)
	}
	if str(p.Packages[0].Description) != "BOTTLE" {
		t.Errorf("expected package kept as BOTTLE, got %q", str(p.Packages[0].Description))
	}
	if len(p.NDC.ProductNDCs) != 0 || len(p.NDC.PackageNDCs) != 0 {
		t.Errorf("expected no NDCs, got product %v package %v", p.NDC.ProductNDCs, p.NDC.PackageNDCs)
	}
	for _, key := range rec.Derived.MergeKeys.Primary {
		if key == "ndc:99999-1234" {
			t.Errorf("expected no NDC merge key, got %v", rec.Derived.MergeKeys.Primary)
		}
	}
}

func TestRoleOf(t *testing.T) {
	tests := map[string]Role{
		"ACTIB": RoleActive,
		"ACTIM": RoleActive,
		"ACTIR": RoleActive,
		"ACTI":  RoleActive,
		"IACT":  RoleInactive,
		"INGR":  RoleOther,
		"CNTM":  RoleOther,
		"":      RoleOther,
	}
	for code, want := range tests {
		if got := RoleOf(code); got != want {
			t.Errorf("RoleOf(%q): expected %s, got %s", code, want, got)
		}
	}
}

func TestRxOTCFlag(t *testing.T) {
	cat := func(s string) *string { return &s }
	tests := []struct {
		name     string
		category *string
		docType  DocumentType
		appKind  Kind
		want     RxOTCFlag
	}{
		{"monograph wins over prescription", cat("OTC MONOGRAPH FINAL"), DocumentPrescription, "", FlagOTC},
		{"prescription document", nil, DocumentPrescription, "", FlagRX},
		{"otc document", nil, DocumentOTC, "", FlagOTC},
		{"homeopathic document", nil, DocumentHomeopathic, "", FlagOTC},
		{"bla category", cat("BLA"), DocumentOther, "", FlagRX},
		{"nda application", nil, DocumentUnknown, KindNDA, FlagRX},
		{"nothing known", nil, DocumentUnknown, KindApplication, FlagUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rxOTCFlag(tt.category, tt.docType, tt.appKind); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestNormalizeSchedule(t *testing.T) {
	tests := []struct {
		code, display, want string
	}{
		{"C48672", "", "CI"},
		{"C48679", "", "CV"},
		{"", "C-III", "CIII"},
		{"", "civ", "CIV"},
		{"", "schedule 2", ""},
	}
	for _, tt := range tests {
		got := normalizeSchedule(tt.code, tt.display)
		if tt.want == "" {
			if got != nil {
				t.Errorf("normalizeSchedule(%q, %q): expected nil, got %q", tt.code, tt.display, *got)
			}
			continue
		}
		if got == nil || *got != tt.want {
			t.Errorf("normalizeSchedule(%q, %q): expected %q, got %v", tt.code, tt.display, tt.want, got)
		}
	}
}
